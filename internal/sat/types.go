package sat

import (
	"github.com/RussAbbott/cubesat/internal/frame"
)

// StateDim is the length of a flattened kinematic state vector.
const StateDim = 13

// KinematicState holds the translational and rotational state of one body.
type KinematicState struct {
	Position        frame.Vec3
	Velocity        frame.Vec3
	Attitude        frame.Quat
	AngularVelocity frame.Vec3
}

func (s KinematicState) IsValid() bool {
	return s.Position.IsValid() && s.Velocity.IsValid() &&
		s.Attitude.IsValid() && s.AngularVelocity.IsValid()
}

// Vector flattens the state for fixed-step integrators:
// [rx ry rz vx vy vz qw qx qy qz wx wy wz].
func (s KinematicState) Vector() []float64 {
	return []float64{
		s.Position.X, s.Position.Y, s.Position.Z,
		s.Velocity.X, s.Velocity.Y, s.Velocity.Z,
		s.Attitude.W, s.Attitude.X, s.Attitude.Y, s.Attitude.Z,
		s.AngularVelocity.X, s.AngularVelocity.Y, s.AngularVelocity.Z,
	}
}

// StateFromVector is the inverse of Vector. The slice must have StateDim
// elements.
func StateFromVector(v []float64) KinematicState {
	return KinematicState{
		Position:        frame.Vec3{X: v[0], Y: v[1], Z: v[2]},
		Velocity:        frame.Vec3{X: v[3], Y: v[4], Z: v[5]},
		Attitude:        frame.Quat{W: v[6], X: v[7], Y: v[8], Z: v[9]},
		AngularVelocity: frame.Vec3{X: v[10], Y: v[11], Z: v[12]},
	}
}

// Command is a proposed actuation for one tick: inertial-frame force and
// body-frame torque. Either component may be zero.
type Command struct {
	Force  frame.Vec3
	Torque frame.Vec3
}

func (c Command) HasForce(eps float64) bool  { return c.Force.Norm() > eps }
func (c Command) HasTorque(eps float64) bool { return c.Torque.Norm() > eps }

func (c Command) IsZero(eps float64) bool {
	return !c.HasForce(eps) && !c.HasTorque(eps)
}

// Model advances a kinematic state over one time increment. Implementations
// must be pure functions of (state, command, t, dt): no retained state, safe
// for concurrent use across bodies.
type Model interface {
	Propagate(s KinematicState, cmd Command, t, dt float64) (KinematicState, error)
}

// Policy filters a proposed command against a body variant's physical
// capabilities. It never fails; a rejected combination is adjusted and
// reported as violated=true.
type Policy interface {
	Apply(cmd Command) (adjusted Command, violated bool)
}

// Law computes the desired command for a body at a given tick. target is the
// referenced target's last committed state, or nil when the body tracks
// nothing. Laws may keep internal state (e.g. integral accumulators); such
// state belongs exclusively to the law instance.
type Law interface {
	Compute(own KinematicState, target *KinematicState, t, dt float64) Command
}

// Metric accumulates a scalar observation over a run.
type Metric interface {
	Name() string
	Observe(b *Body, cmd Command, violated bool, t float64)
	Value() float64
	Reset()
}

// Observer is notified after each committed tick.
type Observer interface {
	OnTick(tick int, t float64, bodies []*Body)
}

// Config holds the run-level simulation parameters.
type Config struct {
	Dt              float64 // seconds per tick, > 0
	Duration        float64 // total simulated seconds, > 0
	DivergenceLimit float64 // max position magnitude before abort, metres
	VelocityLimit   float64 // max velocity magnitude before abort, m/s
	QuatTolerance   float64 // renormalization floor for attitude norm
	Workers         int     // parallel body workers, <=1 means serial
}

func DefaultConfig() Config {
	return Config{
		Dt:              1.0,
		Duration:        60.0,
		DivergenceLimit: 1e9,
		VelocityLimit:   1e6,
		QuatTolerance:   1e-9,
		Workers:         1,
	}
}
