package orbit

import (
	"fmt"

	"github.com/RussAbbott/cubesat/internal/frame"
	"github.com/RussAbbott/cubesat/internal/sat"
)

// MuEarth is Earth's standard gravitational parameter, m^3/s^2.
const MuEarth = 3.986004418e14

// TwoBody propagates a satellite under point-mass gravity and Euler's
// rigid-body equation. Commanded force is inertial-frame, commanded torque
// body-frame. The inertia tensor is diagonal (principal axes).
type TwoBody struct {
	Mu      float64    // gravitational parameter, m^3/s^2
	Mass    float64    // kg
	Inertia frame.Vec3 // principal moments, kg*m^2

	PosLimit  float64 // divergence threshold on |r|, metres
	VelLimit  float64 // divergence threshold on |v|, m/s
	QuatFloor float64 // renormalization floor for the attitude norm

	Scheme Integrator
}

// NewTwoBody returns a model with Earth gravity and the given mass and
// principal inertia, using RK4 and the default divergence limits.
func NewTwoBody(mass float64, inertia frame.Vec3) *TwoBody {
	cfg := sat.DefaultConfig()
	return &TwoBody{
		Mu:        MuEarth,
		Mass:      mass,
		Inertia:   inertia,
		PosLimit:  cfg.DivergenceLimit,
		VelLimit:  cfg.VelocityLimit,
		QuatFloor: cfg.QuatTolerance,
		Scheme:    RK4,
	}
}

// Propagate integrates the state over dt. The attitude quaternion is
// renormalized after the step; failure to renormalize or a position/velocity
// magnitude past the configured limits is reported as an error, never as an
// invalid state.
func (m *TwoBody) Propagate(s sat.KinematicState, cmd sat.Command, t, dt float64) (sat.KinematicState, error) {
	var next sat.KinematicState
	switch m.Scheme {
	case SemiImplicitEuler:
		next = m.eulerStep(s, cmd, t, dt)
	default:
		next = sat.StateFromVector(rk4Step(m.derivative(cmd), s.Vector(), t, dt))
	}

	q, err := next.Attitude.Normalize(m.QuatFloor)
	if err != nil {
		return sat.KinematicState{}, fmt.Errorf("%w: attitude norm collapsed", sat.ErrInvariant)
	}
	next.Attitude = q

	if !next.IsValid() {
		return sat.KinematicState{}, fmt.Errorf("%w: non-finite state", sat.ErrDiverged)
	}
	if r := next.Position.Norm(); r > m.PosLimit {
		return sat.KinematicState{}, fmt.Errorf("%w: |r|=%.3e exceeds limit %.3e", sat.ErrDiverged, r, m.PosLimit)
	}
	if v := next.Velocity.Norm(); v > m.VelLimit {
		return sat.KinematicState{}, fmt.Errorf("%w: |v|=%.3e exceeds limit %.3e", sat.ErrDiverged, v, m.VelLimit)
	}

	return next, nil
}

func (m *TwoBody) derivative(cmd sat.Command) derivFunc {
	return func(x []float64, _ float64) []float64 {
		s := sat.StateFromVector(x)

		acc := m.gravity(s.Position).Add(cmd.Force.Scale(1 / m.Mass))
		qdot := s.Attitude.Derivative(s.AngularVelocity)
		wdot := m.angularAccel(s.AngularVelocity, cmd.Torque)

		return []float64{
			s.Velocity.X, s.Velocity.Y, s.Velocity.Z,
			acc.X, acc.Y, acc.Z,
			qdot.W, qdot.X, qdot.Y, qdot.Z,
			wdot.X, wdot.Y, wdot.Z,
		}
	}
}

func (m *TwoBody) eulerStep(s sat.KinematicState, cmd sat.Command, _, dt float64) sat.KinematicState {
	acc := m.gravity(s.Position).Add(cmd.Force.Scale(1 / m.Mass))
	s.Velocity = s.Velocity.Add(acc.Scale(dt))
	s.Position = s.Position.Add(s.Velocity.Scale(dt))

	wdot := m.angularAccel(s.AngularVelocity, cmd.Torque)
	s.AngularVelocity = s.AngularVelocity.Add(wdot.Scale(dt))

	qdot := s.Attitude.Derivative(s.AngularVelocity)
	s.Attitude = frame.Quat{
		W: s.Attitude.W + dt*qdot.W,
		X: s.Attitude.X + dt*qdot.X,
		Y: s.Attitude.Y + dt*qdot.Y,
		Z: s.Attitude.Z + dt*qdot.Z,
	}
	return s
}

func (m *TwoBody) gravity(r frame.Vec3) frame.Vec3 {
	d := r.Norm()
	if d == 0 {
		return frame.Vec3{}
	}
	return r.Scale(-m.Mu / (d * d * d))
}

// angularAccel solves Euler's equation for a diagonal inertia tensor:
// I*dw/dt = tau - w x (I*w).
func (m *TwoBody) angularAccel(w, torque frame.Vec3) frame.Vec3 {
	iw := frame.Vec3{X: m.Inertia.X * w.X, Y: m.Inertia.Y * w.Y, Z: m.Inertia.Z * w.Z}
	rhs := torque.Sub(w.Cross(iw))
	return frame.Vec3{X: rhs.X / m.Inertia.X, Y: rhs.Y / m.Inertia.Y, Z: rhs.Z / m.Inertia.Z}
}

// Energy returns the specific orbital energy v^2/2 - mu/|r|, conserved under
// zero command. Used by the energy-drift metric.
func (m *TwoBody) Energy(s sat.KinematicState) float64 {
	r := s.Position.Norm()
	if r == 0 {
		return 0
	}
	return s.Velocity.NormSq()/2 - m.Mu/r
}
