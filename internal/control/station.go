package control

import (
	"github.com/RussAbbott/cubesat/internal/frame"
	"github.com/RussAbbott/cubesat/internal/sat"
)

// StationKeep holds the body at a fixed inertial position with a PID law.
// The integral accumulator belongs exclusively to the law instance and is
// mutated only by Compute.
type StationKeep struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Goal     frame.Vec3
	MaxForce float64

	integral frame.Vec3
}

func NewStationKeep(goal frame.Vec3, kp, ki, kd float64) *StationKeep {
	return &StationKeep{
		Kp:   kp,
		Ki:   ki,
		Kd:   kd,
		Goal: goal,
	}
}

func (s *StationKeep) Compute(own sat.KinematicState, _ *sat.KinematicState, _, dt float64) sat.Command {
	err := s.Goal.Sub(own.Position)

	if dt > 0 {
		s.integral = s.integral.Add(err.Scale(dt))
	}

	// Velocity is the exact error derivative here, no finite differencing
	// needed.
	u := err.Scale(s.Kp).
		Add(s.integral.Scale(s.Ki)).
		Sub(own.Velocity.Scale(s.Kd))

	return sat.Command{Force: u.Clamp(s.MaxForce)}
}

// Reset clears the integral accumulator.
func (s *StationKeep) Reset() {
	s.integral = frame.Vec3{}
}
