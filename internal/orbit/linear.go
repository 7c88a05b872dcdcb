package orbit

import (
	"fmt"

	"github.com/RussAbbott/cubesat/internal/frame"
	"github.com/RussAbbott/cubesat/internal/sat"
)

// Linear is the trivial target motion profile: constant-velocity translation
// and a constant body-rate tumble. Commands are ignored; targets carry no
// actuators.
type Linear struct {
	QuatFloor float64
}

func NewLinear() *Linear {
	return &Linear{QuatFloor: sat.DefaultConfig().QuatTolerance}
}

func (m *Linear) Propagate(s sat.KinematicState, _ sat.Command, _, dt float64) (sat.KinematicState, error) {
	s.Position = s.Position.Add(s.Velocity.Scale(dt))
	s.Attitude = tumble(s.Attitude, s.AngularVelocity, dt)

	q, err := s.Attitude.Normalize(m.QuatFloor)
	if err != nil {
		return sat.KinematicState{}, fmt.Errorf("%w: attitude norm collapsed", sat.ErrInvariant)
	}
	s.Attitude = q

	if !s.IsValid() {
		return sat.KinematicState{}, fmt.Errorf("%w: non-finite state", sat.ErrDiverged)
	}
	return s, nil
}

// tumble applies the exact rotation for a constant body rate over dt.
func tumble(q frame.Quat, w frame.Vec3, dt float64) frame.Quat {
	rate := w.Norm()
	if rate == 0 {
		return q
	}
	return q.Mul(frame.FromAxisAngle(w, rate*dt))
}
