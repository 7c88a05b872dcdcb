package orbit

import (
	"math"
	"testing"

	"github.com/RussAbbott/cubesat/internal/frame"
	"github.com/RussAbbott/cubesat/internal/sat"
)

func TestLinear_PositionLinearInTime(t *testing.T) {
	m := NewLinear()

	s := sat.KinematicState{
		Velocity: frame.Vec3{X: 1.5, Y: -2, Z: 0.25},
		Attitude: frame.Identity(),
	}

	var err error
	for i := 0; i < 40; i++ {
		s, err = m.Propagate(s, sat.Command{}, float64(i)*0.5, 0.5)
		if err != nil {
			t.Fatalf("propagate failed: %v", err)
		}
	}

	want := frame.Vec3{X: 1.5, Y: -2, Z: 0.25}.Scale(20)
	if s.Position.Sub(want).Norm() > 1e-9 {
		t.Errorf("position = %+v, want %+v", s.Position, want)
	}
}

func TestLinear_IgnoresCommands(t *testing.T) {
	m := NewLinear()

	s := sat.KinematicState{Attitude: frame.Identity()}
	cmd := sat.Command{Force: frame.Vec3{X: 100}, Torque: frame.Vec3{Z: 100}}

	next, err := m.Propagate(s, cmd, 0, 1.0)
	if err != nil {
		t.Fatalf("propagate failed: %v", err)
	}

	if next.Velocity != (frame.Vec3{}) || next.AngularVelocity != (frame.Vec3{}) {
		t.Error("target model must not respond to actuation")
	}
}

func TestLinear_TumblePreservesNorm(t *testing.T) {
	m := NewLinear()

	s := sat.KinematicState{
		Attitude:        frame.Identity(),
		AngularVelocity: frame.Vec3{X: 0.3, Y: -0.1, Z: 0.7},
	}

	var err error
	for i := 0; i < 200; i++ {
		s, err = m.Propagate(s, sat.Command{}, float64(i)*0.1, 0.1)
		if err != nil {
			t.Fatalf("propagate failed: %v", err)
		}
	}

	if math.Abs(s.Attitude.Norm()-1) > 1e-12 {
		t.Errorf("attitude norm = %v after tumble", s.Attitude.Norm())
	}
	if s.Attitude == frame.Identity() {
		t.Error("attitude did not tumble")
	}
}
