package control

import (
	"github.com/RussAbbott/cubesat/internal/frame"
	"github.com/RussAbbott/cubesat/internal/sat"
)

// HoldAttitude regulates the body to a fixed goal attitude with a PD law on
// the quaternion error. It commands no force. Stateless.
type HoldAttitude struct {
	Goal      frame.Quat
	Kp        float64
	Kd        float64
	MaxTorque float64
}

func NewHoldAttitude(goal frame.Quat, kp, kd float64) *HoldAttitude {
	return &HoldAttitude{Goal: goal, Kp: kp, Kd: kd}
}

func (h *HoldAttitude) Compute(own sat.KinematicState, _ *sat.KinematicState, _, _ float64) sat.Command {
	// Error rotation from the current body frame to the goal, expressed in
	// the body frame.
	qe := own.Attitude.Conj().Mul(h.Goal)

	// The shorter of the two equivalent rotations.
	sign := 1.0
	if qe.W < 0 {
		sign = -1
	}

	ev := frame.Vec3{X: qe.X, Y: qe.Y, Z: qe.Z}.Scale(sign)
	torque := ev.Scale(h.Kp).Sub(own.AngularVelocity.Scale(h.Kd))

	return sat.Command{Torque: torque.Clamp(h.MaxTorque)}
}
