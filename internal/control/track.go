package control

import (
	"github.com/RussAbbott/cubesat/internal/frame"
	"github.com/RussAbbott/cubesat/internal/sat"
)

// TrackTarget points the body's boresight axis along the line of sight to
// its target and holds a standoff range. Range keeping combines a PD law on
// the range error with a virtual repulsion from the target that falls off
// with the fourth power of the separation, so the approach stays smooth
// instead of parking at a hard fence.
//
// The law emits force and torque in the same tick whenever the body is both
// misaligned and off-range, which is exactly the combination an impaired
// CubeSat's policy must arbitrate.
type TrackTarget struct {
	Boresight frame.Vec3 // body axis to point at the target

	KpAtt float64 // pointing gain
	KdAtt float64 // rate damping

	KpPos     float64 // range gain
	KdPos     float64 // closing-rate damping
	Standoff  float64 // desired separation, metres
	Repulsion float64 // virtual repulsion coefficient, N*m^4

	MaxForce  float64
	MaxTorque float64
}

// NewTrackTarget returns a tracker pointing the body +X axis, with gains
// sized for small proximity-operations scenarios.
func NewTrackTarget(standoff float64) *TrackTarget {
	return &TrackTarget{
		Boresight: frame.Vec3{X: 1},
		KpAtt:     0.02,
		KdAtt:     0.1,
		KpPos:     0.05,
		KdPos:     0.4,
		Standoff:  standoff,
		MaxForce:  5,
		MaxTorque: 0.5,
	}
}

func (l *TrackTarget) Compute(own sat.KinematicState, target *sat.KinematicState, _, _ float64) sat.Command {
	if target == nil {
		return sat.Command{}
	}

	rel := target.Position.Sub(own.Position)
	dist := rel.Norm()
	if dist == 0 {
		return sat.Command{}
	}
	los := rel.Scale(1 / dist)

	// Pointing: rotate the boresight onto the line of sight. The error axis
	// lives in the inertial frame; torque is commanded in the body frame.
	bore := own.Attitude.Rotate(l.Boresight)
	errAxis := bore.Cross(los)
	errBody := own.Attitude.Conj().Rotate(errAxis)
	torque := errBody.Scale(l.KpAtt).Sub(own.AngularVelocity.Scale(l.KdAtt)).Clamp(l.MaxTorque)

	// Range keeping toward the standoff distance.
	relVel := target.Velocity.Sub(own.Velocity)
	force := los.Scale(l.KpPos * (dist - l.Standoff)).Add(relVel.Scale(l.KdPos))
	if l.Repulsion > 0 {
		d2 := dist * dist
		force = force.Sub(los.Scale(l.Repulsion / (d2 * d2)))
	}
	force = force.Clamp(l.MaxForce)

	return sat.Command{Force: force, Torque: torque}
}
