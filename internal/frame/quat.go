package frame

import (
	"errors"
	"math"
)

// ErrZeroNorm indicates a quaternion whose norm has collapsed below the
// renormalization floor and can no longer represent a rotation.
var ErrZeroNorm = errors.New("frame: quaternion norm below floor")

// Quat is a rotation quaternion, scalar part first. A unit Quat maps
// body-frame vectors into the inertial frame via Rotate.
type Quat struct {
	W, X, Y, Z float64
}

// Identity returns the no-rotation quaternion.
func Identity() Quat {
	return Quat{W: 1}
}

// FromAxisAngle builds the quaternion rotating by angle radians about axis.
// The axis need not be normalized.
func FromAxisAngle(axis Vec3, angle float64) Quat {
	u := axis.Unit()
	s, c := math.Sincos(angle / 2)
	return Quat{W: c, X: u.X * s, Y: u.Y * s, Z: u.Z * s}
}

// Mul returns the Hamilton product q*o.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

func (q Quat) Conj() Quat {
	return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

func (q Quat) Norm() float64 {
	return math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
}

// Normalize rescales q to unit norm. It fails with ErrZeroNorm when the norm
// is at or below floor, which callers treat as an unrecoverable breach.
func (q Quat) Normalize(floor float64) (Quat, error) {
	n := q.Norm()
	if n <= floor {
		return Quat{}, ErrZeroNorm
	}
	inv := 1 / n
	return Quat{W: q.W * inv, X: q.X * inv, Y: q.Y * inv, Z: q.Z * inv}, nil
}

// Rotate applies the rotation to a body-frame vector, yielding its
// inertial-frame representation. q must be unit norm.
func (q Quat) Rotate(v Vec3) Vec3 {
	// v' = v + 2*qv x (qv x v + w*v)
	qv := Vec3{q.X, q.Y, q.Z}
	t := qv.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(qv.Cross(t))
}

// Derivative returns dq/dt for body-frame angular velocity omega:
// dq/dt = (1/2) q (x) (0, omega).
func (q Quat) Derivative(omega Vec3) Quat {
	o := Quat{W: 0, X: omega.X, Y: omega.Y, Z: omega.Z}
	d := q.Mul(o)
	return Quat{W: d.W / 2, X: d.X / 2, Y: d.Y / 2, Z: d.Z / 2}
}

func (q Quat) IsValid() bool {
	for _, c := range [4]float64{q.W, q.X, q.Y, q.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
