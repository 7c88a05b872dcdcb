// Package constraint encodes, per satellite variant, which command
// combinations are physically realizable and how conflicts are resolved.
package constraint

import (
	"fmt"

	"github.com/RussAbbott/cubesat/internal/frame"
	"github.com/RussAbbott/cubesat/internal/sat"
)

// DefaultEpsilon is the magnitude below which a command component counts
// as zero.
const DefaultEpsilon = 1e-9

// TieBreak selects which command component survives when an impaired body
// proposes rotation and translation in the same tick.
type TieBreak int

const (
	// PreferLarger keeps whichever component has the larger magnitude
	// relative to its reference scale.
	PreferLarger TieBreak = iota
	// PreferRotation keeps the torque and zeroes the force.
	PreferRotation
	// PreferTranslation keeps the force and zeroes the torque.
	PreferTranslation
)

func (t TieBreak) String() string {
	switch t {
	case PreferLarger:
		return "larger"
	case PreferRotation:
		return "rotation"
	case PreferTranslation:
		return "translation"
	default:
		return fmt.Sprintf("tiebreak(%d)", int(t))
	}
}

func ParseTieBreak(name string) (TieBreak, error) {
	switch name {
	case "", "larger":
		return PreferLarger, nil
	case "rotation":
		return PreferRotation, nil
	case "translation":
		return PreferTranslation, nil
	default:
		return 0, fmt.Errorf("unknown tie-break rule: %s", name)
	}
}

// Unconstrained passes every command through unchanged. The policy of base
// satellites and healthy CubeSats.
type Unconstrained struct{}

func (Unconstrained) Apply(cmd sat.Command) (sat.Command, bool) {
	return cmd, false
}

// RotationXorTranslation is the impaired-CubeSat policy: the body cannot
// actuate rotation and translation in the same tick. A conflicting command
// is resolved by the tie-break rule, zeroing the losing component, and the
// conflict is reported as a violation. Violations are expected steady-state
// behavior, not errors.
type RotationXorTranslation struct {
	Rule    TieBreak
	Epsilon float64

	// Reference scales make force (N) and torque (N*m) magnitudes
	// comparable under PreferLarger.
	ForceRef  float64
	TorqueRef float64
}

func NewRotationXorTranslation(rule TieBreak) *RotationXorTranslation {
	return &RotationXorTranslation{
		Rule:      rule,
		Epsilon:   DefaultEpsilon,
		ForceRef:  1,
		TorqueRef: 1,
	}
}

func (p *RotationXorTranslation) Apply(cmd sat.Command) (sat.Command, bool) {
	if !cmd.HasForce(p.Epsilon) || !cmd.HasTorque(p.Epsilon) {
		return cmd, false
	}

	keepRotation := false
	switch p.Rule {
	case PreferRotation:
		keepRotation = true
	case PreferTranslation:
		keepRotation = false
	default:
		keepRotation = cmd.Torque.Norm()/p.TorqueRef >= cmd.Force.Norm()/p.ForceRef
	}

	if keepRotation {
		cmd.Force = frame.Vec3{}
	} else {
		cmd.Torque = frame.Vec3{}
	}
	return cmd, true
}
