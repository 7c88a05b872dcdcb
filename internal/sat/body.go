package sat

import (
	"fmt"

	"github.com/RussAbbott/cubesat/internal/frame"
)

// Variant identifies a body's capability class.
type Variant int

const (
	// VariantSatellite is the unconstrained base satellite.
	VariantSatellite Variant = iota
	// VariantCubeSat is a CubeSat with full actuation.
	VariantCubeSat
	// VariantImpairedCubeSat cannot command rotation and translation in the
	// same tick.
	VariantImpairedCubeSat
	// VariantTarget is a passive body with no control law.
	VariantTarget
)

func (v Variant) String() string {
	switch v {
	case VariantSatellite:
		return "satellite"
	case VariantCubeSat:
		return "cubesat"
	case VariantImpairedCubeSat:
		return "impaired_cubesat"
	case VariantTarget:
		return "target"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// ParseVariant maps a config name to a Variant.
func ParseVariant(name string) (Variant, error) {
	switch name {
	case "satellite":
		return VariantSatellite, nil
	case "cubesat":
		return VariantCubeSat, nil
	case "impaired_cubesat":
		return VariantImpairedCubeSat, nil
	case "target":
		return VariantTarget, nil
	default:
		return 0, fmt.Errorf("unknown variant: %s", name)
	}
}

// Body composes one kinematic state with the dynamics model, constraint
// policy, and optional control law governing it. Bodies are created once at
// scenario setup and mutated exactly once per tick by the simulator.
type Body struct {
	ID      string
	Variant Variant
	Mass    float64    // kg
	Inertia frame.Vec3 // principal moments, kg*m^2

	State  KinematicState
	Model  Model
	Policy Policy
	Law    Law

	// TargetID names the body whose state this body's law reads. Non-owning:
	// the simulator resolves it against its committed-state snapshot.
	TargetID string
}
