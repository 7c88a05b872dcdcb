package control

import "github.com/RussAbbott/cubesat/internal/sat"

// None commands nothing. Bodies with no law are passive anyway; None exists
// for scenario configs that want the law spelled out.
type None struct{}

func (None) Compute(_ sat.KinematicState, _ *sat.KinematicState, _, _ float64) sat.Command {
	return sat.Command{}
}
