// Package metrics provides per-run scalar metrics implementing [sat.Metric].
package metrics

import (
	"math"

	"github.com/RussAbbott/cubesat/internal/sat"
)

// EnergyComputer is implemented by dynamics models that can report a
// conserved energy for a state.
type EnergyComputer interface {
	Energy(s sat.KinematicState) float64
}

// EnergyDrift tracks the worst relative drift of one body's specific orbital
// energy over a run. Only meaningful for bodies under zero command.
type EnergyDrift struct {
	bodyID  string
	initial float64
	max     float64
	samples int
}

func NewEnergyDrift(bodyID string) *EnergyDrift {
	return &EnergyDrift{bodyID: bodyID}
}

func (e *EnergyDrift) Name() string { return "energy_drift_" + e.bodyID }

func (e *EnergyDrift) Observe(b *sat.Body, _ sat.Command, _ bool, _ float64) {
	if b.ID != e.bodyID {
		return
	}
	ec, ok := b.Model.(EnergyComputer)
	if !ok {
		return
	}

	energy := ec.Energy(b.State)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.max = math.Max(e.max, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.max }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.max = 0
	e.samples = 0
}
