package metrics

import "github.com/RussAbbott/cubesat/internal/sat"

// ViolationCount counts constraint violations across all bodies. Violations
// are expected operating behavior for impaired variants; the count shows
// how often the capability limit actually bit.
type ViolationCount struct {
	count int
}

func NewViolationCount() *ViolationCount {
	return &ViolationCount{}
}

func (v *ViolationCount) Name() string { return "constraint_violations" }

func (v *ViolationCount) Observe(_ *sat.Body, _ sat.Command, violated bool, _ float64) {
	if violated {
		v.count++
	}
}

func (v *ViolationCount) Value() float64 { return float64(v.count) }

func (v *ViolationCount) Reset() { v.count = 0 }
