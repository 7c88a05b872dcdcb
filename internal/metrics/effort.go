package metrics

import "github.com/RussAbbott/cubesat/internal/sat"

// ControlEffort averages the commanded force and torque magnitudes across
// all bodies over a run. Commands are observed after constraint filtering,
// so this measures what was actually actuated.
type ControlEffort struct {
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{}
}

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(_ *sat.Body, cmd sat.Command, _ bool, _ float64) {
	c.sum += cmd.Force.Norm() + cmd.Torque.Norm()
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
