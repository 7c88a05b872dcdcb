package sat

import (
	"errors"
	"fmt"
)

// Domain errors for simulation runs.
var (
	// ErrInvalidConfig indicates a scenario that cannot start ticking.
	ErrInvalidConfig = errors.New("sat: invalid configuration")

	// ErrDiverged indicates numerical blow-up in a dynamics model.
	ErrDiverged = errors.New("sat: state diverged")

	// ErrInvariant indicates an attitude quaternion that cannot be
	// renormalized.
	ErrInvariant = errors.New("sat: attitude invariant breached")

	// ErrNotConfigured indicates a simulator that has already run.
	ErrNotConfigured = errors.New("sat: simulator is not in configured state")

	// ErrNotRunning indicates a step on a finished simulator.
	ErrNotRunning = errors.New("sat: simulator is not running")
)

// ConfigError reports which scenario field failed validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("sat: invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// DivergenceError identifies the body and tick at which a run blew up.
// Tick is 1-based, matching trajectory log records; the named tick is the
// one that failed to commit.
type DivergenceError struct {
	BodyID string
	Tick   int
	Time   float64
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("sat: state diverged: body %q at tick %d (t=%.3f)", e.BodyID, e.Tick, e.Time)
}

func (e *DivergenceError) Unwrap() error { return ErrDiverged }

// InvariantError identifies an unrecoverable attitude quaternion. Tick is
// 1-based like DivergenceError.Tick.
type InvariantError struct {
	BodyID string
	Tick   int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("sat: attitude invariant breached: body %q at tick %d", e.BodyID, e.Tick)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }
