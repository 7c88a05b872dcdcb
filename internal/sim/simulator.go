package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/RussAbbott/cubesat/internal/constraint"
	"github.com/RussAbbott/cubesat/internal/sat"
)

// Simulator owns a set of bodies and advances them in fixed time increments.
// Lifecycle: Configured -> Running -> Completed or Aborted. Each tick, every
// body's law, policy, and model run against the previous tick's committed
// states; next-states are buffered and committed together, so no body ever
// observes another's in-progress state.
type Simulator struct {
	cfg    sat.Config
	bodies []*sat.Body
	byID   map[string]*sat.Body

	status sat.Status
	tick   int
	now    float64
	steps  int
	log    *Log
	err    error

	metrics   []sat.Metric
	observers []sat.Observer
}

// Result summarizes a finished run.
type Result struct {
	Status  sat.Status
	Ticks   int
	Log     *Log
	Metrics map[string]float64
	Err     error
}

// New validates the scenario and returns a simulator in the Configured
// state. Configuration errors prevent any ticking.
func New(cfg sat.Config, bodies []*sat.Body) (*Simulator, error) {
	if cfg.Dt <= 0 {
		return nil, &sat.ConfigError{Field: "dt", Reason: fmt.Sprintf("must be positive, got %g", cfg.Dt)}
	}
	if cfg.Duration <= 0 {
		return nil, &sat.ConfigError{Field: "duration", Reason: fmt.Sprintf("must be positive, got %g", cfg.Duration)}
	}
	if cfg.QuatTolerance <= 0 {
		cfg.QuatTolerance = sat.DefaultConfig().QuatTolerance
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if len(bodies) == 0 {
		return nil, &sat.ConfigError{Field: "bodies", Reason: "at least one body required"}
	}

	byID := make(map[string]*sat.Body, len(bodies))
	for _, b := range bodies {
		if b.ID == "" {
			return nil, &sat.ConfigError{Field: "bodies", Reason: "body with empty id"}
		}
		if _, dup := byID[b.ID]; dup {
			return nil, &sat.ConfigError{Field: "bodies", Reason: "duplicate body id " + b.ID}
		}
		byID[b.ID] = b
	}

	for _, b := range bodies {
		if b.Model == nil {
			return nil, &sat.ConfigError{Field: b.ID, Reason: "missing dynamics model"}
		}
		if b.Policy == nil {
			b.Policy = constraint.Unconstrained{}
		}
		if b.Variant == sat.VariantTarget && b.Law != nil {
			return nil, &sat.ConfigError{Field: b.ID, Reason: "target bodies are passive, no control law allowed"}
		}
		if b.TargetID != "" {
			if b.TargetID == b.ID {
				return nil, &sat.ConfigError{Field: b.ID, Reason: "body references itself as target"}
			}
			if _, ok := byID[b.TargetID]; !ok {
				return nil, &sat.ConfigError{Field: b.ID, Reason: "unknown target " + b.TargetID}
			}
		}
		if !b.State.IsValid() {
			return nil, &sat.ConfigError{Field: b.ID, Reason: "initial state is not finite"}
		}

		q, err := b.State.Attitude.Normalize(cfg.QuatTolerance)
		if err != nil {
			return nil, &sat.ConfigError{Field: b.ID, Reason: "initial attitude is degenerate"}
		}
		b.State.Attitude = q
	}

	return &Simulator{
		cfg:    cfg,
		bodies: bodies,
		byID:   byID,
		status: sat.StatusConfigured,
		steps:  int(math.Round(cfg.Duration / cfg.Dt)),
		log:    &Log{},
	}, nil
}

func (s *Simulator) AddMetric(m sat.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o sat.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Status() sat.Status { return s.status }
func (s *Simulator) Tick() int          { return s.tick }
func (s *Simulator) Now() float64       { return s.now }

// Trajectory returns the append-only run history.
func (s *Simulator) Trajectory() *Log { return s.log }

// Bodies returns the simulated bodies in their fixed tick order.
func (s *Simulator) Bodies() []*sat.Body { return s.bodies }

// Run ticks until the configured duration elapses, a body diverges, or ctx
// is canceled. Cancellation is cooperative: it is checked between ticks and
// never interrupts a tick mid-commit.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	if s.status != sat.StatusConfigured {
		return nil, sat.ErrNotConfigured
	}
	s.start()

	for s.tick < s.steps {
		select {
		case <-ctx.Done():
			s.status = sat.StatusAborted
			s.err = ctx.Err()
			return s.result(), s.err
		default:
		}

		if err := s.advance(); err != nil {
			return s.result(), err
		}
	}

	s.status = sat.StatusCompleted
	return s.result(), nil
}

// Step advances exactly one tick, for callers that drive the loop
// themselves (the live view). The first call moves the simulator from
// Configured to Running.
func (s *Simulator) Step() error {
	switch s.status {
	case sat.StatusConfigured:
		s.start()
	case sat.StatusRunning:
	default:
		return sat.ErrNotRunning
	}

	if err := s.advance(); err != nil {
		return err
	}
	if s.tick >= s.steps {
		s.status = sat.StatusCompleted
	}
	return nil
}

// Result is valid once the simulator is terminal; for a running simulator
// it reflects progress so far.
func (s *Simulator) Result() *Result { return s.result() }

func (s *Simulator) start() {
	s.status = sat.StatusRunning
	for _, m := range s.metrics {
		m.Reset()
	}
}

// advance computes and commits one tick.
func (s *Simulator) advance() error {
	n := len(s.bodies)
	dt := s.cfg.Dt

	// Committed-state snapshot: every law this tick reads these, never a
	// buffered next-state.
	snapshot := make(map[string]sat.KinematicState, n)
	for _, b := range s.bodies {
		snapshot[b.ID] = b.State
	}

	next := make([]sat.KinematicState, n)
	cmds := make([]sat.Command, n)
	violations := make([]bool, n)
	errs := make([]error, n)

	parallelFor(n, s.cfg.Workers, func(i int) {
		b := s.bodies[i]

		var cmd sat.Command
		if b.Law != nil {
			var target *sat.KinematicState
			if b.TargetID != "" {
				if ts, ok := snapshot[b.TargetID]; ok {
					target = &ts
				}
			}
			cmd = b.Law.Compute(b.State, target, s.now, dt)
		}

		cmd, violations[i] = b.Policy.Apply(cmd)
		cmds[i] = cmd

		next[i], errs[i] = b.Model.Propagate(b.State, cmd, s.now, dt)
	})

	for i, err := range errs {
		if err == nil {
			continue
		}
		s.status = sat.StatusAborted
		// The failing tick never commits; report it under the same 1-based
		// numbering the log records use.
		failed := s.tick + 1
		switch {
		case errors.Is(err, sat.ErrInvariant):
			s.err = &sat.InvariantError{BodyID: s.bodies[i].ID, Tick: failed}
		default:
			s.err = &sat.DivergenceError{BodyID: s.bodies[i].ID, Tick: failed, Time: s.now}
		}
		return s.err
	}

	// Commit phase: every next-state exists, mutate all bodies at once.
	s.tick++
	s.now += dt
	for i, b := range s.bodies {
		b.State = next[i]
		s.log.append(Record{
			Tick:      s.tick,
			Time:      s.now,
			BodyID:    b.ID,
			State:     b.State,
			Violation: violations[i],
		})
	}

	for i, b := range s.bodies {
		for _, m := range s.metrics {
			m.Observe(b, cmds[i], violations[i], s.now)
		}
	}
	for _, obs := range s.observers {
		obs.OnTick(s.tick, s.now, s.bodies)
	}

	return nil
}

func (s *Simulator) result() *Result {
	vals := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		vals[m.Name()] = m.Value()
	}
	return &Result{
		Status:  s.status,
		Ticks:   s.tick,
		Log:     s.log,
		Metrics: vals,
		Err:     s.err,
	}
}
