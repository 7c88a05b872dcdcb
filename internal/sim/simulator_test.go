package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/RussAbbott/cubesat/internal/constraint"
	"github.com/RussAbbott/cubesat/internal/control"
	"github.com/RussAbbott/cubesat/internal/frame"
	"github.com/RussAbbott/cubesat/internal/orbit"
	"github.com/RussAbbott/cubesat/internal/sat"
)

func leoCubeSat(id string) *sat.Body {
	inertia := frame.Vec3{X: 0.1, Y: 0.1, Z: 0.1}
	return &sat.Body{
		ID:      id,
		Variant: sat.VariantCubeSat,
		Mass:    4.0,
		Inertia: inertia,
		Model:   orbit.NewTwoBody(4.0, inertia),
		State: sat.KinematicState{
			Position: frame.Vec3{X: 7000e3},
			Velocity: frame.Vec3{Y: 7.5e3},
			Attitude: frame.Identity(),
		},
	}
}

func TestNew_InvalidConfiguration(t *testing.T) {
	valid := sat.DefaultConfig()

	tests := []struct {
		name   string
		cfg    sat.Config
		bodies func() []*sat.Body
	}{
		{"zero dt", sat.Config{Dt: 0, Duration: 60}, func() []*sat.Body { return []*sat.Body{leoCubeSat("a")} }},
		{"negative dt", sat.Config{Dt: -1, Duration: 60}, func() []*sat.Body { return []*sat.Body{leoCubeSat("a")} }},
		{"zero duration", sat.Config{Dt: 1, Duration: 0}, func() []*sat.Body { return []*sat.Body{leoCubeSat("a")} }},
		{"no bodies", valid, func() []*sat.Body { return nil }},
		{"duplicate ids", valid, func() []*sat.Body { return []*sat.Body{leoCubeSat("a"), leoCubeSat("a")} }},
		{"empty id", valid, func() []*sat.Body { return []*sat.Body{leoCubeSat("")} }},
		{"missing model", valid, func() []*sat.Body {
			b := leoCubeSat("a")
			b.Model = nil
			return []*sat.Body{b}
		}},
		{"unknown target", valid, func() []*sat.Body {
			b := leoCubeSat("a")
			b.Law = control.NewTrackTarget(50)
			b.TargetID = "ghost"
			return []*sat.Body{b}
		}},
		{"self target", valid, func() []*sat.Body {
			b := leoCubeSat("a")
			b.Law = control.NewTrackTarget(50)
			b.TargetID = "a"
			return []*sat.Body{b}
		}},
		{"law on target body", valid, func() []*sat.Body {
			b := leoCubeSat("a")
			b.Variant = sat.VariantTarget
			b.Law = control.None{}
			return []*sat.Body{b}
		}},
		{"degenerate attitude", valid, func() []*sat.Body {
			b := leoCubeSat("a")
			b.State.Attitude = frame.Quat{}
			return []*sat.Body{b}
		}},
		{"non-finite state", valid, func() []*sat.Body {
			b := leoCubeSat("a")
			b.State.Velocity.X = math.NaN()
			return []*sat.Body{b}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, tt.bodies())
			if !errors.Is(err, sat.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestRun_HoldAttitudeScenario(t *testing.T) {
	g := NewWithT(t)

	b := leoCubeSat("cubesat")
	b.Law = control.NewHoldAttitude(frame.Identity(), 0.1, 0.5)

	cfg := sat.DefaultConfig()
	cfg.Dt = 1.0
	cfg.Duration = 60.0

	s, err := New(cfg, []*sat.Body{b})
	g.Expect(err).NotTo(HaveOccurred())

	result, err := s.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Status).To(Equal(sat.StatusCompleted))
	g.Expect(result.Ticks).To(Equal(60))

	records := result.Log.ForBody("cubesat")
	g.Expect(records).To(HaveLen(60))

	for _, r := range records {
		g.Expect(math.Abs(r.State.Attitude.Norm() - 1)).To(BeNumerically("<", cfg.QuatTolerance+1e-12))
		g.Expect(r.Violation).To(BeFalse())
	}

	// Already at the goal attitude with zero rates: the hold law commands
	// nothing and the orientation stays put.
	final := records[len(records)-1].State
	g.Expect(final.Attitude).To(Equal(frame.Identity()))

	// Near-circular arc: the radius holds while the body sweeps along it.
	g.Expect(math.Abs(final.Position.Norm() - 7000e3)).To(BeNumerically("<", 1e3))
	g.Expect(final.Position.Sub(frame.Vec3{X: 7000e3}).Norm()).To(BeNumerically(">", 100e3))
}

func TestRun_Determinism(t *testing.T) {
	run := func() []Record {
		target := &sat.Body{
			ID:      "target",
			Variant: sat.VariantTarget,
			Model:   orbit.NewLinear(),
			State: sat.KinematicState{
				Position: frame.Vec3{X: 200, Y: 50},
				Velocity: frame.Vec3{X: -0.5},
				Attitude: frame.Identity(),
			},
		}

		chaser := leoCubeSat("chaser")
		chaser.Model.(*orbit.TwoBody).Mu = 0
		chaser.State = sat.KinematicState{Attitude: frame.Identity()}
		chaser.Law = control.NewTrackTarget(50)
		chaser.TargetID = "target"

		cfg := sat.DefaultConfig()
		cfg.Dt = 0.5
		cfg.Duration = 30

		s, err := New(cfg, []*sat.Body{chaser, target})
		if err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		if _, err := s.Run(context.Background()); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		return s.Trajectory().Records()
	}

	first := run()
	second := run()

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("record %d differs:\n%+v\n%+v", i, first[i], second[i])
		}
	}
}

func TestRun_ParallelMatchesSerial(t *testing.T) {
	run := func(workers int) []Record {
		bodies := make([]*sat.Body, 0, 4)
		for _, id := range []string{"a", "b", "c"} {
			b := leoCubeSat(id)
			b.Law = control.NewHoldAttitude(frame.Identity(), 0.1, 0.5)
			bodies = append(bodies, b)
		}
		bodies = append(bodies, &sat.Body{
			ID:      "target",
			Variant: sat.VariantTarget,
			Model:   orbit.NewLinear(),
			State: sat.KinematicState{
				Velocity: frame.Vec3{X: 1},
				Attitude: frame.Identity(),
			},
		})

		cfg := sat.DefaultConfig()
		cfg.Dt = 1
		cfg.Duration = 20
		cfg.Workers = workers

		s, err := New(cfg, bodies)
		if err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		if _, err := s.Run(context.Background()); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		return s.Trajectory().Records()
	}

	serial := run(1)
	parallel := run(4)

	if len(serial) != len(parallel) {
		t.Fatalf("run lengths differ: %d vs %d", len(serial), len(parallel))
	}
	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("record %d differs between serial and parallel runs", i)
		}
	}
}

// recordingPolicy captures post-arbitration commands for assertions.
type recordingPolicy struct {
	inner sat.Policy
	cmds  []sat.Command
}

func (p *recordingPolicy) Apply(cmd sat.Command) (sat.Command, bool) {
	out, violated := p.inner.Apply(cmd)
	p.cmds = append(p.cmds, out)
	return out, violated
}

func TestRun_ImpairedConflict(t *testing.T) {
	g := NewWithT(t)

	target := &sat.Body{
		ID:      "target",
		Variant: sat.VariantTarget,
		Model:   orbit.NewLinear(),
		State: sat.KinematicState{
			Position: frame.Vec3{Y: 200},
			Attitude: frame.Identity(),
		},
	}

	impaired := leoCubeSat("impaired")
	impaired.Variant = sat.VariantImpairedCubeSat
	impaired.Model.(*orbit.TwoBody).Mu = 0
	impaired.State = sat.KinematicState{Attitude: frame.Identity()}
	impaired.Law = control.NewTrackTarget(50)
	impaired.TargetID = "target"

	policy := &recordingPolicy{inner: constraint.NewRotationXorTranslation(constraint.PreferRotation)}
	impaired.Policy = policy

	cfg := sat.DefaultConfig()
	cfg.Dt = 1
	cfg.Duration = 10

	s, err := New(cfg, []*sat.Body{impaired, target})
	g.Expect(err).NotTo(HaveOccurred())

	result, err := s.Run(context.Background())
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(result.Status).To(Equal(sat.StatusCompleted))

	// Pointing 90 degrees off and 150 m off-range: the tracker proposes
	// thrust and torque every tick, and the policy must flag each one.
	records := result.Log.ForBody("impaired")
	g.Expect(records).To(HaveLen(10))
	for _, r := range records {
		g.Expect(r.Violation).To(BeTrue())
	}

	// Committed commands never carry both components; preferring rotation
	// keeps the torque.
	eps := constraint.DefaultEpsilon
	g.Expect(policy.cmds).To(HaveLen(10))
	for _, cmd := range policy.cmds {
		g.Expect(cmd.HasForce(eps) && cmd.HasTorque(eps)).To(BeFalse())
		g.Expect(cmd.HasTorque(eps)).To(BeTrue())
	}

	// The target's records never violate anything.
	for _, r := range result.Log.ForBody("target") {
		g.Expect(r.Violation).To(BeFalse())
	}
}

func TestRun_TargetMotionLinearInTime(t *testing.T) {
	target := &sat.Body{
		ID:      "target",
		Variant: sat.VariantTarget,
		Model:   orbit.NewLinear(),
		State: sat.KinematicState{
			Velocity: frame.Vec3{X: 2, Y: -1},
			Attitude: frame.Identity(),
		},
	}

	cfg := sat.DefaultConfig()
	cfg.Dt = 1
	cfg.Duration = 30

	s, err := New(cfg, []*sat.Body{target})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, r := range s.Trajectory().ForBody("target") {
		want := frame.Vec3{X: 2, Y: -1}.Scale(r.Time)
		if r.State.Position.Sub(want).Norm() > 1e-9 {
			t.Fatalf("tick %d: position %+v, want %+v", r.Tick, r.State.Position, want)
		}
	}
}

func TestRun_DivergenceAborts(t *testing.T) {
	b := leoCubeSat("doomed")
	b.Model.(*orbit.TwoBody).PosLimit = 1e3

	cfg := sat.DefaultConfig()
	s, err := New(cfg, []*sat.Body{b})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, err := s.Run(context.Background())
	if !errors.Is(err, sat.ErrDiverged) {
		t.Fatalf("expected ErrDiverged, got %v", err)
	}
	if result.Status != sat.StatusAborted {
		t.Errorf("status = %v, want aborted", result.Status)
	}

	var dErr *sat.DivergenceError
	if !errors.As(err, &dErr) {
		t.Fatal("expected a DivergenceError")
	}
	// The failing tick never commits, so it carries the number the next
	// log record would have used. Nothing committed here, so tick 1.
	if dErr.BodyID != "doomed" || dErr.Tick != 1 {
		t.Errorf("diverged at body %q tick %d, want body %q tick 1", dErr.BodyID, dErr.Tick, "doomed")
	}
	if result.Log.Len() != 0 {
		t.Errorf("aborted first tick should commit nothing, got %d records", result.Log.Len())
	}
}

func TestRun_DivergenceTickMatchesLogNumbering(t *testing.T) {
	// Free drift from the origin at 1 km/s crosses a 3.5 km position bound
	// on the fourth tick, after three have committed.
	b := leoCubeSat("drifter")
	b.State.Position = frame.Vec3{}
	b.State.Velocity = frame.Vec3{X: 1000}
	model := b.Model.(*orbit.TwoBody)
	model.Mu = 1e-9
	model.PosLimit = 3500

	cfg := sat.DefaultConfig()
	s, err := New(cfg, []*sat.Body{b})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, err := s.Run(context.Background())
	if !errors.Is(err, sat.ErrDiverged) {
		t.Fatalf("expected ErrDiverged, got %v", err)
	}

	var dErr *sat.DivergenceError
	if !errors.As(err, &dErr) {
		t.Fatal("expected a DivergenceError")
	}
	last, ok := result.Log.Last("drifter")
	if !ok {
		t.Fatal("expected committed records before the abort")
	}
	if last.Tick != 3 {
		t.Errorf("last committed tick = %d, want 3", last.Tick)
	}
	if dErr.Tick != last.Tick+1 {
		t.Errorf("failing tick %d, want %d (one past the last committed record)", dErr.Tick, last.Tick+1)
	}
}

func TestRun_Cancellation(t *testing.T) {
	s, err := New(sat.DefaultConfig(), []*sat.Body{leoCubeSat("a")})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Status != sat.StatusAborted {
		t.Errorf("status = %v, want aborted", result.Status)
	}
	if result.Ticks != 0 {
		t.Errorf("ticks = %d, want 0 (checked between ticks)", result.Ticks)
	}
}

func TestStep_DrivesLifecycle(t *testing.T) {
	cfg := sat.DefaultConfig()
	cfg.Dt = 1
	cfg.Duration = 3

	s, err := New(cfg, []*sat.Body{leoCubeSat("a")})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if s.Status() != sat.StatusConfigured {
		t.Fatalf("status = %v, want configured", s.Status())
	}

	for i := 0; i < 3; i++ {
		if err := s.Step(); err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}

	if s.Status() != sat.StatusCompleted {
		t.Errorf("status = %v, want completed", s.Status())
	}
	if err := s.Step(); !errors.Is(err, sat.ErrNotRunning) {
		t.Errorf("step after completion: %v, want ErrNotRunning", err)
	}
}

func TestRun_SecondRunRejected(t *testing.T) {
	s, err := New(sat.DefaultConfig(), []*sat.Body{leoCubeSat("a")})
	if err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, err := s.Run(context.Background()); !errors.Is(err, sat.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
