// Package config loads scenario definitions and assembles simulators from
// them. The file format is YAML; everything the core needs (time step,
// duration, per-body initial states, variants, policies, control laws)
// lives here, so the simulation packages never touch files themselves.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/RussAbbott/cubesat/internal/constraint"
	"github.com/RussAbbott/cubesat/internal/control"
	"github.com/RussAbbott/cubesat/internal/frame"
	"github.com/RussAbbott/cubesat/internal/orbit"
	"github.com/RussAbbott/cubesat/internal/sat"
	"github.com/RussAbbott/cubesat/internal/sim"
)

type Config struct {
	Name            string       `yaml:"name"`
	Dt              float64      `yaml:"dt"`
	Duration        float64      `yaml:"duration"`
	Integrator      string       `yaml:"integrator"`
	Workers         int          `yaml:"workers"`
	DivergenceLimit float64      `yaml:"divergence_limit"`
	VelocityLimit   float64      `yaml:"velocity_limit"`
	QuatTolerance   float64      `yaml:"quat_tolerance"`
	Bodies          []BodyConfig `yaml:"bodies"`
}

type BodyConfig struct {
	ID      string     `yaml:"id"`
	Variant string     `yaml:"variant"`
	Mass    float64    `yaml:"mass"`
	Inertia [3]float64 `yaml:"inertia"`

	// Motion selects the dynamics model: twobody (default), linear, sgp4.
	Motion string  `yaml:"motion"`
	Mu     float64 `yaml:"mu"`
	TLE1   string  `yaml:"tle1"`
	TLE2   string  `yaml:"tle2"`
	Epoch  string  `yaml:"epoch"`

	Initial InitialState `yaml:"initial"`
	Policy  PolicyConfig `yaml:"policy"`
	Law     *LawConfig   `yaml:"law"`
}

type InitialState struct {
	Position        [3]float64 `yaml:"position"`
	Velocity        [3]float64 `yaml:"velocity"`
	Attitude        [4]float64 `yaml:"attitude"` // w x y z; all-zero means identity
	AngularVelocity [3]float64 `yaml:"angular_velocity"`
}

type PolicyConfig struct {
	TieBreak string  `yaml:"tie_break"`
	Epsilon  float64 `yaml:"epsilon"`
}

type LawConfig struct {
	Type   string `yaml:"type"`
	Target string `yaml:"target"`

	Kp float64 `yaml:"kp"`
	Ki float64 `yaml:"ki"`
	Kd float64 `yaml:"kd"`

	KpAtt float64 `yaml:"kp_att"`
	KdAtt float64 `yaml:"kd_att"`

	Standoff  float64 `yaml:"standoff"`
	Repulsion float64 `yaml:"repulsion"`
	MaxForce  float64 `yaml:"max_force"`
	MaxTorque float64 `yaml:"max_torque"`

	Goal         [3]float64 `yaml:"goal"`
	GoalAttitude [4]float64 `yaml:"goal_attitude"`
}

func DefaultConfig() *Config {
	def := sat.DefaultConfig()
	return &Config{
		Name:            "scenario",
		Dt:              def.Dt,
		Duration:        def.Duration,
		Integrator:      "rk4",
		Workers:         def.Workers,
		DivergenceLimit: def.DivergenceLimit,
		VelocityLimit:   def.VelocityLimit,
		QuatTolerance:   def.QuatTolerance,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SimConfig maps the scenario's run-level parameters to the core config.
func (c *Config) SimConfig() sat.Config {
	return sat.Config{
		Dt:              c.Dt,
		Duration:        c.Duration,
		DivergenceLimit: c.DivergenceLimit,
		VelocityLimit:   c.VelocityLimit,
		QuatTolerance:   c.QuatTolerance,
		Workers:         c.Workers,
	}
}

// Build assembles the bodies and returns a configured simulator. All
// validation errors satisfy errors.Is(err, sat.ErrInvalidConfig).
func (c *Config) Build() (*sim.Simulator, error) {
	scheme, err := orbit.ParseIntegrator(c.Integrator)
	if err != nil {
		return nil, &sat.ConfigError{Field: "integrator", Reason: err.Error()}
	}

	bodies := make([]*sat.Body, 0, len(c.Bodies))
	for _, bc := range c.Bodies {
		b, err := c.buildBody(bc, scheme)
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, b)
	}

	return sim.New(c.SimConfig(), bodies)
}

func (c *Config) buildBody(bc BodyConfig, scheme orbit.Integrator) (*sat.Body, error) {
	variant, err := sat.ParseVariant(bc.Variant)
	if err != nil {
		return nil, &sat.ConfigError{Field: bc.ID, Reason: err.Error()}
	}

	b := &sat.Body{
		ID:      bc.ID,
		Variant: variant,
		Mass:    bc.Mass,
		Inertia: vec3(bc.Inertia),
		State: sat.KinematicState{
			Position:        vec3(bc.Initial.Position),
			Velocity:        vec3(bc.Initial.Velocity),
			Attitude:        quat(bc.Initial.Attitude),
			AngularVelocity: vec3(bc.Initial.AngularVelocity),
		},
	}

	if b.Model, err = c.buildModel(bc, b, scheme); err != nil {
		return nil, err
	}
	if b.Policy, err = buildPolicy(bc, variant); err != nil {
		return nil, err
	}
	if bc.Law != nil {
		if b.Law, err = buildLaw(bc); err != nil {
			return nil, err
		}
		b.TargetID = bc.Law.Target
	}

	return b, nil
}

func (c *Config) buildModel(bc BodyConfig, b *sat.Body, scheme orbit.Integrator) (sat.Model, error) {
	switch bc.Motion {
	case "", "twobody":
		if b.Mass <= 0 {
			return nil, &sat.ConfigError{Field: bc.ID, Reason: "twobody motion requires positive mass"}
		}
		if b.Inertia.X <= 0 || b.Inertia.Y <= 0 || b.Inertia.Z <= 0 {
			return nil, &sat.ConfigError{Field: bc.ID, Reason: "twobody motion requires positive principal inertia"}
		}
		m := orbit.NewTwoBody(b.Mass, b.Inertia)
		m.PosLimit = c.DivergenceLimit
		m.VelLimit = c.VelocityLimit
		m.QuatFloor = c.QuatTolerance
		m.Scheme = scheme
		if bc.Mu > 0 {
			m.Mu = bc.Mu
		}
		return m, nil

	case "linear":
		m := orbit.NewLinear()
		m.QuatFloor = c.QuatTolerance
		return m, nil

	case "sgp4":
		if bc.TLE1 == "" || bc.TLE2 == "" {
			return nil, &sat.ConfigError{Field: bc.ID, Reason: "sgp4 motion requires tle1 and tle2"}
		}
		epoch, err := time.Parse(time.RFC3339, bc.Epoch)
		if err != nil {
			return nil, &sat.ConfigError{Field: bc.ID, Reason: fmt.Sprintf("bad epoch: %v", err)}
		}
		m := orbit.NewSGP4(bc.TLE1, bc.TLE2, epoch)
		m.QuatFloor = c.QuatTolerance
		return m, nil

	default:
		return nil, &sat.ConfigError{Field: bc.ID, Reason: "unknown motion model " + bc.Motion}
	}
}

func buildPolicy(bc BodyConfig, variant sat.Variant) (sat.Policy, error) {
	if variant != sat.VariantImpairedCubeSat {
		return constraint.Unconstrained{}, nil
	}

	rule, err := constraint.ParseTieBreak(bc.Policy.TieBreak)
	if err != nil {
		return nil, &sat.ConfigError{Field: bc.ID, Reason: err.Error()}
	}
	p := constraint.NewRotationXorTranslation(rule)
	if bc.Policy.Epsilon > 0 {
		p.Epsilon = bc.Policy.Epsilon
	}
	return p, nil
}

func buildLaw(bc BodyConfig) (sat.Law, error) {
	lc := bc.Law
	switch lc.Type {
	case "none":
		return control.None{}, nil

	case "hold_attitude":
		l := control.NewHoldAttitude(quat(lc.GoalAttitude), lc.Kp, lc.Kd)
		l.MaxTorque = lc.MaxTorque
		return l, nil

	case "track_target":
		if lc.Target == "" {
			return nil, &sat.ConfigError{Field: bc.ID, Reason: "track_target requires a target"}
		}
		l := control.NewTrackTarget(lc.Standoff)
		if lc.KpAtt > 0 {
			l.KpAtt = lc.KpAtt
		}
		if lc.KdAtt > 0 {
			l.KdAtt = lc.KdAtt
		}
		if lc.Kp > 0 {
			l.KpPos = lc.Kp
		}
		if lc.Kd > 0 {
			l.KdPos = lc.Kd
		}
		if lc.Repulsion > 0 {
			l.Repulsion = lc.Repulsion
		}
		if lc.MaxForce > 0 {
			l.MaxForce = lc.MaxForce
		}
		if lc.MaxTorque > 0 {
			l.MaxTorque = lc.MaxTorque
		}
		return l, nil

	case "station_keep":
		l := control.NewStationKeep(vec3(lc.Goal), lc.Kp, lc.Ki, lc.Kd)
		l.MaxForce = lc.MaxForce
		return l, nil

	default:
		return nil, &sat.ConfigError{Field: bc.ID, Reason: "unknown law " + lc.Type}
	}
}

func vec3(a [3]float64) frame.Vec3 {
	return frame.Vec3{X: a[0], Y: a[1], Z: a[2]}
}

func quat(a [4]float64) frame.Quat {
	if a == [4]float64{} {
		return frame.Identity()
	}
	return frame.Quat{W: a[0], X: a[1], Y: a[2], Z: a[3]}
}
