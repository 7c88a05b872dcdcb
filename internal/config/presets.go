package config

import "sort"

// ISS TLE used by the sgp4-track preset.
const (
	issTLE1  = "1 25544U 98067A   08264.51782528 -.00002182  00000-0 -11606-4 0  2927"
	issTLE2  = "2 25544  51.6416 247.4627 0006703 130.5360 325.0288 15.72125391563537"
	issEpoch = "2008-09-20T12:25:40Z"
)

var presets = map[string]*Config{
	"leo-hold": {
		Name:     "leo-hold",
		Dt:       1.0,
		Duration: 60.0,
		Bodies: []BodyConfig{
			{
				ID:      "cubesat",
				Variant: "cubesat",
				Mass:    4.0,
				Inertia: [3]float64{0.1, 0.1, 0.1},
				Initial: InitialState{
					Position: [3]float64{7000e3, 0, 0},
					Velocity: [3]float64{0, 7.5e3, 0},
				},
				Law: &LawConfig{Type: "hold_attitude", Kp: 0.1, Kd: 0.5},
			},
		},
	},
	"chase": {
		Name:     "chase",
		Dt:       0.5,
		Duration: 300.0,
		Bodies: []BodyConfig{
			{
				ID:      "chaser",
				Variant: "cubesat",
				Mass:    4.0,
				Inertia: [3]float64{0.1, 0.1, 0.1},
				Mu:      1e-9, // free space, proximity frame
				Law: &LawConfig{
					Type:     "track_target",
					Target:   "target",
					Standoff: 50,
				},
			},
			{
				ID:      "target",
				Variant: "target",
				Motion:  "linear",
				Initial: InitialState{
					Position:        [3]float64{200, 100, 0},
					Velocity:        [3]float64{-0.4, 0, 0},
					AngularVelocity: [3]float64{0, 0, 0.05},
				},
			},
		},
	},
	"impaired-chase": {
		Name:     "impaired-chase",
		Dt:       0.5,
		Duration: 300.0,
		Bodies: []BodyConfig{
			{
				ID:      "impaired",
				Variant: "impaired_cubesat",
				Mass:    4.0,
				Inertia: [3]float64{0.1, 0.1, 0.1},
				Mu:      1e-9,
				Policy:  PolicyConfig{TieBreak: "rotation"},
				Law: &LawConfig{
					Type:     "track_target",
					Target:   "target",
					Standoff: 50,
				},
			},
			{
				ID:      "target",
				Variant: "target",
				Motion:  "linear",
				Initial: InitialState{
					Position: [3]float64{200, 100, 0},
					Velocity: [3]float64{-0.4, 0, 0},
				},
			},
		},
	},
	"sgp4-track": {
		Name:     "sgp4-track",
		Dt:       1.0,
		Duration: 600.0,
		Bodies: []BodyConfig{
			{
				ID:      "observer",
				Variant: "cubesat",
				Mass:    4.0,
				Inertia: [3]float64{0.1, 0.1, 0.1},
				Initial: InitialState{
					Position: [3]float64{6778e3, 0, 0},
					Velocity: [3]float64{0, 7.67e3, 0},
				},
				Law: &LawConfig{
					Type:      "track_target",
					Target:    "iss",
					Standoff:  100e3,
					MaxForce:  0.1,
					MaxTorque: 0.05,
				},
			},
			{
				ID:      "iss",
				Variant: "target",
				Motion:  "sgp4",
				TLE1:    issTLE1,
				TLE2:    issTLE2,
				Epoch:   issEpoch,
			},
		},
	},
}

// GetPreset returns a named scenario, or nil if unknown. Run-level fields
// not set by the preset fall back to defaults.
func GetPreset(name string) *Config {
	p, ok := presets[name]
	if !ok {
		return nil
	}

	cfg := DefaultConfig()
	merged := *p
	// Deep-copy the bodies so callers can edit the returned scenario
	// without rewriting the stored preset.
	merged.Bodies = append([]BodyConfig(nil), p.Bodies...)
	for i := range merged.Bodies {
		if law := merged.Bodies[i].Law; law != nil {
			clone := *law
			merged.Bodies[i].Law = &clone
		}
	}
	if merged.Dt == 0 {
		merged.Dt = cfg.Dt
	}
	if merged.Duration == 0 {
		merged.Duration = cfg.Duration
	}
	if merged.DivergenceLimit == 0 {
		merged.DivergenceLimit = cfg.DivergenceLimit
	}
	if merged.VelocityLimit == 0 {
		merged.VelocityLimit = cfg.VelocityLimit
	}
	if merged.QuatTolerance == 0 {
		merged.QuatTolerance = cfg.QuatTolerance
	}
	return &merged
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
