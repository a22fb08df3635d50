package sakura

import (
	"math"
	"math/rand/v2"
)

// AmbientConfig controls the decorative petals drifting behind the text.
type AmbientConfig struct {
	Count int `yaml:"count"`
	// Spread is the width/height of the square the petals spawn in, scene units.
	Spread float64 `yaml:"spread"`
	// Depth is the z range; negative values sit behind the text plane.
	Depth Range `yaml:"depth"`
	// Scale is drawn independently for each axis.
	Scale     Range `yaml:"scale"`
	FallSpeed Range `yaml:"fall_speed"`
	// DriftSpeed is the sideways speed; negative values drift left.
	DriftSpeed Range `yaml:"drift_speed"`
	RotSpeed   Range `yaml:"rot_speed"`
	// Floor and Ceiling bound the fall: a petal below Floor respawns at Ceiling.
	Floor   float64 `yaml:"floor"`
	Ceiling float64 `yaml:"ceiling"`
	// WrapSpread is the horizontal range used on respawn.
	WrapSpread float64 `yaml:"wrap_spread"`
	Color      string  `yaml:"color"`
	Opacity    float64 `yaml:"opacity"`
	// QuadSize is the drawn edge length at scale 1, scene units.
	QuadSize float64 `yaml:"quad_size"`
}

// BackgroundPetal is an ambient decoration not tied to the text.
type BackgroundPetal struct {
	X, Y, Z        float64
	ScaleX, ScaleY float64
	Rotation       float64
	FallSpeed      float64
	DriftSpeed     float64
	RotSpeed       float64
}

// Ambient owns the background petals.
type Ambient struct {
	cfg    AmbientConfig
	petals []BackgroundPetal
	rng    *rand.Rand
}

// NewAmbient seeds cfg.Count petals.
func NewAmbient(cfg AmbientConfig, rng *rand.Rand) *Ambient {
	a := &Ambient{cfg: cfg, rng: rng, petals: make([]BackgroundPetal, cfg.Count)}
	for i := range a.petals {
		a.petals[i] = BackgroundPetal{
			X:          (rng.Float64() - 0.5) * cfg.Spread,
			Y:          (rng.Float64() - 0.5) * cfg.Spread,
			Z:          cfg.Depth.Random(rng),
			ScaleX:     cfg.Scale.Random(rng),
			ScaleY:     cfg.Scale.Random(rng),
			Rotation:   rng.Float64() * 2 * math.Pi,
			FallSpeed:  cfg.FallSpeed.Random(rng),
			DriftSpeed: cfg.DriftSpeed.Random(rng),
			RotSpeed:   cfg.RotSpeed.Random(rng),
		}
	}
	return a
}

// Update moves every petal by ticks reference frames, wrapping petals that
// fall below the floor back to the ceiling at a new horizontal position.
func (a *Ambient) Update(ticks float64) {
	for i := range a.petals {
		p := &a.petals[i]
		p.Y -= p.FallSpeed * ticks
		p.X += p.DriftSpeed * ticks
		p.Rotation += p.RotSpeed * ticks
		if p.Y < a.cfg.Floor {
			p.Y = a.cfg.Ceiling
			p.X = (a.rng.Float64() - 0.5) * a.cfg.WrapSpread
		}
	}
}

// Petals returns the current petals. The slice MUST NOT be mutated.
func (a *Ambient) Petals() []BackgroundPetal {
	return a.petals
}
