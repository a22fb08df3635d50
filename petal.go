package sakura

import (
	"math"
	"math/rand/v2"
)

// Variant selects a petal's size distribution and palette.
type Variant uint8

const (
	VariantPrimary Variant = iota // fewer, larger accent petals
	VariantSmall                  // many tiny background-ink petals
)

// PetalState is the lifecycle stage of a petal.
type PetalState uint8

const (
	PetalGrowing   PetalState = iota // scale rising toward MaxScale
	PetalIdle                        // fluttering around MaxScale
	PetalShrinking                   // decaying toward zero
	PetalRemoved                     // scale reached zero; slot can be reused
)

func (s PetalState) String() string {
	switch s {
	case PetalGrowing:
		return "growing"
	case PetalIdle:
		return "idle"
	case PetalShrinking:
		return "shrinking"
	case PetalRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// VariantConfig controls how one petal variant is spawned and drawn.
type VariantConfig struct {
	// MaxScale is MaxScaleMin + MaxScaleSpan * r^MaxScaleBias for uniform r;
	// a larger bias pushes most petals toward tiny sizes.
	MaxScaleMin  float64 `yaml:"max_scale_min"`
	MaxScaleSpan float64 `yaml:"max_scale_span"`
	MaxScaleBias float64 `yaml:"max_scale_bias"`
	// GrowthRate is the initial per-tick scale increment.
	GrowthRate Range `yaml:"growth_rate"`
	// AgeRate is the per-tick flutter phase advance.
	AgeRate Range `yaml:"age_rate"`
	// Rotation is the initial spin in radians.
	Rotation Range `yaml:"rotation"`
	// Jitter displaces the spawn position by up to ±Jitter/2 scene units.
	Jitter float64 `yaml:"jitter"`
	// Lift raises the drawn petal by Lift*scale scene units.
	Lift float64 `yaml:"lift"`
	// QuadSize is the drawn edge length at scale 1, scene units.
	QuadSize float64 `yaml:"quad_size"`
	// FlutterAmplitude is the Idle scale oscillation.
	FlutterAmplitude float64 `yaml:"flutter_amplitude"`
	// Hue is the HSL hue range in degrees.
	Hue        Range   `yaml:"hue"`
	Saturation float64 `yaml:"saturation"`
	Lightness  float64 `yaml:"lightness"`
	Opacity    float64 `yaml:"opacity"`
}

// PetalConfig holds the shared state-machine constants and both variants.
type PetalConfig struct {
	// SmallRatio is the probability that a new petal is VariantSmall.
	SmallRatio float64 `yaml:"small_ratio"`
	// GrowthDecay multiplies the growth rate each tick while growing.
	GrowthDecay float64 `yaml:"growth_decay"`
	// DecayAcceleration multiplies the growth rate each tick while shrinking.
	DecayAcceleration float64 `yaml:"decay_acceleration"`
	// MinDecayRate floors the rate when shrinking starts so every petal
	// finishes in a bounded number of ticks.
	MinDecayRate float64 `yaml:"min_decay_rate"`
	// FlutterSpin scales the Idle rotation drift of primary petals.
	FlutterSpin float64 `yaml:"flutter_spin"`

	Primary VariantConfig `yaml:"primary"`
	Small   VariantConfig `yaml:"small"`
}

// Variant returns the config for v.
func (c *PetalConfig) Variant(v Variant) *VariantConfig {
	if v == VariantSmall {
		return &c.Small
	}
	return &c.Primary
}

// Petal is one animated particle. Positions are in text-block scene units
// with Y growing downward; the composer flips and centers them.
type Petal struct {
	Variant Variant
	State   PetalState

	X, Y, Z    float64
	Hue        float64
	Scale      float64
	MaxScale   float64
	GrowthRate float64
	Age        float64
	AgeRate    float64
	Rotation   float64
}

// NewPetal spawns a petal at scene position (x, y), choosing the variant
// with probability cfg.SmallRatio for VariantSmall.
func NewPetal(x, y float64, cfg *PetalConfig, rng *rand.Rand) Petal {
	v := VariantPrimary
	if rng.Float64() < cfg.SmallRatio {
		v = VariantSmall
	}
	vc := cfg.Variant(v)
	p := Petal{
		Variant:    v,
		State:      PetalGrowing,
		X:          x,
		Y:          y,
		Hue:        vc.Hue.Random(rng),
		MaxScale:   vc.MaxScaleMin + vc.MaxScaleSpan*math.Pow(rng.Float64(), vc.MaxScaleBias),
		GrowthRate: vc.GrowthRate.Random(rng),
		Age:        math.Pi * rng.Float64(),
		AgeRate:    vc.AgeRate.Random(rng),
		Rotation:   vc.Rotation.Random(rng),
	}
	if vc.Jitter > 0 {
		p.X += vc.Jitter * (rng.Float64() - 0.5)
		p.Y += vc.Jitter * (rng.Float64() - 0.5)
	}
	return p
}

// MarkForRemoval moves a growing or idle petal into Shrinking. Shrinking and
// removed petals are returned unchanged.
func (p Petal) MarkForRemoval(cfg *PetalConfig) Petal {
	if p.State != PetalGrowing && p.State != PetalIdle {
		return p
	}
	p.State = PetalShrinking
	if p.GrowthRate < cfg.MinDecayRate {
		p.GrowthRate = cfg.MinDecayRate
	}
	return p
}

// Step advances p by ticks reference frames (1 tick = 1/60 s). Fractional
// ticks scale the per-tick rules so the animation is frame-rate independent.
func (p Petal) Step(ticks float64, cfg *PetalConfig) Petal {
	if ticks <= 0 {
		return p
	}
	p.Age += p.AgeRate * ticks

	switch p.State {
	case PetalGrowing:
		p.GrowthRate *= math.Pow(cfg.GrowthDecay, ticks)
		p.Scale += p.GrowthRate * ticks
		if p.Scale >= p.MaxScale {
			p.State = PetalIdle
		}
	case PetalIdle:
		vc := cfg.Variant(p.Variant)
		p.Scale = math.Max(0, p.MaxScale+vc.FlutterAmplitude*math.Sin(p.Age))
		// Small petals hold their spawn rotation.
		if p.Variant == VariantPrimary {
			p.Rotation += cfg.FlutterSpin * math.Cos(p.Age) * ticks
		}
	case PetalShrinking:
		p.GrowthRate *= math.Pow(cfg.DecayAcceleration, ticks)
		p.Scale -= p.GrowthRate * ticks
		if p.Scale <= 0 {
			p.Scale = 0
			p.GrowthRate = 0
			p.State = PetalRemoved
		}
	case PetalRemoved:
	}
	return p
}

// Color returns the petal's tint for its variant.
func (p *Petal) Color(cfg *PetalConfig) Color {
	vc := cfg.Variant(p.Variant)
	return HSL(p.Hue, vc.Saturation, vc.Lightness, vc.Opacity)
}
