package sakura

import (
	"math/rand/v2"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at vertex submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// HSL returns the color for hue in degrees and saturation/lightness in [0, 1].
func HSL(hue, sat, light, alpha float64) Color {
	c := colorful.Hsl(hue, sat, light).Clamped()
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}
}

// Hex parses a "#rrggbb" string. Malformed input yields opaque white.
func Hex(s string) Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return ColorWhite
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}
}

// Vec2 is a 2D vector used for scene-space positions and sizes.
type Vec2 struct {
	X, Y float64
}

// Range is a general-purpose min/max range.
// Used by petal tuning (PetalConfig) and background petal spawning.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Random returns a random float64 in [Min, Max] drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// newRand returns a PCG-backed generator. A zero seed picks a random one.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
