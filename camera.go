package sakura

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

const cameraNear = 0.1

// maxPitch keeps the orbit just short of the poles so the up vector stays
// defined.
const maxPitch = math.Pi/2 - 0.01

// CameraConfig is the per-device perspective setup.
type CameraConfig struct {
	// FOV is the vertical field of view in degrees.
	FOV float64 `yaml:"fov"`
	// Distance is the starting distance from the text plane along +Z.
	Distance float64 `yaml:"distance"`
	// FitFraction is the share of the half-frustum the half text block may
	// occupy before the camera backs off.
	FitFraction float64 `yaml:"fit_fraction"`
	// FitSeconds is the duration of the push-back; zero snaps.
	FitSeconds float64 `yaml:"fit_seconds"`
	// RotateSpeed scales drag-to-orbit; a drag across the viewport height
	// turns the camera by RotateSpeed full turns. Zero disables orbiting.
	RotateSpeed float64 `yaml:"rotate_speed"`
}

// Camera is a perspective camera orbiting the origin, where the text block
// is centered on the z = 0 plane. At zero yaw and pitch it sits on +Z. Fit
// only ever moves it back along its view vector; the user drags to orbit.
// Petals are billboarded, so they always face the camera.
type Camera struct {
	// Distance is the current distance from the origin.
	Distance float64
	// Yaw turns the camera around the Y axis and Pitch lifts it above the
	// XZ plane, both in radians.
	Yaw, Pitch float64
	// ViewW and ViewH are the viewport size in pixels.
	ViewW, ViewH float64

	cfg    CameraConfig
	push   *gween.Tween
	target float64
}

// NewCamera creates a camera for cfg and the given viewport.
func NewCamera(cfg CameraConfig, viewW, viewH float64) *Camera {
	return &Camera{
		Distance: cfg.Distance,
		ViewW:    viewW,
		ViewH:    viewH,
		cfg:      cfg,
		target:   cfg.Distance,
	}
}

// SetViewport updates the viewport size after a resize.
func (c *Camera) SetViewport(w, h float64) {
	c.ViewW, c.ViewH = w, h
}

// Aspect returns the viewport width over height.
func (c *Camera) Aspect() float64 {
	if c.ViewH <= 0 {
		return 1
	}
	return c.ViewW / c.ViewH
}

// FitDistance returns the distance at which a w×h block centered at the
// origin fills FitFraction of the frustum in its tighter dimension.
func (c *Camera) FitDistance(w, h float64) float64 {
	fov := c.cfg.FOV * math.Pi / 180
	fovH := 2 * math.Atan(math.Tan(fov/2)*c.Aspect())
	dx := math.Abs(c.cfg.FitFraction * w / math.Tan(fovH/2))
	dy := math.Abs(c.cfg.FitFraction * h / math.Tan(fov/2))
	return math.Max(dx, dy)
}

// Fit pushes the camera back along its view vector so a w×h block stays
// visible. The block is measured face-on whatever the orbit. It never moves
// the camera closer: requests at or below the current target are ignored.
func (c *Camera) Fit(w, h float64) {
	need := c.FitDistance(w, h)
	if need <= c.target {
		return
	}
	c.target = need
	if c.cfg.FitSeconds <= 0 {
		c.Distance = need
		c.push = nil
		return
	}
	c.push = gween.New(float32(c.Distance), float32(need), float32(c.cfg.FitSeconds), ease.OutCubic)
}

// Target returns the distance the camera is heading to.
func (c *Camera) Target() float64 {
	return c.target
}

// update advances the push-back tween by dt seconds.
func (c *Camera) update(dt float32) {
	if c.push == nil {
		return
	}
	val, done := c.push.Update(dt)
	if d := float64(val); d > c.Distance {
		c.Distance = d
	}
	if done {
		c.Distance = c.target
		c.push = nil
	}
}

// Orbit turns the camera for a pointer drag of (dx, dy) pixels. Dragging
// right swings the camera left around the text and dragging down raises it.
func (c *Camera) Orbit(dx, dy float64) {
	if c.cfg.RotateSpeed <= 0 || c.ViewH <= 0 {
		return
	}
	k := 2 * math.Pi * c.cfg.RotateSpeed / c.ViewH
	c.Yaw = math.Mod(c.Yaw-dx*k, 2*math.Pi)
	c.Pitch = math.Max(-maxPitch, math.Min(maxPitch, c.Pitch+dy*k))
}

// basis returns the view direction from the origin to the eye and the
// screen right and up axes in scene space.
func (c *Camera) basis() (dir, right, up [3]float64) {
	sy, cy := math.Sincos(c.Yaw)
	sp, cp := math.Sincos(c.Pitch)
	dir = [3]float64{sy * cp, sp, cy * cp}
	right = [3]float64{cy, 0, -sy}
	up = [3]float64{-sy * sp, cp, -cy * sp}
	return dir, right, up
}

// focal returns the pixel focal length for the vertical FOV.
func (c *Camera) focal() float64 {
	return (c.ViewH / 2) / math.Tan(c.cfg.FOV*math.Pi/360)
}

// Project maps scene point (x, y, z) to screen pixels with Y down. ppu is
// the number of pixels per scene unit at that depth. ok is false for points
// at or behind the near plane.
func (c *Camera) Project(x, y, z float64) (sx, sy, ppu float64, ok bool) {
	dir, right, up := c.basis()
	depth := c.Distance - (x*dir[0] + y*dir[1] + z*dir[2])
	if depth <= cameraNear {
		return 0, 0, 0, false
	}
	ppu = c.focal() / depth
	sx = c.ViewW/2 + (x*right[0]+y*right[1]+z*right[2])*ppu
	sy = c.ViewH/2 - (x*up[0]+y*up[1]+z*up[2])*ppu
	return sx, sy, ppu, true
}
