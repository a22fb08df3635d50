package sakura

import (
	"math"
	"math/rand/v2"
)

// Layer orders instances for drawing: ambient petals first, small petals last.
type Layer uint8

const (
	LayerAmbient Layer = iota // background petals
	LayerPrimary              // VariantPrimary text petals
	LayerSmall                // VariantSmall text petals
)

// Instance is one render-ready petal: scene position, billboard spin,
// quad size, per-axis scale, and tint.
type Instance struct {
	Layer   Layer
	X, Y, Z float64
	// Size is the quad edge length at scale 1, scene units.
	Size           float64
	ScaleX, ScaleY float64
	Rotation       float64
	Color          Color
}

// CursorConfig describes the caret bar in scene units.
type CursorConfig struct {
	Color string `yaml:"color"`
	// Size is the bar's width and height.
	Size Vec2 `yaml:"size"`
	// Offset shifts the bar from the caret point.
	Offset Vec2 `yaml:"offset"`
	// BlinkRate multiplies seconds since focus before the pulse curve.
	BlinkRate float64 `yaml:"blink_rate"`
}

// CursorState is the caret indicator for the current frame. Scene
// coordinates are the caret point; screen coordinates are the center of the
// offset bar projected through the camera.
type CursorState struct {
	SceneX, SceneY   float64
	ScreenX, ScreenY float64
	// Width and Height are the projected bar size in pixels.
	Width, Height float64
	Opacity       float64
}

// ComposerConfig groups everything the composer needs for one device class.
type ComposerConfig struct {
	// FontScale converts rasterized pixels to scene units.
	FontScale float64
	Camera    CameraConfig
	Petals    PetalConfig
	Ambient   AmbientConfig
	Cursor    CursorConfig
}

// Composer owns the text petals, background petals, camera, and cursor and
// turns them into an instance buffer each frame.
type Composer struct {
	cfg    ComposerConfig
	raster *Rasterizer
	rng    *rand.Rand

	camera  *Camera
	ambient *Ambient
	arena   PetalArena
	coords  []Coordinate
	spare   []Coordinate
	mask    *Mask

	box         TextBox
	wScene      float64
	hScene      float64
	cursor      CursorState
	cursorColor Color
	ambientTint Color
}

// NewComposer creates an empty scene for a viewport of viewW×viewH pixels.
func NewComposer(raster *Rasterizer, cfg ComposerConfig, viewW, viewH float64, rng *rand.Rand) *Composer {
	amb := Hex(cfg.Ambient.Color)
	amb.A = cfg.Ambient.Opacity
	return &Composer{
		cfg:         cfg,
		raster:      raster,
		rng:         rng,
		camera:      NewCamera(cfg.Camera, viewW, viewH),
		ambient:     NewAmbient(cfg.Ambient, rng),
		cursorColor: Hex(cfg.Cursor.Color),
		ambientTint: amb,
	}
}

// Refresh re-rasterizes text and reconciles the petal set against it: new
// ink spawns petals, vanished ink starts shrinking, and everything else is
// left untouched. It then refits the camera and moves the cursor.
func (c *Composer) Refresh(text string) Delta {
	mask, box := c.raster.Rasterize(text)
	c.mask = mask
	d := c.reconcile()

	scale := c.cfg.FontScale
	c.box = box
	c.wScene = float64(box.W) * scale
	c.hScene = float64(box.H) * scale
	c.camera.Fit(c.wScene, c.hScene)
	c.cursor.SceneX = -0.5*c.wScene + box.CaretX*scale
	c.cursor.SceneY = 0.5*c.hScene - box.CaretY*scale
	return d
}

// reconcile maps the coordinates onto the current mask, spawning petals for
// new coordinates and shrinking the ones that lost their ink.
func (c *Composer) reconcile() Delta {
	next, d := Reconcile(c.spare, c.mask, c.coords)
	c.spare = c.coords[:0]
	c.coords = next

	pc := &c.cfg.Petals
	scale := c.cfg.FontScale
	for i := range c.coords {
		co := &c.coords[i]
		switch {
		case co.Petal == NoPetal:
			co.Petal = c.arena.Alloc(NewPetal(float64(co.X)*scale, float64(co.Y)*scale, pc, c.rng))
		case co.MarkedForRemoval:
			if p := c.arena.Get(co.Petal); p != nil {
				*p = p.MarkForRemoval(pc)
			}
		}
	}
	return d
}

// Tick advances every petal and the camera. ticks is elapsed time in 1/60 s
// reference frames. Petals that finish shrinking are released together with
// their coordinates, and inked cells they held get a fresh petal.
func (c *Composer) Tick(ticks float64) {
	pc := &c.cfg.Petals
	c.arena.Each(func(_ PetalID, p *Petal) {
		*p = p.Step(ticks, pc)
	})
	n := len(c.coords)
	c.coords = Prune(c.coords, func(id PetalID) bool {
		p := c.arena.Get(id)
		if p == nil {
			return true
		}
		if p.State == PetalRemoved {
			c.arena.Release(id)
			return true
		}
		return false
	})
	if len(c.coords) < n && c.mask != nil {
		c.reconcile()
	}
	c.ambient.Update(ticks)
	c.camera.update(float32(ticks / referenceTPS))
}

// UpdateCursor projects the caret bar and sets its opacity from seconds
// since focus. An unfocused caret is hidden.
func (c *Composer) UpdateCursor(sinceFocus float64, focused bool) {
	cc := &c.cfg.Cursor
	cx := c.cursor.SceneX + cc.Offset.X
	cy := c.cursor.SceneY + cc.Offset.Y
	if sx, sy, ppu, ok := c.camera.Project(cx, cy, 0); ok {
		c.cursor.ScreenX, c.cursor.ScreenY = sx, sy
		c.cursor.Width, c.cursor.Height = cc.Size.X*ppu, cc.Size.Y*ppu
	}
	if !focused {
		c.cursor.Opacity = 0
		return
	}
	c.cursor.Opacity = math.Max(0, math.Min(1, roundPulse(cc.BlinkRate*sinceFocus)))
}

// Resize updates the camera viewport and refits the current text block.
func (c *Composer) Resize(viewW, viewH float64) {
	c.camera.SetViewport(viewW, viewH)
	c.camera.Fit(c.wScene, c.hScene)
}

// roundPulse is a square-ish blink: positive half-periods rise quickly to 1,
// negative ones stay hidden.
func roundPulse(t float64) float64 {
	frac := t - math.Floor(t)
	s := math.Sin(t * math.Pi)
	sign := 0.0
	switch {
	case s > 0:
		sign = 1
	case s < 0:
		sign = -1
	}
	return sign * math.Pow(math.Sin(frac*3.14), 0.2)
}

// Instances appends the frame's render records to dst: ambient petals, then
// primary petals, then small petals. Removed petals are skipped.
func (c *Composer) Instances(dst []Instance) []Instance {
	for _, p := range c.ambient.Petals() {
		dst = append(dst, Instance{
			Layer:    LayerAmbient,
			X:        p.X,
			Y:        p.Y,
			Z:        p.Z,
			Size:     c.cfg.Ambient.QuadSize,
			ScaleX:   p.ScaleX,
			ScaleY:   p.ScaleY,
			Rotation: p.Rotation,
			Color:    c.ambientTint,
		})
	}
	dst = c.appendVariant(dst, VariantPrimary, LayerPrimary)
	dst = c.appendVariant(dst, VariantSmall, LayerSmall)
	return dst
}

func (c *Composer) appendVariant(dst []Instance, v Variant, layer Layer) []Instance {
	pc := &c.cfg.Petals
	vc := pc.Variant(v)
	c.arena.Each(func(_ PetalID, p *Petal) {
		if p.Variant != v || p.State == PetalRemoved {
			return
		}
		dst = append(dst, Instance{
			Layer:    layer,
			X:        p.X - 0.5*c.wScene,
			Y:        (c.hScene - p.Y) - 0.5*c.hScene + vc.Lift*p.Scale,
			Z:        p.Z,
			Size:     vc.QuadSize,
			ScaleX:   p.Scale,
			ScaleY:   p.Scale,
			Rotation: p.Rotation,
			Color:    p.Color(pc),
		})
	})
	return dst
}

// Cursor returns the caret indicator state.
func (c *Composer) Cursor() CursorState {
	return c.cursor
}

// CursorColor returns the configured caret tint.
func (c *Composer) CursorColor() Color {
	return c.cursorColor
}

// Camera returns the scene camera.
func (c *Composer) Camera() *Camera {
	return c.camera
}

// Coordinates returns the current sampled coordinates. MUST NOT be mutated.
func (c *Composer) Coordinates() []Coordinate {
	return c.coords
}

// Petal returns the petal for id, or nil.
func (c *Composer) Petal(id PetalID) *Petal {
	return c.arena.Get(id)
}

// PetalCount returns the number of live petals, including shrinking ones.
func (c *Composer) PetalCount() int {
	return c.arena.Len()
}

// TextBox returns the last measured text layout in pixels.
func (c *Composer) TextBox() TextBox {
	return c.box
}

// SceneSize returns the text block size in scene units.
func (c *Composer) SceneSize() (w, h float64) {
	return c.wScene, c.hScene
}
