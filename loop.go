package sakura

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"
)

// referenceTPS is the frame rate the per-tick animation constants were tuned
// at. Elapsed time is converted to fractional ticks of 1/referenceTPS s.
const referenceTPS = 60

// maxFrameStep caps the elapsed time consumed by one frame so a stalled
// window does not fast-forward every petal to its end state.
const maxFrameStep = 100 * time.Millisecond

// ErrClosed is returned by Frame after Close.
var ErrClosed = errors.New("sakura: loop closed")

// LoopOptions are the externally supplied inputs of a Loop.
type LoopOptions struct {
	// Mobile selects the mobile preset.
	Mobile bool
	// Width and Height are the initial viewport size in pixels.
	Width, Height int
	// FontTTF overrides the configured font. Nil loads Config.Font.Path, or
	// the embedded bold font when that is empty or unreadable.
	FontTTF []byte
}

// Stats is a snapshot of the loop's counters.
type Stats struct {
	Frames      uint64
	Refreshes   uint64
	Petals      int
	Coordinates int
	LastDelta   Delta
	FrameTime   time.Duration
}

// Loop owns all per-frame state: the typist, the rasterizer, and the scene.
// It is driven by Frame from a single goroutine and has no rendering surface
// of its own.
type Loop struct {
	cfg    Config
	mobile bool
	viewW  float64
	viewH  float64
	ttf    []byte
	rng    *rand.Rand

	typist   *Typist
	raster   *Rasterizer
	composer *Composer

	now     time.Duration
	started bool
	focused bool
	focusAt time.Duration
	closed  bool
	stats   Stats
	instBuf []Instance
}

// NewLoop builds a loop for cfg. The first reveal happens on the first Frame.
func NewLoop(cfg Config, opts LoopOptions) (*Loop, error) {
	l := &Loop{
		cfg:     cfg,
		mobile:  opts.Mobile,
		viewW:   float64(opts.Width),
		viewH:   float64(opts.Height),
		ttf:     opts.FontTTF,
		rng:     newRand(cfg.Seed),
		focused: true,
	}
	if l.ttf == nil {
		l.ttf = loadFont(cfg.Font.Path)
	}
	l.typist = NewTypist(ParseScript(cfg.Script.Text, cfg.Directives()), cfg.Typing())
	if err := l.buildScene(); err != nil {
		return nil, err
	}
	Logger().Info("loop started",
		"mobile", l.mobile,
		"tokens", l.typist.script.Len(),
		"viewport_w", opts.Width,
		"viewport_h", opts.Height,
	)
	return l, nil
}

// loadFont reads path, falling back to the embedded font on any error.
func loadFont(path string) []byte {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		Logger().Warn("font unreadable, using embedded bold font", "path", path, "err", err)
		return nil
	}
	return data
}

// buildScene (re)creates the rasterizer and composer for the current device
// class. Existing petals are discarded.
func (l *Loop) buildScene() error {
	r, err := NewRasterizer(l.ttf, l.cfg.RasterOptions(l.mobile))
	if err != nil && l.ttf != nil {
		Logger().Warn("font rejected, using embedded bold font", "err", err)
		l.ttf = nil
		r, err = NewRasterizer(nil, l.cfg.RasterOptions(l.mobile))
	}
	if err != nil {
		return fmt.Errorf("sakura: build scene: %w", err)
	}
	if l.raster != nil {
		_ = l.raster.Close()
	}
	l.raster = r
	old := l.composer
	l.composer = NewComposer(r, l.cfg.Composer(l.mobile), l.viewW, l.viewH, l.rng)
	if old != nil {
		cam := l.composer.Camera()
		cam.Yaw, cam.Pitch = old.Camera().Yaw, old.Camera().Pitch
	}
	if l.started || l.typist.Text() != "" {
		l.refresh(l.typist.Text())
	}
	return nil
}

// Frame advances the loop to now, a monotonic clock measured from any fixed
// origin: it reveals at most one token, reconciles the petals when the text
// changed, and steps the animation by the elapsed time.
func (l *Loop) Frame(now time.Duration) error {
	if l.closed {
		return ErrClosed
	}
	dt := time.Duration(0)
	if l.started {
		dt = now - l.now
	}
	dt = max(0, min(dt, maxFrameStep))
	l.now = now
	l.started = true

	if text, changed := l.typist.Advance(now); changed {
		l.refresh(text)
	}
	l.composer.Tick(dt.Seconds() * referenceTPS)
	l.composer.UpdateCursor((now - l.focusAt).Seconds(), l.focused)

	l.stats.Frames++
	l.stats.FrameTime = dt
	l.stats.Petals = l.composer.PetalCount()
	l.stats.Coordinates = len(l.composer.Coordinates())
	return nil
}

func (l *Loop) refresh(text string) {
	d := l.composer.Refresh(text)
	l.stats.Refreshes++
	l.stats.LastDelta = d
	if d.Changed() {
		Logger().Debug("reconciled",
			"carried", d.Carried,
			"added", d.Added,
			"removed", d.Removed,
			"petals", l.composer.PetalCount(),
		)
	}
}

// Skip reveals the whole script now, cancelling a pending pause. It is a
// no-op once the reveal is complete.
func (l *Loop) Skip() {
	if l.closed {
		return
	}
	if l.typist.Skip() {
		l.refresh(l.typist.Text())
	}
}

// Edit applies a post-completion text change. Edits before completion are
// ignored.
func (l *Loop) Edit(e Edit) {
	if l.closed {
		return
	}
	if l.typist.Edit(e) {
		l.refresh(l.typist.Text())
	}
}

// SetFocus shows or hides the caret. Gaining focus restarts the blink.
func (l *Loop) SetFocus(focused bool) {
	if focused && !l.focused {
		l.focusAt = l.now
	}
	l.focused = focused
}

// Orbit turns the camera for a pointer drag of (dx, dy) pixels.
func (l *Loop) Orbit(dx, dy float64) {
	if l.closed {
		return
	}
	l.composer.Camera().Orbit(dx, dy)
}

// Resize updates the viewport and refits the camera.
func (l *Loop) Resize(w, h int) {
	if l.closed || (float64(w) == l.viewW && float64(h) == l.viewH) {
		return
	}
	l.viewW, l.viewH = float64(w), float64(h)
	l.composer.Resize(l.viewW, l.viewH)
}

// SetMobile switches the device preset, rebuilding the scene with the
// current text.
func (l *Loop) SetMobile(mobile bool) error {
	if l.closed || mobile == l.mobile {
		return nil
	}
	l.mobile = mobile
	Logger().Info("device preset changed", "mobile", mobile)
	return l.buildScene()
}

// Close releases the rasterizer. Frame returns ErrClosed afterwards and
// intents are ignored. Close is idempotent.
func (l *Loop) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	Logger().Info("loop closed", "frames", l.stats.Frames)
	return l.raster.Close()
}

// Instances returns the frame's render records. The returned slice is reused
// by the next call.
func (l *Loop) Instances() []Instance {
	l.instBuf = l.composer.Instances(l.instBuf[:0])
	return l.instBuf
}

// Cursor returns the caret indicator for the current frame.
func (l *Loop) Cursor() CursorState { return l.composer.Cursor() }

// CursorColor returns the caret tint.
func (l *Loop) CursorColor() Color { return l.composer.CursorColor() }

// Camera returns the scene camera.
func (l *Loop) Camera() *Camera { return l.composer.Camera() }

// Composer returns the scene.
func (l *Loop) Composer() *Composer { return l.composer }

// Complete reports whether the scripted reveal has finished.
func (l *Loop) Complete() bool { return l.typist.Complete() }

// Text returns the revealed text.
func (l *Loop) Text() string { return l.typist.Text() }

// Mobile reports whether the mobile preset is active.
func (l *Loop) Mobile() bool { return l.mobile }

// Focused reports whether the caret is shown.
func (l *Loop) Focused() bool { return l.focused }

// Closed reports whether Close was called.
func (l *Loop) Closed() bool { return l.closed }

// Now returns the clock value of the last Frame.
func (l *Loop) Now() time.Duration { return l.now }

// Stats returns the loop counters.
func (l *Loop) Stats() Stats { return l.stats }
