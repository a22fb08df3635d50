package sakura

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// GameOptions are optional extras for NewGame.
type GameOptions struct {
	// Autoplay, when set, replays scripted intents.
	Autoplay *Autoplay
	// QuitWhenDone ends the game once the autoplay script finishes.
	QuitWhenDone bool
}

// Game adapts a Loop to ebiten.Game: it polls input into intents, drives the
// loop with the wall clock, and draws the instance buffer.
type Game struct {
	cfg   Config
	opts  GameOptions
	loop  *Loop
	audio *Soundtrack
	hint  *hint
	fonts [2]*hintFont // desktop, mobile

	input inputReader
	batch batcher
	shots screenshotQueue
	debug debugView

	petalTex *ebiten.Image
	white    *ebiten.Image
	bgTop    Color
	bgBottom Color

	start   time.Time
	lastNow time.Duration
	focused bool
	quit    bool
	outW    int
	outH    int
}

// NewGame builds the loop, loads the soundtrack and hint fonts, and returns
// a game ready for ebiten.RunGame.
func NewGame(cfg Config, opts GameOptions) (*Game, error) {
	mobile := isMobile(cfg.Display, cfg.Display.Width)
	loop, err := NewLoop(cfg, LoopOptions{
		Mobile: mobile,
		Width:  cfg.Display.Width,
		Height: cfg.Display.Height,
	})
	if err != nil {
		return nil, err
	}
	g := &Game{
		cfg:      cfg,
		opts:     opts,
		loop:     loop,
		audio:    OpenSoundtrack(cfg.Audio),
		shots:    screenshotQueue{dir: cfg.ScreenshotDir},
		debug:    debugView{overlay: cfg.Debug},
		bgTop:    Hex(cfg.Display.BackgroundTop),
		bgBottom: Hex(cfg.Display.BackgroundBottom),
		focused:  true,
		outW:     cfg.Display.Width,
		outH:     cfg.Display.Height,
	}
	for i, p := range []Preset{cfg.Presets.Desktop, cfg.Presets.Mobile} {
		f, err := loadHintFont(p.HintFontSize)
		if err != nil {
			Logger().Warn("hint font unavailable", "err", err)
			continue
		}
		g.fonts[i] = f
	}
	g.hint = newHint(cfg.Preset(mobile).HintText, g.font(mobile))
	return g, nil
}

// isMobile picks the device class for a window width.
func isMobile(d DisplayConfig, width int) bool {
	switch d.Device {
	case "mobile":
		return true
	case "desktop":
		return false
	}
	return width > 0 && width <= d.MobileMaxWidth
}

func (g *Game) font(mobile bool) *hintFont {
	if mobile {
		return g.fonts[1]
	}
	return g.fonts[0]
}

// Loop returns the underlying render loop.
func (g *Game) Loop() *Loop { return g.loop }

// Soundtrack returns the background track.
func (g *Game) Soundtrack() *Soundtrack { return g.audio }

// Skip reveals the full text.
func (g *Game) Skip() { g.loop.Skip() }

// Edit applies a post-completion edit.
func (g *Game) Edit(e Edit) { g.loop.Edit(e) }

// SetFocus forces the focus state, as if the window gained or lost focus.
func (g *Game) SetFocus(focused bool) {
	g.focused = focused
	g.loop.SetFocus(focused)
	g.audio.SetFocus(focused)
}

// Screenshot queues a labeled screenshot captured at the end of the next Draw.
func (g *Game) Screenshot(label string) { g.shots.add(label) }

// Quit ends the game at the next Update.
func (g *Game) Quit() { g.quit = true }

// Close tears everything down and releases the GPU images. No frame runs
// afterwards. Close is idempotent.
func (g *Game) Close() error {
	err := errors.Join(g.loop.Close(), g.audio.Close())
	g.petalTex = deallocate(g.petalTex)
	g.white = deallocate(g.white)
	g.debug.img = deallocate(g.debug.img)
	return err
}

// deallocate frees img's GPU memory and returns nil for reassignment.
func deallocate(img *ebiten.Image) *ebiten.Image {
	if img != nil {
		img.Deallocate()
	}
	return nil
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if g.start.IsZero() {
		g.start = time.Now()
	}
	if g.quit {
		if err := g.Close(); err != nil {
			Logger().Warn("teardown", "err", err)
		}
		return ebiten.Termination
	}
	now := time.Since(g.start)
	dt := float32(max(0, min(now-g.lastNow, maxFrameStep)).Seconds())
	g.lastNow = now

	if f := ebiten.IsFocused(); f != g.focused {
		g.SetFocus(f)
	}
	g.applyInput(intents(g.input.read(), g.loop.Complete()))

	if g.opts.Autoplay != nil {
		g.opts.Autoplay.step(g, now)
		if g.opts.QuitWhenDone && g.opts.Autoplay.Done() && g.shots.pending() == 0 {
			g.quit = true
		}
	}

	if err := g.loop.Frame(now); err != nil {
		if errors.Is(err, ErrClosed) {
			return ebiten.Termination
		}
		return err
	}
	g.hint.update(dt, g.loop.Complete())
	g.audio.Update(dt)
	g.debug.update(now, g.loop.Stats())
	return nil
}

func (g *Game) applyInput(in intentSet) {
	if in.skip {
		g.loop.Skip()
	}
	if in.edit.Backspace > 0 || in.edit.Insert != "" {
		g.loop.Edit(in.edit)
	}
	if in.screenshot {
		g.shots.add("manual")
	}
	if in.toggleAudio {
		g.audio.Toggle()
	}
	if in.mute {
		g.audio.SetMuted(!g.audio.Muted())
	}
	if in.orbitX != 0 || in.orbitY != 0 {
		g.loop.Orbit(in.orbitX, in.orbitY)
	}
	if in.volumeDelta != 0 {
		g.audio.SetVolume(g.audio.Volume() + in.volumeDelta)
	}
	if in.quit {
		g.quit = true
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.loop.Closed() {
		return
	}
	if g.white == nil {
		g.white = newWhiteTexture()
		g.petalTex = newPetalTexture()
	}
	b := screen.Bounds()

	g.batch.appendGradient(float64(b.Dx()), float64(b.Dy()), g.bgTop, g.bgBottom)
	g.batch.flush(screen, g.white)

	g.debug.drawn = g.batch.appendInstances(g.loop.Instances(), g.loop.Camera(), petalTextureSize)
	g.batch.flush(screen, g.petalTex)

	if g.batch.appendCursor(g.loop.Cursor(), g.loop.CursorColor()) {
		g.batch.flush(screen, g.white)
	}

	g.hint.draw(screen)
	g.debug.draw(screen, g.lastNow, g.loop.Stats())
	g.shots.flush(screen)
}

// Layout implements ebiten.Game. The logical screen matches the window, and
// in auto device mode the preset follows the window width.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.outW || outsideHeight != g.outH {
		g.outW, g.outH = outsideWidth, outsideHeight
		g.loop.Resize(outsideWidth, outsideHeight)
		if m := isMobile(g.cfg.Display, outsideWidth); m != g.loop.Mobile() {
			if err := g.loop.SetMobile(m); err != nil {
				Logger().Warn("device preset switch failed", "err", err)
			}
			g.hint.setLabel(g.cfg.Preset(m).HintText, g.font(m))
		}
	}
	return outsideWidth, outsideHeight
}

// Run opens a resizable window sized from the display config and runs g
// until the window closes or the game quits.
func Run(g *Game) error {
	d := g.cfg.Display
	ebiten.SetWindowTitle(d.Title)
	ebiten.SetWindowSize(d.Width, d.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err := ebiten.RunGame(g)
	if cerr := g.Close(); cerr != nil {
		Logger().Warn("teardown", "err", cerr)
	}
	return err
}
