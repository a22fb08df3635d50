package sakura

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	// debugLogInterval is how often frame stats are logged at Debug level.
	debugLogInterval = 5 * time.Second
	// overlayRefresh is how often the on-screen overlay is redrawn.
	overlayRefresh = 500 * time.Millisecond
)

// debugView logs periodic frame stats and, when enabled, draws an FPS and
// petal-count overlay in the top-left corner.
type debugView struct {
	overlay bool
	img     *ebiten.Image

	lastLog     time.Duration
	lastOverlay time.Duration
	lastFrames  uint64
	drawn       int
}

// statsText formats the overlay body.
func statsText(s Stats, fps, tps float64, drawn int) string {
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\npetals: %d drawn: %d\ncoords: %d",
		fps, tps, s.Petals, drawn, s.Coordinates)
}

// update logs stats at most every debugLogInterval of loop time.
func (d *debugView) update(now time.Duration, s Stats) {
	if now-d.lastLog < debugLogInterval {
		return
	}
	elapsed := now - d.lastLog
	frames := s.Frames - d.lastFrames
	d.lastLog = now
	d.lastFrames = s.Frames
	Logger().Debug("frame stats",
		"frames", frames,
		"avg_fps", float64(frames)/elapsed.Seconds(),
		"petals", s.Petals,
		"coords", s.Coordinates,
		"drawn", d.drawn,
		"refreshes", s.Refreshes,
	)
}

// draw renders the overlay onto screen.
func (d *debugView) draw(screen *ebiten.Image, now time.Duration, s Stats) {
	if !d.overlay {
		return
	}
	if d.img == nil {
		// 160x64 fits four lines of DebugPrint text.
		d.img = ebiten.NewImage(160, 64)
		d.lastOverlay = -overlayRefresh
	}
	if now-d.lastOverlay >= overlayRefresh {
		d.lastOverlay = now
		d.img.Clear()
		d.img.Fill(color.RGBA{0, 0, 0, 128})
		ebitenutil.DebugPrint(d.img, statsText(s, ebiten.ActualFPS(), ebiten.ActualTPS(), d.drawn))
	}
	screen.DrawImage(d.img, nil)
}
