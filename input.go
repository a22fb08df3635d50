package sakura

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Key repeat timing in ticks, used for held Backspace.
const (
	repeatDelay    = 24
	repeatInterval = 4
)

// dragThreshold is how far, in pixels, a pointer must travel while held
// before the gesture orbits the camera instead of counting as a click.
const dragThreshold = 6

// inputFrame is a snapshot of the raw input events for one tick. It is
// filled from ebiten by readInput and translated by intents, which is pure.
type inputFrame struct {
	// Released keys this tick, excluding the control keys below.
	releasedKeys []ebiten.Key
	// mouseUp and touchUp are releases that ended a click, not a drag.
	mouseUp bool
	touchUp bool
	// orbitX and orbitY are this tick's drag motion in pixels.
	orbitX, orbitY float64

	chars     []rune
	backspace int
	enter     bool

	screenshot  bool
	toggleAudio bool
	mute        bool
	volumeUp    bool
	volumeDown  bool
	quit        bool
}

// controlKeys never count as "any key" for skipping.
var controlKeys = map[ebiten.Key]bool{
	ebiten.KeyF8:       true,
	ebiten.KeyF9:       true,
	ebiten.KeyF10:      true,
	ebiten.KeyPageUp:   true,
	ebiten.KeyPageDown: true,
	ebiten.KeyEscape:   true,
}

// dragTracker tells clicks from drags for one pointer.
type dragTracker struct {
	active   bool
	dragging bool
	startX   int
	startY   int
	lastX    int
	lastY    int
}

func (d *dragTracker) press(x, y int) {
	*d = dragTracker{active: true, startX: x, startY: y, lastX: x, lastY: y}
}

// move records the pointer at (x, y) and returns the motion to orbit by.
// Motion is withheld until the pointer leaves the threshold, then the full
// distance from the press point is released at once.
func (d *dragTracker) move(x, y int) (dx, dy int) {
	if !d.active {
		return 0, 0
	}
	if !d.dragging {
		ox, oy := x-d.startX, y-d.startY
		if ox*ox+oy*oy <= dragThreshold*dragThreshold {
			d.lastX, d.lastY = x, y
			return 0, 0
		}
		d.dragging = true
		dx, dy = ox, oy
	} else {
		dx, dy = x-d.lastX, y-d.lastY
	}
	d.lastX, d.lastY = x, y
	return dx, dy
}

// release ends the gesture and reports whether it was a click.
func (d *dragTracker) release() bool {
	click := d.active && !d.dragging
	*d = dragTracker{}
	return click
}

// inputReader holds buffers and pointer state reused across ticks.
type inputReader struct {
	frame   inputFrame
	keys    []ebiten.Key
	touches []ebiten.TouchID

	mouse   dragTracker
	touch   dragTracker
	touchID ebiten.TouchID
}

// read captures this tick's input. The returned frame is reused by the next
// call.
func (r *inputReader) read() *inputFrame {
	f := &r.frame
	keys := f.releasedKeys[:0]
	r.keys = inpututil.AppendJustReleasedKeys(r.keys[:0])
	for _, k := range r.keys {
		if !controlKeys[k] {
			keys = append(keys, k)
		}
	}
	chars := ebiten.AppendInputChars(f.chars[:0])

	*f = inputFrame{
		releasedKeys: keys,
		chars:        chars,
		enter:        inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter),
		screenshot:   inpututil.IsKeyJustPressed(ebiten.KeyF8),
		toggleAudio:  inpututil.IsKeyJustPressed(ebiten.KeyF9),
		mute:         inpututil.IsKeyJustPressed(ebiten.KeyF10),
		volumeUp:     inpututil.IsKeyJustPressed(ebiten.KeyPageUp),
		volumeDown:   inpututil.IsKeyJustPressed(ebiten.KeyPageDown),
		quit:         inpututil.IsKeyJustPressed(ebiten.KeyEscape),
	}
	if repeating(inpututil.KeyPressDuration(ebiten.KeyBackspace)) {
		f.backspace = 1
	}
	r.readMouse(f)
	r.readTouch(f)
	return f
}

func (r *inputReader) readMouse(f *inputFrame) {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		r.mouse.press(ebiten.CursorPosition())
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		dx, dy := r.mouse.move(ebiten.CursorPosition())
		f.orbitX += float64(dx)
		f.orbitY += float64(dy)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		f.mouseUp = r.mouse.release()
	}
}

// readTouch follows the first finger down until it lifts. Other fingers
// are ignored.
func (r *inputReader) readTouch(f *inputFrame) {
	if !r.touch.active {
		r.touches = inpututil.AppendJustPressedTouchIDs(r.touches[:0])
		if len(r.touches) == 0 {
			return
		}
		r.touchID = r.touches[0]
		r.touch.press(ebiten.TouchPosition(r.touchID))
		return
	}
	r.touches = inpututil.AppendJustReleasedTouchIDs(r.touches[:0])
	for _, id := range r.touches {
		if id == r.touchID {
			f.touchUp = r.touch.release()
			return
		}
	}
	dx, dy := r.touch.move(ebiten.TouchPosition(r.touchID))
	f.orbitX += float64(dx)
	f.orbitY += float64(dy)
}

// repeating reports whether a key held for d ticks fires this tick.
func repeating(d int) bool {
	if d == 1 {
		return true
	}
	return d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}

// volumeStep is the change applied by one volume key press.
const volumeStep = 0.1

// intentSet is what the loop and the audio player should do this tick.
type intentSet struct {
	skip        bool
	edit        Edit
	screenshot  bool
	toggleAudio bool
	mute        bool
	volumeDelta float64
	orbitX      float64
	orbitY      float64
	quit        bool
}

// intents translates f. Drags orbit the camera at any time. Before the
// reveal completes any click, tap or non-control key release skips to the end. Afterwards, typed characters,
// Backspace and Enter edit the text.
func intents(f *inputFrame, complete bool) intentSet {
	in := intentSet{
		screenshot:  f.screenshot,
		toggleAudio: f.toggleAudio,
		mute:        f.mute,
		orbitX:      f.orbitX,
		orbitY:      f.orbitY,
		quit:        f.quit,
	}
	if f.volumeUp {
		in.volumeDelta += volumeStep
	}
	if f.volumeDown {
		in.volumeDelta -= volumeStep
	}
	if !complete {
		in.skip = f.mouseUp || f.touchUp || len(f.releasedKeys) > 0
		return in
	}
	in.edit.Backspace = f.backspace
	if len(f.chars) > 0 {
		in.edit.Insert = string(f.chars)
	}
	if f.enter {
		in.edit.Insert += "\n"
	}
	return in
}
