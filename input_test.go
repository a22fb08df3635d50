package sakura

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestIntentsBeforeComplete(t *testing.T) {
	tests := []struct {
		name string
		f    inputFrame
		skip bool
	}{
		{"nothing", inputFrame{}, false},
		{"mouse", inputFrame{mouseUp: true}, true},
		{"touch", inputFrame{touchUp: true}, true},
		{"key", inputFrame{releasedKeys: []ebiten.Key{ebiten.KeyA}}, true},
		{"typing ignored", inputFrame{chars: []rune("ab"), backspace: 1, enter: true}, false},
		{"control only", inputFrame{screenshot: true}, false},
	}
	for _, tt := range tests {
		in := intents(&tt.f, false)
		if in.skip != tt.skip {
			t.Errorf("%s: skip = %v, want %v", tt.name, in.skip, tt.skip)
		}
		if in.edit != (Edit{}) {
			t.Errorf("%s: edit = %+v before completion", tt.name, in.edit)
		}
	}
}

func TestIntentsAfterComplete(t *testing.T) {
	f := inputFrame{
		mouseUp:      true,
		releasedKeys: []ebiten.Key{ebiten.KeyA},
		chars:        []rune("hé"),
		backspace:    1,
		enter:        true,
	}
	in := intents(&f, true)
	if in.skip {
		t.Error("skip after completion")
	}
	if in.edit.Backspace != 1 {
		t.Errorf("Backspace = %d, want 1", in.edit.Backspace)
	}
	if in.edit.Insert != "hé\n" {
		t.Errorf("Insert = %q, want %q", in.edit.Insert, "hé\n")
	}
}

func TestIntentsControls(t *testing.T) {
	f := inputFrame{screenshot: true, toggleAudio: true, mute: true, quit: true, volumeUp: true}
	in := intents(&f, false)
	if !in.screenshot || !in.toggleAudio || !in.mute || !in.quit {
		t.Errorf("controls dropped: %+v", in)
	}
	assertNear(t, "volumeDelta", in.volumeDelta, volumeStep)

	f = inputFrame{volumeUp: true, volumeDown: true}
	if d := intents(&f, true).volumeDelta; d != 0 {
		t.Errorf("volumeDelta with both keys = %v, want 0", d)
	}
}

func TestRepeating(t *testing.T) {
	tests := []struct {
		d    int
		want bool
	}{
		{0, false},
		{1, true},
		{2, false},
		{repeatDelay - 1, false},
		{repeatDelay, true},
		{repeatDelay + 1, false},
		{repeatDelay + repeatInterval, true},
		{repeatDelay + 3*repeatInterval, true},
	}
	for _, tt := range tests {
		if got := repeating(tt.d); got != tt.want {
			t.Errorf("repeating(%d) = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestDragTrackerClick(t *testing.T) {
	var d dragTracker
	d.press(100, 100)
	if dx, dy := d.move(103, 102); dx != 0 || dy != 0 {
		t.Errorf("jitter inside the threshold moved (%d, %d)", dx, dy)
	}
	if !d.release() {
		t.Error("short press was not a click")
	}
	if d.active {
		t.Error("tracker still active after release")
	}
}

func TestDragTrackerDrag(t *testing.T) {
	var d dragTracker
	d.press(100, 100)
	d.move(104, 100)
	if dx, dy := d.move(110, 100); dx != 10 || dy != 0 {
		t.Errorf("first drag motion = (%d, %d), want (10, 0) from the press point", dx, dy)
	}
	if dx, dy := d.move(115, 97); dx != 5 || dy != -3 {
		t.Errorf("drag motion = (%d, %d), want (5, -3)", dx, dy)
	}
	// Coming back near the press point is still a drag.
	d.move(100, 100)
	if d.release() {
		t.Error("drag counted as a click")
	}
}

func TestDragTrackerIdle(t *testing.T) {
	var d dragTracker
	if dx, dy := d.move(50, 50); dx != 0 || dy != 0 {
		t.Errorf("move without press = (%d, %d)", dx, dy)
	}
	if d.release() {
		t.Error("release without press counted as a click")
	}
}

func TestIntentsOrbit(t *testing.T) {
	f := inputFrame{orbitX: 12, orbitY: -4}
	for _, complete := range []bool{false, true} {
		in := intents(&f, complete)
		if in.orbitX != 12 || in.orbitY != -4 {
			t.Errorf("complete=%v: orbit = (%v, %v), want (12, -4)", complete, in.orbitX, in.orbitY)
		}
		if in.skip {
			t.Errorf("complete=%v: drag skipped", complete)
		}
	}
}
