package sakura

import "testing"

func TestHintFadesAfterComplete(t *testing.T) {
	h := newHint("Click anywhere to skip", nil)
	for i := 0; i < 120; i++ {
		h.update(1.0/60, false)
	}
	if h.alpha != 1 || h.done {
		t.Fatalf("alpha = %v, done = %v while revealing", h.alpha, h.done)
	}

	h.update(hintFadeSeconds/2, true)
	if h.alpha <= 0 || h.alpha >= 1 {
		t.Errorf("alpha mid-fade = %v, want in (0, 1)", h.alpha)
	}
	// The fade never reverses, even if the text stops being complete.
	mid := h.alpha
	h.update(0.1, false)
	if h.alpha >= mid {
		t.Errorf("alpha = %v after %v, fade reversed or stalled", h.alpha, mid)
	}
	h.update(hintFadeSeconds, true)
	if h.alpha != 0 || !h.done {
		t.Errorf("alpha = %v, done = %v after fade", h.alpha, h.done)
	}
}

func TestHintSetLabel(t *testing.T) {
	f := &hintFont{lh: 10}
	h := newHint("a", f)
	h.setLabel("b", nil)
	if h.label != "b" || h.font != f {
		t.Errorf("label = %q, font kept = %v", h.label, h.font == f)
	}
}

func TestLoadHintFont(t *testing.T) {
	f, err := loadHintFont(16)
	if err != nil {
		t.Fatalf("loadHintFont: %v", err)
	}
	if f.lh <= 0 {
		t.Errorf("line height = %v", f.lh)
	}
}
