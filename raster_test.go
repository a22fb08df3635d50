package sakura

import (
	"image"
	"testing"
)

func newTestRasterizer(t *testing.T) *Rasterizer {
	t.Helper()
	r, err := NewRasterizer(nil, RasterOptions{SizePx: 32, LineHeight: 1.1})
	if err != nil {
		t.Fatalf("NewRasterizer: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestRasterizeEmpty(t *testing.T) {
	r := newTestRasterizer(t)
	for _, text := range []string{"", " ", "   "} {
		m, _ := r.Rasterize(text)
		if m.Count() != 0 {
			t.Errorf("Rasterize(%q) inked %d cells, want 0", text, m.Count())
		}
	}
}

func TestRasterizeInk(t *testing.T) {
	r := newTestRasterizer(t)
	m, box := r.Rasterize("A")
	if m.Empty() {
		t.Fatal("mask is empty")
	}
	if m.W != box.W || m.H != box.H {
		t.Errorf("mask %dx%d, box %dx%d", m.W, m.H, box.W, box.H)
	}
	if m.Count() == 0 {
		t.Error("no ink for A")
	}
}

func TestRasterizeDeterministic(t *testing.T) {
	r := newTestRasterizer(t)
	a, _ := r.Rasterize("Hi")
	b, _ := r.Rasterize("Hi")
	if a.W != b.W || a.H != b.H {
		t.Fatalf("sizes differ: %dx%d vs %dx%d", a.W, a.H, b.W, b.H)
	}
	for i := range a.Bits {
		if a.Bits[i] != b.Bits[i] {
			t.Fatalf("cell %d differs", i)
		}
	}
}

func TestRasterizePrefixIsStable(t *testing.T) {
	// Appending a glyph must not move the ink of the earlier ones.
	r := newTestRasterizer(t)
	a, _ := r.Rasterize("L")
	b, _ := r.Rasterize("LL")
	for y := 0; y < a.H; y++ {
		for x := 0; x < a.W; x++ {
			if a.At(x, y) && !b.At(x, y) {
				t.Fatalf("cell (%d,%d) inked for L but not for LL", x, y)
			}
		}
	}
}

func TestMeasureLines(t *testing.T) {
	r := newTestRasterizer(t)
	one := r.Measure("ab")
	two := r.Measure("ab\ncd")
	if one.Lines != 1 || two.Lines != 2 {
		t.Fatalf("Lines = %d, %d, want 1, 2", one.Lines, two.Lines)
	}
	if two.H != 2*one.H {
		t.Errorf("H = %d, want %d", two.H, 2*one.H)
	}
	if one.CaretY != 0 {
		t.Errorf("CaretY = %v, want 0", one.CaretY)
	}
	assertNear(t, "CaretY", two.CaretY, float64(one.H))
}

func TestMeasureCaretOnEmptyLastLine(t *testing.T) {
	r := newTestRasterizer(t)
	box := r.Measure("abc\n")
	if box.CaretX != 0 {
		t.Errorf("CaretX = %v, want 0", box.CaretX)
	}
	if box.Lines != 2 {
		t.Errorf("Lines = %d, want 2", box.Lines)
	}
}

func TestRasterizeThickening(t *testing.T) {
	thin := newTestRasterizer(t)
	thick, err := NewRasterizer(nil, RasterOptions{
		SizePx:  32,
		Offsets: []image.Point{{X: 1}, {Y: 1}, {X: 1, Y: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer thick.Close()

	a, _ := thin.Rasterize("I")
	b, _ := thick.Rasterize("I")
	if b.Count() <= a.Count() {
		t.Errorf("thickened ink %d, want more than %d", b.Count(), a.Count())
	}
	if b.W != a.W+1 {
		t.Errorf("thickened width %d, want %d", b.W, a.W+1)
	}
}

func TestNewRasterizerErrors(t *testing.T) {
	if _, err := NewRasterizer(nil, RasterOptions{}); err == nil {
		t.Error("expected error for zero size")
	}
	if _, err := NewRasterizer([]byte("not a font"), RasterOptions{SizePx: 10}); err == nil {
		t.Error("expected error for invalid font data")
	}
}

func TestMaskBounds(t *testing.T) {
	m := NewMask(2, 2)
	m.Set(-1, 0, true)
	m.Set(5, 5, true)
	if m.Count() != 0 {
		t.Errorf("Count = %d, want 0", m.Count())
	}
	m.Set(1, 1, true)
	if !m.At(1, 1) || m.At(0, 0) || m.At(9, 9) {
		t.Error("At mismatch")
	}
	c := m.Clone()
	c.Set(1, 1, false)
	if !m.At(1, 1) {
		t.Error("Clone shares storage")
	}
	if !NewMask(0, 3).Empty() {
		t.Error("zero-width mask should be empty")
	}
}
