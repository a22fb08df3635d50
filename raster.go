package sakura

import (
	"fmt"
	"image"
	"math"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Mask is a binary occupancy grid, row-major, true where glyph ink covers a pixel.
type Mask struct {
	W, H int
	Bits []bool
}

// NewMask returns an all-false mask of the given size.
func NewMask(w, h int) *Mask {
	if w <= 0 || h <= 0 {
		return &Mask{}
	}
	return &Mask{W: w, H: h, Bits: make([]bool, w*h)}
}

// At reports whether (x, y) is inked. Out-of-bounds cells are empty.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return false
	}
	return m.Bits[y*m.W+x]
}

// Set marks (x, y). Out-of-bounds writes are ignored.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.W || y >= m.H {
		return
	}
	m.Bits[y*m.W+x] = v
}

// Count returns the number of inked cells.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Empty reports whether the mask has no cells at all.
func (m *Mask) Empty() bool {
	return m.W == 0 || m.H == 0
}

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	c := &Mask{W: m.W, H: m.H}
	if m.Bits != nil {
		c.Bits = append([]bool(nil), m.Bits...)
	}
	return c
}

// TextBox is the measured pixel layout of a text block.
type TextBox struct {
	W, H   int     // block size in pixels
	Lines  int     // number of lines (at least 1)
	CaretX float64 // caret after the last character, pixels from the left
	CaretY float64 // top of the caret's line band, pixels from the top
}

// RasterOptions tunes the offscreen rendering.
type RasterOptions struct {
	// SizePx is the font size in pixels.
	SizePx float64
	// LineHeight is the line spacing as a multiple of SizePx.
	LineHeight float64
	// Offsets are extra 1-pixel draw offsets that thicken thin strokes.
	Offsets []image.Point
}

// Rasterizer renders text offscreen and samples the result into a Mask.
type Rasterizer struct {
	face       font.Face
	opts       RasterOptions
	lineHeight int
}

// NewRasterizer parses ttf and prepares a face at opts.SizePx. A nil ttf
// selects the embedded Go Bold font.
func NewRasterizer(ttf []byte, opts RasterOptions) (*Rasterizer, error) {
	if ttf == nil {
		ttf = gobold.TTF
	}
	if opts.SizePx <= 0 {
		return nil, fmt.Errorf("sakura: rasterizer size %v must be positive", opts.SizePx)
	}
	if opts.LineHeight <= 0 {
		opts.LineHeight = 1.1
	}
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("sakura: failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    opts.SizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("sakura: failed to create face: %w", err)
	}
	return &Rasterizer{
		face:       face,
		opts:       opts,
		lineHeight: int(math.Ceil(opts.LineHeight * opts.SizePx)),
	}, nil
}

// Close releases the font face.
func (r *Rasterizer) Close() error {
	return r.face.Close()
}

// Measure lays out text without rendering it.
func (r *Rasterizer) Measure(text string) TextBox {
	lines := strings.Split(text, "\n")
	box := TextBox{Lines: len(lines)}
	pad := r.pad()
	for _, line := range lines {
		if w := font.MeasureString(r.face, line).Ceil(); w > box.W {
			box.W = w
		}
	}
	last := font.MeasureString(r.face, lines[len(lines)-1]).Ceil()
	box.CaretX = float64(last)
	if box.W > 0 {
		box.W += pad
	}
	box.H = box.Lines * r.lineHeight
	box.CaretY = float64(box.Lines-1) * float64(box.H) / float64(box.Lines)
	return box
}

// Rasterize draws text into an offscreen alpha bitmap sized to its measured
// bounds and returns the occupancy mask with the layout. Text with no width
// yields a zero-sized mask.
func (r *Rasterizer) Rasterize(text string) (*Mask, TextBox) {
	box := r.Measure(text)
	if box.W == 0 {
		return &Mask{}, box
	}

	img := image.NewAlpha(image.Rect(0, 0, box.W, box.H))
	d := &font.Drawer{Dst: img, Src: image.Opaque, Face: r.face}
	lines := strings.Split(text, "\n")
	band := float64(box.H) / float64(len(lines))
	for i, line := range lines {
		if line == "" {
			continue
		}
		baseline := int((float64(i) + 0.8) * band)
		d.Dot = fixed.P(0, baseline)
		d.DrawString(line)
		for _, off := range r.opts.Offsets {
			d.Dot = fixed.P(off.X, baseline+off.Y)
			d.DrawString(line)
		}
	}

	m := NewMask(box.W, box.H)
	for y := 0; y < box.H; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+box.W]
		for x, a := range row {
			if a > 0 {
				m.Bits[y*box.W+x] = true
			}
		}
	}
	return m, box
}

// pad is the extra width needed by the thickening offsets.
func (r *Rasterizer) pad() int {
	p := 0
	for _, off := range r.opts.Offsets {
		if off.X > p {
			p = off.X
		}
	}
	return p
}
