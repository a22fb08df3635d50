package sakura

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	hintFadeSeconds = 0.8
	// hintMargin is the gap between the label and the bottom edge, pixels.
	hintMargin = 24
)

var hintColor = Color{R: 0.86, G: 0.45, B: 0.6, A: 0.8}

// hintFont wraps an ebiten text/v2 face for the skip hint.
type hintFont struct {
	face *text.GoTextFace
	lh   float64
}

// loadHintFont loads Go Regular at size pixels.
func loadHintFont(size float64) (*hintFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("sakura: failed to parse hint font: %w", err)
	}
	face := &text.GoTextFace{Source: source, Size: size}
	m := face.Metrics()
	return &hintFont{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}, nil
}

// hint is the "click anywhere to skip" label. It is fully visible while the
// reveal runs and fades out once it completes.
type hint struct {
	label string
	font  *hintFont
	alpha float64
	fade  *gween.Tween
	done  bool
}

func newHint(label string, font *hintFont) *hint {
	return &hint{label: label, font: font, alpha: 1}
}

// update advances the fade by dt seconds. The fade starts on the first
// update after complete becomes true and never reverses.
func (h *hint) update(dt float32, complete bool) {
	if h.done {
		return
	}
	if complete && h.fade == nil {
		h.fade = gween.New(float32(h.alpha), 0, hintFadeSeconds, ease.InOutQuad)
	}
	if h.fade == nil {
		return
	}
	v, finished := h.fade.Update(dt)
	h.alpha = float64(v)
	if finished {
		h.alpha = 0
		h.done = true
	}
}

// setLabel swaps the label text, e.g. after a device preset change.
func (h *hint) setLabel(label string, font *hintFont) {
	h.label = label
	if font != nil {
		h.font = font
	}
}

// draw renders the label centered near the bottom of dst.
func (h *hint) draw(dst *ebiten.Image) {
	if h.alpha <= 0 || h.font == nil || h.label == "" {
		return
	}
	b := dst.Bounds()
	w, _ := text.Measure(h.label, h.font.face, h.font.lh)
	op := &text.DrawOptions{}
	op.GeoM.Translate((float64(b.Dx())-w)/2, float64(b.Dy())-hintMargin-h.font.lh)
	a := hintColor.A * h.alpha
	op.ColorScale.Scale(float32(hintColor.R*a), float32(hintColor.G*a), float32(hintColor.B*a), float32(a))
	op.LineSpacing = h.font.lh
	text.Draw(dst, h.label, h.font.face, op)
}
