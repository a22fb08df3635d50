package sakura

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// batcher accumulates textured quads and submits them with a single
// DrawTriangles32 call per source image. Buffers are reused across frames.
type batcher struct {
	verts []ebiten.Vertex
	inds  []uint32
}

func (b *batcher) reset() {
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
}

// premul converts a straight-alpha color to premultiplied vertex components.
func premul(c Color) (r, g, bl, a float32) {
	a = float32(c.A)
	return float32(c.R) * a, float32(c.G) * a, float32(c.B) * a, a
}

// appendQuad appends 4 vertices and 6 indices for a quad centered at (cx, cy)
// with half extents (hw, hh), rotated by rot radians, sampling src rectangle
// (su0, sv0)-(su1, sv1). Colors are given per corner pair: top then bottom.
func (b *batcher) appendQuad(cx, cy, hw, hh, rot float64, su0, sv0, su1, sv1 float32, top, bottom Color) {
	sin, cos := math.Sincos(rot)
	// TL, TR, BL, BR in local space (Y down).
	lx := [4]float64{-hw, hw, -hw, hw}
	ly := [4]float64{-hh, -hh, hh, hh}
	sx := [4]float32{su0, su1, su0, su1}
	sy := [4]float32{sv0, sv0, sv1, sv1}

	tr, tg, tb, ta := premul(top)
	br, bg, bb, ba := premul(bottom)

	base := uint32(len(b.verts))
	for i := 0; i < 4; i++ {
		cr, cg, cb, ca := tr, tg, tb, ta
		if i >= 2 {
			cr, cg, cb, ca = br, bg, bb, ba
		}
		b.verts = append(b.verts, ebiten.Vertex{
			DstX:   float32(cx + lx[i]*cos - ly[i]*sin),
			DstY:   float32(cy + lx[i]*sin + ly[i]*cos),
			SrcX:   sx[i],
			SrcY:   sy[i],
			ColorR: cr,
			ColorG: cg,
			ColorB: cb,
			ColorA: ca,
		})
	}
	b.inds = append(b.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// appendInstances projects each instance through cam and appends a petal
// quad of in.Size*scale scene units sampling a texSize×texSize texture.
// Instances behind the camera or with zero size are skipped. Scene Y is up; the projected rotation is
// negated so petals spin the same way on screen.
func (b *batcher) appendInstances(insts []Instance, cam *Camera, texSize int) int {
	n := 0
	ts := float32(texSize)
	for i := range insts {
		in := &insts[i]
		sx, sy, ppu, ok := cam.Project(in.X, in.Y, in.Z)
		if !ok || in.Size <= 0 || in.ScaleX <= 0 || in.ScaleY <= 0 || in.Color.A <= 0 {
			continue
		}
		hw := 0.5 * in.Size * in.ScaleX * ppu
		hh := 0.5 * in.Size * in.ScaleY * ppu
		b.appendQuad(sx, sy, hw, hh, -in.Rotation, 0, 0, ts, ts, in.Color, in.Color)
		n++
	}
	return n
}

// appendCursor appends the caret bar as a solid quad sampling the center of
// a 3×3 white texture.
func (b *batcher) appendCursor(c CursorState, tint Color) bool {
	if c.Opacity <= 0 || c.Width <= 0 || c.Height <= 0 {
		return false
	}
	tint.A *= c.Opacity
	// Keep the bar at least one pixel wide.
	hw := math.Max(0.5, c.Width/2)
	b.appendQuad(c.ScreenX, c.ScreenY, hw, c.Height/2, 0, 1, 1, 2, 2, tint, tint)
	return true
}

// appendGradient appends a full-viewport quad fading from top to bottom.
func (b *batcher) appendGradient(w, h float64, top, bottom Color) {
	b.appendQuad(w/2, h/2, w/2, h/2, 0, 1, 1, 2, 2, top, bottom)
}

// flush draws the accumulated quads from src onto dst and resets the buffers.
func (b *batcher) flush(dst, src *ebiten.Image) {
	if len(b.inds) == 0 {
		b.reset()
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.Filter = ebiten.FilterLinear
	dst.DrawTriangles32(b.verts, b.inds, src, &op)
	b.reset()
}
