package sakura

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// petalTextureSize is the edge length of the generated petal texture.
const petalTextureSize = 64

// petalImage draws a white cherry-blossom petal on a transparent square: a
// rounded blade narrowing to the stem at the bottom with a notch at the top.
// Brightness falls off slightly toward the stem so tinted petals keep some
// shading. Edges are antialiased over about one pixel.
func petalImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	if size <= 0 {
		return img
	}
	px := 2 / float64(size)
	for y := 0; y < size; y++ {
		// t runs from 0 at the stem (bottom) to 1 at the tip (top).
		t := 1 - (float64(y)+0.5)/float64(size)
		half := 0.9 * math.Sin(math.Pi*math.Pow(t, 0.7))
		for x := 0; x < size; x++ {
			u := math.Abs((float64(x)+0.5)/float64(size)*2 - 1)
			edge := half - u
			if notch := (0.88 + 0.48*u) - t; u < 0.25 {
				edge = math.Min(edge, notch)
			}
			a := math.Max(0, math.Min(1, edge/px))
			if a == 0 {
				continue
			}
			shade := 0.85 + 0.15*t
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(255 * shade),
				G: uint8(255 * shade),
				B: uint8(255 * shade),
				A: uint8(255 * a),
			})
		}
	}
	return img
}

// newPetalTexture uploads the petal image to the GPU.
func newPetalTexture() *ebiten.Image {
	return ebiten.NewImageFromImage(petalImage(petalTextureSize))
}

// newWhiteTexture returns a 3×3 white image. Solid shapes sample its center
// pixel so filtering never reaches a transparent edge.
func newWhiteTexture() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img
}
