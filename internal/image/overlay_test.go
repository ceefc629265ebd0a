package imagepkg

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestApplyOverlayBlend(t *testing.T) {
	canvas := filled(10, 10, color.RGBA{R: 200, G: 100, B: 0, A: 255})
	ApplyOverlay(canvas, image.Rect(0, 0, 5, 10), color.NRGBA{R: 0, G: 0, B: 255, A: 255}, 128)

	// out = c*a/255 + p*(255-a)/255, rounded
	got := canvas.RGBAAt(2, 2)
	assert.Equal(t, color.RGBA{R: 100, G: 50, B: 128, A: 255}, got)

	// outside the rect nothing changes
	assert.Equal(t, color.RGBA{R: 200, G: 100, B: 0, A: 255}, canvas.RGBAAt(7, 2))
}

func TestApplyOverlayExtremes(t *testing.T) {
	base := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	canvas := filled(4, 4, base)
	ApplyOverlay(canvas, canvas.Bounds(), color.NRGBA{R: 255, A: 255}, 0)
	assert.Equal(t, base, canvas.RGBAAt(1, 1))

	ApplyOverlay(canvas, canvas.Bounds(), color.NRGBA{R: 255, A: 255}, 255)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, canvas.RGBAAt(1, 1))
}

func TestApplyOverlayClipsToCanvas(t *testing.T) {
	canvas := filled(4, 4, color.RGBA{A: 255})
	require.NotPanics(t, func() {
		ApplyOverlay(canvas, image.Rect(-10, -10, 100, 100), color.NRGBA{G: 255, A: 255}, 255)
	})
	assert.Equal(t, uint8(255), canvas.RGBAAt(3, 3).G)
}

func TestPasteLayerRespectsAlpha(t *testing.T) {
	canvas := filled(20, 20, color.RGBA{R: 255, A: 255})
	logo := image.NewNRGBA(image.Rect(0, 0, 20, 20))
	// left half opaque blue, right half fully transparent
	draw.Draw(logo, image.Rect(0, 0, 10, 20), image.NewUniform(color.NRGBA{B: 255, A: 255}), image.Point{}, draw.Src)

	PasteLayer(canvas, logo, canvas.Bounds())

	assert.Equal(t, color.RGBA{B: 255, A: 255}, canvas.RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, canvas.RGBAAt(15, 5))
}

func TestPasteLayerFitsAndCenters(t *testing.T) {
	canvas := filled(100, 40, color.RGBA{A: 255})
	logo := filled(200, 40, color.RGBA{G: 255, A: 255})

	PasteLayer(canvas, logo, canvas.Bounds())

	// scaled to 100x20, centered vertically
	assert.Equal(t, uint8(0), canvas.RGBAAt(50, 5).G)
	assert.Equal(t, uint8(255), canvas.RGBAAt(50, 20).G)
	assert.Equal(t, uint8(0), canvas.RGBAAt(50, 35).G)
}

func TestFlattenIsOpaque(t *testing.T) {
	canvas := image.NewRGBA(image.Rect(0, 0, 8, 8))
	canvas.SetRGBA(1, 1, color.RGBA{R: 128, A: 128})

	out := Flatten(canvas, color.NRGBA{B: 255})
	for i := 3; i < len(out.Pix); i += 4 {
		require.Equal(t, uint8(255), out.Pix[i])
	}
	assert.Equal(t, color.RGBA{B: 255, A: 255}, out.RGBAAt(5, 5))
	assert.Equal(t, uint8(128), out.RGBAAt(1, 1).R)
}

func TestPasteImageKeepsCanvasOpaque(t *testing.T) {
	canvas := filled(10, 10, color.RGBA{R: 16, G: 16, B: 16, A: 255})
	photo := image.NewNRGBA(image.Rect(0, 0, 10, 10))

	PasteImage(canvas, photo, canvas.Bounds())
	assert.Equal(t, color.RGBA{R: 16, G: 16, B: 16, A: 255}, canvas.RGBAAt(4, 4))

	ApplyOverlay(canvas, canvas.Bounds(), color.NRGBA{R: 255, G: 255, B: 255, A: 255}, 242)
	out := Flatten(canvas, color.NRGBA{})
	// 255*242/255 + 16*13/255
	assert.Equal(t, color.RGBA{R: 243, G: 243, B: 243, A: 255}, out.RGBAAt(4, 4))
}
