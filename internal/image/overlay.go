package imagepkg

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// ApplyOverlay blends a flat color over canvas inside rect:
// out = c*alpha/255 + existing*(1-alpha/255), per channel. The canvas must
// be opaque there; its alpha is left untouched.
func ApplyOverlay(canvas *image.RGBA, rect image.Rectangle, c color.NRGBA, alpha uint8) {
	r := rect.Intersect(canvas.Bounds())
	if r.Empty() || alpha == 0 {
		return
	}
	a := uint32(alpha)
	inv := 255 - a
	cr, cg, cb := uint32(c.R)*a, uint32(c.G)*a, uint32(c.B)*a
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := canvas.PixOffset(r.Min.X, y)
		for x := r.Min.X; x < r.Max.X; x++ {
			p := canvas.Pix[i : i+4 : i+4]
			p[0] = uint8((cr + uint32(p[0])*inv + 127) / 255)
			p[1] = uint8((cg + uint32(p[1])*inv + 127) / 255)
			p[2] = uint8((cb + uint32(p[2])*inv + 127) / 255)
			i += 4
		}
	}
}

// PasteImage composites img over rect. Transparent pixels of img let the
// canvas show through, so an opaque canvas stays opaque.
func PasteImage(canvas *image.RGBA, img image.Image, rect image.Rectangle) {
	draw.Draw(canvas, rect, img, img.Bounds().Min, draw.Over)
}

// PasteLayer fits layer inside rect keeping its aspect ratio, centers it and
// composites it with its own per-pixel alpha.
func PasteLayer(canvas *image.RGBA, layer image.Image, rect image.Rectangle) {
	if layer == nil || rect.Empty() {
		return
	}
	lb := layer.Bounds()
	if lb.Dx() == 0 || lb.Dy() == 0 {
		return
	}
	fitted := layer
	if lb.Dx() > rect.Dx() || lb.Dy() > rect.Dy() {
		fitted = imaging.Fit(layer, rect.Dx(), rect.Dy(), imaging.Lanczos)
	}
	fb := fitted.Bounds()
	at := image.Pt(
		rect.Min.X+(rect.Dx()-fb.Dx())/2,
		rect.Min.Y+(rect.Dy()-fb.Dy())/2,
	)
	draw.Draw(canvas, image.Rectangle{Min: at, Max: at.Add(fb.Size())}, fitted, fb.Min, draw.Over)
}

// Flatten composites canvas over an opaque background so every pixel ends
// with alpha 255.
func Flatten(canvas *image.RGBA, bg color.NRGBA) *image.RGBA {
	bg.A = 0xff
	out := image.NewRGBA(canvas.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), canvas, canvas.Bounds().Min, draw.Over)
	return out
}
