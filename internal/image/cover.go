package imagepkg

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// CoverSize returns the size the source is scaled to before cropping so that
// it covers a w x h box. Dimensions are rounded half up and never fall below
// the target.
func CoverSize(srcW, srcH, w, h int) (int, int) {
	scale := math.Max(float64(w)/float64(srcW), float64(h)/float64(srcH))
	sw := int(math.Floor(float64(srcW)*scale + 0.5))
	sh := int(math.Floor(float64(srcH)*scale + 0.5))
	if sw < w {
		sw = w
	}
	if sh < h {
		sh = h
	}
	return sw, sh
}

// CoverFit scales img uniformly until it covers w x h, then crops the excess
// symmetrically around the center.
func CoverFit(img image.Image, w, h int) (*image.NRGBA, error) {
	if w <= 0 || h <= 0 {
		return nil, InvalidZoneError("cover target is %dx%d", w, h)
	}
	if img == nil {
		return nil, DecodeError(nil, "no source image")
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, DecodeError(nil, "source image is %dx%d", b.Dx(), b.Dy())
	}

	sw, sh := CoverSize(b.Dx(), b.Dy(), w, h)
	scaled := imaging.Resize(img, sw, sh, imaging.Lanczos)
	return imaging.CropCenter(scaled, w, h), nil
}
