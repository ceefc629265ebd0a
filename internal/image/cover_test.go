package imagepkg

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverSize(t *testing.T) {
	cases := []struct {
		name         string
		srcW, srcH   int
		w, h         int
		wantW, wantH int
	}{
		{"wider source", 2000, 1000, 1080, 560, 1120, 560},
		{"taller source", 1000, 2000, 1080, 560, 1080, 2160},
		{"same ratio", 540, 280, 1080, 560, 1080, 560},
		{"downscale", 4000, 4000, 300, 200, 300, 300},
		{"rounding never undershoots", 3, 7, 10, 10, 10, 23},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, h := CoverSize(tc.srcW, tc.srcH, tc.w, tc.h)
			assert.Equal(t, tc.wantW, w)
			assert.Equal(t, tc.wantH, h)
			assert.GreaterOrEqual(t, w, tc.w)
			assert.GreaterOrEqual(t, h, tc.h)
		})
	}
}

func TestCoverFitDimensions(t *testing.T) {
	for _, src := range []image.Point{image.Pt(2000, 1000), image.Pt(1000, 2000), image.Pt(1, 1), image.Pt(37, 1900), image.Pt(1080, 560)} {
		img := imaging.New(src.X, src.Y, color.NRGBA{R: 200, A: 255})
		out, err := CoverFit(img, 1080, 560)
		require.NoError(t, err)
		assert.Equal(t, 1080, out.Bounds().Dx(), "source %v", src)
		assert.Equal(t, 560, out.Bounds().Dy(), "source %v", src)
	}
}

func TestCoverFitHasNoPadding(t *testing.T) {
	// an opaque source must yield an opaque result with no background bars
	img := imaging.New(300, 1200, color.NRGBA{G: 255, A: 255})
	out, err := CoverFit(img, 400, 100)
	require.NoError(t, err)
	for y := 0; y < 100; y++ {
		for x := 0; x < 400; x++ {
			c := out.NRGBAAt(x, y)
			require.Equal(t, uint8(255), c.A, "pixel %d,%d", x, y)
			require.Greater(t, c.G, uint8(200), "pixel %d,%d", x, y)
		}
	}
}

func TestCoverFitCropsCenter(t *testing.T) {
	// left red, middle green, right blue; a square crop keeps the middle
	img := imaging.New(300, 100, color.NRGBA{R: 255, A: 255})
	img = imaging.Paste(img, imaging.New(100, 100, color.NRGBA{G: 255, A: 255}), image.Pt(100, 0))
	img = imaging.Paste(img, imaging.New(100, 100, color.NRGBA{B: 255, A: 255}), image.Pt(200, 0))

	out, err := CoverFit(img, 100, 100)
	require.NoError(t, err)
	center := out.NRGBAAt(50, 50)
	assert.Greater(t, center.G, uint8(200))
	assert.Less(t, center.R, uint8(50))
	assert.Less(t, center.B, uint8(50))
}

func TestCoverFitErrors(t *testing.T) {
	_, err := CoverFit(imaging.New(10, 10, color.Black), 0, 10)
	assert.ErrorIs(t, err, ErrInvalidZone)

	_, err = CoverFit(nil, 10, 10)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = CoverFit(image.NewNRGBA(image.Rect(0, 0, 0, 5)), 10, 10)
	assert.ErrorIs(t, err, ErrDecode)
}
