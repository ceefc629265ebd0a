package imagepkg

import (
	"context"
	"image"
	"image/draw"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/youruser/cardcomposer/internal/logger"
)

// Compositor renders cards for one RenderConfig. It holds no per-request
// state and is safe for concurrent use.
type Compositor struct {
	cfg    RenderConfig
	fonts  *FontResolver
	assets *AssetLoader
}

// Result is a rendered card together with the text layout that was drawn.
type Result struct {
	Image  *image.RGBA
	Layout TextLayout
}

// NewCompositor validates cfg and binds it to the shared font and asset
// caches.
func NewCompositor(cfg RenderConfig, fonts *FontResolver, assets *AssetLoader) (*Compositor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.JPEGQuality <= 0 || cfg.JPEGQuality > 100 {
		cfg.JPEGQuality = DefaultRenderConfig().JPEGQuality
	}
	return &Compositor{cfg: cfg, fonts: fonts, assets: assets}, nil
}

// Config returns the layout this compositor draws.
func (c *Compositor) Config() RenderConfig {
	return c.cfg
}

// Render returns the flattened, fully opaque card.
func (c *Compositor) Render(ctx context.Context, photo image.Image, content Content) (*image.RGBA, error) {
	res, err := c.Compose(ctx, photo, content)
	if err != nil {
		return nil, err
	}
	return res.Image, nil
}

// Compose runs the pipeline: base canvas, photo, bands, logo, QR badge,
// text, flatten. Later layers sit on top of earlier ones.
func (c *Compositor) Compose(ctx context.Context, photo image.Image, content Content) (*Result, error) {
	cfg := c.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if content.Title == "" {
		return nil, InvalidRequestError("title is required")
	}
	log := logger.WithNamespace("render")

	canvas, err := c.base()
	if err != nil {
		return nil, err
	}

	fitted, err := CoverFit(photo, cfg.Photo.W, cfg.Photo.H)
	if err != nil {
		return nil, err
	}
	PasteImage(canvas, fitted, cfg.Photo.Image())

	for _, o := range cfg.Overlays {
		ApplyOverlay(canvas, o.Image(), o.Color, o.Alpha)
	}

	if cfg.LogoPath != "" {
		logo, err := c.assets.Load(cfg.LogoPath)
		if err != nil {
			return nil, err
		}
		PasteLayer(canvas, logo, cfg.Logo.Image())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x, y, w, h := cfg.ContentRect()
	box := TextBox{X: x, Y: y, W: w, H: h}
	if content.QRText != "" {
		right, err := c.drawQR(canvas, content.QRText)
		if err != nil {
			return nil, err
		}
		box.W = math.Min(box.W, right-box.X)
		if box.W <= 0 {
			return nil, InvalidZoneError("qr badge leaves no room for text")
		}
	}

	titleFace, err := c.fonts.Face(cfg.Title.Font)
	if err != nil {
		return nil, err
	}
	bulletFace, err := c.fonts.Face(cfg.Bullets.Font)
	if err != nil {
		return nil, err
	}
	layout := LayoutText(content.Title, content.Bullets, TextSpec{
		Box:          box,
		TitleFace:    titleFace,
		BulletFace:   bulletFace,
		Title:        cfg.Title,
		Bullets:      cfg.Bullets,
		ParagraphGap: cfg.ParagraphGap,
		Ellipsis:     cfg.Ellipsis,
	})
	if layout.Overflowed {
		log.WithField("lines", len(layout.Lines)).Info("text clipped to the text zone")
	}
	c.drawText(canvas, layout, titleFace, bulletFace)

	return &Result{Image: Flatten(canvas, cfg.Background), Layout: layout}, nil
}

// EncodeJPEG writes img with the configured quality.
func (c *Compositor) EncodeJPEG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(c.cfg.JPEGQuality))
}

func (c *Compositor) base() (*image.RGBA, error) {
	cfg := c.cfg
	canvas := image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height))
	bg := cfg.Background
	bg.A = 0xff
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	if cfg.TemplatePath == "" {
		return canvas, nil
	}
	tmpl, err := c.assets.Load(cfg.TemplatePath)
	if err != nil {
		return nil, err
	}
	fitted, err := CoverFit(tmpl, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	draw.Draw(canvas, canvas.Bounds(), fitted, image.Point{}, draw.Over)
	return canvas, nil
}

// drawQR pastes the badge in the bottom right corner of the text zone and
// returns the x coordinate text must stay left of.
func (c *Compositor) drawQR(canvas *image.RGBA, text string) (float64, error) {
	cfg := c.cfg
	size, margin := cfg.QR.Size, cfg.QR.Margin
	if size <= 0 || size+2*margin > cfg.Text.W || size+2*margin > cfg.Text.H {
		return 0, InvalidZoneError("qr badge of %dpx does not fit the text zone", size)
	}
	qr, err := GenerateQRImage(text, size)
	if err != nil {
		return 0, err
	}
	at := image.Pt(cfg.Text.X+cfg.Text.W-margin-size, cfg.Text.Y+cfg.Text.H-margin-size)
	PasteImage(canvas, qr, image.Rectangle{Min: at, Max: at.Add(image.Pt(size, size))})
	return float64(at.X - margin), nil
}

func (c *Compositor) drawText(canvas *image.RGBA, layout TextLayout, titleFace, bulletFace Face) {
	dc := gg.NewContextForRGBA(canvas)
	for _, line := range layout.Lines {
		face, style := bulletFace, c.cfg.Bullets.TextStyle
		if line.Kind == LineTitle {
			face, style = titleFace, c.cfg.Title
		}
		dc.SetFontFace(face.Face)
		dc.SetColor(style.Color)
		dc.DrawString(line.Text, line.X, line.Baseline)
	}
}
