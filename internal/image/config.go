package imagepkg

import (
	"image"
	"image/color"
	"strconv"
)

// Role tags a zone of the template.
type Role string

const (
	RolePhoto Role = "photo"
	RoleLogo  Role = "logo"
	RoleText  Role = "text"
)

// Weight selects a font file within a family.
type Weight string

const (
	WeightRegular Weight = "regular"
	WeightBold    Weight = "bold"
)

// Rect is an axis-aligned rectangle in canvas pixels.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Zone is a rectangle tagged with the role it plays in the template.
type Zone struct {
	Role Role
	Rect
}

// Overlay is a translucent flat-color rectangle.
type Overlay struct {
	Rect
	Color color.NRGBA
	Alpha uint8
}

// FontRef names a font by family, weight and pixel size.
type FontRef struct {
	Family string
	Weight Weight
	Size   float64
}

// TextStyle is the font and color of a run of lines.
type TextStyle struct {
	Font        FontRef
	Color       color.NRGBA
	LineSpacing float64
}

// BulletStyle adds the bullet prefix geometry to a TextStyle. Indent is the
// prefix position relative to the text content left edge, TextOffset the
// distance from the prefix to the bullet text. A zero TextOffset uses the
// measured prefix width.
type BulletStyle struct {
	TextStyle
	Prefix     string
	Indent     float64
	TextOffset float64
}

// Padding insets the text zone.
type Padding struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// QRConfig places the optional QR badge in the bottom right corner of the
// text zone.
type QRConfig struct {
	Size   int `json:"size"`
	Margin int `json:"margin"`
}

// RenderConfig parameterizes one visual variant of the template.
type RenderConfig struct {
	Width        int
	Height       int
	Background   color.NRGBA
	TemplatePath string

	Photo Rect
	Logo  Rect
	Text  Rect

	Overlays []Overlay
	LogoPath string

	Title        TextStyle
	Bullets      BulletStyle
	Padding      Padding
	ParagraphGap float64
	Ellipsis     string

	QR          QRConfig
	JPEGQuality int
}

// DefaultRenderConfig is the 1080x1080 layout: logo header band, photo and
// a dark text band carrying the title and bullets.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		Width:      1080,
		Height:     1080,
		Background: color.NRGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff},

		Logo:  Rect{X: 0, Y: 0, W: 1080, H: 160},
		Photo: Rect{X: 0, Y: 160, W: 1080, H: 560},
		Text:  Rect{X: 0, Y: 720, W: 1080, H: 360},

		Overlays: []Overlay{
			{Rect: Rect{X: 0, Y: 0, W: 1080, H: 160}, Color: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, Alpha: 242},
			{Rect: Rect{X: 0, Y: 720, W: 1080, H: 360}, Color: color.NRGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}, Alpha: 215},
		},

		Title: TextStyle{
			Font:        FontRef{Family: "sans", Weight: WeightBold, Size: 46},
			Color:       color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
			LineSpacing: 10,
		},
		Bullets: BulletStyle{
			TextStyle: TextStyle{
				Font:        FontRef{Family: "sans", Weight: WeightBold, Size: 30},
				Color:       color.NRGBA{R: 185, G: 185, B: 185, A: 0xff},
				LineSpacing: 16,
			},
			Prefix:     "•",
			Indent:     0,
			TextOffset: 24,
		},
		Padding:      Padding{Top: 40, Right: 48, Bottom: 32, Left: 48},
		ParagraphGap: 18,
		Ellipsis:     "…",

		QR:          QRConfig{Size: 150, Margin: 32},
		JPEGQuality: 90,
	}
}

// Zones lists the configured zones in stacking order of their content.
func (c RenderConfig) Zones() []Zone {
	return []Zone{
		{Role: RolePhoto, Rect: c.Photo},
		{Role: RoleLogo, Rect: c.Logo},
		{Role: RoleText, Rect: c.Text},
	}
}

// ContentRect is the text zone minus padding, in float canvas coordinates.
func (c RenderConfig) ContentRect() (x, y, w, h float64) {
	x = float64(c.Text.X) + c.Padding.Left
	y = float64(c.Text.Y) + c.Padding.Top
	w = float64(c.Text.W) - c.Padding.Left - c.Padding.Right
	h = float64(c.Text.H) - c.Padding.Top - c.Padding.Bottom
	return x, y, w, h
}

// Validate checks that every region of the layout has a positive size and
// lies on the canvas.
func (c RenderConfig) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return InvalidZoneError("canvas is %dx%d", c.Width, c.Height)
	}
	canvas := image.Rect(0, 0, c.Width, c.Height)
	for _, z := range c.Zones() {
		if err := checkRect(string(z.Role)+" zone", z.Rect, canvas); err != nil {
			return err
		}
	}
	for i, o := range c.Overlays {
		if err := checkRect("overlay "+strconv.Itoa(i), o.Rect, canvas); err != nil {
			return err
		}
	}
	_, _, w, h := c.ContentRect()
	if w <= 0 || h <= 0 {
		return InvalidZoneError("text content area is %.0fx%.0f after padding", w, h)
	}
	if c.Title.Font.Size <= 0 || c.Bullets.Font.Size <= 0 {
		return InvalidZoneError("font sizes must be positive")
	}
	return nil
}

func checkRect(name string, r Rect, canvas image.Rectangle) error {
	if r.W <= 0 || r.H <= 0 {
		return InvalidZoneError("%s is %dx%d", name, r.W, r.H)
	}
	if !r.Image().In(canvas) {
		return InvalidZoneError("%s %v lies outside the %dx%d canvas", name, r.Image(), canvas.Dx(), canvas.Dy())
	}
	return nil
}
