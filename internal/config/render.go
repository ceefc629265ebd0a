package config

import (
	"fmt"

	imagepkg "github.com/youruser/cardcomposer/internal/image"
)

// RenderSection is the file form of an imagepkg.RenderConfig: colors are
// strings, and an overlay may name a zone instead of repeating its rect.
type RenderSection struct {
	Width      int    `mapstructure:"width" json:"width"`
	Height     int    `mapstructure:"height" json:"height"`
	Background string `mapstructure:"background" json:"background"`
	Template   string `mapstructure:"template" json:"template,omitempty"`
	Logo       string `mapstructure:"logo" json:"logo,omitempty"`

	Zones    ZonesSection     `mapstructure:"zones" json:"zones"`
	Overlays []OverlaySection `mapstructure:"overlays" json:"overlays"`

	Title   StyleSection  `mapstructure:"title" json:"title"`
	Bullets BulletSection `mapstructure:"bullets" json:"bullets"`

	Padding      imagepkg.Padding `mapstructure:"padding" json:"padding"`
	ParagraphGap float64          `mapstructure:"paragraph_gap" json:"paragraph_gap"`
	Ellipsis     string           `mapstructure:"ellipsis" json:"ellipsis"`

	QR          imagepkg.QRConfig `mapstructure:"qr" json:"qr"`
	JPEGQuality int               `mapstructure:"jpeg_quality" json:"jpeg_quality"`
}

type ZonesSection struct {
	Photo imagepkg.Rect `mapstructure:"photo" json:"photo"`
	Logo  imagepkg.Rect `mapstructure:"logo" json:"logo"`
	Text  imagepkg.Rect `mapstructure:"text" json:"text"`
}

// OverlaySection is a band. When Zone is set it covers that zone and the
// rect fields are ignored.
type OverlaySection struct {
	Zone  string `mapstructure:"zone" json:"zone,omitempty"`
	X     int    `mapstructure:"x" json:"x"`
	Y     int    `mapstructure:"y" json:"y"`
	W     int    `mapstructure:"w" json:"w"`
	H     int    `mapstructure:"h" json:"h"`
	Color string `mapstructure:"color" json:"color"`
	Alpha int    `mapstructure:"alpha" json:"alpha"`
}

type StyleSection struct {
	Family      string  `mapstructure:"family" json:"family"`
	Weight      string  `mapstructure:"weight" json:"weight"`
	Size        float64 `mapstructure:"size" json:"size"`
	Color       string  `mapstructure:"color" json:"color"`
	LineSpacing float64 `mapstructure:"line_spacing" json:"line_spacing"`
}

type BulletSection struct {
	StyleSection `mapstructure:",squash"`
	Prefix       string  `mapstructure:"prefix" json:"prefix"`
	Indent       float64 `mapstructure:"indent" json:"indent"`
	TextOffset   float64 `mapstructure:"text_offset" json:"text_offset"`
}

// Section converts a resolved config back to its file form.
func Section(c imagepkg.RenderConfig) RenderSection {
	return sectionFrom(c)
}

func sectionFrom(c imagepkg.RenderConfig) RenderSection {
	sec := RenderSection{
		Width:      c.Width,
		Height:     c.Height,
		Background: FormatColor(c.Background),
		Template:   c.TemplatePath,
		Logo:       c.LogoPath,
		Zones:      ZonesSection{Photo: c.Photo, Logo: c.Logo, Text: c.Text},
		Title:      styleFrom(c.Title),
		Bullets: BulletSection{
			StyleSection: styleFrom(c.Bullets.TextStyle),
			Prefix:       c.Bullets.Prefix,
			Indent:       c.Bullets.Indent,
			TextOffset:   c.Bullets.TextOffset,
		},
		Padding:      c.Padding,
		ParagraphGap: c.ParagraphGap,
		Ellipsis:     c.Ellipsis,
		QR:           c.QR,
		JPEGQuality:  c.JPEGQuality,
	}
	for _, o := range c.Overlays {
		sec.Overlays = append(sec.Overlays, OverlaySection{
			X: o.X, Y: o.Y, W: o.W, H: o.H,
			Color: FormatColor(o.Color),
			Alpha: int(o.Alpha),
		})
	}
	return sec
}

func styleFrom(s imagepkg.TextStyle) StyleSection {
	return StyleSection{
		Family:      s.Font.Family,
		Weight:      string(s.Font.Weight),
		Size:        s.Font.Size,
		Color:       FormatColor(s.Color),
		LineSpacing: s.LineSpacing,
	}
}

func (s RenderSection) clone() RenderSection {
	s.Overlays = append([]OverlaySection(nil), s.Overlays...)
	return s
}

func (s RenderSection) resolve() (imagepkg.RenderConfig, error) {
	bg, err := ParseColor(s.Background)
	if err != nil {
		return imagepkg.RenderConfig{}, fmt.Errorf("background: %w", err)
	}
	title, err := s.Title.resolve()
	if err != nil {
		return imagepkg.RenderConfig{}, fmt.Errorf("title: %w", err)
	}
	bullets, err := s.Bullets.StyleSection.resolve()
	if err != nil {
		return imagepkg.RenderConfig{}, fmt.Errorf("bullets: %w", err)
	}
	cfg := imagepkg.RenderConfig{
		Width:        s.Width,
		Height:       s.Height,
		Background:   bg,
		TemplatePath: s.Template,
		LogoPath:     s.Logo,
		Photo:        s.Zones.Photo,
		Logo:         s.Zones.Logo,
		Text:         s.Zones.Text,
		Title:        title,
		Bullets: imagepkg.BulletStyle{
			TextStyle:  bullets,
			Prefix:     s.Bullets.Prefix,
			Indent:     s.Bullets.Indent,
			TextOffset: s.Bullets.TextOffset,
		},
		Padding:      s.Padding,
		ParagraphGap: s.ParagraphGap,
		Ellipsis:     s.Ellipsis,
		QR:           s.QR,
		JPEGQuality:  s.JPEGQuality,
	}
	for i, o := range s.Overlays {
		ov, err := o.resolve(cfg)
		if err != nil {
			return imagepkg.RenderConfig{}, fmt.Errorf("overlay %d: %w", i, err)
		}
		cfg.Overlays = append(cfg.Overlays, ov)
	}
	return cfg, nil
}

func (s StyleSection) resolve() (imagepkg.TextStyle, error) {
	c, err := ParseColor(s.Color)
	if err != nil {
		return imagepkg.TextStyle{}, err
	}
	w := imagepkg.Weight(s.Weight)
	switch w {
	case imagepkg.WeightRegular, imagepkg.WeightBold:
	case "":
		w = imagepkg.WeightRegular
	default:
		return imagepkg.TextStyle{}, fmt.Errorf("unknown font weight %q", s.Weight)
	}
	return imagepkg.TextStyle{
		Font:        imagepkg.FontRef{Family: s.Family, Weight: w, Size: s.Size},
		Color:       c,
		LineSpacing: s.LineSpacing,
	}, nil
}

func (o OverlaySection) resolve(cfg imagepkg.RenderConfig) (imagepkg.Overlay, error) {
	c, err := ParseColor(o.Color)
	if err != nil {
		return imagepkg.Overlay{}, err
	}
	if o.Alpha < 0 || o.Alpha > 255 {
		return imagepkg.Overlay{}, fmt.Errorf("alpha %d is outside 0..255", o.Alpha)
	}
	rect := imagepkg.Rect{X: o.X, Y: o.Y, W: o.W, H: o.H}
	switch imagepkg.Role(o.Zone) {
	case "":
	case imagepkg.RolePhoto:
		rect = cfg.Photo
	case imagepkg.RoleLogo:
		rect = cfg.Logo
	case imagepkg.RoleText:
		rect = cfg.Text
	default:
		return imagepkg.Overlay{}, fmt.Errorf("unknown zone %q", o.Zone)
	}
	return imagepkg.Overlay{Rect: rect, Color: c, Alpha: uint8(o.Alpha)}, nil
}
