package imagepkg

import (
	"strings"

	"golang.org/x/image/font"
)

// Measurer returns the rendered width of a string in pixels.
type Measurer interface {
	Measure(s string) float64
}

// TextFace is a Measurer that also knows its vertical metrics.
type TextFace interface {
	Measurer
	LineHeight() float64
	Ascent() float64
}

// Face adapts a font.Face to TextFace using its glyph advances.
type Face struct {
	font.Face
}

func (f Face) Measure(s string) float64 {
	return float64(font.MeasureString(f.Face, s)) / 64
}

func (f Face) LineHeight() float64 {
	return float64(f.Metrics().Height) / 64
}

func (f Face) Ascent() float64 {
	return float64(f.Metrics().Ascent) / 64
}

// WrapText splits text into lines no wider than maxWidth using greedy word
// wrapping. A word wider than maxWidth gets a line of its own and is never
// split.
func WrapText(text string, m Measurer, maxWidth float64) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if m.Measure(candidate) <= maxWidth {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Ellipsize drops trailing words from text until text+ellipsis fits in
// maxWidth.
func Ellipsize(text string, m Measurer, maxWidth float64, ellipsis string) string {
	words := strings.Fields(text)
	for len(words) > 0 {
		candidate := strings.Join(words, " ") + ellipsis
		if m.Measure(candidate) <= maxWidth {
			return candidate
		}
		words = words[:len(words)-1]
	}
	return ellipsis
}

// LineKind tells the drawing stage which face a line uses.
type LineKind int

const (
	LineTitle LineKind = iota
	LineBulletPrefix
	LineBullet
)

// TextLine is one positioned run of text. Y is the top of the line box and
// Baseline the y coordinate to draw at.
type TextLine struct {
	Kind     LineKind
	Text     string
	X        float64
	Y        float64
	Height   float64
	Baseline float64
	MaxWidth float64
	Bullet   int
}

// TextLayout is the result of laying out a title and bullets in a box.
type TextLayout struct {
	Lines      []TextLine
	Bottom     float64
	Overflowed bool
}

// Count returns how many lines of the given kind are in the layout.
func (l TextLayout) Count(kind LineKind) int {
	n := 0
	for _, line := range l.Lines {
		if line.Kind == kind {
			n++
		}
	}
	return n
}

// TextBox is the content area text is laid out in.
type TextBox struct {
	X, Y, W, H float64
}

// TextSpec is everything LayoutText needs besides the strings.
type TextSpec struct {
	Box          TextBox
	TitleFace    TextFace
	BulletFace   TextFace
	Title        TextStyle
	Bullets      BulletStyle
	ParagraphGap float64
	Ellipsis     string
}

// LayoutText places the wrapped title followed by each bullet. Lines that
// would cross the bottom of the box are dropped, and the last kept line is
// shortened to end with the ellipsis.
func LayoutText(title string, bullets []string, spec TextSpec) TextLayout {
	box := spec.Box
	var lines []TextLine
	cursor := box.Y

	tf := spec.TitleFace
	titleLines := WrapText(title, tf, box.W)
	for _, text := range titleLines {
		lines = append(lines, TextLine{
			Kind:     LineTitle,
			Text:     text,
			X:        box.X,
			Y:        cursor,
			Height:   tf.LineHeight(),
			Baseline: cursor + tf.Ascent(),
			MaxWidth: box.W,
		})
		cursor += tf.LineHeight() + spec.Title.LineSpacing
	}
	if len(titleLines) > 0 && len(bullets) > 0 {
		cursor += spec.ParagraphGap
	}

	bf := spec.BulletFace
	bs := spec.Bullets
	prefixX := box.X + bs.Indent
	offset := bs.TextOffset
	if offset <= 0 {
		offset = bf.Measure(bs.Prefix + " ")
	}
	textX := prefixX + offset
	textW := box.X + box.W - textX
	for i, bullet := range bullets {
		for j, text := range WrapText(bullet, bf, textW) {
			if j == 0 && bs.Prefix != "" {
				lines = append(lines, TextLine{
					Kind:     LineBulletPrefix,
					Text:     bs.Prefix,
					X:        prefixX,
					Y:        cursor,
					Height:   bf.LineHeight(),
					Baseline: cursor + bf.Ascent(),
					MaxWidth: offset,
					Bullet:   i,
				})
			}
			lines = append(lines, TextLine{
				Kind:     LineBullet,
				Text:     text,
				X:        textX,
				Y:        cursor,
				Height:   bf.LineHeight(),
				Baseline: cursor + bf.Ascent(),
				MaxWidth: textW,
				Bullet:   i,
			})
			cursor += bf.LineHeight() + bs.LineSpacing
		}
	}

	return clipLayout(lines, spec)
}

func clipLayout(lines []TextLine, spec TextSpec) TextLayout {
	limit := spec.Box.Y + spec.Box.H
	kept := len(lines)
	for i, line := range lines {
		if line.Y+line.Height > limit {
			kept = i
			break
		}
	}

	layout := TextLayout{Lines: lines[:kept], Overflowed: kept < len(lines)}
	if layout.Overflowed {
		// a prefix is never left alone at the bottom
		for len(layout.Lines) > 0 && layout.Lines[len(layout.Lines)-1].Kind == LineBulletPrefix {
			layout.Lines = layout.Lines[:len(layout.Lines)-1]
		}
		if n := len(layout.Lines); n > 0 {
			last := &layout.Lines[n-1]
			face := spec.BulletFace
			if last.Kind == LineTitle {
				face = spec.TitleFace
			}
			last.Text = Ellipsize(last.Text, face, last.MaxWidth, spec.Ellipsis)
		}
	}
	for _, line := range layout.Lines {
		if b := line.Y + line.Height; b > layout.Bottom {
			layout.Bottom = b
		}
	}
	return layout
}
