package imagepkg

import (
	"fmt"
	"os"

	"github.com/golang/freetype/truetype"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/youruser/cardcomposer/internal/logger"
)

const defaultFontCacheSize = 32

// FontFiles lists candidate font files per weight, in preference order.
type FontFiles map[Weight][]string

// FontOptions configures font resolution.
type FontOptions struct {
	// Families maps a logical family name to its files.
	Families map[string]FontFiles
	// SystemPaths are tried when no family file could be loaded.
	SystemPaths FontFiles
	// Strict turns a missing family file into an AssetMissingError instead
	// of falling back.
	Strict    bool
	CacheSize int
}

// FontResolver turns FontRefs into faces. Parsed fonts are cached and shared;
// faces are built per call because truetype faces are not safe for
// concurrent use.
type FontResolver struct {
	opts   FontOptions
	parsed *lru.Cache[string, *truetype.Font]
}

// NewFontResolver creates a resolver with its own parsed-font cache.
func NewFontResolver(opts FontOptions) (*FontResolver, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = defaultFontCacheSize
	}
	cache, err := lru.New[string, *truetype.Font](size)
	if err != nil {
		return nil, fmt.Errorf("font cache: %w", err)
	}
	return &FontResolver{opts: opts, parsed: cache}, nil
}

// Face resolves ref, falling back through the family files, the system
// paths, the embedded Go fonts and finally the 7x13 bitmap font.
func (r *FontResolver) Face(ref FontRef) (Face, error) {
	log := logger.WithNamespace("fonts")

	family, ok := r.opts.Families[ref.Family]
	if !ok && r.opts.Strict {
		return Face{}, AssetMissingError(nil, "font family %q is not configured", ref.Family)
	}
	for _, path := range family.paths(ref.Weight) {
		f, err := r.load(path)
		if err == nil {
			return newFace(f, ref.Size), nil
		}
		if r.opts.Strict {
			return Face{}, AssetMissingError(err, "font %s %s", ref.Family, ref.Weight)
		}
		log.WithField("path", path).Warnf("cannot load font: %s", err)
	}

	for _, path := range r.opts.SystemPaths.paths(ref.Weight) {
		if f, err := r.load(path); err == nil {
			return newFace(f, ref.Size), nil
		}
	}

	f, err := r.embedded(ref.Weight)
	if err == nil {
		return newFace(f, ref.Size), nil
	}
	log.Errorf("embedded font unusable, using bitmap font: %s", err)
	return Face{basicfont.Face7x13}, nil
}

func (r *FontResolver) load(path string) (*truetype.Font, error) {
	if f, ok := r.parsed.Get(path); ok {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	r.parsed.Add(path, f)
	return f, nil
}

func (r *FontResolver) embedded(weight Weight) (*truetype.Font, error) {
	key := "embedded:" + string(weight)
	if f, ok := r.parsed.Get(key); ok {
		return f, nil
	}
	data := goregular.TTF
	if weight == WeightBold {
		data = gobold.TTF
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, err
	}
	r.parsed.Add(key, f)
	return f, nil
}

// paths returns the files for weight, or the regular files when the weight
// has none.
func (ff FontFiles) paths(weight Weight) []string {
	if p := ff[weight]; len(p) > 0 {
		return p
	}
	return ff[WeightRegular]
}

func newFace(f *truetype.Font, size float64) Face {
	return Face{truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})}
}
