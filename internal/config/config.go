// Package config reads the service configuration from an optional file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	imagepkg "github.com/youruser/cardcomposer/internal/image"
)

// Filename is the base name of the config file looked up when none is given.
const Filename = "cardcomposer"

// EnvPrefix prefixes every environment variable read by the service.
const EnvPrefix = "cardcomposer"

// Config is the resolved configuration of the service.
type Config struct {
	Server  Server
	Log     Log
	Cache   Cache
	Fetch   Fetch
	Request Request
	Fonts   imagepkg.FontOptions

	Render  imagepkg.RenderConfig
	Presets map[string]imagepkg.RenderConfig
}

// Server holds the HTTP listener settings.
type Server struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	PublicURL       string        `mapstructure:"public_url"`
	Mode            string        `mapstructure:"mode"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr is the listen address.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Log holds the logger settings.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Cache holds the output cache settings.
type Cache struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// Fetch holds the remote image settings.
type Fetch struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	RetryMax  int           `mapstructure:"retry_max"`
	MaxSize   int64         `mapstructure:"-"`
	RateLimit float64       `mapstructure:"rate_limit"`
	UserAgent string        `mapstructure:"user_agent"`
}

// Request holds the input normalization rules.
type Request struct {
	MaxBullets  int      `mapstructure:"max_bullets"`
	SkipBullets []string `mapstructure:"skip_bullets"`
}

// ContentRules converts the request settings for the compositor.
func (r Request) ContentRules() imagepkg.ContentRules {
	return imagepkg.ContentRules{MaxBullets: r.MaxBullets, Skip: r.SkipBullets}
}

var defaultSystemFonts = map[string][]string{
	"regular": {
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/Library/Fonts/Arial.ttf",
		"C:\\Windows\\Fonts\\arial.ttf",
	},
	"bold": {
		"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
		"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
		"/Library/Fonts/Arial Bold.ttf",
		"C:\\Windows\\Fonts\\arialbd.ttf",
	},
}

// Setup reads the environment and the optional config file. With an empty
// cfgFile, a cardcomposer.{yaml,json,toml} in the working directory or in
// /etc/cardcomposer is used when present.
func Setup(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	applyDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(Filename)
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/cardcomposer")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return UseViper(v)
}

// NewViper returns a viper instance carrying only the defaults.
func NewViper() *viper.Viper {
	v := viper.New()
	applyDefaults(v)
	return v
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.public_url", "")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	// the bare PORT of container platforms
	_ = v.BindEnv("server.port", "CARDCOMPOSER_SERVER_PORT", "PORT")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("cache.ttl", 10*time.Minute)
	v.SetDefault("cache.cleanup_interval", time.Minute)

	v.SetDefault("fetch.timeout", 12*time.Second)
	v.SetDefault("fetch.retry_max", 0)
	v.SetDefault("fetch.max_size", "15MB")
	v.SetDefault("fetch.rate_limit", 0)
	v.SetDefault("fetch.user_agent", "cardcomposer/1.0")

	v.SetDefault("request.max_bullets", 3)
	v.SetDefault("request.skip_bullets", []string{})

	v.SetDefault("fonts.strict", false)
	v.SetDefault("fonts.system_paths", defaultSystemFonts)
}

type settings struct {
	Server  Server  `mapstructure:"server"`
	Log     Log     `mapstructure:"log"`
	Cache   Cache   `mapstructure:"cache"`
	Fetch   Fetch   `mapstructure:"fetch"`
	Request Request `mapstructure:"request"`
}

// UseViper builds the Config from v. Unmarshal goes through AllSettings so
// environment overrides of nested keys are honored.
func UseViper(v *viper.Viper) (*Config, error) {
	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg := &Config{
		Server:  s.Server,
		Log:     s.Log,
		Cache:   s.Cache,
		Fetch:   s.Fetch,
		Request: s.Request,
	}
	maxSize, err := humanize.ParseBytes(v.GetString("fetch.max_size"))
	if err != nil {
		return nil, fmt.Errorf("fetch.max_size: %w", err)
	}
	cfg.Fetch.MaxSize = int64(maxSize)

	cfg.Fonts = imagepkg.FontOptions{
		Families:    map[string]imagepkg.FontFiles{},
		SystemPaths: fontFiles(v.GetStringMapStringSlice("fonts.system_paths")),
		Strict:      v.GetBool("fonts.strict"),
	}
	for name := range v.GetStringMap("fonts.families") {
		files := v.GetStringMapStringSlice("fonts.families." + name)
		cfg.Fonts.Families[name] = fontFiles(files)
	}

	base := sectionFrom(imagepkg.DefaultRenderConfig())
	cfg.Render, err = decodeRender(v, "render", base)
	if err != nil {
		return nil, err
	}

	cfg.Presets = map[string]imagepkg.RenderConfig{}
	baseSection := sectionFrom(cfg.Render)
	for name := range v.GetStringMap("presets") {
		preset, err := decodeRender(v, "presets."+name, baseSection)
		if err != nil {
			return nil, err
		}
		cfg.Presets[name] = preset
	}
	return cfg, nil
}

func fontFiles(m map[string][]string) imagepkg.FontFiles {
	ff := imagepkg.FontFiles{}
	for weight, paths := range m {
		ff[imagepkg.Weight(strings.ToLower(weight))] = paths
	}
	return ff
}

func decodeRender(v *viper.Viper, key string, base RenderSection) (imagepkg.RenderConfig, error) {
	sec := base.clone()
	if v.IsSet(key + ".overlays") {
		sec.Overlays = nil
	}
	if v.IsSet(key) {
		if err := v.UnmarshalKey(key, &sec); err != nil {
			return imagepkg.RenderConfig{}, fmt.Errorf("%s: %w", key, err)
		}
	}
	if err := applyScalars(v, key, &sec); err != nil {
		return imagepkg.RenderConfig{}, fmt.Errorf("%s: %w", key, err)
	}
	cfg, err := sec.resolve()
	if err != nil {
		return imagepkg.RenderConfig{}, fmt.Errorf("%s: %w", key, err)
	}
	if err := cfg.Validate(); err != nil {
		return imagepkg.RenderConfig{}, fmt.Errorf("%s: %w", key, err)
	}
	return cfg, nil
}

// renderScalars are the leaf keys of a render section. Overlays are lists
// and can only come from the config file.
var renderScalars = []string{
	"width", "height", "background", "template", "logo",
	"zones.photo.x", "zones.photo.y", "zones.photo.w", "zones.photo.h",
	"zones.logo.x", "zones.logo.y", "zones.logo.w", "zones.logo.h",
	"zones.text.x", "zones.text.y", "zones.text.w", "zones.text.h",
	"title.family", "title.weight", "title.size", "title.color", "title.line_spacing",
	"bullets.family", "bullets.weight", "bullets.size", "bullets.color", "bullets.line_spacing",
	"bullets.prefix", "bullets.indent", "bullets.text_offset",
	"padding.top", "padding.right", "padding.bottom", "padding.left",
	"paragraph_gap", "ellipsis", "qr.size", "qr.margin", "jpeg_quality",
}

// applyScalars re-reads every leaf of the section through v.Get, which
// consults the environment (CARDCOMPOSER_RENDER_TITLE_SIZE and so on) before
// the file. UnmarshalKey on the section alone only sees the file.
func applyScalars(v *viper.Viper, key string, sec *RenderSection) error {
	leaves := viper.New()
	n := 0
	for _, leaf := range renderScalars {
		if val := v.Get(key + "." + leaf); val != nil {
			leaves.Set(leaf, val)
			n++
		}
	}
	if n == 0 {
		return nil
	}
	return leaves.Unmarshal(sec)
}
