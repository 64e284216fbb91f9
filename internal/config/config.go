// Package config provides configuration loading and defaults for badgeicon.
//
// Configuration is loaded from a TOML file (badgeicon.toml by default). A
// missing file is not an error: the defaults reproduce the stock icon set,
// a blue "Y" badge at 16, 48 and 128 pixels written to the working directory.
package config

//go:generate go run ../../cmd/genconfig

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"tools.zach/dev/badgeicon/internal/atomicfile"
	"tools.zach/dev/badgeicon/internal/fonts"
	"tools.zach/dev/badgeicon/internal/paths"
	"tools.zach/dev/badgeicon/internal/render"
)

// CurrentVersion is the config schema version written by this build.
const CurrentVersion = 1

// DefaultFontPath is the preferred font file.
const DefaultFontPath = "/System/Library/Fonts/Arial.ttf"

// DefaultFontSearch lists common Arial locations tried when the preferred
// font is missing.
var DefaultFontSearch = []string{
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"/Library/Fonts/Arial.ttf",
	"/usr/share/fonts/**/{Arial,arial}.ttf",
	"C:/Windows/Fonts/arial.ttf",
}

// DefaultSizes are the icon sizes generated when none are configured.
var DefaultSizes = []int{16, 48, 128}

// ///////////////////////////////////////////////
// Configuration Types
// ///////////////////////////////////////////////

// Config represents the top-level application configuration.
type Config struct {
	// Version is the config schema version.
	Version int `toml:"version"`
	// Icon holds the badge styling.
	Icon IconConfig `toml:"icon"`
	// Output holds output location and sizes.
	Output OutputConfig `toml:"output"`
	// Font holds font resolution settings.
	Font FontConfig `toml:"font"`
	// Log holds logging settings.
	Log LogConfig `toml:"log"`
}

// IconConfig holds the badge styling shared by every size.
type IconConfig struct {
	// Glyph is the single character drawn on the badge.
	Glyph string `toml:"glyph"`
	// BadgeColor is the circle hex color (e.g. "#1A73E8").
	BadgeColor string `toml:"badge_color"`
	// GlyphColor is the glyph hex color (e.g. "#FFFFFF").
	GlyphColor string `toml:"glyph_color"`
	// Margin is the badge inset from each canvas edge in pixels.
	Margin int `toml:"margin"`
	// VerticalBias moves the glyph up by this many pixels after centering.
	VerticalBias int `toml:"vertical_bias"`
	// FontScale is the font size in points relative to the icon size.
	FontScale float64 `toml:"font_scale"`
}

// OutputConfig holds where icons are written.
type OutputConfig struct {
	// Dir is the output directory.
	Dir string `toml:"dir"`
	// Name is the file name pattern; "{size}" is replaced by the pixel size.
	Name string `toml:"name"`
	// Sizes lists the square icon sizes in pixels.
	Sizes []int `toml:"sizes"`
}

// FontConfig holds font resolution settings.
type FontConfig struct {
	// Path is the preferred font file.
	Path string `toml:"path"`
	// Search lists glob patterns tried when Path is unavailable.
	Search []string `toml:"search"`
	// Google is a Google Fonts spec (e.g. "google:Inter:800") tried after Search.
	Google string `toml:"google,omitempty"`
	// CacheDir stores downloaded fonts; empty uses the user cache directory.
	CacheDir string `toml:"cache_dir,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `toml:"level"`
	// File is a log file path; empty logs to stderr.
	File string `toml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation.
	MaxSizeMB int `toml:"max_size_mb"`
}

// ///////////////////////////////////////////////
// Default Configuration
// ///////////////////////////////////////////////

// DefaultConfig returns a Config populated with the stock icon settings.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Icon: IconConfig{
			Glyph:        render.DefaultGlyph,
			BadgeColor:   render.FormatHexColor(render.DefaultBadgeColor),
			GlyphColor:   render.FormatHexColor(render.DefaultGlyphColor),
			Margin:       render.DefaultMargin,
			VerticalBias: render.DefaultVerticalBias,
			FontScale:    render.DefaultFontScale,
		},
		Output: OutputConfig{
			Dir:   ".",
			Name:  paths.DefaultIconName,
			Sizes: append([]int(nil), DefaultSizes...),
		},
		Font: FontConfig{
			Path:   DefaultFontPath,
			Search: append([]string(nil), DefaultFontSearch...),
		},
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

// ExampleConfig returns a Config suitable for generating config.default.toml.
func ExampleConfig() *Config {
	return DefaultConfig()
}

// ///////////////////////////////////////////////
// PeekVersion
// ///////////////////////////////////////////////

// PeekVersion reads just the version field from raw TOML bytes.
// Returns 1 if the version field is missing or zero.
func PeekVersion(data []byte) int {
	var v struct {
		Version int `toml:"version"`
	}
	if err := toml.Unmarshal(data, &v); err != nil {
		return 1
	}
	if v.Version == 0 {
		return 1
	}
	return v.Version
}

// ///////////////////////////////////////////////
// Loading and Saving
// ///////////////////////////////////////////////

// Load reads and parses the configuration file at path.
// If the file doesn't exist, returns DefaultConfig. Unknown keys are logged
// and ignored.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML config data over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	if v := PeekVersion(data); v > CurrentVersion {
		return nil, fmt.Errorf("config version %d is newer than supported version %d", v, CurrentVersion)
	}

	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("unknown config key ignored", "key", key.String())
	}
	cfg.Version = CurrentVersion

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to disk as TOML using atomic file write.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return atomicfile.Write(path, buf.Bytes(), 0o644)
}

// ///////////////////////////////////////////////
// Validation
// ///////////////////////////////////////////////

// validLogLevels is the set of accepted log level strings.
var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks that all configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if _, err := c.Style(); err != nil {
		return err
	}

	if len(c.Output.Sizes) == 0 {
		return fmt.Errorf("output.sizes must list at least one size")
	}
	seen := make(map[int]bool, len(c.Output.Sizes))
	for _, s := range c.Output.Sizes {
		if s <= 0 {
			return fmt.Errorf("output.sizes: %w: got %d", render.ErrInvalidSize, s)
		}
		if seen[s] {
			return fmt.Errorf("output.sizes: duplicate size %d", s)
		}
		seen[s] = true
	}

	if !strings.Contains(c.Output.Name, paths.SizePlaceholder) {
		return fmt.Errorf("invalid output.name %q: must contain %s", c.Output.Name, paths.SizePlaceholder)
	}
	if _, err := render.EncoderFor(c.Output.Name); err != nil {
		return fmt.Errorf("invalid output.name: %w", err)
	}

	for _, p := range c.Font.Search {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid font.search pattern %q", p)
		}
	}
	if c.Font.Google != "" {
		if _, _, ok := fonts.ParseGoogleFontSpec(c.Font.Google); !ok {
			return fmt.Errorf("invalid font.google %q: expected google:FAMILY:WEIGHT", c.Font.Google)
		}
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q: must be trace, debug, info, warn, or error", c.Log.Level)
	}
	if c.Log.MaxSizeMB <= 0 {
		return fmt.Errorf("log.max_size_mb must be > 0, got %d", c.Log.MaxSizeMB)
	}

	return nil
}

// Style converts the icon section into a render style, validating the glyph,
// colors, margin and font scale.
func (c *Config) Style() (render.Style, error) {
	ic := c.Icon
	if n := utf8.RuneCountInString(ic.Glyph); n != 1 {
		return render.Style{}, fmt.Errorf("invalid icon.glyph %q: must be exactly one character", ic.Glyph)
	}
	badge, err := render.ParseHexColor(ic.BadgeColor)
	if err != nil {
		return render.Style{}, fmt.Errorf("icon.badge_color: %w", err)
	}
	fg, err := render.ParseHexColor(ic.GlyphColor)
	if err != nil {
		return render.Style{}, fmt.Errorf("icon.glyph_color: %w", err)
	}
	if ic.Margin < 0 {
		return render.Style{}, fmt.Errorf("icon.margin must be >= 0, got %d", ic.Margin)
	}
	if ic.FontScale <= 0 || ic.FontScale > 2 {
		return render.Style{}, fmt.Errorf("icon.font_scale must be in (0, 2], got %g", ic.FontScale)
	}
	return render.Style{
		Glyph:        ic.Glyph,
		Badge:        badge,
		Foreground:   fg,
		Margin:       ic.Margin,
		VerticalBias: ic.VerticalBias,
		FontScale:    ic.FontScale,
	}, nil
}

// ///////////////////////////////////////////////
// Derived Values
// ///////////////////////////////////////////////

// OutputDir returns the output path helper for this config.
func (c *Config) OutputDir() paths.OutputDir {
	return paths.OutputDir{Root: c.Output.Dir, Pattern: c.Output.Name}
}

// FontResolver returns a resolver for the font section. An empty cache dir
// falls back to the user cache directory, or disables caching if that is
// unavailable.
func (c *Config) FontResolver(logger *slog.Logger) *fonts.Resolver {
	cacheDir := c.Font.CacheDir
	if cacheDir == "" && c.Font.Google != "" {
		if base, err := os.UserCacheDir(); err == nil {
			cacheDir = filepath.Join(base, paths.FontCacheDir)
		}
	}
	return &fonts.Resolver{
		Path:     c.Font.Path,
		Search:   c.Font.Search,
		Google:   c.Font.Google,
		CacheDir: cacheDir,
		Logger:   logger,
	}
}
