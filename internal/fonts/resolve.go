// Package fonts resolves the font used to draw badge glyphs.
//
// Resolution never fails. Sources are tried in order:
//  1. Preferred local file ([Resolver.Path])
//  2. Glob search patterns ([Resolver.Search]), first parsable match wins
//  3. Google Fonts download ([Resolver.Google], e.g. "google:Inter:800")
//  4. Built-in Go Regular
//
// Local files may be TrueType/OpenType, TrueType collections (first face),
// or WOFF2 (converted to SFNT).
package fonts

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	tdfont "github.com/tdewolff/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// ///////////////////////////////////////////////
// Types
// ///////////////////////////////////////////////

// Source identifies where a resolved font came from.
type Source string

const (
	SourceLocal   Source = "local"
	SourceSearch  Source = "search"
	SourceGoogle  Source = "google"
	SourceBuiltin Source = "builtin"
)

// BuiltinName is the display name of the fallback font.
const BuiltinName = "Go Regular"

// Resolved is a parsed font plus its provenance. The font is read-only and
// safe to share across renders.
type Resolved struct {
	Font   *opentype.Font
	Source Source
	// Name is the file path, Google Fonts spec, or [BuiltinName].
	Name string
}

// Fallback reports whether the built-in font was used.
func (r *Resolved) Fallback() bool { return r.Source == SourceBuiltin }

// Resolver holds the font sources to try. The zero value resolves straight
// to the built-in font.
type Resolver struct {
	// Path is the preferred font file.
	Path string
	// Search holds doublestar patterns (e.g. "/usr/share/fonts/**/Arial*.ttf").
	Search []string
	// Google is an optional "google:FAMILY:WEIGHT" spec.
	Google string
	// CacheDir stores downloaded Google Fonts; empty disables caching.
	CacheDir string
	// Fetcher downloads Google Fonts; nil uses [NewGoogleFetcher].
	Fetcher *GoogleFetcher
	// Logger receives resolution diagnostics; nil uses slog.Default().
	Logger *slog.Logger
}

// ///////////////////////////////////////////////
// Resolution
// ///////////////////////////////////////////////

// Resolve returns the first usable font from the configured sources, falling
// back to the built-in font. It never returns nil.
func (r *Resolver) Resolve(ctx context.Context) *Resolved {
	log := r.Logger
	if log == nil {
		log = slog.Default()
	}

	if r.Path != "" {
		f, err := LoadFile(r.Path)
		if err == nil {
			log.Debug("font resolved", "source", SourceLocal, "path", r.Path)
			return &Resolved{Font: f, Source: SourceLocal, Name: r.Path}
		}
		log.Debug("preferred font unavailable", "path", r.Path, "error", err)
	}

	for _, pattern := range r.Search {
		if res := searchPattern(pattern, log); res != nil {
			return res
		}
	}

	if r.Google != "" {
		fetcher := r.Fetcher
		if fetcher == nil {
			fetcher = NewGoogleFetcher()
		}
		if fetcher.Logger == nil {
			fetcher.Logger = log
		}
		data, err := fetcher.Fetch(ctx, r.Google, r.CacheDir)
		if err == nil {
			var f *opentype.Font
			if f, err = Parse(data); err == nil {
				log.Debug("font resolved", "source", SourceGoogle, "spec", r.Google)
				return &Resolved{Font: f, Source: SourceGoogle, Name: r.Google}
			}
		}
		log.Debug("google font unavailable", "spec", r.Google, "error", err)
	}

	if r.Path != "" || len(r.Search) > 0 || r.Google != "" {
		log.Warn("no configured font available, using built-in font", "font", BuiltinName)
	}
	return Builtin()
}

// searchPattern returns the first parsable font matching pattern, or nil.
func searchPattern(pattern string, log *slog.Logger) *Resolved {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		log.Debug("invalid font search pattern", "pattern", pattern, "error", err)
		return nil
	}
	sort.Strings(matches)
	for _, m := range matches {
		f, err := LoadFile(m)
		if err != nil {
			log.Debug("skipping font candidate", "path", m, "error", err)
			continue
		}
		log.Debug("font resolved", "source", SourceSearch, "path", m, "pattern", pattern)
		return &Resolved{Font: f, Source: SourceSearch, Name: m}
	}
	return nil
}

// builtinFont parses the embedded Go Regular font once.
var builtinFont = sync.OnceValue(func() *opentype.Font {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(fmt.Sprintf("fonts: parse built-in font: %v", err))
	}
	return f
})

// Builtin returns the built-in fallback font.
func Builtin() *Resolved {
	return &Resolved{Font: builtinFont(), Source: SourceBuiltin, Name: BuiltinName}
}

// ///////////////////////////////////////////////
// Loading
// ///////////////////////////////////////////////

// LoadFile reads and parses the font file at path.
func LoadFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, err = maybeConvertWOFF2(path, data)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return f, nil
}

// Parse parses SFNT font data. TrueType collections yield their first face.
func Parse(data []byte) (*opentype.Font, error) {
	if bytes.HasPrefix(data, []byte("ttcf")) {
		coll, err := opentype.ParseCollection(data)
		if err != nil {
			return nil, err
		}
		if coll.NumFonts() == 0 {
			return nil, fmt.Errorf("empty font collection")
		}
		return coll.Font(0)
	}
	return opentype.Parse(data)
}

// maybeConvertWOFF2 converts WOFF2 font data to SFNT format if needed.
func maybeConvertWOFF2(name string, data []byte) ([]byte, error) {
	if !isWOFF2(name, data) {
		return data, nil
	}
	sfnt, err := tdfont.ToSFNT(data)
	if err != nil {
		return nil, fmt.Errorf("convert woff2 to sfnt: %w", err)
	}
	return sfnt, nil
}

// isWOFF2 checks whether font data is WOFF2 by name extension or magic bytes.
// WOFF2 magic: 0x774F4632 ("wOF2")
func isWOFF2(name string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(name), ".woff2") {
		return true
	}
	return bytes.HasPrefix(data, []byte("wOF2"))
}
