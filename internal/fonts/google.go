// google.go downloads font files from the Google Fonts CSS API.
//
// Font specs use the format "google:FAMILY:WEIGHT" (e.g. "google:Inter:800").
// Downloaded fonts are cached locally so they aren't re-fetched on every run.

package fonts

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"tools.zach/dev/badgeicon/internal/atomicfile"
)

// DefaultCSSURL is the Google Fonts CSS2 API endpoint.
const DefaultCSSURL = "https://fonts.googleapis.com/css2"

// userAgent asks Google for WOFF2 URLs, which [maybeConvertWOFF2] handles.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"

// fontURLRe extracts the font file URL from the CSS response.
// Matches: url(https://fonts.gstatic.com/s/inter/v18/xxx.woff2)
var fontURLRe = regexp.MustCompile(`url\(['"]?(https?://[^)'"\s]+)['"]?\)`)

// ParseGoogleFontSpec parses a "google:Family:Weight" spec into its parts.
// Returns family, weight, and whether the spec is valid.
func ParseGoogleFontSpec(spec string) (family, weight string, ok bool) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 || parts[0] != "google" || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// GoogleFetcher downloads fonts from Google Fonts with retries.
type GoogleFetcher struct {
	// Client is the retrying HTTP client.
	Client *retryablehttp.Client
	// CSSURL is the CSS2 API endpoint; tests point it at a local server.
	CSSURL string
	// Logger receives cache warnings; nil uses slog.Default().
	Logger *slog.Logger
}

// NewGoogleFetcher returns a fetcher against [DefaultCSSURL] with two retries
// and a 15 second per-request timeout.
func NewGoogleFetcher() *GoogleFetcher {
	c := retryablehttp.NewClient()
	c.RetryMax = 2
	c.HTTPClient.Timeout = 15 * time.Second
	c.Logger = nil // suppress retryablehttp's default logging
	return &GoogleFetcher{Client: c, CSSURL: DefaultCSSURL}
}

// Fetch downloads the font for spec, consulting cacheDir first. The cacheDir
// is created if it doesn't exist; an empty cacheDir disables caching. Returns
// the raw font bytes in SFNT (TTF/OTF) format, converting from WOFF2 if
// necessary.
func (g *GoogleFetcher) Fetch(ctx context.Context, spec, cacheDir string) ([]byte, error) {
	family, weight, ok := ParseGoogleFontSpec(spec)
	if !ok {
		return nil, fmt.Errorf("invalid google font spec %q: expected google:FAMILY:WEIGHT", spec)
	}

	var cacheFile string
	if cacheDir != "" {
		cacheFile = filepath.Join(cacheDir, cacheFileName(family, weight))
		if data, err := os.ReadFile(cacheFile); err == nil {
			return data, nil
		}
	}

	cssURL := fmt.Sprintf("%s?family=%s:wght@%s", g.CSSURL, url.QueryEscape(family), url.QueryEscape(weight))
	cssBody, err := g.get(ctx, cssURL, 1<<20)
	if err != nil {
		return nil, fmt.Errorf("fetching CSS for %s wght@%s: %w", family, weight, err)
	}

	matches := fontURLRe.FindSubmatch(cssBody)
	if matches == nil {
		return nil, fmt.Errorf("no font URL found in Google Fonts CSS response for %s wght@%s", family, weight)
	}
	fontURL := string(matches[1])

	fontData, err := g.get(ctx, fontURL, 10<<20) // 10 MiB limit
	if err != nil {
		return nil, fmt.Errorf("downloading font file: %w", err)
	}

	fontData, err = maybeConvertWOFF2(fontURL, fontData)
	if err != nil {
		return nil, err
	}

	if cacheFile != "" {
		if err := g.store(cacheFile, fontData); err != nil {
			log := g.Logger
			if log == nil {
				log = slog.Default()
			}
			log.Warn("failed to cache font", "path", cacheFile, "error", err)
		}
	}
	return fontData, nil
}

// get performs a GET and returns at most limit bytes of a 200 response body.
func (g *GoogleFetcher) get(ctx context.Context, rawURL string, limit int64) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", rawURL, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

// store writes converted font data into the cache.
func (g *GoogleFetcher) store(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating font cache dir: %w", err)
	}
	return atomicfile.Write(path, data, 0o644)
}

// cacheFileName returns the cache file name for a family and weight,
// e.g. "Open_Sans-700.ttf".
func cacheFileName(family, weight string) string {
	return strings.ReplaceAll(family, " ", "_") + "-" + weight + ".ttf"
}
