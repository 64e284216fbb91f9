// Package iconset renders one badge icon per configured size into an output
// directory. A failing size is reported in its [Result] and does not stop the
// remaining sizes.
package iconset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"tools.zach/dev/badgeicon/internal/paths"
	"tools.zach/dev/badgeicon/internal/render"
)

// Result is the outcome of rendering a single size.
type Result struct {
	// Size is the requested edge length in pixels.
	Size int
	// Path is the destination file.
	Path string
	// Err is nil when the icon was written.
	Err error
}

// Generator writes an icon set with a shared renderer.
type Generator struct {
	// Renderer draws each icon; its font is resolved once and reused.
	Renderer *render.Renderer
	// Output maps sizes to file paths.
	Output paths.OutputDir
	// Stdout receives one "Created <path>" line per written icon. Nil discards.
	Stdout io.Writer
	// Logger receives per-size diagnostics. Nil uses slog.Default().
	Logger *slog.Logger
}

// Generate renders every size in order. It returns one Result per size and a
// joined error of all failures, or nil when every icon was written. A canceled
// context marks the remaining sizes as failed.
func (g *Generator) Generate(ctx context.Context, sizes []int) ([]Result, error) {
	logger := g.Logger
	if logger == nil {
		logger = slog.Default()
	}
	out := g.Stdout
	if out == nil {
		out = io.Discard
	}

	results := make([]Result, 0, len(sizes))
	var errs []error
	for _, size := range sizes {
		res := Result{Size: size, Path: g.Output.Icon(size)}

		start := time.Now()
		res.Err = g.Renderer.RenderFile(ctx, size, res.Path)
		if res.Err != nil {
			logger.Error("icon failed", "size", size, "path", res.Path, "error", res.Err)
			errs = append(errs, fmt.Errorf("size %d: %w", size, res.Err))
		} else {
			logger.Debug("icon written", "size", size, "path", res.Path, "elapsed", time.Since(start).Round(time.Microsecond))
			fmt.Fprintf(out, "Created %s\n", res.Path)
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// Failed returns the results with a non-nil error.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}
