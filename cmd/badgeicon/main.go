// Package main implements the badgeicon command, which renders a circular
// badge with a centered glyph as a set of square PNG icons.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	rootpkg "tools.zach/dev/badgeicon"
	"tools.zach/dev/badgeicon/internal/atomicfile"
	"tools.zach/dev/badgeicon/internal/config"
	"tools.zach/dev/badgeicon/internal/fonts"
	"tools.zach/dev/badgeicon/internal/iconset"
	"tools.zach/dev/badgeicon/internal/logger"
	"tools.zach/dev/badgeicon/internal/paths"
	"tools.zach/dev/badgeicon/internal/render"
	"tools.zach/dev/badgeicon/internal/watch"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

// ///////////////////////////////////////////////
// Version
// ///////////////////////////////////////////////

// version is set at build time via ldflags (-X main.version=0.1.0).
//
// When ldflags are not set, resolveVersion reads the VCS info that Go embeds
// automatically.
var version = "dev"

// resolveVersion returns the build version string. If [version] was set via
// ldflags it is returned as-is; otherwise the embedded VCS revision and dirty
// state are used to construct a "dev+<hash>" tag.
func resolveVersion() string {
	if version != "dev" {
		return version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return version
	}
	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if revision == "" {
		return version
	}
	hash := revision[:min(7, len(revision))]
	if dirty {
		return "dev+" + hash + ".dirty"
	}
	return "dev+" + hash
}

// ///////////////////////////////////////////////
// Flags
// ///////////////////////////////////////////////

// options holds parsed command-line flags. Empty values leave the config
// file's setting in place.
type options struct {
	configPath string
	outDir     string
	sizes      string
	fontPath   string
	logLevel   string
	watch      bool
	init       bool
	version    bool
}

// parseFlags parses args into options. Usage and errors go to stderr.
func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet(paths.BinaryName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", paths.ConfigFile, "Config file (missing file uses built-in defaults)")
	fs.StringVar(&opts.outDir, "out", "", "Output directory (overrides output.dir)")
	fs.StringVar(&opts.sizes, "sizes", "", "Comma-separated icon sizes, e.g. 16,48,128 (overrides output.sizes)")
	fs.StringVar(&opts.fontPath, "font", "", "Preferred font file (overrides font.path)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error (overrides log.level)")
	fs.BoolVar(&opts.watch, "watch", false, "Regenerate when the config or font file changes")
	fs.BoolVar(&opts.init, "init", false, "Write an annotated default config file and exit")
	fs.BoolVar(&opts.version, "version", false, "Print the version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

// parseSizes parses a comma-separated list of sizes. Range checks are left
// to [config.Config.Validate].
func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid size %q: %w", field, err)
		}
		sizes = append(sizes, n)
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("no sizes in %q", s)
	}
	return sizes, nil
}

// loadConfig loads the config file and applies flag overrides on top.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.outDir != "" {
		cfg.Output.Dir = opts.outDir
	}
	if opts.sizes != "" {
		sizes, err := parseSizes(opts.sizes)
		if err != nil {
			return nil, fmt.Errorf("-sizes: %w", err)
		}
		cfg.Output.Sizes = sizes
	}
	if opts.fontPath != "" {
		cfg.Font.Path = opts.fontPath
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ///////////////////////////////////////////////
// Main
// ///////////////////////////////////////////////

func main() {
	ctx, stop := notifyContext(context.Background())
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "%s: %v\n", paths.BinaryName, err)
		return exitUsage
	}

	if opts.version {
		fmt.Fprintf(stdout, "%s %s\n", paths.BinaryName, resolveVersion())
		return exitOK
	}
	if opts.init {
		if err := writeDefaultConfig(opts.configPath); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", paths.BinaryName, err)
			return exitFailed
		}
		fmt.Fprintf(stdout, "Created %s\n", opts.configPath)
		return exitOK
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "%s: config: %v\n", paths.BinaryName, err)
		return exitUsage
	}

	log, logCloser := logger.New(logger.Options{
		Level:     logger.ParseLevel(cfg.Log.Level),
		File:      cfg.Log.File,
		MaxSizeMB: cfg.Log.MaxSizeMB,
		Writer:    stderr,
	})
	defer logCloser.Close()
	slog.SetDefault(log)

	log.Debug("badgeicon starting", "version", resolveVersion(), "config", opts.configPath)

	out := cfg.OutputDir()
	if err := os.MkdirAll(out.Root, 0o755); err != nil {
		log.Error("create output dir", "path", out.Root, "error", err)
		return exitFailed
	}
	lock, err := acquireLock(out.Lock())
	if err != nil {
		log.Error("output directory is in use", "path", out.Root, "error", err)
		return exitFailed
	}
	defer lock.release()

	res, failed := generate(ctx, cfg, stdout, log)
	if !opts.watch {
		if failed {
			return exitFailed
		}
		return exitOK
	}
	if err := watchLoop(ctx, opts, cfg, res, stdout, log); err != nil {
		log.Error("watch stopped", "error", err)
		return exitFailed
	}
	return exitOK
}

// writeDefaultConfig writes the embedded annotated config to path. It refuses
// to replace an existing file.
func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	return atomicfile.Write(path, rootpkg.DefaultConfigTOML, 0o644)
}

// ///////////////////////////////////////////////
// Generation
// ///////////////////////////////////////////////

// generate resolves the font once and renders every configured size. It
// reports whether any size failed along with the resolved font.
func generate(ctx context.Context, cfg *config.Config, stdout io.Writer, log *slog.Logger) (*fonts.Resolved, bool) {
	style, err := cfg.Style()
	if err != nil {
		// Validate already checked the style; this only guards reloads.
		log.Error("invalid icon style", "error", err)
		return nil, true
	}

	res := cfg.FontResolver(log).Resolve(ctx)
	log.Info("font resolved", "source", string(res.Source), "name", res.Name)

	g := &iconset.Generator{
		Renderer: render.New(style, res.Font),
		Output:   cfg.OutputDir(),
		Stdout:   stdout,
		Logger:   log,
	}
	start := time.Now()
	results, err := g.Generate(ctx, cfg.Output.Sizes)
	if err != nil {
		logger.Fail(log, "icon generation incomplete",
			"failed", len(iconset.Failed(results)), "total", len(results))
		return res, true
	}
	log.Debug("icon set written", "count", len(results), "elapsed", time.Since(start).Round(time.Millisecond))
	return res, false
}

// ///////////////////////////////////////////////
// Watch Loop
// ///////////////////////////////////////////////

// watchedFiles returns the config file and the font file in use, when the
// font came from disk.
func watchedFiles(configPath string, cfg *config.Config, res *fonts.Resolved) []string {
	files := []string{configPath}
	if res != nil && (res.Source == fonts.SourceLocal || res.Source == fonts.SourceSearch) {
		files = append(files, res.Name)
	} else if cfg.Font.Path != "" {
		files = append(files, cfg.Font.Path)
	}
	return files
}

// watchLoop regenerates the icon set whenever a watched file changes, until
// ctx is canceled. A config that fails to load keeps the previous settings.
func watchLoop(ctx context.Context, opts *options, cfg *config.Config, res *fonts.Resolved, stdout io.Writer, log *slog.Logger) error {
	for {
		w, err := watch.New(watchedFiles(opts.configPath, cfg, res), log)
		if err != nil {
			return err
		}
		if w.Polling() {
			log.Info("using polling mode for file watching")
		}
		log.Info("watching for changes", "config", opts.configPath)

		select {
		case <-ctx.Done():
			w.Close()
			log.Info("received shutdown signal")
			return nil
		case <-w.Events():
		}
		w.Close()

		next, err := loadConfig(opts)
		if err != nil {
			log.Error("reload config, keeping previous settings", "error", err)
		} else {
			if next.Output.Dir != cfg.Output.Dir {
				log.Warn("output.dir changes need a restart, keeping previous directory", "dir", cfg.Output.Dir)
				next.Output.Dir = cfg.Output.Dir
			}
			cfg = next
		}
		res, _ = generate(ctx, cfg, stdout, log)
	}
}
