package config

// ///////////////////////////////////////////////
// Documentation Types
// ///////////////////////////////////////////////

// FieldDoc holds documentation and alternative examples for a single config field.
// The genconfig tool uses [FieldDoc] values to annotate the generated config.default.toml.
type FieldDoc struct {
	// Comment is shown as a header comment above the field in the example config.
	Comment string

	// Alternatives are shown as commented-out lines below the active value.
	Alternatives []string
}

// ///////////////////////////////////////////////
// Field Documentation Map
// ///////////////////////////////////////////////

// ConfigDocs maps TOML field paths (dot-separated, e.g. "icon.badge_color")
// to their [FieldDoc] entries. The genconfig tool uses this map to annotate the
// generated config.default.toml with inline comments and alternative examples.
var ConfigDocs = map[string]FieldDoc{
	// ── Root ──────────────────────────────────────────────────────
	"version": {
		Comment: "Config schema version. Do not edit.",
	},

	// ── Icon ──────────────────────────────────────────────────────
	"icon": {
		Comment: "Badge styling shared by every size.",
	},
	"icon.glyph": {
		Comment: "Single character drawn in the middle of the badge.",
	},
	"icon.badge_color": {
		Comment: "Circle fill color, #RRGGBB or #RRGGBBAA.",
	},
	"icon.glyph_color": {
		Comment: "Glyph color, #RRGGBB or #RRGGBBAA.",
	},
	"icon.margin": {
		Comment: "Transparent gap between the circle and each canvas edge, in pixels.",
	},
	"icon.vertical_bias": {
		Comment: "Pixels to move the glyph up after centering it on its ink box.",
	},
	"icon.font_scale": {
		Comment: "Font size in points as a fraction of the icon size (rounded).\n16px icons get round(16 * 0.6) = 10pt.",
	},

	// ── Output ────────────────────────────────────────────────────
	"output.dir": {
		Comment: "Directory the icons are written to. Existing icons are overwritten.",
	},
	"output.name": {
		Comment: "File name pattern. {size} is replaced with the pixel size.\nThe extension selects the format; only .png is supported.",
		Alternatives: []string{
			`name = "badge-{size}x{size}.png"`,
		},
	},
	"output.sizes": {
		Comment: "Square icon sizes in pixels.",
		Alternatives: []string{
			`sizes = [16, 32, 48, 128, 256]`,
		},
	},

	// ── Font ──────────────────────────────────────────────────────
	"font.path": {
		Comment: "Preferred font file (TTF, OTF, TTC or WOFF2).\nIf no configured font can be loaded, the built-in Go Regular font is used.",
	},
	"font.search": {
		Comment: "Glob patterns tried in order when font.path is unavailable (** matches any depth).",
	},
	"font.google": {
		Comment: "Google Fonts download tried after font.search.",
		Alternatives: []string{
			`google = "google:Inter:800"`,
		},
	},
	"font.cache_dir": {
		Comment: "Where downloaded fonts are cached. Defaults to the user cache directory.",
		Alternatives: []string{
			`cache_dir = ".cache/fonts"`,
		},
	},

	// ── Log ───────────────────────────────────────────────────────
	"log.level": {
		Comment: "Minimum log level: trace, debug, info, warn, error.",
	},
	"log.file": {
		Comment: "Log to a rotating file instead of stderr.",
		Alternatives: []string{
			`file = "badgeicon.log"`,
		},
	},
	"log.max_size_mb": {
		Comment: "Rotate the log file after this many megabytes.",
	},
}
