// Package badgeicon provides embedded assets for the badgeicon tool.
//
// The root package exists solely to embed [config.default.toml] via
// [DefaultConfigTOML], which badgeicon -init writes as a starter config.
package badgeicon

import _ "embed"

// DefaultConfigTOML holds the annotated default configuration generated by
// cmd/genconfig.
//
//go:embed config.default.toml
var DefaultConfigTOML []byte
