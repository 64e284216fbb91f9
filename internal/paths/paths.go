// Package paths centralizes file and directory names used across the project.
// Output file naming for generated icons is defined here as the single source
// of truth.
package paths

import (
	"path/filepath"
	"strconv"
	"strings"
)

// ///////////////////////////////////////////////
// Constants
// ///////////////////////////////////////////////

// Well-known file names.
const (
	ConfigFile   = "badgeicon.toml"
	LockFile     = ".badgeicon.lock"
	FontCacheDir = "badgeicon/fonts"
	BinaryName   = "badgeicon"
)

// SizePlaceholder is replaced with the pixel size in output name patterns.
const SizePlaceholder = "{size}"

// DefaultIconName is the output name pattern producing icon16.png, icon48.png, ...
const DefaultIconName = "icon" + SizePlaceholder + ".png"

// IconFileName expands pattern for size. For example,
// IconFileName("icon{size}.png", 48) returns "icon48.png".
func IconFileName(pattern string, size int) string {
	return strings.ReplaceAll(pattern, SizePlaceholder, strconv.Itoa(size))
}

// ///////////////////////////////////////////////
// OutputDir
// ///////////////////////////////////////////////

// OutputDir provides path construction methods rooted at the icon output
// directory.
type OutputDir struct {
	Root string
	// Pattern is the file name pattern; empty means [DefaultIconName].
	Pattern string
}

// Icon returns the full path of the icon for size.
func (d OutputDir) Icon(size int) string {
	pattern := d.Pattern
	if pattern == "" {
		pattern = DefaultIconName
	}
	return filepath.Join(d.Root, IconFileName(pattern, size))
}

// Lock returns the full path to the advisory lock file.
func (d OutputDir) Lock() string { return filepath.Join(d.Root, LockFile) }
