package paths

import (
	"path/filepath"
	"testing"
)

// ///////////////////////////////////////////////
// Constant Value Tests
// ///////////////////////////////////////////////

func TestConstantValues(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"ConfigFile", ConfigFile, "badgeicon.toml"},
		{"LockFile", LockFile, ".badgeicon.lock"},
		{"BinaryName", BinaryName, "badgeicon"},
		{"DefaultIconName", DefaultIconName, "icon{size}.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

// ///////////////////////////////////////////////
// IconFileName Tests
// ///////////////////////////////////////////////

func TestIconFileName(t *testing.T) {
	tests := []struct {
		pattern string
		size    int
		want    string
	}{
		{DefaultIconName, 16, "icon16.png"},
		{DefaultIconName, 48, "icon48.png"},
		{DefaultIconName, 128, "icon128.png"},
		{"badge-{size}x{size}.png", 32, "badge-32x32.png"},
		{"static.png", 64, "static.png"},
	}

	for _, tt := range tests {
		if got := IconFileName(tt.pattern, tt.size); got != tt.want {
			t.Errorf("IconFileName(%q, %d) = %q, want %q", tt.pattern, tt.size, got, tt.want)
		}
	}
}

// ///////////////////////////////////////////////
// OutputDir Method Tests
// ///////////////////////////////////////////////

func TestOutputDirMethods(t *testing.T) {
	root := filepath.Join("build", "icons")
	d := OutputDir{Root: root}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Icon16", d.Icon(16), filepath.Join(root, "icon16.png")},
		{"Icon128", d.Icon(128), filepath.Join(root, "icon128.png")},
		{"Lock", d.Lock(), filepath.Join(root, ".badgeicon.lock")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestOutputDirCustomPattern(t *testing.T) {
	d := OutputDir{Root: "out", Pattern: "logo_{size}.png"}
	if got, want := d.Icon(48), filepath.Join("out", "logo_48.png"); got != want {
		t.Errorf("Icon(48) = %q, want %q", got, want)
	}
}

func TestOutputDirEmptyRoot(t *testing.T) {
	d := OutputDir{}
	if got := d.Icon(16); got != "icon16.png" {
		t.Errorf("Icon(16) with empty root = %q, want %q", got, "icon16.png")
	}
}
