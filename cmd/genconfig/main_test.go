package main

import (
	"strings"
	"testing"

	badgeicon "tools.zach/dev/badgeicon"
	"tools.zach/dev/badgeicon/internal/config"
)

// ///////////////////////////////////////////////
// generate Tests
// ///////////////////////////////////////////////

func TestGenerate_MatchesEmbeddedDefault(t *testing.T) {
	got, err := generate(config.ExampleConfig(), config.ConfigDocs)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != string(badgeicon.DefaultConfigTOML) {
		t.Error("config.default.toml is stale; run go generate ./internal/config")
	}
}

func TestGenerate_ParsesBackToExample(t *testing.T) {
	got, err := generate(config.ExampleConfig(), config.ConfigDocs)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	cfg, err := config.Parse([]byte(got))
	if err != nil {
		t.Fatalf("Parse generated config: %v", err)
	}
	if cfg.Icon != config.ExampleConfig().Icon {
		t.Errorf("Icon = %+v, want %+v", cfg.Icon, config.ExampleConfig().Icon)
	}
}

func TestGenerate_Annotations(t *testing.T) {
	docs := map[string]config.FieldDoc{
		"icon":            {Comment: "Section doc."},
		"icon.glyph":      {Comment: "Glyph doc.", Alternatives: []string{`glyph = "Q"`}},
		"font.google":     {Comment: "Omitted doc.", Alternatives: []string{`google = "google:Inter:800"`}},
		"font.cache_dir":  {Comment: "Cache doc."},
		"font.nested.key": {Comment: "ignored"},
	}
	got, err := generate(config.DefaultConfig(), docs)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	for _, want := range []string{
		"# badgeicon Configuration",
		"# ///// Icon /////",
		"# Section doc.\n[icon]",
		"# Glyph doc.\nglyph = \"Y\"\n# glyph = \"Q\"",
		"# Omitted doc.\n# google = \"google:Inter:800\"",
		"# Cache doc.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "ignored") {
		t.Error("nested doc key should not be injected into its parent section")
	}
	if strings.Contains(got, "\n  ") {
		t.Error("indentation should be stripped")
	}
}

// ///////////////////////////////////////////////
// parseSectionPath Tests
// ///////////////////////////////////////////////

func TestParseSectionPath(t *testing.T) {
	tests := []struct {
		name    string
		section string
		want    []string
	}{
		{"single segment", "icon", []string{"icon"}},
		{"two segments", "font.google", []string{"font", "google"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSectionPath(tt.section)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("parseSectionPath(%q) = %v, want %v", tt.section, got, tt.want)
			}
		})
	}
}

// ///////////////////////////////////////////////
// sectionName Tests
// ///////////////////////////////////////////////

func TestSectionName(t *testing.T) {
	tests := []struct {
		section string
		want    string
	}{
		{"output", "Output"},
		{"font.google", "Google"},
		{"Log", "Log"},
		{"a", "A"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := sectionName(tt.section); got != tt.want {
			t.Errorf("sectionName(%q) = %q, want %q", tt.section, got, tt.want)
		}
	}
}
