// Package main implements the genconfig tool that writes config.default.toml
// from config.ExampleConfig(), annotated with config.ConfigDocs.
//
// It is invoked by go generate via the directive in internal/config/config.go.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"tools.zach/dev/badgeicon/internal/atomicfile"
	"tools.zach/dev/badgeicon/internal/config"
)

func main() {
	// go generate runs from internal/config/, so ../../ is the repo root where
	// configdata.go embeds the file.
	outPath := flag.String("o", "../../config.default.toml", "output path")
	flag.Parse()

	result, err := generate(config.ExampleConfig(), config.ConfigDocs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "genconfig: %v\n", err)
		os.Exit(1)
	}
	if err := atomicfile.Write(*outPath, []byte(result), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *outPath, err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *outPath)
}

// ///////////////////////////////////////////////
// Generation
// ///////////////////////////////////////////////

// annotator accumulates output lines while walking the encoded TOML.
type annotator struct {
	docs    map[string]config.FieldDoc
	out     []string
	section []string
	emitted map[string]bool
}

// generate encodes cfg as TOML and annotates each section and key with its
// entry from docs. Documented keys the encoder omitted are written as comments.
func generate(cfg *config.Config, docs map[string]config.FieldDoc) (string, error) {
	var raw bytes.Buffer
	if err := toml.NewEncoder(&raw).Encode(cfg); err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	a := &annotator{docs: docs, emitted: map[string]bool{}}
	a.out = append(a.out,
		"# ///////////////////////////////////////////////",
		"# badgeicon Configuration",
		"# ///////////////////////////////////////////////",
		"",
	)

	for _, line := range strings.Split(raw.String(), "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			// spacing is managed here, not by the encoder
		case strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "[["):
			a.beginSection(trimmed)
		case !strings.Contains(trimmed, "=") || strings.HasPrefix(trimmed, "#"):
			a.out = append(a.out, trimmed)
		default:
			a.key(trimmed)
		}
	}
	a.injectOmitted()

	return strings.TrimRight(strings.Join(a.out, "\n"), "\n") + "\n", nil
}

// beginSection flushes omitted keys of the previous section and writes a
// banner plus the section doc before the header line.
func (a *annotator) beginSection(header string) {
	a.injectOmitted()

	name := strings.Trim(header, "[] ")
	a.section = parseSectionPath(name)
	a.out = append(a.out, "", fmt.Sprintf("# ///// %s /////", sectionName(name)), "")
	if doc, ok := a.docs[name]; ok {
		a.comment(doc.Comment)
	}
	a.out = append(a.out, header)
}

// key writes a key = value line with its doc comment and alternatives.
func (a *annotator) key(line string) {
	key := strings.TrimSpace(strings.SplitN(line, "=", 2)[0])
	path := a.path(key)
	a.emitted[path] = true

	doc, ok := a.docs[path]
	if !ok {
		a.out = append(a.out, line)
		return
	}
	a.comment(doc.Comment)
	a.out = append(a.out, line)
	for _, alt := range doc.Alternatives {
		a.out = append(a.out, "# "+alt)
	}
}

// injectOmitted appends commented-out entries for documented keys of the
// current section that the encoder did not emit (omitempty fields holding
// their zero value). Keys are sorted for deterministic output.
func (a *annotator) injectOmitted() {
	if len(a.section) == 0 {
		return
	}
	prefix := strings.Join(a.section, ".") + "."

	var omitted []string
	for path := range a.docs {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok || strings.Contains(rest, ".") || a.emitted[path] {
			continue
		}
		omitted = append(omitted, path)
	}
	sort.Strings(omitted)

	for _, path := range omitted {
		doc := a.docs[path]
		a.out = append(a.out, "")
		a.comment(doc.Comment)
		for _, alt := range doc.Alternatives {
			a.out = append(a.out, "# "+alt)
		}
		a.emitted[path] = true
	}
}

func (a *annotator) comment(text string) {
	if text == "" {
		return
	}
	for _, cl := range strings.Split(text, "\n") {
		a.out = append(a.out, "# "+cl)
	}
}

func (a *annotator) path(key string) string {
	if len(a.section) == 0 {
		return key
	}
	return strings.Join(a.section, ".") + "." + key
}

// parseSectionPath splits a dotted TOML section header (e.g. "font.google")
// into its path segments.
func parseSectionPath(section string) []string {
	return strings.Split(section, ".")
}

// sectionName returns the last dotted segment of a section header with its
// first letter capitalized, e.g. "output" yields "Output".
func sectionName(section string) string {
	parts := strings.Split(section, ".")
	last := parts[len(parts)-1]
	if len(last) == 0 {
		return ""
	}
	return strings.ToUpper(last[:1]) + last[1:]
}
