// Package ignorefile maintains the generated block inside .gitignore and
// .npmignore files.
package ignorefile

import (
	"fmt"
	"strings"

	"github.com/tacogips/esops/internal/debug"
	"github.com/tacogips/esops/internal/fsys"
)

// Block markers. Everything between them is owned by esops.
const (
	BeginMarker = "### ESOPS AUTO GENERATED BEGIN ###"
	EndMarker   = "### ESOPS AUTO GENERATED END ###"
)

// Lines converts relative paths into root-anchored ignore lines.
func Lines(rels []string) []string {
	lines := make([]string, 0, len(rels))
	for _, rel := range rels {
		lines = append(lines, "/"+strings.TrimPrefix(rel, "/"))
	}
	return lines
}

// Block renders the managed block including both markers, without a
// trailing newline.
func Block(rels []string) string {
	parts := append([]string{BeginMarker}, Lines(rels)...)
	parts = append(parts, EndMarker)
	return strings.Join(parts, "\n")
}

// Render replaces the managed block in content. Text outside the markers is
// kept verbatim. Without a begin marker the block is appended; a begin
// marker without an end marker is replaced through the end of content.
func Render(content string, rels []string) string {
	block := Block(rels)

	begin := strings.Index(content, BeginMarker)
	if begin < 0 {
		var b strings.Builder
		b.WriteString(content)
		if content != "" && !strings.HasSuffix(content, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(block)
		b.WriteString("\n")
		return b.String()
	}

	end := strings.Index(content[begin:], EndMarker)
	if end < 0 {
		return content[:begin] + block + "\n"
	}
	end += begin + len(EndMarker)

	return content[:begin] + block + content[end:]
}

// UpdateManagedBlock rewrites the managed block of the ignore file at path
// with rels. It returns false without touching anything when the file does
// not exist.
func UpdateManagedBlock(fs fsys.FS, path string, rels []string) (bool, error) {
	if !fs.Exists(path) {
		debug.Debug("[ignorefile] %s does not exist, skipping", path)
		return false, nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	updated := Render(string(data), rels)
	if updated == string(data) {
		debug.Debug("[ignorefile] %s already up to date", path)
		return true, nil
	}

	if err := fs.WriteFile(path, []byte(updated)); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	debug.Debug("[ignorefile] Wrote %d entries to %s", len(rels), path)
	return true, nil
}
