// Package report renders the markdown shown to the user around a render:
// overwrite previews, the final summary and error explanations.
package report

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/tacogips/esops/internal/commit"
	"github.com/tacogips/esops/internal/manifest"
)

// MaxPreviewLines caps the diff shown per file.
const MaxPreviewLines = 40

// Preview is one file about to be overwritten.
type Preview struct {
	RelativePath string
	Current      string
	Incoming     string
}

// FinalReport summarizes a completed commit.
func FinalReport(res *commit.Result, cwd string) string {
	var b strings.Builder

	b.WriteString("# Your Directory has Been Updated.\n\n")
	b.WriteString("## Files Added\n\n")
	for _, a := range res.Manifest {
		if !a.Success {
			continue
		}
		fmt.Fprintf(&b, "* `%s`%s\n", a.RelativePath, actionNote(a.Action))
	}

	b.WriteString("\n## Current Working Directory\n\n")
	fmt.Fprintf(&b, "`%s`\n", cwd)

	var notes []string
	for _, u := range res.IgnoreUpdates {
		if u.Updated {
			notes = append(notes, fmt.Sprintf("* `%s` has been updated.", u.Name))
		}
	}
	if len(notes) > 0 {
		b.WriteString("\n## Notes\n\n")
		b.WriteString(strings.Join(notes, "\n"))
		b.WriteString("\n")
	}

	return b.String()
}

func actionNote(a manifest.MergeAction) string {
	if a.IsMerge() {
		return " (" + a.String() + ")"
	}
	return ""
}

// FilesToOverwrite lists the files a commit would replace, with a line
// diff of each.
func FilesToOverwrite(previews []Preview) string {
	var b strings.Builder

	b.WriteString("# The Following Files Will Be Overwritten\n\n")
	for _, p := range previews {
		fmt.Fprintf(&b, "## `%s`\n\n", p.RelativePath)
		b.WriteString("```diff\n")
		b.WriteString(Diff(p.Current, p.Incoming, MaxPreviewLines))
		b.WriteString("```\n\n")
	}
	return b.String()
}

// Diff returns a unified-style line diff of current against incoming,
// truncated after maxLines lines (0 means no limit).
func Diff(current, incoming string, maxLines int) string {
	dmp := diffmatchpatch.New()
	a, c, lines := dmp.DiffLinesToChars(current, incoming)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, c, false), lines)

	var out []string
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out = append(out, prefix+strings.TrimSuffix(line, "\n"))
		}
	}

	if maxLines > 0 && len(out) > maxLines {
		hidden := len(out) - maxLines
		out = append(out[:maxLines], fmt.Sprintf("... %d more lines", hidden))
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

// ConfirmOverwriteMessage is the confirmation prompt.
func ConfirmOverwriteMessage(n int) string {
	if n == 1 {
		return "1 file will be overwritten. Continue?"
	}
	return fmt.Sprintf("%d files will be overwritten. Continue?", n)
}

// FilesNotOverwritten is shown when the user declines.
func FilesNotOverwritten() string {
	return "# Files Not Overwritten\n\nNo changes were made to your directory.\n"
}

// NoPathError explains a component path that could not be found.
func NoPathError(path, cwd string) string {
	return fmt.Sprintf("Path `%s` not found.\n\n"+
		"## Current Working Directory\n\n`%s`\n\n"+
		"Allowed paths include:\n\n"+
		"* filesystem paths: `./components/base`\n"+
		"* home-relative paths: `~/components/base`\n"+
		"* file URLs: `file:///srv/components/base`\n", path, cwd)
}

// NoComponentsError is shown when nothing was given to render.
func NoComponentsError() string {
	return "No components have been defined.\n\n" +
		"Pass component paths as arguments or list them under `components` in `esops.toml`.\n"
}

// DryRun describes what a commit would do without doing it.
func DryRun(plan *commit.Plan, cwd string) string {
	var b strings.Builder

	b.WriteString("# Dry Run\n\n")
	fmt.Fprintf(&b, "Destination: `%s`\n\n", cwd)
	b.WriteString("| File | Action | Result |\n")
	b.WriteString("|------|--------|--------|\n")
	for _, e := range plan.Entries {
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", e.RelativePath, e.Action, dryRunResult(e))
	}
	return b.String()
}

func dryRunResult(e commit.Entry) string {
	switch {
	case !e.Exists:
		return "create"
	case e.Conflict():
		return "overwrite"
	default:
		return "merge"
	}
}
