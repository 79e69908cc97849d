// Package commit applies a manifest to the destination tree and refreshes
// the managed ignore-file blocks.
package commit

import (
	"context"
	"path/filepath"

	"github.com/tacogips/esops/internal/debug"
	"github.com/tacogips/esops/internal/fsys"
	"github.com/tacogips/esops/internal/ignorefile"
	"github.com/tacogips/esops/internal/manifest"
	"github.com/tacogips/esops/internal/merge"
)

// DefaultIgnoreFiles are updated after a commit, in this order.
var DefaultIgnoreFiles = []string{".gitignore", ".npmignore"}

// Mode selects how override collisions are handled.
type Mode int

const (
	// ModeStaged refuses to replace existing files that are not toggled for
	// merge. Collisions are detected before anything is written.
	ModeStaged Mode = iota
	// ModeDirect replaces existing files. Used after the caller confirmed
	// the overwrite.
	ModeDirect
)

func (m Mode) String() string {
	if m == ModeDirect {
		return "direct"
	}
	return "staged"
}

// Entry is a manifest entry annotated with the state of its destination.
type Entry struct {
	manifest.FileAction
	// Exists reports whether the destination file already exists.
	Exists bool
}

// Conflict reports whether committing the entry replaces an existing file
// outside the merge rules.
func (e Entry) Conflict() bool {
	return e.Exists && !e.Action.IsMerge()
}

// Plan describes what a commit would do.
type Plan struct {
	Entries []Entry
}

// Conflicts returns the entries that would overwrite existing files.
func (p *Plan) Conflicts() []Entry {
	return p.filter(Entry.Conflict)
}

// Merges returns the entries merged into existing files.
func (p *Plan) Merges() []Entry {
	return p.filter(func(e Entry) bool { return e.Exists && e.Action.IsMerge() })
}

// Creates returns the entries whose destination does not exist yet.
func (p *Plan) Creates() []Entry {
	return p.filter(func(e Entry) bool { return !e.Exists })
}

// HasConflicts reports whether any entry would overwrite an existing file.
func (p *Plan) HasConflicts() bool {
	return len(p.Conflicts()) > 0
}

func (p *Plan) filter(keep func(Entry) bool) []Entry {
	var out []Entry
	for _, e := range p.Entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// IgnoreUpdate records whether an ignore file was rewritten.
type IgnoreUpdate struct {
	Name    string
	Updated bool
}

// Result is the outcome of a commit.
type Result struct {
	// Manifest is the committed manifest with Success set per entry.
	Manifest manifest.Manifest
	// IgnoreUpdates lists the ignore files in the order they were processed.
	IgnoreUpdates []IgnoreUpdate
}

// IgnoreUpdated reports whether the named ignore file was updated.
func (r *Result) IgnoreUpdated(name string) bool {
	for _, u := range r.IgnoreUpdates {
		if u.Name == name {
			return u.Updated
		}
	}
	return false
}

// GitignoreUpdated reports whether .gitignore was updated.
func (r *Result) GitignoreUpdated() bool { return r.IgnoreUpdated(".gitignore") }

// NpmignoreUpdated reports whether .npmignore was updated.
func (r *Result) NpmignoreUpdated() bool { return r.IgnoreUpdated(".npmignore") }

// Engine commits manifests to a destination tree.
type Engine struct {
	fs fsys.FS
	// IgnoreFiles are the ignore file names, relative to the destination
	// root, whose managed block is rewritten.
	IgnoreFiles []string
}

// NewEngine creates an Engine updating DefaultIgnoreFiles.
func NewEngine(fs fsys.FS) *Engine {
	return &Engine{fs: fs, IgnoreFiles: DefaultIgnoreFiles}
}

// Plan checks every entry's destination.
func (e *Engine) Plan(m manifest.Manifest) *Plan {
	p := &Plan{Entries: make([]Entry, 0, len(m))}
	for _, a := range m {
		p.Entries = append(p.Entries, Entry{FileAction: a, Exists: e.fs.Exists(a.To)})
	}
	return p
}

// Commit applies m to destRoot. Merge entries run first, then the remaining
// copies, then the ignore files. Entries run in manifest order within each
// step. The first failure stops the commit; files written before it stay.
// ctx is only checked before anything is written.
func (e *Engine) Commit(ctx context.Context, m manifest.Manifest, destRoot string, mode Mode) (*Result, error) {
	debug.DebugSection("[commit] Commit")
	debug.DebugValue("[commit] Destination", destRoot)
	debug.DebugValue("[commit] Mode", mode.String())
	debug.DebugValue("[commit] Entries", len(m))

	if mode == ModeStaged {
		if conflicts := e.Plan(m).Conflicts(); len(conflicts) > 0 {
			a := conflicts[0].FileAction
			debug.Debug("[commit] %d collisions, first: %s", len(conflicts), a.RelativePath)
			return &Result{Manifest: cloneManifest(m)}, &merge.MergeError{
				Type:         merge.FileNotToggledForMerge,
				Action:       a.Action,
				RelativePath: a.RelativePath,
				From:         a.From,
				To:           a.To,
				Message:      "destination already exists and the file is not toggled for merge",
			}
		}
	}

	log := debug.Logger("commit")
	result := &Result{Manifest: cloneManifest(m)}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	overwrite := mode == ModeDirect

	for _, pass := range []func(manifest.FileAction) bool{
		func(a manifest.FileAction) bool { return a.Action.IsMerge() },
		func(a manifest.FileAction) bool { return !a.Action.IsMerge() },
	} {
		for i := range result.Manifest {
			a := result.Manifest[i]
			if !pass(a) {
				continue
			}
			outcome, err := merge.Apply(e.fs, a, overwrite)
			if err != nil {
				return result, err
			}
			log.Debug().Str("path", a.RelativePath).Stringer("outcome", outcome).Msg("applied")
			result.Manifest[i].Success = true
		}
	}

	entries := result.Manifest.IgnoreEntries()
	for _, name := range e.IgnoreFiles {
		updated, err := ignorefile.UpdateManagedBlock(e.fs, filepath.Join(destRoot, name), entries)
		if err != nil {
			return result, err
		}
		result.IgnoreUpdates = append(result.IgnoreUpdates, IgnoreUpdate{Name: name, Updated: updated})
	}

	debug.Debug("[commit] Committed %d files to %s", result.Manifest.Succeeded(), destRoot)
	return result, nil
}

func cloneManifest(m manifest.Manifest) manifest.Manifest {
	out := make(manifest.Manifest, len(m))
	copy(out, m)
	return out
}
