// Package render turns a component directory into staged files: it walks
// the tree, resolves toggles, classifies every file and applies the
// resulting actions, in order, into a staging directory.
package render

import (
	"context"
	"path/filepath"

	"github.com/tacogips/esops/internal/component"
	"github.com/tacogips/esops/internal/debug"
	"github.com/tacogips/esops/internal/fsys"
	"github.com/tacogips/esops/internal/manifest"
	"github.com/tacogips/esops/internal/merge"
	"github.com/tacogips/esops/internal/toggles"
)

// Skeleton builds the manifest for files (absolute paths under
// componentRoot, in walk order) targeting stagingRoot.
func Skeleton(componentRoot, stagingRoot string, files []string, t toggles.Toggles) (manifest.Manifest, error) {
	m := make(manifest.Manifest, 0, len(files))
	for _, from := range files {
		rel, err := component.RelativePath(componentRoot, from)
		if err != nil {
			return nil, component.NewInvalidPathError(from, err)
		}
		policy := toggles.Classify(t, rel)
		m = append(m, manifest.FileAction{
			From:         from,
			To:           filepath.Join(stagingRoot, filepath.FromSlash(rel)),
			RelativePath: rel,
			Action:       policy.Action,
			GitPublish:   policy.GitPublish,
		})
	}
	return m, nil
}

// Stager applies manifest entries to the staging directory.
type Stager struct {
	fs fsys.FS
}

// NewStager creates a Stager.
func NewStager(fs fsys.FS) *Stager {
	return &Stager{fs: fs}
}

// Stage applies every entry strictly in order, since a merge reads what an
// earlier entry wrote to the same target. It stops at the first failure and
// returns the manifest processed so far alongside the error.
func (s *Stager) Stage(ctx context.Context, m manifest.Manifest) (manifest.Manifest, error) {
	out := make(manifest.Manifest, 0, len(m))
	for _, a := range m {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		outcome, err := merge.Apply(s.fs, a, false)
		if err != nil {
			debug.Debug("[render] Staging %s failed: %v", a.RelativePath, err)
			return out, err
		}
		debug.Debug("[render] Staged %s (%s, %s)", a.RelativePath, a.Action, outcome)
		a.Success = true
		out = append(out, a)
	}
	return out, nil
}

// CommitManifest rebases staged entries onto destRoot: From becomes the
// staged file and To the destination. Entries sharing a relative path
// collapse into the first one; the merged entry keeps the first merge
// action seen and is git-published only if every entry was.
func CommitManifest(staged manifest.Manifest, destRoot string) manifest.Manifest {
	index := map[string]int{}
	out := make(manifest.Manifest, 0, len(staged))

	for _, a := range staged {
		if i, ok := index[a.RelativePath]; ok {
			if !out[i].Action.IsMerge() && a.Action.IsMerge() {
				out[i].Action = a.Action
			}
			out[i].GitPublish = out[i].GitPublish && a.GitPublish
			continue
		}
		index[a.RelativePath] = len(out)
		out = append(out, manifest.FileAction{
			From:         a.To,
			To:           filepath.Join(destRoot, filepath.FromSlash(a.RelativePath)),
			RelativePath: a.RelativePath,
			Action:       a.Action,
			GitPublish:   a.GitPublish,
		})
	}
	return out
}
