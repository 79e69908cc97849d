package render

import (
	"context"

	"github.com/tacogips/esops/internal/component"
	"github.com/tacogips/esops/internal/debug"
	"github.com/tacogips/esops/internal/fsys"
	"github.com/tacogips/esops/internal/manifest"
	"github.com/tacogips/esops/internal/toggles"
)

// ComponentResult is the outcome of rendering one component.
type ComponentResult struct {
	// Root is the component directory.
	Root string
	// Resolution holds the resolved toggles and the kept files.
	Resolution *toggles.Resolution
	// Manifest is the staged manifest; entries carry Success.
	Manifest manifest.Manifest
}

// Renderer runs the full walk, resolve, classify and stage pipeline.
type Renderer struct {
	fs       fsys.FS
	resolver *toggles.Resolver
	stager   *Stager
}

// NewRenderer creates a Renderer.
func NewRenderer(fs fsys.FS) *Renderer {
	return &Renderer{
		fs:       fs,
		resolver: toggles.NewResolver(fs),
		stager:   NewStager(fs),
	}
}

// RenderComponent stages the component at root into stagingRoot. Several
// components may share a staging root; their files merge under the same
// rules as a destination tree.
func (r *Renderer) RenderComponent(ctx context.Context, root, stagingRoot string, overrides toggles.Toggles) (*ComponentResult, error) {
	debug.DebugSection("[render] RenderComponent")
	debug.DebugValue("[render] Component", root)
	debug.DebugValue("[render] Staging", stagingRoot)

	files, err := component.Walk(r.fs, root)
	if err != nil {
		return nil, err
	}

	res, err := r.resolver.Resolve(root, files, overrides)
	if err != nil {
		return nil, err
	}

	skeleton, err := Skeleton(root, stagingRoot, res.FilesWithoutToggles, res.Toggles)
	if err != nil {
		return nil, err
	}

	staged, err := r.stager.Stage(ctx, skeleton)
	result := &ComponentResult{Root: root, Resolution: res, Manifest: staged}
	if err != nil {
		return result, err
	}

	debug.Debug("[render] Rendered %d files from %s", len(staged), root)
	return result, nil
}
