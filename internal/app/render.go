package app

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/oklog/ulid/v2"

	"github.com/tacogips/esops/internal/commit"
	"github.com/tacogips/esops/internal/debug"
	"github.com/tacogips/esops/internal/fsys"
	"github.com/tacogips/esops/internal/manifest"
	"github.com/tacogips/esops/internal/render"
	"github.com/tacogips/esops/internal/report"
	"github.com/tacogips/esops/internal/toggles"
)

// RenderOptions contains options for rendering components into a directory.
type RenderOptions struct {
	// Components are absolute component directories, rendered in order.
	Components []string
	// DestDir is the destination tree.
	DestDir string
	// Toggles override the declared toggle defaults.
	Toggles toggles.Toggles
	// StagingRoot holds one staging directory per invocation.
	StagingRoot string
	// KeepStaging leaves the staging directory in place after the run.
	KeepStaging bool
	// DryRun stages and plans but never touches DestDir.
	DryRun bool
	// Confirmer is asked before overwriting files outside merge rules.
	// Nil means overwrites are refused.
	Confirmer Confirmer
	// IgnoreFiles overrides commit.DefaultIgnoreFiles when non-nil.
	IgnoreFiles []string
	// FS is the filesystem; nil means the host filesystem.
	FS fsys.FS
	// Show receives markdown meant for the user. May be nil.
	Show func(markdown string)
}

// RenderResult contains the results of a render.
type RenderResult struct {
	// Components holds the per-component render outcome.
	Components []*render.ComponentResult
	// Manifest is the manifest committed (or planned) against DestDir.
	Manifest manifest.Manifest
	// Plan describes the destination state before commit.
	Plan *commit.Plan
	// Commit is set once a commit was attempted.
	Commit *commit.Result
	// Committed reports a successful commit.
	Committed bool
	// Declined reports that the user refused the overwrite.
	Declined bool
	// Cancelled reports that the user aborted the prompt.
	Cancelled bool
	// StagingDir is this invocation's staging directory.
	StagingDir string
	// DestDir is the destination tree.
	DestDir string
}

// Render stages every component, asks for confirmation when existing files
// would be overwritten, and commits the result to DestDir. Nothing in
// DestDir is touched before the confirmation gate.
func Render(ctx context.Context, opts RenderOptions) (*RenderResult, error) {
	// Validate options
	if err := validateRenderOptions(opts); err != nil {
		return nil, err
	}

	fs := opts.FS
	if fs == nil {
		fs = fsys.OS()
	}
	show := opts.Show
	if show == nil {
		show = func(string) {}
	}

	debug.DebugSection("[app] Render")
	debug.DebugValue("[app] Components", opts.Components)
	debug.DebugValue("[app] Destination", opts.DestDir)
	debug.DebugValue("[app] DryRun", opts.DryRun)

	// Prepare staging directory
	stagingDir := filepath.Join(opts.StagingRoot, ulid.Make().String())
	if err := fs.MkdirAll(stagingDir); err != nil {
		return nil, NewStagingError("failed to create staging directory", err)
	}
	if !opts.KeepStaging {
		defer func() {
			if err := fs.RemoveAll(stagingDir); err != nil {
				debug.Warn("failed to remove staging directory %s: %v", stagingDir, err)
			}
		}()
	}

	result := &RenderResult{StagingDir: stagingDir, DestDir: opts.DestDir}

	// Stage components
	renderer := render.NewRenderer(fs)
	var staged manifest.Manifest
	for _, comp := range opts.Components {
		cr, err := renderer.RenderComponent(ctx, comp, stagingDir, opts.Toggles)
		if cr != nil {
			result.Components = append(result.Components, cr)
		}
		if err != nil {
			return result, err
		}
		staged = append(staged, cr.Manifest...)
	}

	// Plan commit
	engine := commit.NewEngine(fs)
	if opts.IgnoreFiles != nil {
		engine.IgnoreFiles = opts.IgnoreFiles
	}
	result.Manifest = render.CommitManifest(staged, opts.DestDir)
	result.Plan = engine.Plan(result.Manifest)

	if opts.DryRun {
		show(report.DryRun(result.Plan, opts.DestDir))
		return result, nil
	}

	// Confirm overwrites
	mode := commit.ModeStaged
	if conflicts := result.Plan.Conflicts(); len(conflicts) > 0 && opts.Confirmer != nil {
		show(report.FilesToOverwrite(previews(fs, conflicts)))

		ok, err := opts.Confirmer.Confirm(ctx, report.ConfirmOverwriteMessage(len(conflicts)))
		switch {
		case errors.Is(err, ErrConfirmCancelled):
			result.Cancelled = true
		case err != nil:
			return result, NewConfirmError("failed to confirm overwrite", err)
		case !ok:
			result.Declined = true
		}
		if result.Cancelled || result.Declined {
			debug.Debug("[app] Overwrite not confirmed (cancelled=%v)", result.Cancelled)
			show(report.FilesNotOverwritten())
			return result, nil
		}
		mode = commit.ModeDirect
	}

	// Commit
	res, err := engine.Commit(ctx, result.Manifest, opts.DestDir, mode)
	result.Commit = res
	if err != nil {
		return result, err
	}
	result.Committed = true

	show(report.FinalReport(res, opts.DestDir))
	return result, nil
}

func validateRenderOptions(opts RenderOptions) error {
	if len(opts.Components) == 0 {
		return NewValidationError(report.NoComponentsError(), nil)
	}
	if opts.DestDir == "" {
		return NewValidationError("destination directory is required", nil)
	}
	if opts.StagingRoot == "" {
		return NewValidationError("staging root is required", nil)
	}
	return nil
}

func previews(fs fsys.FS, entries []commit.Entry) []report.Preview {
	out := make([]report.Preview, 0, len(entries))
	for _, e := range entries {
		current, err := fs.ReadFile(e.To)
		if err != nil {
			debug.Debug("[app] Cannot preview %s: %v", e.To, err)
		}
		incoming, err := fs.ReadFile(e.From)
		if err != nil {
			debug.Debug("[app] Cannot preview %s: %v", e.From, err)
		}
		out = append(out, report.Preview{
			RelativePath: e.RelativePath,
			Current:      string(current),
			Incoming:     string(incoming),
		})
	}
	return out
}
