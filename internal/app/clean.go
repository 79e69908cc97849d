package app

import (
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tacogips/esops/internal/debug"
	"github.com/tacogips/esops/internal/fsys"
)

// CleanOptions contains options for removing leftover staging directories.
type CleanOptions struct {
	// StagingRoot is the directory holding staging directories.
	StagingRoot string
	// OlderThan keeps directories created more recently. Zero removes all.
	OlderThan time.Duration
	// Now is the reference time; zero means time.Now.
	Now time.Time
	// FS is the filesystem; nil means the host filesystem.
	FS fsys.FS
}

// Clean removes staging directories left behind by --keep-staging or
// interrupted runs. Only entries named by a ULID are considered; anything
// else under StagingRoot is left alone. It returns the removed paths.
func Clean(opts CleanOptions) ([]string, error) {
	if opts.StagingRoot == "" {
		return nil, NewValidationError("staging root is required", nil)
	}
	fs := opts.FS
	if fs == nil {
		fs = fsys.OS()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	if !fs.Exists(opts.StagingRoot) {
		debug.Debug("[app] Staging root %s does not exist", opts.StagingRoot)
		return nil, nil
	}

	entries, err := fs.ReadDir(opts.StagingRoot)
	if err != nil {
		return nil, NewCleanError("failed to list staging root", err)
	}

	var removed []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id, err := ulid.ParseStrict(entry.Name())
		if err != nil {
			continue
		}
		if opts.OlderThan > 0 && now.Sub(ulid.Time(id.Time())) < opts.OlderThan {
			continue
		}
		p := filepath.Join(opts.StagingRoot, entry.Name())
		if err := fs.RemoveAll(p); err != nil {
			return removed, NewCleanError("failed to remove "+p, err)
		}
		debug.Debug("[app] Removed staging directory %s", p)
		removed = append(removed, p)
	}
	return removed, nil
}
