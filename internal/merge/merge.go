// Package merge applies a single manifest entry to a target path: JSON deep
// merge, text append, or copy with collision detection.
package merge

import (
	"errors"
	"fmt"

	"github.com/knadh/koanf/maps"
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"

	"github.com/tacogips/esops/internal/debug"
	"github.com/tacogips/esops/internal/fsys"
	"github.com/tacogips/esops/internal/manifest"
)

// Outcome describes what Apply did to the target.
type Outcome int

const (
	// Created means the target did not exist and the file was copied.
	Created Outcome = iota
	// MergedJSON means the incoming JSON was deep-merged into the target.
	MergedJSON
	// MergedFile means the incoming text was appended to the target.
	MergedFile
	// Overwritten means an existing target was replaced.
	Overwritten
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case MergedJSON:
		return "merged json"
	case MergedFile:
		return "merged file"
	case Overwritten:
		return "overwritten"
	default:
		return "unknown"
	}
}

var writeOptions = &ojg.Options{Indent: 2, Sort: true, HTMLUnsafe: true}

var errNotJSON = errors.New("not valid JSON")

// JSON deep-merges next into prev. Keys from next win; nested objects merge
// key-wise; arrays and scalars are replaced. The result is written with
// sorted keys and 2-space indentation. When either document is not an
// object, next replaces prev.
func JSON(prev, next []byte) ([]byte, error) {
	pv, err := oj.Parse(prev)
	if err != nil {
		return nil, fmt.Errorf("existing document: %w: %v", errNotJSON, err)
	}
	nv, err := oj.Parse(next)
	if err != nil {
		return nil, fmt.Errorf("incoming document: %w: %v", errNotJSON, err)
	}

	pm, pok := pv.(map[string]any)
	nm, nok := nv.(map[string]any)
	if !pok || !nok {
		return []byte(oj.JSON(nv, writeOptions)), nil
	}

	maps.Merge(nm, pm)
	return []byte(oj.JSON(pm, writeOptions)), nil
}

// Text appends next to prev separated by a single newline.
func Text(prev, next []byte) []byte {
	out := make([]byte, 0, len(prev)+1+len(next))
	out = append(out, prev...)
	out = append(out, '\n')
	return append(out, next...)
}

// Apply applies a to its target. An override onto an existing target fails
// with FileNotToggledForMerge unless overwrite is set.
func Apply(fs fsys.FS, a manifest.FileAction, overwrite bool) (Outcome, error) {
	exists := fs.Exists(a.To)

	if !exists {
		debug.Debug("[merge] %s: creating %s", a.RelativePath, a.To)
		if err := fs.ForceCopy(a.From, a.To); err != nil {
			return Created, newError(IOFailed, a, "failed to copy file", err)
		}
		return Created, nil
	}

	switch a.Action {
	case manifest.MergeJSON:
		return MergedJSON, applyJSON(fs, a)
	case manifest.MergeFile:
		return MergedFile, applyText(fs, a)
	}

	if !overwrite {
		return Overwritten, newError(FileNotToggledForMerge, a,
			"destination already exists and the file is not toggled for merge", nil)
	}
	debug.Debug("[merge] %s: overwriting %s", a.RelativePath, a.To)
	if err := fs.ForceCopy(a.From, a.To); err != nil {
		return Overwritten, newError(IOFailed, a, "failed to overwrite file", err)
	}
	return Overwritten, nil
}

func applyJSON(fs fsys.FS, a manifest.FileAction) error {
	prev, next, err := readBoth(fs, a)
	if err != nil {
		return err
	}
	merged, err := JSON(prev, next)
	if err != nil {
		return newError(MergeTypeMismatch, a, "cannot merge JSON", err)
	}
	debug.Debug("[merge] %s: merged JSON into %s", a.RelativePath, a.To)
	if err := fs.WriteFile(a.To, merged); err != nil {
		return newError(IOFailed, a, "failed to write merged JSON", err)
	}
	return nil
}

func applyText(fs fsys.FS, a manifest.FileAction) error {
	prev, next, err := readBoth(fs, a)
	if err != nil {
		return err
	}
	debug.Debug("[merge] %s: appended to %s", a.RelativePath, a.To)
	if err := fs.WriteFile(a.To, Text(prev, next)); err != nil {
		return newError(IOFailed, a, "failed to write merged file", err)
	}
	return nil
}

func readBoth(fs fsys.FS, a manifest.FileAction) (prev, next []byte, err error) {
	prev, err = fs.ReadFile(a.To)
	if err != nil {
		return nil, nil, newError(IOFailed, a, "failed to read destination", err)
	}
	next, err = fs.ReadFile(a.From)
	if err != nil {
		return nil, nil, newError(IOFailed, a, "failed to read source", err)
	}
	return prev, next, nil
}
