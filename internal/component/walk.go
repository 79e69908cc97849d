// Package component locates component directories and lists their files.
package component

import (
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/tacogips/esops/internal/debug"
	"github.com/tacogips/esops/internal/fsys"
)

// Walk returns the absolute paths of all regular files under root, sorted
// lexicographically. Symlinks to regular files are included; symlinked
// directories are not descended.
func Walk(fs fsys.FS, root string) ([]string, error) {
	debug.Debug("[component] Walking: %s", root)

	info, err := fs.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewPathNotFoundError(root, "component path does not exist", err)
		}
		return nil, NewWalkError(root, err)
	}
	if !info.IsDir() {
		return nil, NewPathNotFoundError(root, "component path is not a directory", nil)
	}

	var files []string
	if err := walkDir(fs, root, &files); err != nil {
		return nil, err
	}

	sort.Strings(files)
	debug.Debug("[component] Collected %d files under %s", len(files), root)
	return files, nil
}

func walkDir(fs fsys.FS, dir string, files *[]string) error {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return NewWalkError(dir, err)
	}

	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		mode := entry.Mode()

		switch {
		case mode.IsDir():
			if err := walkDir(fs, full, files); err != nil {
				return err
			}
		case mode&os.ModeSymlink != 0:
			target, err := fs.Stat(full)
			if err != nil {
				return NewWalkError(full, err)
			}
			if target.Mode().IsRegular() {
				*files = append(*files, full)
			} else {
				debug.Debug("[component] Skipping symlink to non-regular file: %s", full)
			}
		case mode.IsRegular():
			*files = append(*files, full)
		default:
			debug.Debug("[component] Skipping non-regular file: %s", full)
		}
	}
	return nil
}

// RelativePath returns the slash-separated path of file relative to root.
func RelativePath(root, file string) (string, error) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
