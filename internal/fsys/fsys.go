// Package fsys is the filesystem collaborator used by the render and commit
// stages. It is a thin layer over go-billy so that the same code runs against
// the real disk (osfs) and in-memory trees (memfs) in tests.
package fsys

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/tacogips/esops/internal/debug"
)

// FS is the set of primitives the core depends on. All paths are absolute.
type FS interface {
	// Exists reports whether a file or directory exists at path.
	Exists(path string) bool
	// ReadFile returns the content of the file at path.
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces the file at path, creating parent directories.
	// The write goes through a temporary file and a rename.
	WriteFile(path string, content []byte) error
	// ForceCopy copies src to dst, creating parent directories and
	// replacing dst if it exists.
	ForceCopy(src, dst string) error
	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string) error
	// ReadDir lists a directory without following symlinks.
	ReadDir(path string) ([]os.FileInfo, error)
	// Stat returns file info, following symlinks.
	Stat(path string) (os.FileInfo, error)
	// RemoveAll removes path and everything below it.
	RemoveAll(path string) error
}

// BillyFS implements FS on top of a billy.Filesystem.
type BillyFS struct {
	fs billy.Filesystem
}

// New wraps a billy filesystem.
func New(fs billy.Filesystem) *BillyFS {
	return &BillyFS{fs: fs}
}

// OS returns an FS rooted at "/" on the local disk.
func OS() *BillyFS {
	return New(osfs.New("/"))
}

// Memory returns an empty in-memory FS.
func Memory() *BillyFS {
	return New(memfs.New())
}

// Exists checks if a file or directory exists at the given path.
func (b *BillyFS) Exists(path string) bool {
	_, err := b.fs.Stat(path)
	return err == nil
}

// ReadFile reads the whole file.
func (b *BillyFS) ReadFile(path string) ([]byte, error) {
	return util.ReadFile(b.fs, path)
}

// WriteFile writes content atomically through a uniquely named temporary
// file in the target's directory, renamed over the target.
func (b *BillyFS) WriteFile(path string, content []byte) error {
	debug.Debug("[fsys] Writing file: %s (size: %d bytes)", path, len(content))

	if err := b.MkdirAll(filepath.Dir(path)); err != nil {
		return err
	}

	mode := os.FileMode(0644)
	if info, err := b.fs.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	f, err := util.TempFile(b.fs, filepath.Dir(path), "."+filepath.Base(path)+"-")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	tempFile := f.Name()

	_, err = f.Write(content)
	closeErr := f.Close()
	if err != nil {
		_ = b.fs.Remove(tempFile)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if closeErr != nil {
		_ = b.fs.Remove(tempFile)
		return fmt.Errorf("failed to close %s: %w", path, closeErr)
	}

	if ch, ok := b.fs.(billy.Change); ok {
		if err := ch.Chmod(tempFile, mode); err != nil {
			_ = b.fs.Remove(tempFile)
			return fmt.Errorf("failed to set mode on %s: %w", tempFile, err)
		}
	}

	if err := b.fs.Rename(tempFile, path); err != nil {
		_ = b.fs.Remove(tempFile)
		return fmt.Errorf("failed to rename %s: %w", tempFile, err)
	}
	return nil
}

// ForceCopy copies src to dst, keeping the source permissions.
func (b *BillyFS) ForceCopy(src, dst string) error {
	debug.Debug("[fsys] Copying: %s -> %s", src, dst)

	info, err := b.fs.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source file %s: %w", src, err)
	}

	in, err := b.fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	if err := b.MkdirAll(filepath.Dir(dst)); err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode&0600 == 0 {
		mode |= 0600
	}
	out, err := b.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy file content to %s: %w", dst, err)
	}
	return out.Close()
}

// MkdirAll creates a directory with 0755 permissions.
func (b *BillyFS) MkdirAll(path string) error {
	if path == "" || path == "." {
		return nil
	}
	if err := b.fs.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// ReadDir lists directory entries.
func (b *BillyFS) ReadDir(path string) ([]os.FileInfo, error) {
	return b.fs.ReadDir(path)
}

// Stat follows symlinks.
func (b *BillyFS) Stat(path string) (os.FileInfo, error) {
	return b.fs.Stat(path)
}

// RemoveAll removes a tree. A missing path is not an error.
func (b *BillyFS) RemoveAll(path string) error {
	err := util.RemoveAll(b.fs, path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Symlink creates a symbolic link. Only used by tests and tooling.
func (b *BillyFS) Symlink(target, link string) error {
	return b.fs.Symlink(target, link)
}
