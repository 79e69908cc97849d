package component

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tacogips/esops/internal/debug"
)

// Locate turns a component reference into an absolute directory path.
// Supported forms are relative paths (resolved against baseDir), absolute
// paths, "~/..." and file:// URLs. Existence is checked later by Walk.
func Locate(ref, baseDir string) (string, error) {
	debug.Debug("[component] Locating: %s (base: %s)", ref, baseDir)

	path := strings.TrimSpace(ref)
	if path == "" {
		return "", NewInvalidPathError(ref, fmt.Errorf("path cannot be empty"))
	}

	if strings.HasPrefix(path, "file://") {
		u, err := url.Parse(path)
		if err != nil {
			return "", NewInvalidPathError(ref, err)
		}
		path = u.Path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", NewInvalidPathError(ref, fmt.Errorf("failed to get home directory: %w", err))
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}

	if baseDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", NewInvalidPathError(ref, fmt.Errorf("failed to get current directory: %w", err))
		}
		baseDir = cwd
	}

	abs := filepath.Clean(filepath.Join(baseDir, path))
	debug.Debug("[component] Located %s -> %s", ref, abs)
	return abs, nil
}
