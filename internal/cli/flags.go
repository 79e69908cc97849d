package cli

import (
	"fmt"
	"strings"

	"github.com/tacogips/esops/internal/toggles"
)

// Common flag names and descriptions
const (
	// Flag names
	FlagDest        = "dest"
	FlagToggle      = "toggle"
	FlagYes         = "yes"
	FlagDryRun      = "dry-run"
	FlagKeepStaging = "keep-staging"
	FlagConfig      = "config"
	FlagOlderThan   = "older-than"
	FlagNoColor     = "no-color"
	FlagQuiet       = "quiet"
	FlagDebug       = "debug"

	// Flag descriptions
	DescDest        = "Project directory to render into"
	DescToggle      = "Override a toggle (key=value, repeatable)"
	DescYes         = "Overwrite existing files without asking"
	DescDryRun      = "Stage and show planned actions without touching the project"
	DescKeepStaging = "Keep the staging directory after rendering"
	DescConfig      = "Path to config file"
	DescOlderThan   = "Only remove staging directories older than this duration"
	DescNoColor     = "Disable colored output"
	DescQuiet       = "Suppress non-error output"
	DescDebug       = "Enable debug logging"
)

// parseToggleFlags parses --toggle values. "key=value" sets value ("true"
// and "false" become booleans); a bare "key" sets true.
func parseToggleFlags(values []string) (toggles.Toggles, error) {
	out := make(toggles.Toggles, len(values))
	for _, raw := range values {
		key, value, hasValue := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid --%s %q: key cannot be empty", FlagToggle, raw)
		}
		if !hasValue {
			out[key] = toggles.Bool(true)
			continue
		}
		out[key] = toggles.ParseFlag(value)
	}
	return out, nil
}
