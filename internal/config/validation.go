package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tacogips/esops/internal/toggles"
)

// Validate validates the configuration.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Staging.Dir) == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "staging.dir", "staging directory cannot be empty")
	}
	if cfg.Staging.MaxAge < 0 {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "staging.max_age", "max age cannot be negative")
	}

	for i, name := range cfg.Ignore.Files {
		field := fmt.Sprintf("ignore.files[%d]", i)
		if strings.TrimSpace(name) == "" {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field, "ignore file name cannot be empty")
		}
		if filepath.IsAbs(name) {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field, "ignore file must be relative to the project directory")
		}
		if clean := filepath.Clean(name); clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return NewConfigErrorWithField(ConfigValidationFailed, "", field, "ignore file must stay inside the project directory")
		}
	}

	for i, c := range cfg.Components {
		if strings.TrimSpace(c) == "" {
			return NewConfigErrorWithField(ConfigValidationFailed, "", fmt.Sprintf("components[%d]", i), "component path cannot be empty")
		}
	}

	if _, err := cfg.ToggleOverrides(); err != nil {
		return err
	}
	return nil
}

// ToggleOverrides converts the configured toggles. Strings "true" and
// "false" become booleans so values from environment variables behave like
// their TOML counterparts. Keys the loader split on "." (rule keys such as
// "mergeJson:package.json") are joined back.
func (c *Config) ToggleOverrides() (toggles.Toggles, error) {
	out := make(toggles.Toggles, len(c.Toggles))
	if err := flattenToggles(out, "", c.Toggles); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenToggles(out toggles.Toggles, prefix string, m map[string]any) error {
	for key, raw := range m {
		if prefix != "" {
			key = prefix + "." + key
		}
		switch v := raw.(type) {
		case bool:
			out[key] = toggles.Bool(v)
		case string:
			out[key] = toggles.ParseFlag(v)
		case map[string]any:
			if err := flattenToggles(out, key, v); err != nil {
				return err
			}
		default:
			return NewConfigErrorWithField(ConfigValidationFailed, "", "toggles."+key,
				fmt.Sprintf("toggle value must be a boolean or string, got %T", raw))
		}
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
