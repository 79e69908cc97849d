package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the esops directories under the XDG base directories.
const AppName = "esops"

// EnvPrefix prefixes environment variables read into the configuration.
const EnvPrefix = "ESOPS_"

// ProjectConfigNames are the project configuration file names, in lookup
// order. The first one found is loaded.
var ProjectConfigNames = []string{"esops.toml", ".esops.toml", "esops.yaml", "esops.yml"}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Toggles: map[string]any{},
		Staging: StagingConfig{
			Dir: DefaultStagingDir(),
		},
		Ignore: IgnoreConfig{
			Files: DefaultIgnoreFiles(),
		},
		Output: OutputConfig{
			Color:    true,
			Markdown: true,
		},
	}
}

// DefaultIgnoreFiles returns the ignore files updated after a commit.
func DefaultIgnoreFiles() []string {
	return []string{".gitignore", ".npmignore"}
}

// DefaultStagingDir returns the staging root under the XDG cache directory.
func DefaultStagingDir() string {
	return filepath.Join(xdg.CacheHome, AppName, "render-prep")
}

// UserConfigPath returns the user configuration file path.
func UserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.toml")
}

func defaultMap() map[string]any {
	d := DefaultConfig()
	return map[string]any{
		"components":      []string{},
		"toggles":         map[string]any{},
		"staging.dir":     d.Staging.Dir,
		"staging.keep":    d.Staging.Keep,
		"staging.max_age": "0s",
		"ignore.files":    d.Ignore.Files,
		"output.color":    d.Output.Color,
		"output.quiet":    d.Output.Quiet,
		"output.debug":    d.Output.Debug,
		"output.markdown": d.Output.Markdown,
		"assume_yes":      d.AssumeYes,
	}
}
