package config

import "time"

// Config represents the esops configuration.
type Config struct {
	// Components are component paths rendered when none are given on the
	// command line. Relative paths resolve against the project directory.
	Components []string `koanf:"components"`
	// Toggles override declared toggle defaults. Values are booleans or strings.
	Toggles map[string]any `koanf:"toggles"`
	// Staging configures the render staging area.
	Staging StagingConfig `koanf:"staging"`
	// Ignore configures the managed ignore files.
	Ignore IgnoreConfig `koanf:"ignore"`
	// Output configures display and logging.
	Output OutputConfig `koanf:"output"`
	// AssumeYes answers yes to the overwrite confirmation.
	AssumeYes bool `koanf:"assume_yes"`
}

// StagingConfig represents staging settings.
type StagingConfig struct {
	// Dir is the directory holding per-invocation staging directories.
	Dir string `koanf:"dir"`
	// Keep leaves the staging directory behind after a render.
	Keep bool `koanf:"keep"`
	// MaxAge is the age past which `esops clean` removes staging directories.
	// Zero removes all of them.
	MaxAge time.Duration `koanf:"max_age"`
}

// IgnoreConfig represents ignore-file settings.
type IgnoreConfig struct {
	// Files are the ignore files, relative to the project directory, whose
	// managed block is rewritten after a commit.
	Files []string `koanf:"files"`
}

// OutputConfig represents output and display settings.
type OutputConfig struct {
	// Color enables colored terminal output.
	Color bool `koanf:"color"`
	// Quiet suppresses non-essential output.
	Quiet bool `koanf:"quiet"`
	// Debug enables debug logging.
	Debug bool `koanf:"debug"`
	// Markdown renders reports through a terminal markdown renderer.
	Markdown bool `koanf:"markdown"`
}
