package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/tacogips/esops/internal/debug"
)

// LoadOptions controls which sources Load reads.
type LoadOptions struct {
	// ProjectDir is searched for ProjectConfigNames and a .env file.
	// Empty means the working directory.
	ProjectDir string
	// ConfigPath is an explicit configuration file loaded after the project
	// configuration. It must exist.
	ConfigPath string
	// UserConfigPath overrides UserConfigPath().
	UserConfigPath string
	// SkipUserConfig ignores the user configuration file.
	SkipUserConfig bool
	// SkipEnv ignores .env and ESOPS_* environment variables.
	SkipEnv bool
}

// Load builds the configuration from, in increasing precedence: defaults,
// the user configuration file, the project configuration file, the
// explicit configuration file, and ESOPS_* environment variables (after
// loading the project's .env). Nested keys in environment variables use a
// double underscore: ESOPS_STAGING__DIR sets staging.dir.
func Load(opts LoadOptions) (*Config, []string, error) {
	k := koanf.New(".")
	var sources []string

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return nil, nil, NewConfigErrorWithCause(ConfigInvalid, "defaults", "failed to load defaults", err)
	}

	// 2. User config
	if !opts.SkipUserConfig {
		path := opts.UserConfigPath
		if path == "" {
			path = UserConfigPath()
		}
		loaded, err := loadFileIfExists(k, path)
		if err != nil {
			return nil, nil, err
		}
		if loaded {
			sources = append(sources, path)
		}
	}

	// 3. Project config
	projectDir := opts.ProjectDir
	if projectDir == "" {
		projectDir = "."
	}
	for _, name := range ProjectConfigNames {
		path := filepath.Join(projectDir, name)
		loaded, err := loadFileIfExists(k, path)
		if err != nil {
			return nil, nil, err
		}
		if loaded {
			sources = append(sources, path)
			break
		}
	}

	// 4. Explicit config
	if opts.ConfigPath != "" {
		if _, err := os.Stat(opts.ConfigPath); err != nil {
			return nil, nil, NewConfigErrorWithCause(ConfigNotFound, opts.ConfigPath, "configuration file not found", err)
		}
		if _, err := loadFileIfExists(k, opts.ConfigPath); err != nil {
			return nil, nil, err
		}
		sources = append(sources, opts.ConfigPath)
	}

	// 5. Environment
	if !opts.SkipEnv {
		if err := LoadDotEnv(projectDir); err != nil {
			return nil, nil, err
		}
		err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
			return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
		}), nil)
		if err != nil {
			return nil, nil, NewConfigErrorWithCause(ConfigInvalid, "env", "failed to load environment", err)
		}
	}

	// 6. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, nil, NewConfigErrorWithCause(ConfigInvalid, strings.Join(sources, ", "), "failed to decode configuration", err)
	}
	if cfg.Toggles == nil {
		cfg.Toggles = map[string]any{}
	}

	debug.Debug("[config] Loaded configuration from %d files", len(sources))
	for _, s := range sources {
		debug.DebugValue("[config] Source", s)
	}
	return &cfg, sources, nil
}

func loadFileIfExists(k *koanf.Koanf, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, NewConfigErrorWithCause(ConfigInvalid, path, "failed to stat configuration file", err)
	}

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	default:
		return false, NewConfigErrorWithCause(ConfigInvalid, path, "unsupported configuration format (use .toml or .yaml)", nil)
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return false, NewConfigErrorWithCause(ConfigInvalid, path, "failed to parse configuration file", err)
	}
	debug.Debug("[config] Loaded %s", path)
	return true, nil
}

// LoadDotEnv loads dir/.env into the process environment when present.
// Variables already set are not overridden.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return NewConfigErrorWithCause(ConfigInvalid, path, "failed to load .env", err)
	}
	debug.Debug("[config] Loaded environment from %s", path)
	return nil
}
