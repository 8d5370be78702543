// Package config loads aidl.toml, the project file that carries the flags a
// build would otherwise repeat on every invocation.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"

	"github.com/DennissimOS/platform-system-tools-aidl/internal/watcher"
)

// DefaultFile is looked up in the working directory when no -config flag is
// given.
const DefaultFile = "aidl.toml"

type Config struct {
	ImportPaths  []string `toml:"import_paths"`
	Preprocessed []string `toml:"preprocessed"`
	OutputDir    string   `toml:"output_dir"`
	DepFile      string   `toml:"dep_file"`
	AutoDepFile  bool     `toml:"auto_dep_file"`
	Color        string   `toml:"color"`
	Batch        Batch    `toml:"batch"`
	Watch        Watch    `toml:"watch"`
	Log          Log      `toml:"log"`
}

type Batch struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// Exclude lists base name patterns the watcher ignores.
	Exclude []string `toml:"exclude"`
}

type Log struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOptional behaves like Load but returns Default when path does not
// exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.Color == "" {
		cfg.Color = "auto"
	}
	if len(cfg.Batch.Include) == 0 {
		cfg.Batch.Include = []string{"**.aidl"}
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "warn"
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.Watch.Debounce < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce))
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, fmt.Errorf("color must be auto, always or never, got %q", c.Color))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	for _, group := range [][]string{c.Batch.Include, c.Batch.Exclude} {
		for _, p := range group {
			if _, err := glob.Compile(p, '/'); err != nil {
				errs = append(errs, fmt.Errorf("invalid pattern %q: %w", p, err))
			}
		}
	}
	if _, err := watcher.CompileExcludes(c.Watch.Exclude); err != nil {
		errs = append(errs, err)
	}
	for _, p := range c.ImportPaths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, errors.New("import_paths must not contain empty entries"))
			break
		}
	}
	return errors.Join(errs...)
}

// ParseLevel maps debug, info, warn and error to their slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
