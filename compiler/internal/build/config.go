package build

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the optional per-project .custodc.yaml, looked up from the
// source file's directory upward.
type Config struct {
	// Color controls diagnostic coloring: "auto" (default), "always", "never".
	Color string `yaml:"color"`

	// MaxErrors caps the diagnostics printed per file; 0 means no cap.
	MaxErrors int `yaml:"max-errors"`

	// AliasDump, when set, is a file path the access-history visualization is
	// written to after every check.
	AliasDump string `yaml:"alias-dump"`
}

const configName = ".custodc.yaml"

func DefaultConfig() Config {
	return Config{Color: "auto"}
}

// LoadConfig walks from dir toward the filesystem root and parses the first
// .custodc.yaml it finds. A missing file is not an error.
func LoadConfig(dir string) (Config, error) {
	cfg := DefaultConfig()
	abs, err := filepath.Abs(dir)
	if err != nil {
		return cfg, fmt.Errorf("resolve %s: %w", dir, err)
	}
	for {
		path := filepath.Join(abs, configName)
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
			if err := cfg.validate(); err != nil {
				return cfg, fmt.Errorf("%s: %w", path, err)
			}
			return cfg, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return cfg, nil
		}
		abs = parent
	}
}

func (c Config) validate() error {
	switch c.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", c.Color)
	}
	if c.MaxErrors < 0 {
		return fmt.Errorf("max-errors must be >= 0, got %d", c.MaxErrors)
	}
	return nil
}
