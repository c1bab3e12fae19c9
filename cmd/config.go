package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const EnvConfigFile = "BUD_CONFIG"

// Config is the per-machine configuration. The budget directory is shared
// between devices through file synchronization, but the device identity is
// not: it lives here, outside the synchronized folder.
type Config struct {
	Budget     string `yaml:"budget"`
	DeviceGUID string `yaml:"deviceGuid,omitempty"`
	Currency   string `yaml:"currency,omitempty"`
	Strictness string `yaml:"strictness,omitempty"`
}

// configPath returns the configuration file location: $BUD_CONFIG if set,
// otherwise bud/config.yaml in the user configuration directory.
func configPath() (string, error) {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot locate the user configuration directory: %w", err)
	}
	return filepath.Join(dir, "bud", "config.yaml"), nil
}

// LoadConfig reads the configuration file and applies the global flag
// overrides. A missing file is not an error: flags and defaults apply.
func LoadConfig() (Config, error) {
	var cfg Config
	p, err := configPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(p)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("cannot read configuration %q: %w", p, err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid configuration %q: %w", p, err)
		}
	}

	if *budgetDir != "" {
		cfg.Budget = *budgetDir
	}
	if *strictness != "" {
		cfg.Strictness = *strictness
	}
	if cfg.Budget == "" {
		cfg.Budget = "."
	}
	if cfg.Strictness == "" {
		cfg.Strictness = "lenient"
	}
	return cfg, nil
}

// SaveConfig writes the configuration file, creating its directory.
func SaveConfig(cfg Config) error {
	p, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return fmt.Errorf("cannot create configuration directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0644)
}
