// Package config resolves where arbor keeps its database and how the CLI
// behaves, layering: environment variables, an optional YAML config file,
// and XDG defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DBFilename is the SQLite file kept inside the data directory.
	DBFilename = "arbor.sqlite3"

	// EnvDataDir overrides the data directory when set.
	EnvDataDir = "ARBOR_DATA_DIR"

	appDir         = "arbor"
	configFilename = "config.yaml"
)

// Config holds the resolved settings.
type Config struct {
	// DataDir is the directory holding the database file.
	DataDir string `yaml:"data_dir"`

	// Editor overrides $VISUAL/$EDITOR for `arbor edit`.
	Editor string `yaml:"editor"`

	// Strategy selects script execution: "spawn" (default) or "exec".
	Strategy string `yaml:"strategy"`
}

// Load resolves the configuration. Precedence for the data directory:
// ARBOR_DATA_DIR, then data_dir from the config file, then the XDG data
// home default. A missing config file is not an error.
func Load() (*Config, error) {
	cfg := &Config{}

	if path, err := configFilePath(); err == nil {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if dir := os.Getenv(EnvDataDir); dir != "" {
		cfg.DataDir = dir
	}
	if cfg.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}

	return cfg, nil
}

// DBPath returns the full path of the database file, creating the data
// directory if needed.
func (c *Config) DBPath() (string, error) {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return filepath.Join(c.DataDir, DBFilename), nil
}

// ResolveEditor picks the editor command: config, then $VISUAL, then
// $EDITOR, then vi.
func (c *Config) ResolveEditor() string {
	if c.Editor != "" {
		return c.Editor
	}
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return "vi"
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func configFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, configFilename), nil
}

func defaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDir), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".local", "share", appDir), nil
}
