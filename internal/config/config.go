// Package config provides configuration loading for sqp.
//
// Values are resolved in three layers: built-in defaults, an optional YAML
// file, then SQP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage backends for the reading gateway.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Layout variants for the letter shapes.
const (
	LayoutStatic = "static"
	LayoutPath   = "path"
)

// Config is the complete application configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Settings SettingsConfig `yaml:"settings"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	UI       UIConfig       `yaml:"ui"`
	OTel     OTelConfig     `yaml:"otel"`
}

// StorageConfig selects and locates the reading gateway.
type StorageConfig struct {
	// Backend is "sqlite" (default) or "badger".
	Backend string `yaml:"backend"`
	// DBPath is the SQLite file.
	DBPath string `yaml:"db_path"`
	// BadgerDir is the Badger directory. Empty runs Badger in memory.
	BadgerDir string `yaml:"badger_dir"`
}

// SettingsConfig locates client-local settings such as thresholds.
type SettingsConfig struct {
	Dir string `yaml:"dir"`
	// ThresholdMode, when set, is applied to the stored thresholds at
	// startup ("absolute" or "target").
	ThresholdMode string `yaml:"threshold_mode"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// File receives logs while the TUI owns the terminal. Empty discards them.
	File string `yaml:"file"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type UIConfig struct {
	// Layout is "static" (coordinate tables) or "path" (outline sampling).
	Layout string `yaml:"layout"`
	// Standalone suppresses the install affordance.
	Standalone bool `yaml:"standalone"`
}

type OTelConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DefaultConfig returns the configuration rooted at base, normally ~/.sqp.
func DefaultConfig(base string) *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:   BackendSQLite,
			DBPath:    filepath.Join(base, "sqp.db"),
			BadgerDir: filepath.Join(base, "badger"),
		},
		Settings: SettingsConfig{Dir: base},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(base, "sqp.log"),
		},
		Server: ServerConfig{Addr: ":8080"},
		UI:     UIConfig{Layout: LayoutStatic},
	}
}

// DefaultBase returns ~/.sqp.
func DefaultBase() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".sqp"), nil
}

// Load builds the configuration: defaults under base, then the YAML file at
// path if it exists, then environment overrides. A missing file is not an
// error; a malformed one is.
func Load(base, path string) (*Config, error) {
	cfg := DefaultConfig(base)
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SQP_DB"); v != "" {
		c.Storage.DBPath = v
	}
	if v := os.Getenv("SQP_BACKEND"); v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v, ok := os.LookupEnv("SQP_BADGER_DIR"); ok {
		c.Storage.BadgerDir = v
	}
	if v := os.Getenv("SQP_SETTINGS_DIR"); v != "" {
		c.Settings.Dir = v
	}
	if v := os.Getenv("SQP_THRESHOLD_MODE"); v != "" {
		c.Settings.ThresholdMode = strings.ToLower(v)
	}
	if v := os.Getenv("SQP_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv("SQP_LOG_FILE"); ok {
		c.Log.File = v
	}
	if v := os.Getenv("SQP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SQP_LAYOUT"); v != "" {
		c.UI.Layout = strings.ToLower(v)
	}
	if v := os.Getenv("SQP_STANDALONE"); v != "" {
		c.UI.Standalone, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("SQP_OTEL_ENABLED"); v != "" {
		c.OTel.Enabled, _ = strconv.ParseBool(v)
	}
}

// Validate checks the enumerated fields.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendBadger:
	default:
		return fmt.Errorf("storage.backend must be %q or %q, got %q", BackendSQLite, BackendBadger, c.Storage.Backend)
	}
	switch c.UI.Layout {
	case LayoutStatic, LayoutPath:
	default:
		return fmt.Errorf("ui.layout must be %q or %q, got %q", LayoutStatic, LayoutPath, c.UI.Layout)
	}
	switch c.Settings.ThresholdMode {
	case "", "absolute", "target":
	default:
		return fmt.Errorf("settings.threshold_mode must be absolute or target, got %q", c.Settings.ThresholdMode)
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required for the sqlite backend")
	}
	return nil
}
