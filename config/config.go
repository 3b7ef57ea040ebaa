// Package config loads application configuration from an optional YAML
// file, with environment variables taking precedence. Everything has a
// working default so the app runs with no config at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Storage backend names.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

// Config is the full application configuration.
type Config struct {
	DataDir string `yaml:"dataDir"`
	Storage string `yaml:"storage"`
	Log     Log    `yaml:"log"`
}

// Log configures the logger.
type Log struct {
	Level   string `yaml:"level"`
	DevMode bool   `yaml:"devMode"`
}

// Default returns the built-in configuration: a file store under
// ~/.promptvault with info-level logging.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir: filepath.Join(home, ".promptvault"),
		Storage: StorageFile,
		Log:     Log{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error; an unreadable or
// invalid one is.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// fall through to env overrides
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.DataDir = getEnv("PROMPTVAULT_DATA_DIR", cfg.DataDir)
	cfg.Storage = getEnv("PROMPTVAULT_STORAGE", cfg.Storage)
	cfg.Log.Level = getEnv("PROMPTVAULT_LOG_LEVEL", cfg.Log.Level)
	if os.Getenv("PROMPTVAULT_DEV") == "true" {
		cfg.Log.DevMode = true
	}

	if cfg.Storage != StorageFile && cfg.Storage != StorageSQLite {
		return Config{}, fmt.Errorf("unknown storage backend: %q", cfg.Storage)
	}
	if cfg.DataDir == "" {
		return Config{}, fmt.Errorf("dataDir cannot be empty")
	}
	return cfg, nil
}

// LogDir is where log files are written.
func (c Config) LogDir() string { return filepath.Join(c.DataDir, "logs") }

// StorePath is the storage location for the configured backend.
func (c Config) StorePath() string {
	if c.Storage == StorageSQLite {
		return filepath.Join(c.DataDir, "promptvault.db")
	}
	return filepath.Join(c.DataDir, "promptvault.json")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
