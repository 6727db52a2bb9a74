package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultDirName        = ".remindr"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "remindr.db"
	DefaultSweepSeconds   = 30

	// EnvDBPath overrides db_path when set
	EnvDBPath = "REMINDR_DB_PATH"
)

type LogConfig struct {
	Level   string `toml:"level"`
	File    string `toml:"file"`
	Console bool   `toml:"console"`
}

type Config struct {
	DBPath        string    `toml:"db_path"`
	SweepSeconds  int       `toml:"sweep_seconds"`
	ShowCompleted bool      `toml:"show_completed"`
	DefaultList   string    `toml:"default_list"`
	Log           LogConfig `toml:"log"`
}

// DefaultPath returns ~/.remindr/config.toml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDirName, DefaultConfigFileName), nil
}

// LoadOrCreate reads the config at path, writing the defaults there first if it does not exist
func LoadOrCreate(path string) (Config, error) {
	cfg, err := load(path)
	if err != nil {
		return cfg, err
	}
	return cfg.withEnv(), nil
}

// Update applies fn to the config stored at path and writes it back.
// Environment overrides are not persisted.
func Update(path string, fn func(*Config)) (Config, error) {
	cfg, err := load(path)
	if err != nil {
		return cfg, err
	}
	fn(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	if err := write(path, cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func load(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, write(path, cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(filepath.Dir(path), DefaultDBName)
	}
	if cfg.SweepSeconds == 0 {
		cfg.SweepSeconds = DefaultSweepSeconds
	}
	cfg.DBPath = expandPath(cfg.DBPath)
	cfg.Log.File = expandPath(cfg.Log.File)
	return cfg, nil
}

// Validate checks values that would break the reconciler or the store
func (c Config) Validate() error {
	if c.DBPath == "" {
		return errors.New("db_path is required")
	}
	if c.SweepSeconds <= 0 {
		return fmt.Errorf("sweep_seconds must be positive, got %d", c.SweepSeconds)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s (supported: debug, info, warn, error)", c.Log.Level)
	}
	return nil
}

// SweepInterval is sweep_seconds as a duration
func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepSeconds) * time.Second
}

func (c Config) withEnv() Config {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = expandPath(v)
	}
	return c
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		DBPath:        filepath.Join(dir, DefaultDBName),
		SweepSeconds:  DefaultSweepSeconds,
		ShowCompleted: false,
		DefaultList:   "",
		Log: LogConfig{
			Level:   "info",
			File:    filepath.Join(dir, "logs", "remindr.log"),
			Console: false,
		},
	}
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
