package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Config represents ~/.crawlspace/config.toml.
type Config struct {
	DefaultArchive  string        `toml:"default_archive"`
	HighlightMarker string        `toml:"highlight_marker"`
	TimeZone        string        `toml:"time_zone"`
	History         HistoryConfig `toml:"history"`
	Log             LogConfig     `toml:"log"`
}

// HistoryConfig controls the audit history database.
type HistoryConfig struct {
	Enabled  bool `toml:"enabled"`
	KeepRuns int  `toml:"keep_runs"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		HighlightMarker: "*",
		TimeZone:        "Local",
		History: HistoryConfig{
			Enabled:  true,
			KeepRuns: 50,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads config from the given path on top of Default. Returns an error if the file is missing.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault reads config from path, falling back to Default when the
// file does not exist, then applies environment overrides.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = Default()
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides fields from CRAWLSPACE_* environment variables.
func (c *Config) ApplyEnv() {
	c.HighlightMarker = envOrDefault("CRAWLSPACE_HIGHLIGHT", c.HighlightMarker)
	c.TimeZone = envOrDefault("CRAWLSPACE_TIME_ZONE", c.TimeZone)
	c.Log.Level = strings.ToLower(envOrDefault("CRAWLSPACE_LOG_LEVEL", c.Log.Level))
	if v, err := strconv.ParseBool(os.Getenv("CRAWLSPACE_HISTORY")); err == nil {
		c.History.Enabled = v
	}
}

// Location resolves TimeZone, defaulting to the local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
