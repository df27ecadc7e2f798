package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.DefaultArchive = "/exports/acme"
	cfg.History.KeepRuns = 7
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DefaultArchive != "/exports/acme" {
		t.Errorf("DefaultArchive = %q, want %q", loaded.DefaultArchive, "/exports/acme")
	}
	if loaded.History.KeepRuns != 7 {
		t.Errorf("History.KeepRuns = %d, want 7", loaded.History.KeepRuns)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("default_archive = \"/a\"\n[log]\nlevel = \"debug\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HighlightMarker != "*" {
		t.Errorf("HighlightMarker = %q, want default *", cfg.HighlightMarker)
	}
	if cfg.Log.Level != "debug" || cfg.Log.MaxSizeMB != 10 {
		t.Errorf("Log = %+v, want level debug with default size", cfg.Log)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load("/nonexistent/config.toml")
	if err == nil {
		t.Error("Load() expected error for missing file")
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv("CRAWLSPACE_LOG_LEVEL", "WARN")
	t.Setenv("CRAWLSPACE_HISTORY", "false")
	t.Setenv("CRAWLSPACE_HIGHLIGHT", "")

	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
	if cfg.History.Enabled {
		t.Error("History.Enabled = true, want env override false")
	}
	if cfg.HighlightMarker != "*" {
		t.Errorf("HighlightMarker = %q, want *", cfg.HighlightMarker)
	}
}

func TestLoadOrDefaultInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("default_archive = "), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(path); err == nil {
		t.Error("LoadOrDefault() expected error for invalid TOML")
	}
}

func TestLocation(t *testing.T) {
	cfg := Default()
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Errorf("Location() = %v, %v, want Local", loc, err)
	}
	cfg.TimeZone = "UTC"
	if loc, err := cfg.Location(); err != nil || loc.String() != "UTC" {
		t.Errorf("Location() = %v, %v, want UTC", loc, err)
	}
	cfg.TimeZone = "Not/AZone"
	if _, err := cfg.Location(); err == nil {
		t.Error("Location() expected error for unknown zone")
	}
}

func TestSavePermissions(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.toml")

	if err := Save(path, Default()); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	perm := info.Mode().Perm()
	if perm != 0600 {
		t.Errorf("file permission = %o, want 0600", perm)
	}
}
