package session

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/matheus3301/crawlspace/internal/config"
)

func TestValidateArchive(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "c.json")
	if err := os.WriteFile(file, []byte("[]"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		root    string
		wantErr error
	}{
		{"directory", dir, nil},
		{"empty", "", ErrNoArchive},
		{"file", file, ErrNotDirectory},
		{"missing", filepath.Join(dir, "nope"), fs.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArchive(tt.root)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateArchive(%q) error = %v", tt.root, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateArchive(%q) error = %v, want %v", tt.root, err, tt.wantErr)
			}
		})
	}
}

func TestResolveArchive(t *testing.T) {
	cfg := &config.Config{DefaultArchive: "/from/config"}

	t.Setenv(ArchiveEnv, "")
	if got := ResolveArchive("/from/flag", cfg); got != "/from/flag" {
		t.Errorf("ResolveArchive(flag) = %q, want /from/flag", got)
	}
	if got := ResolveArchive("", cfg); got != "/from/config" {
		t.Errorf("ResolveArchive(config) = %q, want /from/config", got)
	}
	if got := ResolveArchive("", nil); got != "" {
		t.Errorf("ResolveArchive(none) = %q, want empty", got)
	}

	t.Setenv(ArchiveEnv, "/from/env")
	if got := ResolveArchive("", cfg); got != "/from/env" {
		t.Errorf("ResolveArchive(env) = %q, want /from/env", got)
	}
}
