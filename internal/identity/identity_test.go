package identity

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, RosterFile), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadRoster(t *testing.T) {
	dir := writeRoster(t, `[
		{"id":"U1","name":"ann","profile":{"real_name":"Ann Lee","display_name":"ann"}},
		"garbage",
		{"id":"U2","profile":{"real_name":""}},
		{"id":"U3","is_bot":true,"profile":{"real_name":"Deploy Bot"}}
	]`)

	r, err := LoadRoster(dir)
	if err != nil {
		t.Fatal(err)
	}
	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}
	if name, ok := r.RealName("U1"); !ok || name != "Ann Lee" {
		t.Errorf("RealName(U1) = %q, %v, want Ann Lee", name, ok)
	}
	if _, ok := r.RealName("U2"); ok {
		t.Error("RealName(U2) ok = true for empty real_name")
	}
	if u, ok := r.Lookup("U3"); !ok || !u.IsBot {
		t.Errorf("Lookup(U3) = %+v, %v, want bot user", u, ok)
	}
	if _, ok := r.RealName("U9"); ok {
		t.Error("RealName(U9) ok = true for unknown id")
	}
}

func TestLoadRosterDegrades(t *testing.T) {
	tests := []struct {
		name    string
		dir     func(t *testing.T) string
		wantErr bool
	}{
		{"missing file", func(t *testing.T) string { return t.TempDir() }, false},
		{"invalid json", func(t *testing.T) string { return writeRoster(t, `[{"id":`) }, true},
		{"object not array", func(t *testing.T) string { return writeRoster(t, `{"id":"U1"}`) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := LoadRoster(tt.dir(t))
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadRoster() error = %v, wantErr %v", err, tt.wantErr)
			}
			if r == nil {
				t.Fatal("LoadRoster() returned nil roster")
			}
			if r.Len() != 0 {
				t.Errorf("Len() = %d, want 0", r.Len())
			}
		})
	}
}

func TestColorForDeterministic(t *testing.T) {
	hex := regexp.MustCompile(`^#[0-9a-f]{6}$`)
	for _, id := range []string{"U1", "U2", "unknown_user", "system", ""} {
		a, b := ColorFor(id), ColorFor(id)
		if a != b {
			t.Errorf("ColorFor(%q) not stable: %v vs %v", id, a, b)
		}
		if !hex.MatchString(a.Hex()) {
			t.Errorf("ColorFor(%q).Hex() = %q, want #rrggbb", id, a.Hex())
		}
	}
}

func TestColorHex(t *testing.T) {
	c := Color{R: 0xff, G: 0x00, B: 0x80}
	if got := c.Hex(); got != "#ff0080" {
		t.Errorf("Hex() = %q, want #ff0080", got)
	}
}

func TestPaletteCaches(t *testing.T) {
	p := NewPalette()
	first := p.Color("U1")
	if p.Color("U1") != first {
		t.Error("Color(U1) changed between calls")
	}
	if first != ColorFor("U1") {
		t.Error("palette color differs from ColorFor")
	}
	p.Color("U2")
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
	if NewPalette().Len() != 0 {
		t.Error("new palette is not empty")
	}
}
