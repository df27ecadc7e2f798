package tui

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"q", Command{Name: "q"}},
		{"  Open  /tmp/My Export ", Command{Name: "open", Args: "/tmp/My Export"}},
		{"terms words.txt", Command{Name: "terms", Args: "words.txt"}},
		{"HISTORY", Command{Name: "history"}},
		{"", Command{}},
	}
	for _, tt := range tests {
		if got := ParseCommand(tt.input); got != tt.want {
			t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}
