package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matheus3301/crawlspace/internal/archive"
	"github.com/matheus3301/crawlspace/internal/identity"
	"github.com/matheus3301/crawlspace/internal/report"
	"github.com/matheus3301/crawlspace/internal/scan"
	"github.com/matheus3301/crawlspace/internal/search"
	"github.com/matheus3301/crawlspace/internal/transcript"
)

func TestCollectTerms(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "words.txt")
	if err := os.WriteFile(file, []byte("  budget cut \n\nlayoff\n"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := collectTerms(file, []string{"merger"})
	if err != nil {
		t.Fatal(err)
	}
	if want := "budget cut\nlayoff\nmerger"; got != want {
		t.Errorf("collectTerms() = %q, want %q", got, want)
	}

	if _, err := collectTerms("", []string{" "}); !errors.Is(err, search.ErrEmptyQuery) {
		t.Errorf("collectTerms(blank) error = %v, want ErrEmptyQuery", err)
	}
	if _, err := collectTerms(filepath.Join(dir, "missing.txt"), nil); err == nil {
		t.Error("collectTerms(missing file) error = nil")
	}
}

func TestFindArchive(t *testing.T) {
	root := t.TempDir()
	channel := filepath.Join(root, "general")
	if err := os.MkdirAll(channel, 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, identity.RosterFile), []byte(`[]`), 0600); err != nil {
		t.Fatal(err)
	}

	if got := findArchive(filepath.Join(channel, "2024-01-15.json")); got != root {
		t.Errorf("findArchive() = %q, want %q", got, root)
	}

	loose := t.TempDir()
	if got := findArchive(filepath.Join(loose, "day.json")); got != loose {
		t.Errorf("findArchive(no roster) = %q, want %q", got, loose)
	}
}

func TestShowTargetFromReport(t *testing.T) {
	rendered := report.Format([]scan.Result{
		{DisplayName: "Ann", Snippet: "a", Path: "/x/one.json"},
		{DisplayName: "Bob", Snippet: "b", Path: "/x/two.json"},
	})
	file := filepath.Join(t.TempDir(), "hits.txt")
	if err := os.WriteFile(file, []byte(rendered), 0600); err != nil {
		t.Fatal(err)
	}

	fromReport, reportLine = file, 6
	defer func() { fromReport, reportLine = "", 0 }()

	got, err := showTarget(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != "/x/two.json" {
		t.Errorf("showTarget() = %q, want /x/two.json", got)
	}

	if _, err := showTarget([]string{"other.json"}); err == nil {
		t.Error("showTarget() with FILE and --from-report error = nil")
	}
	reportLine = 100
	if _, err := showTarget(nil); err == nil {
		t.Error("showTarget() past the end error = nil")
	}
}

func TestShowTargetRequiresFile(t *testing.T) {
	if _, err := showTarget(nil); err == nil {
		t.Error("showTarget() error = nil")
	}
	if got, err := showTarget([]string{"a.json"}); err != nil || got != "a.json" {
		t.Errorf("showTarget(a.json) = %q, %v", got, err)
	}
}

func TestRenderTranscriptPlain(t *testing.T) {
	var buf bytes.Buffer
	renderTranscript(&buf, []transcript.Entry{
		{DisplayName: "Ann", Timestamp: "2023-11-14 22:13:20", Body: "hi", Variant: archive.Regular},
		{DisplayName: "Bob (Deleted)", Timestamp: archive.UnknownTime, Body: "gone", Variant: archive.Deleted},
	}, true)

	want := "Ann  2023-11-14 22:13:20\nhi\n\nBob (Deleted)  Unknown Time\ngone\n\n"
	if buf.String() != want {
		t.Errorf("renderTranscript() = %q, want %q", buf.String(), want)
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, []column{{title: "ID"}, {title: "NAME", width: 6}, {title: "N"}}, [][]string{
		{"U1", "Ann", "1"},
		{"U22", "Bartholomew", "12"},
		{"U3", "日本語名前", "3"},
	})
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"ID   NAME    N",
		"U1   Ann     1",
		"U22  Bar...  12",
		"U3   日...   3",
	}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
