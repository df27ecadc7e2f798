package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheus3301/crawlspace/internal/archive"
	"github.com/matheus3301/crawlspace/internal/bus"
	"github.com/matheus3301/crawlspace/internal/search"
	"github.com/matheus3301/crawlspace/internal/session"
	"github.com/matheus3301/crawlspace/internal/status"
	"go.uber.org/zap/zaptest"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func newScanner(t *testing.T, b *bus.Bus) *Scanner {
	t.Helper()
	return New(status.NewMachine(b), b, zaptest.NewLogger(t), "")
}

func mustQuery(t *testing.T, text string) *search.Query {
	t.Helper()
	q, err := search.Compile(text)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func TestScanFindsMatchesInOrder(t *testing.T) {
	root := writeTree(t, map[string]string{
		"users.json": `[{"id":"U2","profile":{"real_name":"Roster Bob"}}]`,
		"a/1.json": `[
			{"user":"U1","user_profile":{"real_name":"Ann"},"text":"The budget is due. Budget again? No."},
			{"user":"U2","text":"budget talk"},
			{"subtype":"message_deleted","original":{"user_profile":{"real_name":"Ann"},"text":"delete the budget."}}
		]`,
		"b/2.json":   `{"user":"U3","text":"nothing here"}`,
		"notes.txt":  `budget budget`,
		"b/bad.json": `{"text":`,
	})

	s := newScanner(t, nil)
	var last Progress
	report, err := s.Scan(context.Background(), Request{Root: root, Query: mustQuery(t, "budget")}, func(p Progress) {
		last = p
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []Result{
		{DisplayName: "Ann", Snippet: "The *budget* is due."},
		{DisplayName: "Ann", Snippet: "*Budget* again?"},
		{DisplayName: "Roster Bob", Snippet: "*budget* talk"},
		{DisplayName: "Ann (Deleted Message)", Snippet: "delete the *budget*."},
	}
	if len(report.Results) != len(want) {
		t.Fatalf("len(Results) = %d, want %d: %+v", len(report.Results), len(want), report.Results)
	}
	for i, w := range want {
		got := report.Results[i]
		if got.DisplayName != w.DisplayName || got.Snippet != w.Snippet {
			t.Errorf("result %d = (%q, %q), want (%q, %q)", i, got.DisplayName, got.Snippet, w.DisplayName, w.Snippet)
		}
		if got.Path != filepath.Join(root, "a", "1.json") {
			t.Errorf("result %d path = %q", i, got.Path)
		}
	}
	if report.Results[3].Variant != archive.Deleted {
		t.Errorf("deleted echo variant = %q", report.Results[3].Variant)
	}

	if len(report.FileErrors) != 1 || report.FileErrors[0].Path != filepath.Join(root, "b", "bad.json") {
		t.Errorf("FileErrors = %+v, want one for b/bad.json", report.FileErrors)
	}
	// a/1.json, b/2.json, b/bad.json, users.json
	if report.Files != 4 {
		t.Errorf("Files = %d, want 4", report.Files)
	}
	if last.Scanned != 4 || last.Total != 4 {
		t.Errorf("last progress = %d/%d, want 4/4", last.Scanned, last.Total)
	}
	if report.RunID == "" {
		t.Error("RunID is empty")
	}
	if report.Query != "budget" {
		t.Errorf("Query = %q, want budget", report.Query)
	}
}

func TestScanNoMatches(t *testing.T) {
	root := writeTree(t, map[string]string{"c.json": `[{"text":"hello"}]`})
	report, err := newScanner(t, nil).Scan(context.Background(), Request{Root: root, Query: mustQuery(t, "absent")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Results) != 0 {
		t.Errorf("Results = %+v, want none", report.Results)
	}
	if report.Elapsed < 0 {
		t.Errorf("Elapsed = %v", report.Elapsed)
	}
}

func TestScanWithoutExportFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.txt":    "hello",
		"sub/b.md": "hello",
	})
	var calls int
	report, err := newScanner(t, nil).Scan(context.Background(), Request{Root: root, Query: mustQuery(t, "hello")}, func(Progress) { calls++ })
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Results) != 0 {
		t.Errorf("Results = %+v, want none", report.Results)
	}
	if report.Files != 0 {
		t.Errorf("Files = %d, want 0", report.Files)
	}
	if len(report.FileErrors) != 0 {
		t.Errorf("FileErrors = %+v, want none", report.FileErrors)
	}
	if report.Elapsed < 0 {
		t.Errorf("Elapsed = %v, want >= 0", report.Elapsed)
	}
	if calls != 0 {
		t.Errorf("progress callbacks = %d, want 0", calls)
	}
}

func TestScanGroupsRequireAllTerms(t *testing.T) {
	root := writeTree(t, map[string]string{"c.json": `[
		{"text":"alpha only."},
		{"text":"beta then alpha."},
		{"text":"gamma."}
	]`})
	report, err := newScanner(t, nil).Scan(context.Background(), Request{Root: root, Query: mustQuery(t, "alpha beta\ngamma")}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(report.Results))
	}
	if report.Results[0].Snippet != "*beta* then *alpha*." {
		t.Errorf("Snippet = %q", report.Results[0].Snippet)
	}
	if report.Results[1].DisplayName != archive.NotAvailable {
		t.Errorf("DisplayName = %q, want %q", report.Results[1].DisplayName, archive.NotAvailable)
	}
}

func TestStartValidation(t *testing.T) {
	s := newScanner(t, nil)
	root := t.TempDir()

	if _, err := s.Start(context.Background(), Request{Query: mustQuery(t, "x")}); !errors.Is(err, session.ErrNoArchive) {
		t.Errorf("Start(no root) error = %v, want ErrNoArchive", err)
	}
	if _, err := s.Start(context.Background(), Request{Root: root}); !errors.Is(err, search.ErrEmptyQuery) {
		t.Errorf("Start(no query) error = %v, want ErrEmptyQuery", err)
	}
	if s.Busy() {
		t.Error("Busy() = true after rejected requests")
	}
}

func TestStartRejectsConcurrentScan(t *testing.T) {
	machine := status.NewMachine(nil)
	s := New(machine, nil, nil, "")
	root := writeTree(t, map[string]string{"c.json": `[]`})

	// Hold the machine in SCANNING as a running scan would.
	if err := machine.Transition(status.Scanning); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Start(context.Background(), Request{Root: root, Query: mustQuery(t, "x")}); !errors.Is(err, ErrBusy) {
		t.Fatalf("Start() error = %v, want ErrBusy", err)
	}

	if err := machine.Transition(status.Finished); err != nil {
		t.Fatal(err)
	}
	task, err := s.Start(context.Background(), Request{Root: root, Query: mustQuery(t, "x")})
	if err != nil {
		t.Fatalf("Start() after finish error = %v", err)
	}
	if _, err := task.Wait(); err != nil {
		t.Fatal(err)
	}
	if machine.Current() != status.Finished {
		t.Errorf("state = %s, want FINISHED", machine.Current())
	}
}

func TestScanCancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"a.json": `[]`, "b.json": `[]`})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	machine := status.NewMachine(nil)
	_, err := New(machine, nil, nil, "").Scan(ctx, Request{Root: root, Query: mustQuery(t, "x")}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Scan() error = %v, want context.Canceled", err)
	}
	if machine.Current() != status.Failed {
		t.Errorf("state = %s, want FAILED", machine.Current())
	}
}

func TestScanPublishesEvents(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("scan.", 64)
	defer unsub()

	root := writeTree(t, map[string]string{"c.json": `[{"text":"x"}]`, "bad.json": `nope`})
	if _, err := newScanner(t, b).Scan(context.Background(), Request{Root: root, Query: mustQuery(t, "x")}, nil); err != nil {
		t.Fatal(err)
	}

	seen := map[string]int{}
	timeout := time.After(time.Second)
	for seen[bus.ScanFinished] == 0 {
		select {
		case evt := <-ch:
			seen[evt.Kind]++
		case <-timeout:
			t.Fatalf("timeout, seen %v", seen)
		}
	}
	if seen[bus.ScanStarted] != 1 || seen[bus.ScanProgress] != 2 || seen[bus.ScanFileError] != 1 {
		t.Errorf("events = %v", seen)
	}
}

func TestListFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"b/2.json":    `[]`,
		"a/1.json":    `[]`,
		"a/readme.md": ``,
		"UPPER.JSON":  `[]`,
		"top.json":    `[]`,
	})
	files, skipped, err := ListFiles(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(skipped) != 0 {
		t.Errorf("skipped = %v", skipped)
	}
	want := []string{
		filepath.Join(root, "a", "1.json"),
		filepath.Join(root, "b", "2.json"),
		filepath.Join(root, "top.json"),
	}
	if len(files) != len(want) {
		t.Fatalf("files = %q, want %q", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %q, want %q", i, files[i], want[i])
		}
	}

	n, err := CountFiles(root)
	if err != nil || n != 3 {
		t.Errorf("CountFiles() = %d, %v, want 3", n, err)
	}
}

func TestTaskProgressLatestWins(t *testing.T) {
	task := newTask("t")
	for i := 1; i <= 5; i++ {
		task.report(Progress{Scanned: i, Total: 5})
	}
	p := <-task.Progress()
	if p.Scanned != 5 {
		t.Errorf("Scanned = %d, want 5", p.Scanned)
	}
	task.complete(&Report{}, nil)
	if _, ok := <-task.Progress(); ok {
		t.Error("progress channel not closed after complete")
	}
}
