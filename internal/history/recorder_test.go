package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/matheus3301/crawlspace/internal/archive"
	"github.com/matheus3301/crawlspace/internal/bus"
	"github.com/matheus3301/crawlspace/internal/scan"
	"github.com/matheus3301/crawlspace/internal/store"
	"go.uber.org/zap"
)

func testDB(t *testing.T) *store.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := store.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleReport(id string, started time.Time) *scan.Report {
	return &scan.Report{
		RunID:     id,
		Root:      "/exports",
		Query:     "budget",
		StartedAt: started,
		Elapsed:   250 * time.Millisecond,
		Files:     2,
		Results: []scan.Result{
			{DisplayName: "Ann", Snippet: "the *budget*", Path: "/exports/a.json", Variant: archive.Regular},
		},
		FileErrors: []scan.FileError{{Path: "/exports/bad.json", Err: errors.New("unexpected EOF")}},
	}
}

func TestRecord(t *testing.T) {
	db := testDB(t)
	r := NewRecorder(db, bus.New(), zap.NewNop(), 0)

	if err := r.Record(sampleReport("run-1", time.UnixMilli(5000))); err != nil {
		t.Fatal(err)
	}

	run, err := db.GetRun("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if run == nil {
		t.Fatal("run not stored")
	}
	if run.StartedAt != 5000 || run.ElapsedMS != 250 || run.ResultCount != 1 || run.FileErrors != 1 {
		t.Errorf("run = %+v", run)
	}
	hits, err := db.ListHits("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 1 || hits[0].Variant != "regular" {
		t.Errorf("hits = %+v", hits)
	}
	fes, err := db.ListFileErrors("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(fes) != 1 || fes[0].Message != "unexpected EOF" {
		t.Errorf("file errors = %+v", fes)
	}
}

func TestRecordPrunes(t *testing.T) {
	db := testDB(t)
	r := NewRecorder(db, nil, nil, 2)

	for i, id := range []string{"a", "b", "c"} {
		if err := r.Record(sampleReport(id, time.UnixMilli(int64(i+1)*1000))); err != nil {
			t.Fatal(err)
		}
	}
	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Errorf("runs = %+v, want c, b", runs)
	}
}

func TestRecorderSubscribesToFinishedScans(t *testing.T) {
	db := testDB(t)
	b := bus.New()
	saved, unsub := b.Subscribe(bus.HistorySaved, 1)
	defer unsub()

	r := NewRecorder(db, b, nil, 0)
	r.Start(context.Background())
	defer r.Stop()

	b.Emit(bus.ScanProgress, scan.Progress{Scanned: 1, Total: 1})
	b.Emit(bus.ScanFinished, sampleReport("run-bus", time.Now()))

	select {
	case evt := <-saved:
		if evt.Payload != "run-bus" {
			t.Errorf("saved payload = %v, want run-bus", evt.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for history.saved")
	}

	run, err := db.GetRun("run-bus")
	if err != nil || run == nil {
		t.Fatalf("GetRun(run-bus) = %v, %v", run, err)
	}
}
