package history

import (
	"context"
	"fmt"

	"github.com/matheus3301/crawlspace/internal/bus"
	"github.com/matheus3301/crawlspace/internal/scan"
	"github.com/matheus3301/crawlspace/internal/store"
	"go.uber.org/zap"
)

// Recorder persists finished scans into the history database.
// It subscribes to "scan.finished" events on the bus.
type Recorder struct {
	db     *store.DB
	bus    *bus.Bus
	logger *zap.Logger
	keep   int
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRecorder creates a recorder that keeps at most keep runs (0 keeps all).
func NewRecorder(db *store.DB, b *bus.Bus, logger *zap.Logger, keep int) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{
		db:     db,
		bus:    b,
		logger: logger,
		keep:   keep,
	}
}

// Start subscribes to finished scans on the bus.
func (r *Recorder) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	ch, unsub := r.bus.Subscribe(bus.ScanFinished, 16)

	go func() {
		defer close(r.done)
		defer unsub()
		for {
			select {
			case evt := <-ch:
				r.handleEvent(evt)
			case <-ctx.Done():
				// Drain events that arrived before cancellation.
				for {
					select {
					case evt := <-ch:
						r.handleEvent(evt)
					default:
						return
					}
				}
			}
		}
	}()
}

// Stop stops the recorder and waits for it to finish pending writes.
func (r *Recorder) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

func (r *Recorder) handleEvent(evt bus.Event) {
	rep, ok := evt.Payload.(*scan.Report)
	if !ok {
		return
	}
	if err := r.Record(rep); err != nil {
		r.logger.Error("failed to record run", zap.Error(err), zap.String("run_id", rep.RunID))
	}
}

// Record stores a report and prunes old runs.
func (r *Recorder) Record(rep *scan.Report) error {
	run := &store.Run{
		ID:           rep.RunID,
		Archive:      rep.Root,
		Query:        rep.Query,
		StartedAt:    rep.StartedAt.UnixMilli(),
		ElapsedMS:    rep.Elapsed.Milliseconds(),
		FilesScanned: rep.Files,
		FileErrors:   len(rep.FileErrors),
		ResultCount:  len(rep.Results),
	}
	hits := make([]store.Hit, len(rep.Results))
	for i, res := range rep.Results {
		hits[i] = store.Hit{
			DisplayName: res.DisplayName,
			Snippet:     res.Snippet,
			Path:        res.Path,
			Variant:     string(res.Variant),
		}
	}
	fileErrors := make([]store.FileError, len(rep.FileErrors))
	for i, fe := range rep.FileErrors {
		fileErrors[i] = store.FileError{Path: fe.Path, Message: fe.Err.Error()}
	}

	if err := r.db.InsertRun(run, hits, fileErrors); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if r.keep > 0 {
		pruned, err := r.db.PruneRuns(r.keep)
		if err != nil {
			return err
		}
		if pruned > 0 {
			r.logger.Debug("pruned history", zap.Int64("runs", pruned))
		}
	}

	r.logger.Info("run recorded", zap.String("run_id", run.ID), zap.Int("hits", len(hits)))
	r.bus.Emit(bus.HistorySaved, run.ID)
	return nil
}
