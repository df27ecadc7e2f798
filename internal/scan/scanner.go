package scan

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/matheus3301/crawlspace/internal/archive"
	"github.com/matheus3301/crawlspace/internal/bus"
	"github.com/matheus3301/crawlspace/internal/identity"
	"github.com/matheus3301/crawlspace/internal/search"
	"github.com/matheus3301/crawlspace/internal/session"
	"github.com/matheus3301/crawlspace/internal/status"
	"go.uber.org/zap"
)

// ErrBusy is returned when a scan is requested while another one is running.
var ErrBusy = errors.New("a scan is already running")

// Result is one matching sentence.
type Result struct {
	DisplayName string
	Snippet     string
	Path        string
	Variant     archive.Variant
	TS          string
}

// FileError is a recoverable failure to read or parse one file.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("error reading file %s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error { return e.Err }

// Progress reports how many of the candidate files have been processed.
type Progress struct {
	Scanned int
	Total   int
	Path    string
}

// Request describes one scan.
type Request struct {
	Root  string
	Query *search.Query
	// Roster resolves author names. Loaded from Root when nil.
	Roster *identity.Roster
}

// Report is the outcome of a completed scan.
type Report struct {
	RunID      string
	Root       string
	Query      string
	StartedAt  time.Time
	Elapsed    time.Duration
	Files      int
	Results    []Result
	FileErrors []FileError
}

// Scanner walks export folders and matches their messages against a query.
// Only one scan runs at a time.
type Scanner struct {
	machine *status.Machine
	bus     *bus.Bus
	logger  *zap.Logger
	marker  string
}

// New creates a scanner. marker wraps highlighted terms; empty means the default.
func New(machine *status.Machine, b *bus.Bus, logger *zap.Logger, marker string) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		machine: machine,
		bus:     b,
		logger:  logger,
		marker:  marker,
	}
}

// Busy reports whether a scan is running.
func (s *Scanner) Busy() bool {
	return s.machine.Busy()
}

// Scan runs a scan to completion, calling onProgress (if set) from the
// caller's goroutine as progress arrives.
func (s *Scanner) Scan(ctx context.Context, req Request, onProgress func(Progress)) (*Report, error) {
	task, err := s.Start(ctx, req)
	if err != nil {
		return nil, err
	}
	for p := range task.Progress() {
		if onProgress != nil {
			onProgress(p)
		}
	}
	return task.Wait()
}

// Start validates the request and runs the scan on a background goroutine.
func (s *Scanner) Start(ctx context.Context, req Request) (*Task, error) {
	if err := session.ValidateArchive(req.Root); err != nil {
		return nil, err
	}
	if req.Query == nil || len(req.Query.Groups()) == 0 {
		return nil, search.ErrEmptyQuery
	}
	root, err := filepath.Abs(req.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve archive path: %w", err)
	}
	req.Root = root

	if err := s.machine.Transition(status.Scanning); err != nil {
		return nil, ErrBusy
	}

	task := newTask(uuid.NewString())
	go s.work(ctx, task, req)
	return task, nil
}

func (s *Scanner) work(ctx context.Context, task *Task, req Request) {
	var (
		report *Report
		err    error
	)
	defer func() {
		if r := recover(); r != nil {
			report, err = nil, fmt.Errorf("error during search: %v", r)
		}
		s.finish(task, report, err)
	}()
	report, err = s.run(ctx, task, req)
}

func (s *Scanner) finish(task *Task, report *Report, err error) {
	if err != nil {
		s.logger.Error("scan failed", zap.String("run_id", task.ID), zap.Error(err))
		s.bus.Emit(bus.ScanFailed, err)
		_ = s.machine.Transition(status.Failed)
	} else {
		s.logger.Info("scan finished",
			zap.String("run_id", task.ID),
			zap.Int("files", report.Files),
			zap.Int("results", len(report.Results)),
			zap.Int("file_errors", len(report.FileErrors)),
			zap.Duration("elapsed", report.Elapsed),
		)
		s.bus.Emit(bus.ScanFinished, report)
		_ = s.machine.Transition(status.Finished)
	}
	task.complete(report, err)
}

func (s *Scanner) run(ctx context.Context, task *Task, req Request) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:     task.ID,
		Root:      req.Root,
		Query:     req.Query.String(),
		StartedAt: start,
	}

	files, walkErrs, err := ListFiles(req.Root)
	if err != nil {
		return nil, err
	}
	for _, fe := range walkErrs {
		s.fileError(report, fe)
	}

	roster := req.Roster
	if roster == nil {
		var rerr error
		roster, rerr = identity.LoadRoster(req.Root)
		if rerr != nil {
			s.logger.Warn("roster unavailable", zap.String("root", req.Root), zap.Error(rerr))
		}
	}

	s.logger.Info("scan started",
		zap.String("run_id", task.ID),
		zap.String("root", req.Root),
		zap.Int("files", len(files)),
		zap.Int("groups", len(req.Query.Groups())),
	)
	s.bus.Emit(bus.ScanStarted, Progress{Total: len(files)})

	normalizer := archive.NewNormalizer(roster, archive.NotAvailable)
	matcher := search.NewMatcher(req.Query, s.marker)

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan interrupted: %w", err)
		}

		results, err := s.scanFile(path, normalizer, matcher)
		if err != nil {
			s.fileError(report, FileError{Path: path, Err: err})
		}
		report.Results = append(report.Results, results...)
		report.Files++

		p := Progress{Scanned: i + 1, Total: len(files), Path: path}
		task.report(p)
		s.bus.Emit(bus.ScanProgress, p)
	}

	report.Elapsed = time.Since(start)
	return report, nil
}

func (s *Scanner) fileError(report *Report, fe FileError) {
	report.FileErrors = append(report.FileErrors, fe)
	s.logger.Warn("skipping file", zap.String("path", fe.Path), zap.Error(fe.Err))
	s.bus.Emit(bus.ScanFileError, fe)
}

// scanFile matches every message of one export file. Results are in
// message order, then sentence order.
func (s *Scanner) scanFile(path string, n *archive.Normalizer, m *search.Matcher) ([]Result, error) {
	records, err := archive.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var results []Result
	collect := func(msg archive.Message) {
		snippets, err := m.Find(msg.Content)
		if err != nil {
			s.logger.Warn("sentence split incomplete", zap.String("path", path), zap.String("ts", msg.TS), zap.Error(err))
		}
		for _, snippet := range snippets {
			results = append(results, Result{
				DisplayName: msg.DisplayName,
				Snippet:     snippet,
				Path:        path,
				Variant:     msg.Variant,
				TS:          msg.TS,
			})
		}
	}

	for _, r := range records {
		collect(n.Normalize(r))
		if echo, ok := n.DeletedEcho(r); ok {
			collect(echo)
		}
	}
	return results, nil
}
