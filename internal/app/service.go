package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matheus3301/crawlspace/internal/bus"
	"github.com/matheus3301/crawlspace/internal/config"
	"github.com/matheus3301/crawlspace/internal/scan"
	"github.com/matheus3301/crawlspace/internal/search"
	"github.com/matheus3301/crawlspace/internal/session"
	"github.com/matheus3301/crawlspace/internal/store"
	"go.uber.org/zap"
)

// ErrHistoryDisabled is returned by history queries when no database is open.
var ErrHistoryDisabled = errors.New("history is disabled")

// Service is the entry point the presentation layers call into.
type Service struct {
	cfg      *config.Config
	location *time.Location
	logger   *zap.Logger
	bus      *bus.Bus
	scanner  *scan.Scanner
	db       *store.DB
}

// NewService creates a service. db may be nil when history is disabled.
func NewService(cfg *config.Config, loc *time.Location, logger *zap.Logger, b *bus.Bus, scanner *scan.Scanner, db *store.DB) *Service {
	return &Service{
		cfg:      cfg,
		location: loc,
		logger:   logger,
		bus:      b,
		scanner:  scanner,
		db:       db,
	}
}

// Config returns the loaded configuration.
func (s *Service) Config() *config.Config { return s.cfg }

// Bus returns the event bus.
func (s *Service) Bus() *bus.Bus { return s.bus }

// Logger returns the process logger.
func (s *Service) Logger() *zap.Logger { return s.logger }

// Busy reports whether a scan is running.
func (s *Service) Busy() bool { return s.scanner.Busy() }

// ResolveArchive applies flag, environment and config precedence.
func (s *Service) ResolveArchive(flagOverride string) string {
	return session.ResolveArchive(flagOverride, s.cfg)
}

// Open opens an archive folder.
func (s *Service) Open(root string) (*session.Session, error) {
	return session.Open(root, s.location, s.logger.Named("session"))
}

// StartSearch compiles the terms and starts a background scan of the session's archive.
func (s *Service) StartSearch(ctx context.Context, sess *session.Session, terms string) (*scan.Task, error) {
	if sess == nil {
		return nil, session.ErrNoArchive
	}
	q, err := search.Compile(terms)
	if err != nil {
		return nil, err
	}
	return s.scanner.Start(ctx, scan.Request{Root: sess.Root(), Query: q, Roster: sess.Roster()})
}

// Search runs a scan to completion.
func (s *Service) Search(ctx context.Context, sess *session.Session, terms string, onProgress func(scan.Progress)) (*scan.Report, error) {
	task, err := s.StartSearch(ctx, sess, terms)
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

// HistoryEnabled reports whether runs are recorded by this process.
func (s *Service) HistoryEnabled() bool { return s.db != nil }

// History lists recorded runs, newest first.
func (s *Service) History(limit int) ([]store.Run, error) {
	if s.db == nil {
		return nil, ErrHistoryDisabled
	}
	return s.db.ListRuns(limit)
}

// RunDetail is a recorded run with its hits and unreadable files.
type RunDetail struct {
	Run        store.Run
	Hits       []store.Hit
	FileErrors []store.FileError
}

// Run loads a recorded run by id or unique id prefix.
func (s *Service) Run(idPrefix string) (*RunDetail, error) {
	if s.db == nil {
		return nil, ErrHistoryDisabled
	}
	run, err := s.db.GetRun(idPrefix)
	if err != nil {
		return nil, err
	}
	if run == nil {
		if run, err = s.db.FindRun(idPrefix); err != nil {
			return nil, err
		}
	}
	if run == nil {
		return nil, fmt.Errorf("run %q not found", idPrefix)
	}
	hits, err := s.db.ListHits(run.ID)
	if err != nil {
		return nil, fmt.Errorf("list hits: %w", err)
	}
	fes, err := s.db.ListFileErrors(run.ID)
	if err != nil {
		return nil, fmt.Errorf("list file errors: %w", err)
	}
	return &RunDetail{Run: *run, Hits: hits, FileErrors: fes}, nil
}
