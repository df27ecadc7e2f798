package session

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/matheus3301/crawlspace/internal/identity"
	"github.com/matheus3301/crawlspace/internal/transcript"
	"go.uber.org/zap"
)

// Session is an opened archive folder and its roster.
type Session struct {
	root     string
	roster   *identity.Roster
	location *time.Location
	logger   *zap.Logger
}

// Open validates root and loads its roster. A missing or malformed roster
// is logged and leaves the session with an empty one.
func Open(root string, loc *time.Location, logger *zap.Logger) (*Session, error) {
	if err := ValidateArchive(root); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve archive path: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	roster, err := identity.LoadRoster(abs)
	if err != nil {
		logger.Warn("roster unavailable", zap.String("root", abs), zap.Error(err))
	}
	logger.Info("archive opened", zap.String("root", abs), zap.Int("users", roster.Len()))

	return &Session{
		root:     abs,
		roster:   roster,
		location: loc,
		logger:   logger,
	}, nil
}

// Root returns the absolute archive folder.
func (s *Session) Root() string {
	return s.root
}

// Roster returns the archive's users.
func (s *Session) Roster() *identity.Roster {
	return s.roster
}

// Resolve turns a path relative to the archive root into an absolute one.
func (s *Session) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.root, path)
}

// Conversation reconstructs one export file with a fresh color palette.
func (s *Session) Conversation(path string) ([]transcript.Entry, error) {
	path = s.Resolve(path)
	entries, err := transcript.ReconstructFile(path, s.roster, transcript.Options{
		Location: s.location,
		Palette:  identity.NewPalette(),
	})
	if err != nil {
		return nil, fmt.Errorf("open conversation: %w", err)
	}
	s.logger.Debug("conversation opened", zap.String("path", path), zap.Int("entries", len(entries)))
	return entries, nil
}
