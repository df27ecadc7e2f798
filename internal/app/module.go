package app

import (
	"context"
	"time"

	"github.com/matheus3301/crawlspace/internal/bus"
	"github.com/matheus3301/crawlspace/internal/config"
	"github.com/matheus3301/crawlspace/internal/history"
	"github.com/matheus3301/crawlspace/internal/logging"
	"github.com/matheus3301/crawlspace/internal/scan"
	"github.com/matheus3301/crawlspace/internal/session"
	"github.com/matheus3301/crawlspace/internal/status"
	"github.com/matheus3301/crawlspace/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Params holds the per-binary settings passed to the fx module.
type Params struct {
	Binary     string // names the log file
	ConfigPath string // optional override; empty = session.ConfigPath()
	Console    bool   // log to stderr as well as the log file
	NoHistory  bool   // skip the history database for this process
}

// Module returns the fx module composing all providers and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("crawlspace",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideLocation,
			provideBus,
			provideStateMachine,
			provideStore,
			provideScanner,
			provideRecorder,
			NewService,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	path := p.ConfigPath
	if path == "" {
		path = session.ConfigPath()
	}
	return config.LoadOrDefault(path)
}

func provideLogger(p Params, cfg *config.Config) (*zap.Logger, error) {
	if err := session.EnsureDir(); err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Path:       session.LogPath(p.Binary),
		Level:      cfg.Log.Level,
		Console:    p.Console,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		Component:  p.Binary,
	})
}

func provideLocation(cfg *config.Config) (*time.Location, error) {
	return cfg.Location()
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

// provideStore returns a nil DB when history is disabled.
func provideStore(p Params, cfg *config.Config, logger *zap.Logger) (*store.DB, error) {
	if p.NoHistory || !cfg.History.Enabled {
		logger.Info("history disabled")
		return nil, nil
	}
	dbPath := session.HistoryDBPath()
	db, result, err := store.OpenMigrated(dbPath)
	if err != nil {
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Debug("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideScanner(m *status.Machine, b *bus.Bus, logger *zap.Logger, cfg *config.Config) *scan.Scanner {
	return scan.New(m, b, logger.Named("scan"), cfg.HighlightMarker)
}

func provideRecorder(db *store.DB, b *bus.Bus, logger *zap.Logger, cfg *config.Config) *history.Recorder {
	if db == nil {
		return nil
	}
	return history.NewRecorder(db, b, logger.Named("history"), cfg.History.KeepRuns)
}

func registerLifecycle(lc fx.Lifecycle, db *store.DB, recorder *history.Recorder, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			if recorder != nil {
				recorder.Start(context.Background())
			}
			return nil
		},
		OnStop: func(_ context.Context) error {
			if recorder != nil {
				recorder.Stop()
			}
			if db != nil {
				if err := db.Close(); err != nil {
					logger.Warn("error closing store", zap.Error(err))
				}
			}
			logger.Debug("stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
