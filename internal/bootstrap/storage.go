package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/cosmetics/internal/config"
	"github.com/osse101/cosmetics/internal/database"
	"github.com/osse101/cosmetics/internal/database/file"
	"github.com/osse101/cosmetics/internal/database/memory"
	"github.com/osse101/cosmetics/internal/database/postgres"
	"github.com/osse101/cosmetics/internal/database/sqlite"
	"github.com/osse101/cosmetics/internal/eventlog"
	"github.com/osse101/cosmetics/internal/handler"
	"github.com/osse101/cosmetics/internal/repository"
)

// Storage bundles what a storage driver provides to the rest of the service.
// Pinger is nil for drivers with nothing to ping.
type Storage struct {
	Driver   string
	Users    repository.UserStateStore
	EventLog eventlog.Repository
	Pinger   handler.Pinger
	close    func()
}

// Close releases driver resources. Safe to call on drivers that hold none.
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// InitializeStorage opens the configured storage driver. SQL drivers run
// their migrations before returning. The memory and file drivers keep the
// event log in process.
func InitializeStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	var (
		st  *Storage
		err error
	)

	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		st = &Storage{Users: memory.NewStore(), EventLog: eventlog.NewMemoryRepository()}
	case config.StorageDriverFile:
		st, err = openFileStorage(cfg)
	case config.StorageDriverSQLite:
		st, err = openSQLiteStorage(ctx, cfg)
	case config.StorageDriverPostgres:
		st, err = openPostgresStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStorageDriver, cfg.StorageDriver)
	}
	if err != nil {
		return nil, err
	}

	st.Driver = cfg.StorageDriver
	slog.Info(LogMsgStorageInitialized, "driver", st.Driver)
	return st, nil
}

func openFileStorage(cfg *config.Config) (*Storage, error) {
	store, err := file.NewStore(cfg.StorageDir, cfg.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenFileStore, err)
	}
	return &Storage{Users: store, EventLog: eventlog.NewMemoryRepository()}, nil
}

func openSQLiteStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), DirPermission); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenSQLite, err)
	}
	store, err := sqlite.Open(ctx, cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenSQLite, err)
	}
	return &Storage{
		Users:    store,
		EventLog: store.EventLog(),
		Pinger:   store,
		close: func() {
			if err := store.Close(); err != nil {
				slog.Error(LogMsgStorageCloseFailed, "driver", config.StorageDriverSQLite, "error", err)
			}
		},
	}, nil
}

func openPostgresStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	dsn := cfg.GetDBConnString()
	if err := database.RunMigrations(ctx, dsn); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedRunMigrations, err)
	}
	slog.Info(LogMsgMigrationsApplied, "driver", config.StorageDriverPostgres)

	pool, err := database.NewPool(dsn, cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
	}
	return &Storage{
		Users:    postgres.NewUserStateStore(pool),
		EventLog: postgres.NewEventLogRepository(pool),
		Pinger:   pool,
		close:    pool.Close,
	}, nil
}
