// Package sqlite provides a SQLite-backed user state store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/osse101/cosmetics/internal/database"
	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/repository"
)

const (
	queryLoadUserState = `SELECT state FROM cosmetic_user_state WHERE player_id = ?`
	// ?3 is the new revision; an unchanged row count means the stored one moved on
	querySaveUserState = `
		INSERT INTO cosmetic_user_state (player_id, state)
		VALUES (?1, ?2)
		ON CONFLICT (player_id) DO UPDATE
		SET state = excluded.state, updated_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE ?3 = 0 OR (
			CASE WHEN json_valid(cosmetic_user_state.state)
			THEN COALESCE(json_extract(cosmetic_user_state.state, '$.revision'), 0)
			ELSE 0 END
		) = ?3 - 1
	`
)

// Store persists user state in a single SQLite file
type Store struct {
	sqlDB *sql.DB
}

// Open opens a SQLite store and applies embedded migrations
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Single writer keeps the file free of SQLITE_BUSY under concurrent saves
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := database.RunSQLiteMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping checks the database handle
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return s.sqlDB.PingContext(ctx)
}

// For returns the view of a single player's row
func (s *Store) For(playerID string) repository.UserState {
	return &userStateRow{store: s, playerID: playerID}
}

type userStateRow struct {
	store    *Store
	playerID string
}

func (r *userStateRow) Load(ctx context.Context) (domain.UserState, error) {
	if r.store == nil || r.store.sqlDB == nil {
		return domain.NewUserState(), fmt.Errorf("storage is not configured")
	}
	var data string
	err := r.store.sqlDB.QueryRowContext(ctx, queryLoadUserState, r.playerID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewUserState(), nil
	}
	if err != nil {
		return domain.NewUserState(), fmt.Errorf("load user state: %w", err)
	}
	return repository.UnmarshalUserState([]byte(data))
}

func (r *userStateRow) Save(ctx context.Context, state domain.UserState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.store == nil || r.store.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	data, err := repository.MarshalUserState(state)
	if err != nil {
		return err
	}
	res, err := r.store.sqlDB.ExecContext(ctx, querySaveUserState, r.playerID, string(data), state.Revision)
	if err != nil {
		return fmt.Errorf("save user state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save user state: %w", err)
	}
	if n == 0 {
		return repository.ErrStaleState
	}
	return nil
}
