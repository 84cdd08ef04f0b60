package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/repository"
)

// UserStateStore keeps one JSONB row per player in cosmetic_user_state
type UserStateStore struct {
	db *pgxpool.Pool
}

// NewUserStateStore creates a new UserStateStore
func NewUserStateStore(db *pgxpool.Pool) *UserStateStore {
	return &UserStateStore{db: db}
}

// For returns the view of a single player's row
func (s *UserStateStore) For(playerID string) repository.UserState {
	return &userStateRow{db: s.db, playerID: playerID}
}

type userStateRow struct {
	db       *pgxpool.Pool
	playerID string
}

func (r *userStateRow) Load(ctx context.Context) (domain.UserState, error) {
	var data []byte
	err := r.db.QueryRow(ctx, queryLoadUserState, r.playerID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NewUserState(), nil
	}
	if err != nil {
		return domain.NewUserState(), fmt.Errorf("%s: %w", ErrMsgFailedToLoadUserState, err)
	}
	return repository.UnmarshalUserState(data)
}

func (r *userStateRow) Save(ctx context.Context, state domain.UserState) error {
	data, err := repository.MarshalUserState(state)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, querySaveUserState, r.playerID, data, state.Revision)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveUserState, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrStaleState
	}
	return nil
}
