package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/osse101/cosmetics/internal/domain"
)

// UserState persists one player's cosmetic record.
//
// Load returns a fresh empty state and a nil error when nothing was stored yet.
// When stored data is unreadable it returns a fresh empty state together with
// the error, so callers can fall back without a second code path.
//
// Save returns ErrStaleState when state.Revision is non-zero and the stored
// revision is not state.Revision-1. A missing record accepts any revision and
// an unreadable one counts as revision zero.
type UserState interface {
	Load(ctx context.Context) (domain.UserState, error)
	Save(ctx context.Context, state domain.UserState) error
}

// UserStateStore hands out per-player UserState views over one backend
type UserStateStore interface {
	For(playerID string) UserState
}

// MarshalUserState encodes the persisted blob
func MarshalUserState(state domain.UserState) ([]byte, error) {
	state.Normalize()
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user state: %w", err)
	}
	return data, nil
}

// UnmarshalUserState decodes the persisted blob. Blank input is an empty state.
func UnmarshalUserState(data []byte) (domain.UserState, error) {
	if len(data) == 0 {
		return domain.NewUserState(), nil
	}
	var state domain.UserState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.NewUserState(), fmt.Errorf("failed to decode user state: %w", err)
	}
	state.Normalize()
	return state, nil
}

// ErrStaleState reports a save built on a revision that is no longer current
var ErrStaleState = errors.New("stored user state changed since it was loaded")

// CheckRevision applies the Save revision rule to a stored blob
func CheckRevision(stored []byte, next domain.UserState) error {
	if next.Revision == 0 || len(stored) == 0 {
		return nil
	}
	if StoredRevision(stored) != next.Revision-1 {
		return ErrStaleState
	}
	return nil
}

// StoredRevision reads the revision of a stored blob, zero when absent or unreadable
func StoredRevision(data []byte) int64 {
	var head struct {
		Revision int64 `json:"revision"`
	}
	if len(data) == 0 || json.Unmarshal(data, &head) != nil {
		return 0
	}
	return head.Revision
}
