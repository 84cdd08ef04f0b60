// Package memory is an in-process user state store with injectable failures.
package memory

import (
	"context"
	"sync"

	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/repository"
)

// Store keeps the encoded blob per player, so a save/load pair exercises the
// same encoding as the durable backends.
type Store struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	loadErr error
	saveErr error
	saves   int
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{blobs: make(map[string][]byte)}
}

// For returns the view of a single player's blob
func (s *Store) For(playerID string) repository.UserState {
	return &view{store: s, playerID: playerID}
}

// FailLoads makes every Load return err. nil restores normal behavior.
func (s *Store) FailLoads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
}

// FailSaves makes every Save return err. nil restores normal behavior.
func (s *Store) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

// Put stores a raw blob, useful for seeding corrupt data
func (s *Store) Put(playerID string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[playerID] = append([]byte(nil), data...)
}

// Saves counts successful saves across all players
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

type view struct {
	store    *Store
	playerID string
}

func (v *view) Load(_ context.Context) (domain.UserState, error) {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	if v.store.loadErr != nil {
		return domain.NewUserState(), v.store.loadErr
	}
	return repository.UnmarshalUserState(v.store.blobs[v.playerID])
}

func (v *view) Save(_ context.Context, state domain.UserState) error {
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	if v.store.saveErr != nil {
		return v.store.saveErr
	}
	if err := repository.CheckRevision(v.store.blobs[v.playerID], state); err != nil {
		return err
	}
	data, err := repository.MarshalUserState(state)
	if err != nil {
		return err
	}
	v.store.blobs[v.playerID] = data
	v.store.saves++
	return nil
}
