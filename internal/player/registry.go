// Package player hosts one initialized cosmetic service per player id.
package player

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/cosmetics/internal/cosmetic"
	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/event"
	"github.com/osse101/cosmetics/internal/logger"
	"github.com/osse101/cosmetics/internal/repository"
	"github.com/osse101/cosmetics/internal/unlock"
)

// CacheConfig holds the registry LRU settings
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// DefaultCacheConfig returns the default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Size: DefaultCacheSize, TTL: DefaultCacheTTL}
}

// CacheStats reports registry cache effectiveness
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// Registry builds services lazily from a shared catalog, store, policy and bus.
// An evicted service is rebuilt from storage on the next Get. A request still
// holding the evicted one cannot overwrite the rebuilt service's saves: the
// store rejects its stale revision and the old service reloads.
type Registry struct {
	catalog cosmetic.Catalog
	store   repository.UserStateStore
	policy  unlock.Policy
	bus     event.Bus
	opts    []cosmetic.Option

	mu     sync.Mutex
	lru    *expirable.LRU[string, cosmetic.Service]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewRegistry creates a registry. Non-positive config values use the defaults.
func NewRegistry(cfg CacheConfig, catalog cosmetic.Catalog, store repository.UserStateStore, policy unlock.Policy, bus event.Bus, opts ...cosmetic.Option) *Registry {
	if cfg.Size <= 0 {
		cfg.Size = DefaultCacheSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	r := &Registry{
		catalog: catalog,
		store:   store,
		policy:  policy,
		bus:     bus,
		opts:    opts,
	}
	r.lru = expirable.NewLRU[string, cosmetic.Service](cfg.Size, r.onEvict, cfg.TTL)
	return r
}

func (r *Registry) onEvict(playerID string, _ cosmetic.Service) {
	logger.Debug(LogMsgServiceEvicted, "player_id", playerID)
}

// Get returns the initialized service of playerID, creating it on first use
func (r *Registry) Get(ctx context.Context, playerID string) (cosmetic.Service, error) {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, domain.NewError(domain.KindInvalidID, ErrMsgEmptyPlayerID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if svc, ok := r.lru.Get(playerID); ok {
		r.hits.Add(1)
		return svc, nil
	}
	r.misses.Add(1)

	opts := append([]cosmetic.Option{cosmetic.WithPlayerID(playerID)}, r.opts...)
	svc, err := cosmetic.NewService(r.catalog, r.store.For(playerID), r.policy, r.bus, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgCreateService, err)
	}
	if err := svc.Initialize(ctx); err != nil {
		return nil, err
	}

	r.lru.Add(playerID, svc)
	logger.FromContext(ctx).Debug(LogMsgServiceCreated, "player_id", playerID)
	return svc, nil
}

// Evict drops the cached service of playerID
func (r *Registry) Evict(playerID string) {
	r.lru.Remove(playerID)
}

// Purge drops every cached service
func (r *Registry) Purge() {
	r.lru.Purge()
}

// Stats returns cache hit/miss counters and the current size
func (r *Registry) Stats() CacheStats {
	return CacheStats{
		Hits:   r.hits.Load(),
		Misses: r.misses.Load(),
		Size:   r.lru.Len(),
	}
}
