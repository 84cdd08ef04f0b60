package eventlog

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps events in process. It backs the memory and file
// storage drivers, which have no database to log into.
type MemoryRepository struct {
	mu     sync.Mutex
	events []Event
	nextID int64
	now    func() time.Time
}

// NewMemoryRepository creates an empty MemoryRepository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

// LogEvent implements Repository
func (r *MemoryRepository) LogEvent(_ context.Context, eventType string, playerID *string, payload map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	r.events = append(r.events, Event{
		ID:        r.nextID,
		EventType: eventType,
		PlayerID:  playerID,
		Payload:   payload,
		CreatedAt: r.now(),
	})
	return nil
}

// GetEventsByPlayer implements Repository
func (r *MemoryRepository) GetEventsByPlayer(_ context.Context, playerID string, limit int) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Event
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if e := r.events[i]; e.PlayerID != nil && *e.PlayerID == playerID {
			out = append(out, e)
		}
	}
	return out, nil
}

// CleanupOldEvents implements Repository
func (r *MemoryRepository) CleanupOldEvents(_ context.Context, retentionDays int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().AddDate(0, 0, -retentionDays)
	kept := r.events[:0]
	for _, e := range r.events {
		if !e.CreatedAt.Before(cutoff) {
			kept = append(kept, e)
		}
	}
	deleted := int64(len(r.events) - len(kept))
	r.events = kept
	return deleted, nil
}
