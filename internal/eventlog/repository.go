package eventlog

import (
	"context"
	"time"
)

// Event is one logged cosmetic notification
type Event struct {
	ID        int64                  `json:"id"`
	EventType string                 `json:"event_type"`
	PlayerID  *string                `json:"player_id,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
	CreatedAt time.Time              `json:"created_at"`
}

// Repository defines the interface for event logging storage
type Repository interface {
	// LogEvent stores an event
	LogEvent(ctx context.Context, eventType string, playerID *string, payload map[string]interface{}) error

	// GetEventsByPlayer returns the newest events of a player first
	GetEventsByPlayer(ctx context.Context, playerID string, limit int) ([]Event, error)

	// CleanupOldEvents removes events older than the specified number of days
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}
