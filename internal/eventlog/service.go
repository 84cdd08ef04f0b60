package eventlog

import (
	"context"

	"github.com/osse101/cosmetics/internal/event"
	"github.com/osse101/cosmetics/internal/logger"
)

// Service keeps an audit trail of every cosmetic notification
type Service interface {
	// Subscribe registers the event logger to listen to all events
	Subscribe(bus event.Bus) error

	// EventsForPlayer returns a player's newest events first. limit is
	// clamped to [1, MaxQueryLimit]; zero means DefaultQueryLimit.
	EventsForPlayer(ctx context.Context, playerID string, limit int) ([]Event, error)

	// CleanupOldEvents removes events older than retention period
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo Repository
}

// NewService creates a new event logging service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Subscribe registers event handlers for all event types
func (s *service) Subscribe(bus event.Bus) error {
	event.SubscribeAll(bus, s.handleEvent)
	return nil
}

// handleEvent flattens the payload to a JSON object and stores it
func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	payload, err := event.DecodePayload[map[string]interface{}](evt.Payload)
	if err != nil || payload == nil {
		log.Debug(LogMsgEventPayloadNotMap, "type", evt.Type, "error", err)
		return nil
	}

	var playerID *string
	if pid, ok := payload[PayloadKeyPlayerID].(string); ok && pid != "" {
		playerID = &pid
	}

	if err := s.repo.LogEvent(ctx, string(evt.Type), playerID, payload); err != nil {
		log.Error(LogMsgFailedToLogEvent, "error", err, "type", evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, "type", evt.Type, "player_id", playerID)
	return nil
}

func (s *service) EventsForPlayer(ctx context.Context, playerID string, limit int) ([]Event, error) {
	switch {
	case limit <= 0:
		limit = DefaultQueryLimit
	case limit > MaxQueryLimit:
		limit = MaxQueryLimit
	}
	return s.repo.GetEventsByPlayer(ctx, playerID, limit)
}

// CleanupOldEvents removes events older than the retention period
func (s *service) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	return s.repo.CleanupOldEvents(ctx, retentionDays)
}
