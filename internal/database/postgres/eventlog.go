package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/cosmetics/internal/eventlog"
)

// EventLogRepository stores the cosmetic event log in cosmetic_event_log
type EventLogRepository struct {
	db *pgxpool.Pool
}

func NewEventLogRepository(db *pgxpool.Pool) *EventLogRepository {
	return &EventLogRepository{db: db}
}

func (r *EventLogRepository) LogEvent(ctx context.Context, eventType string, playerID *string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLogEvent, err)
	}
	if _, err := r.db.Exec(ctx, queryLogEvent, eventType, playerID, body); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToLogEvent, err)
	}
	return nil
}

// GetEventsByPlayer returns up to limit events, newest first. The column
// order of queryEventsByPlayer matches the eventlog.Event field order.
func (r *EventLogRepository) GetEventsByPlayer(ctx context.Context, playerID string, limit int) ([]eventlog.Event, error) {
	rows, err := r.db.Query(ctx, queryEventsByPlayer, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryEvents, err)
	}
	events, err := pgx.CollectRows(rows, pgx.RowToStructByPos[eventlog.Event])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToQueryEvents, err)
	}
	return events, nil
}

func (r *EventLogRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	tag, err := r.db.Exec(ctx, queryCleanupEvents, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCleanupEvents, err)
	}
	return tag.RowsAffected(), nil
}

var _ eventlog.Repository = (*EventLogRepository)(nil)
