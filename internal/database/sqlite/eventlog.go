package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/osse101/cosmetics/internal/eventlog"
)

// timestampLayout matches the strftime default of the created_at columns
const timestampLayout = "2006-01-02T15:04:05.000Z"

const (
	queryLogEvent = `
		INSERT INTO cosmetic_event_log (event_type, player_id, payload)
		VALUES (?, ?, ?)
	`
	queryEventsByPlayer = `
		SELECT id, event_type, player_id, payload, created_at
		FROM cosmetic_event_log
		WHERE player_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	queryCleanupEvents = `
		DELETE FROM cosmetic_event_log
		WHERE created_at < strftime('%Y-%m-%dT%H:%M:%fZ', 'now', ?)
	`
)

// EventLog returns an event log repository sharing the store's handle
func (s *Store) EventLog() eventlog.Repository {
	return &eventLogRepository{store: s}
}

type eventLogRepository struct {
	store *Store
}

func (r *eventLogRepository) LogEvent(ctx context.Context, eventType string, playerID *string, payload map[string]interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := r.store.sqlDB.ExecContext(ctx, queryLogEvent, eventType, playerID, string(data)); err != nil {
		return fmt.Errorf("log event: %w", err)
	}
	return nil
}

func (r *eventLogRepository) GetEventsByPlayer(ctx context.Context, playerID string, limit int) ([]eventlog.Event, error) {
	rows, err := r.store.sqlDB.QueryContext(ctx, queryEventsByPlayer, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []eventlog.Event
	for rows.Next() {
		var (
			evt       eventlog.Event
			player    sql.NullString
			payload   string
			createdAt string
		)
		if err := rows.Scan(&evt.ID, &evt.EventType, &player, &payload, &createdAt); err != nil {
			return nil, err
		}
		if player.Valid {
			evt.PlayerID = &player.String
		}
		if err := json.Unmarshal([]byte(payload), &evt.Payload); err != nil {
			return nil, err
		}
		if evt.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	return events, rows.Err()
}

func (r *eventLogRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	result, err := r.store.sqlDB.ExecContext(ctx, queryCleanupEvents, fmt.Sprintf("-%d days", retentionDays))
	if err != nil {
		return 0, fmt.Errorf("cleanup events: %w", err)
	}
	return result.RowsAffected()
}
