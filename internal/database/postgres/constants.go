package postgres

// Queries against cosmetic_user_state
const (
	queryLoadUserState = `SELECT state FROM cosmetic_user_state WHERE player_id = $1`
	// $3 is the new revision; zero rows affected means the stored one moved on
	querySaveUserState = `
		INSERT INTO cosmetic_user_state (player_id, state, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (player_id) DO UPDATE
		SET state = EXCLUDED.state, updated_at = NOW()
		WHERE $3::bigint = 0
			OR COALESCE((cosmetic_user_state.state->>'revision')::bigint, 0) = $3::bigint - 1
	`
)

// Error Messages
const (
	ErrMsgFailedToLoadUserState = "failed to load user state"
	ErrMsgFailedToSaveUserState = "failed to save user state"
	ErrMsgFailedToLogEvent      = "failed to log event"
	ErrMsgFailedToQueryEvents   = "failed to query events"
	ErrMsgFailedToCleanupEvents = "failed to clean up events"
)

// Queries against cosmetic_event_log
const (
	queryLogEvent = `
		INSERT INTO cosmetic_event_log (event_type, player_id, payload)
		VALUES ($1, $2, $3)
	`
	queryEventsByPlayer = `
		SELECT id, event_type, player_id, payload, created_at
		FROM cosmetic_event_log
		WHERE player_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`
	queryCleanupEvents = `
		DELETE FROM cosmetic_event_log
		WHERE created_at < NOW() - INTERVAL '1 day' * $1
	`
)
