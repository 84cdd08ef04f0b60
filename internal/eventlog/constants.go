package eventlog

// JSON payload field keys
const (
	PayloadKeyPlayerID = "player_id"
)

// Query limits
const (
	DefaultQueryLimit = 50
	MaxQueryLimit     = 500
)

// Log messages - service events
const (
	LogMsgEventPayloadNotMap = "Event payload is not an object, skipping log"
	LogMsgFailedToLogEvent   = "Failed to log event"
	LogMsgEventLogged        = "Event logged"
)

// Log messages - cleanup job
const (
	LogMsgCleanupJobSkipped   = "Event log cleanup still running, skipping tick"
	LogMsgCleanupJobFailed    = "Event log cleanup failed"
	LogMsgCleanupJobCompleted = "Event log cleanup completed"
)
