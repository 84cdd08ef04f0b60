package event

// EventSchemaVersion is stamped on every event this package constructs.
// Bump it when a payload field changes meaning.
const EventSchemaVersion = "1.0"

// ErrMsgHandlersFailedFormat wraps the joined handler errors of one Publish
const ErrMsgHandlersFailedFormat = "%d handler(s) failed for %s: %w"
