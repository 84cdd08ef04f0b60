package logger

// ContextKeyRequestID names the request id context value
const ContextKeyRequestID = "request_id"

// Accepted LOG_LEVEL values; anything else means info
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Accepted LOG_FORMAT values; anything else means text
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Attribute keys attached to every record
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
)
