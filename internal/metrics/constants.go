package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Business metric names
const (
	MetricNameServicesInitialized = "cosmetic_services_initialized_total"
	MetricNameSelectionsChanged   = "cosmetic_selections_changed_total"
	MetricNameInventoryChanges    = "cosmetic_inventory_changes_total"
	MetricNameUserNamesChanged    = "cosmetic_user_names_changed_total"
	MetricNameOperationErrors     = "cosmetic_operation_errors_total"
	MetricNamePlayerCacheSize     = "cosmetic_player_cache_size"
)

// Security metric names
const (
	MetricNameRateLimited = "http_rate_limited_total"
	MetricNameFailedAuth  = "http_failed_auth_total"

	MetricNameEventLogPruned = "event_log_pruned_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Business metric help text
const (
	HelpTextServicesInitialized = "Total number of player cosmetic services initialized"
	HelpTextSelectionsChanged   = "Total number of avatar and frame selection changes"
	HelpTextInventoryChanges    = "Total number of items granted or revoked"
	HelpTextUserNamesChanged    = "Total number of user name changes"
	HelpTextOperationErrors     = "Total number of failed cosmetic operations by error kind"
	HelpTextPlayerCacheSize     = "Number of player services held in the registry cache"
)

// Security metric help text
const (
	HelpTextRateLimited = "Total number of requests rejected by the per-IP rate limit"
	HelpTextFailedAuth  = "Total number of requests rejected for a missing or wrong API key"

	HelpTextEventLogPruned = "Total number of event log rows removed by retention cleanup"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelCategory  = "category"
	LabelSource    = "source"
	LabelDirection = "direction"
	LabelOperation = "operation"
	LabelKind      = "kind"
)

// Inventory change directions
const (
	DirectionGranted = "granted"
	DirectionRevoked = "revoked"
)

// PathUnmatched labels requests that did not match a route
const PathUnmatched = "unmatched"

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds. These buckets range from 1ms to 10s to capture various latency
// patterns: fast (1-10ms), normal (10-100ms), slow (100ms-1s), very slow (1-10s)
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

// Debug log messages
const (
	LogMsgUnexpectedPayload = "Event payload has an unexpected shape"
	LogMsgMetricsRecorded   = "Metrics recorded for event"
)
