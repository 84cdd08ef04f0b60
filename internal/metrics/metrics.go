package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Business Metrics
var (
	ServicesInitialized = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameServicesInitialized,
			Help: HelpTextServicesInitialized,
		},
	)

	SelectionsChanged = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSelectionsChanged,
			Help: HelpTextSelectionsChanged,
		},
		[]string{LabelCategory},
	)

	InventoryChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameInventoryChanges,
			Help: HelpTextInventoryChanges,
		},
		[]string{LabelCategory, LabelSource, LabelDirection},
	)

	UserNamesChanged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameUserNamesChanged,
			Help: HelpTextUserNamesChanged,
		},
	)

	OperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOperationErrors,
			Help: HelpTextOperationErrors,
		},
		[]string{LabelOperation, LabelKind},
	)
)

// Security Metrics
var (
	RateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRateLimited,
			Help: HelpTextRateLimited,
		},
	)

	FailedAuth = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameFailedAuth,
			Help: HelpTextFailedAuth,
		},
	)
)

// Event log metrics
var (
	EventLogPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameEventLogPruned,
			Help: HelpTextEventLogPruned,
		},
	)
)

// RegisterPlayerCacheSize exposes the registry size as a gauge read at scrape time.
// Call it once per process.
func RegisterPlayerCacheSize(size func() int) {
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: MetricNamePlayerCacheSize,
			Help: HelpTextPlayerCacheSize,
		},
		func() float64 { return float64(size()) },
	)
}
