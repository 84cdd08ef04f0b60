package bootstrap

// Log messages - startup
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting cosmetics service"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgCatalogLoaded       = "Catalog loaded"
	LogMsgCatalogWarning      = "Catalog warning"
	LogMsgStorageInitialized  = "Storage initialized"
	LogMsgMigrationsApplied   = "Database migrations applied"
	LogMsgUnlockPolicy        = "Unlock policy configured"
	LogMsgEventSystemReady    = "Event system initialized"
	LogMsgCleanupScheduled    = "Event log cleanup scheduled"
	LogMsgCleanupDisabled     = "Event log retention disabled, cleanup not scheduled"
)

// Log messages - event handlers
const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgEventLoggerInitialized     = "Event logger initialized"
	ErrMsgFailedRegisterMetrics      = "failed to register metrics collector"
	ErrMsgFailedSubscribeEventLogger = "failed to subscribe event logger"
)

// Error messages - startup
const (
	ErrMsgFailedLoadCatalog    = "failed to load catalog"
	ErrMsgFailedOpenFileStore  = "failed to open file store"
	ErrMsgFailedOpenSQLite     = "failed to open sqlite database"
	ErrMsgFailedRunMigrations  = "failed to run database migrations"
	ErrMsgFailedConnectDB      = "failed to connect to database"
	ErrMsgUnknownStorageDriver = "unknown storage driver"
	ErrMsgUnknownUnlockPolicy  = "unknown unlock policy"
)

// Log messages - shutdown
const (
	LogMsgShuttingDownServer  = "Shutting down server..."
	LogMsgServerStopped       = "Server stopped"
	LogMsgServerForcedStop    = "Server forced to shutdown"
	LogMsgStorageCloseFailed  = "Storage close failed"
	LogMsgStoppingBackground  = "Stopping background jobs..."
	LogMsgBackgroundStopTimed = "Background jobs did not stop before deadline"
)

// DirPermission is used for directories created at startup
const DirPermission = 0o755

// Worker pool sizing
const (
	WorkerQueueSize = 16
)
