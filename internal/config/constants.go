package config

import "time"

// Environment variable names
const (
	EnvPort              = "PORT"
	EnvAPIKey            = "API_KEY"
	EnvTrustedProxies    = "TRUSTED_PROXIES"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"
	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvLogLevel          = "LOG_LEVEL"
	EnvLogFormat         = "LOG_FORMAT"
	EnvServiceName       = "SERVICE_NAME"
	EnvVersion           = "VERSION"
	EnvEnvironment       = "ENVIRONMENT"
	EnvCatalogPath       = "CATALOG_PATH"
	EnvStorageDriver     = "STORAGE_DRIVER"
	EnvStorageDir        = "STORAGE_DIR"
	EnvStorageKey        = "STORAGE_KEY"
	EnvSQLitePath        = "SQLITE_PATH"
	EnvDBUser            = "DB_USER"
	EnvDBPassword        = "DB_PASSWORD"
	EnvDBHost            = "DB_HOST"
	EnvDBPort            = "DB_PORT"
	EnvDBName            = "DB_NAME"
	EnvDBMaxConns        = "DB_MAX_CONNS"
	EnvDBMaxConnIdleTime = "DB_MAX_CONN_IDLE_TIME"
	EnvDBMaxConnLifetime = "DB_MAX_CONN_LIFETIME"
	EnvPlayerCacheSize   = "PLAYER_CACHE_SIZE"
	EnvPlayerCacheTTL    = "PLAYER_CACHE_TTL"
	EnvDefaultUserName   = "DEFAULT_USER_NAME"
	EnvUnlockPolicy      = "UNLOCK_POLICY"
	EnvDevWalletCoins    = "DEV_WALLET_COINS"
	EnvDevWalletGems     = "DEV_WALLET_GEMS"
	EnvDevPlayerLevel    = "DEV_PLAYER_LEVEL"
	EnvShutdownTimeout   = "SHUTDOWN_TIMEOUT"
	EnvWorkerCount       = "WORKER_COUNT"
	EnvSchemaVersion     = "ENV_SCHEMA_VERSION"

	EnvEventLogRetentionDays   = "EVENT_LOG_RETENTION_DAYS"
	EnvEventLogCleanupInterval = "EVENT_LOG_CLEANUP_INTERVAL"
)

// Defaults
const (
	DefaultPort        = "8080"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultServiceName = "cosmetics"
	DefaultVersion     = "dev"
	DefaultCatalogPath = "configs/catalog.yaml"
	DefaultStorageDir  = "data"
	DefaultStorageKey  = "avatar_user_state_v1"
	DefaultSQLitePath  = "data/cosmetics.db"
	DefaultDBName      = "cosmetics"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultPlayerCacheSize = 1000
	DefaultPlayerCacheTTL  = 30 * time.Minute

	// Zero retention keeps events forever
	DefaultEventLogRetentionDays   = 30
	DefaultEventLogCleanupInterval = 24 * time.Hour
	DefaultWorkerCount             = 2

	DefaultShutdownTimeout = 10 * time.Second
)

// Environments
const (
	EnvironmentDev        = "dev"
	EnvironmentProd       = "prod"
	EnvironmentProduction = "production"
)

// Storage drivers
const (
	StorageDriverMemory   = "memory"
	StorageDriverFile     = "file"
	StorageDriverSQLite   = "sqlite"
	StorageDriverPostgres = "postgres"
)

// StorageDrivers lists every accepted STORAGE_DRIVER value
var StorageDrivers = []string{StorageDriverMemory, StorageDriverFile, StorageDriverSQLite, StorageDriverPostgres}

// Unlock policies
const (
	UnlockPolicyBasic  = "basic"
	UnlockPolicyWallet = "wallet"
)
