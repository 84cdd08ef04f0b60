package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port           int
	APIKey         string // API key for authentication
	TrustedProxies []string

	// Per-IP request budget; zero means the server default
	RateLimitWindow   time.Duration
	RateLimitRequests int

	// Logging
	LogLevel    string
	LogFormat   string
	ServiceName string
	Version     string
	Environment string

	// Catalog
	CatalogPath string

	// Storage
	StorageDriver string
	StorageDir    string
	StorageKey    string
	SQLitePath    string

	// Database
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// Player registry
	PlayerCacheSize int
	PlayerCacheTTL  time.Duration

	DefaultUserName string

	// Unlock policy and the in-memory dev wallet behind it
	UnlockPolicy   string
	DevWalletCoins int
	DevWalletGems  int
	DevPlayerLevel int

	// Event log housekeeping
	EventLogRetentionDays   int
	EventLogCleanupInterval time.Duration
	WorkerCount             int

	ShutdownTimeout time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		APIKey:         getEnv(EnvAPIKey, ""),
		TrustedProxies: getEnvAsList(EnvTrustedProxies),

		RateLimitWindow:   getEnvAsDuration(EnvRateLimitWindow, 0),
		RateLimitRequests: getEnvAsInt(EnvRateLimitRequests, 0),

		LogLevel:    getEnv(EnvLogLevel, DefaultLogLevel),
		LogFormat:   getEnv(EnvLogFormat, DefaultLogFormat),
		ServiceName: getEnv(EnvServiceName, DefaultServiceName),
		Version:     getEnv(EnvVersion, DefaultVersion),
		Environment: getEnv(EnvEnvironment, EnvironmentDev),

		CatalogPath: getEnv(EnvCatalogPath, DefaultCatalogPath),

		StorageDriver: strings.ToLower(getEnv(EnvStorageDriver, StorageDriverMemory)),
		StorageDir:    getEnv(EnvStorageDir, DefaultStorageDir),
		StorageKey:    getEnv(EnvStorageKey, DefaultStorageKey),
		SQLitePath:    getEnv(EnvSQLitePath, DefaultSQLitePath),

		DBUser:            getEnv(EnvDBUser, "postgres"),
		DBPassword:        getEnv(EnvDBPassword, "postgres"),
		DBHost:            getEnv(EnvDBHost, "localhost"),
		DBPort:            getEnv(EnvDBPort, "5432"),
		DBName:            getEnv(EnvDBName, DefaultDBName),
		DBMaxConns:        getEnvAsInt(EnvDBMaxConns, DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration(EnvDBMaxConnIdleTime, DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration(EnvDBMaxConnLifetime, DefaultDBMaxConnLifetime),

		PlayerCacheSize: getEnvAsInt(EnvPlayerCacheSize, DefaultPlayerCacheSize),
		PlayerCacheTTL:  getEnvAsDuration(EnvPlayerCacheTTL, DefaultPlayerCacheTTL),

		DefaultUserName: getEnv(EnvDefaultUserName, ""),

		UnlockPolicy:   strings.ToLower(getEnv(EnvUnlockPolicy, UnlockPolicyBasic)),
		DevWalletCoins: getEnvAsInt(EnvDevWalletCoins, 0),
		DevWalletGems:  getEnvAsInt(EnvDevWalletGems, 0),
		DevPlayerLevel: getEnvAsInt(EnvDevPlayerLevel, 1),

		EventLogRetentionDays:   getEnvAsInt(EnvEventLogRetentionDays, DefaultEventLogRetentionDays),
		EventLogCleanupInterval: getEnvAsDuration(EnvEventLogCleanupInterval, DefaultEventLogCleanupInterval),
		WorkerCount:             getEnvAsInt(EnvWorkerCount, DefaultWorkerCount),

		ShutdownTimeout: getEnvAsDuration(EnvShutdownTimeout, DefaultShutdownTimeout),
	}

	portStr := getEnv(EnvPort, DefaultPort)
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	return cfg, nil
}

// Validate checks the values Load cannot reject on its own.
// It is called once at startup, after Load.
func (c *Config) Validate() error {
	var problems []string

	if c.Port < 1 || c.Port > 65535 {
		problems = append(problems, fmt.Sprintf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if strings.TrimSpace(c.CatalogPath) == "" {
		problems = append(problems, "CATALOG_PATH must be set")
	}
	if c.PlayerCacheSize <= 0 {
		problems = append(problems, fmt.Sprintf("PLAYER_CACHE_SIZE must be positive, got %d", c.PlayerCacheSize))
	}
	if c.PlayerCacheTTL <= 0 {
		problems = append(problems, fmt.Sprintf("PLAYER_CACHE_TTL must be positive, got %s", c.PlayerCacheTTL))
	}

	if c.RateLimitWindow < 0 || c.RateLimitRequests < 0 {
		problems = append(problems, "RATE_LIMIT_WINDOW and RATE_LIMIT_REQUESTS must not be negative")
	}
	if c.EventLogRetentionDays < 0 {
		problems = append(problems, fmt.Sprintf("EVENT_LOG_RETENTION_DAYS must not be negative, got %d", c.EventLogRetentionDays))
	}
	if c.EventLogRetentionDays > 0 && c.EventLogCleanupInterval <= 0 {
		problems = append(problems, fmt.Sprintf("EVENT_LOG_CLEANUP_INTERVAL must be positive, got %s", c.EventLogCleanupInterval))
	}
	if c.WorkerCount <= 0 {
		problems = append(problems, fmt.Sprintf("WORKER_COUNT must be positive, got %d", c.WorkerCount))
	}

	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverFile:
		if strings.TrimSpace(c.StorageDir) == "" {
			problems = append(problems, "STORAGE_DIR must be set for the file driver")
		}
	case StorageDriverSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			problems = append(problems, "SQLITE_PATH must be set for the sqlite driver")
		}
	case StorageDriverPostgres:
		if c.DBHost == "" || c.DBName == "" || c.DBUser == "" {
			problems = append(problems, "DB_HOST, DB_NAME and DB_USER must be set for the postgres driver")
		}
		if c.DBMaxConns <= 0 {
			problems = append(problems, fmt.Sprintf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns))
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown STORAGE_DRIVER %q (valid: %s)", c.StorageDriver, strings.Join(StorageDrivers, ", ")))
	}

	switch c.UnlockPolicy {
	case UnlockPolicyBasic, UnlockPolicyWallet:
	default:
		problems = append(problems, fmt.Sprintf("unknown UNLOCK_POLICY %q (valid: %s, %s)", c.UnlockPolicy, UnlockPolicyBasic, UnlockPolicyWallet))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// IsProduction reports whether the service runs in a production environment
func (c *Config) IsProduction() bool {
	return c.Environment == EnvironmentProd || c.Environment == EnvironmentProduction
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default when
// unset or malformed
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a Go duration ("30s", "5m"), falling back to the
// default when unset or malformed
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated variable, dropping blank entries
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
