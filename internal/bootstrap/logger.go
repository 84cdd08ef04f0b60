package bootstrap

import (
	"io"
	"log/slog"

	"github.com/osse101/cosmetics/internal/config"
	"github.com/osse101/cosmetics/internal/logger"
)

// SetupLogger installs the default slog logger from configuration. A nil
// writer means stdout.
func SetupLogger(cfg *config.Config, w io.Writer) {
	// Source locations are noise in production logs
	addSource := !cfg.IsProduction()

	loggerConfig := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		cfg.ServiceName,
		cfg.Version,
		cfg.Environment,
		addSource,
	)
	if w == nil {
		logger.InitLogger(loggerConfig)
	} else {
		logger.InitLoggerWithWriter(loggerConfig, w)
	}

	slog.Info(LogMsgLoggingInitialized, "level", loggerConfig.LogLevel())
	slog.Info(LogMsgStartingService,
		"environment", cfg.Environment,
		"log_format", cfg.LogFormat,
		"version", cfg.Version)

	slog.Debug(LogMsgConfigurationLoaded,
		"port", cfg.Port,
		"storage_driver", cfg.StorageDriver,
		"catalog_path", cfg.CatalogPath,
		"unlock_policy", cfg.UnlockPolicy,
		"player_cache_size", cfg.PlayerCacheSize)
}
