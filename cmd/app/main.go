package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/cosmetics/internal/bootstrap"
	"github.com/osse101/cosmetics/internal/config"
	"github.com/osse101/cosmetics/internal/cosmetic"
	"github.com/osse101/cosmetics/internal/eventlog"
	"github.com/osse101/cosmetics/internal/metrics"
	"github.com/osse101/cosmetics/internal/player"
	"github.com/osse101/cosmetics/internal/server"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Cosmetics service failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	bootstrap.SetupLogger(cfg, nil)
	for _, w := range warnings {
		slog.Warn("Configuration warning", "warning", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := bootstrap.LoadCatalog(cfg)
	if err != nil {
		return err
	}

	storage, err := bootstrap.InitializeStorage(ctx, cfg)
	if err != nil {
		return err
	}

	policy, err := bootstrap.BuildUnlockPolicy(cfg)
	if err != nil {
		storage.Close()
		return err
	}

	bus := bootstrap.InitializeEventSystem()
	eventLogService := eventlog.NewService(storage.EventLog)
	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:        bus,
		EventLogService: eventLogService,
	}); err != nil {
		storage.Close()
		return err
	}

	stream := bootstrap.InitializeStream(bus)

	var opts []cosmetic.Option
	if cfg.DefaultUserName != "" {
		opts = append(opts, cosmetic.WithDefaultUserName(cfg.DefaultUserName))
	}
	players := player.NewRegistry(player.CacheConfig{
		Size: cfg.PlayerCacheSize,
		TTL:  cfg.PlayerCacheTTL,
	}, cat, storage.Users, policy, bus, opts...)
	metrics.RegisterPlayerCacheSize(func() int { return players.Stats().Size })

	background := bootstrap.StartBackground(cfg, eventLogService)

	serverOpts := server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		ServiceName:    cfg.ServiceName,
		Version:        cfg.Version,
		Environment:    cfg.Environment,
		RateLimit: server.DetectorConfig{
			Window:           cfg.RateLimitWindow,
			MaxRequestsPerIP: cfg.RateLimitRequests,
		},
		Catalog: cat,
		Players: players,
		Events:  eventLogService,
		Stream:  stream,
	}
	// An untyped nil keeps /readyz reporting ready for drivers without a ping
	if storage.Pinger != nil {
		serverOpts.Storage = storage.Pinger
	}
	srv := server.NewServer(serverOpts)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serverErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:     srv,
		Stream:     stream,
		Background: background,
		Storage:    storage,
	})

	return err
}
