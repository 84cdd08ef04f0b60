package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/cosmetics/internal/server"
	"github.com/osse101/cosmetics/internal/sse"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server     *server.Server
	Stream     *sse.Hub
	Background *Background
	Storage    *Storage
}

// GracefulShutdown stops components in dependency order:
// 1. Event stream (end open SSE responses so the server can drain)
// 2. HTTP server (stop accepting new requests, drain in-flight ones)
// 3. Background jobs (finish the running cleanup, if any)
// 4. Storage (nothing writes after this point)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	if components.Stream != nil {
		components.Stream.Stop()
	}

	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedStop, "error", err)
		}
	}

	if components.Background != nil {
		slog.Info(LogMsgStoppingBackground)
		done := make(chan struct{})
		go func() {
			components.Background.Stop()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			slog.Warn(LogMsgBackgroundStopTimed, "error", ctx.Err())
		}
	}

	if components.Storage != nil {
		components.Storage.Close()
	}

	slog.Info(LogMsgServerStopped)
}
