package bootstrap

import (
	"log/slog"

	"github.com/osse101/cosmetics/internal/event"
	"github.com/osse101/cosmetics/internal/sse"
)

// InitializeEventSystem creates the in-process event bus. Handlers run
// synchronously on the publishing goroutine.
func InitializeEventSystem() *event.MemoryBus {
	bus := event.NewMemoryBus()
	slog.Info(LogMsgEventSystemReady, "event_types", len(event.AllTypes))
	return bus
}

// InitializeStream starts the SSE hub and forwards every bus event to it
func InitializeStream(bus event.Bus) *sse.Hub {
	hub := sse.NewHub()
	hub.Start()
	sse.NewSubscriber(hub).Subscribe(bus)
	return hub
}
