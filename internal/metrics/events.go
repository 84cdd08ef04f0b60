package metrics

import (
	"context"

	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/event"
	"github.com/osse101/cosmetics/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all cosmetic events
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	event.SubscribeAll(bus, e.HandleEvent)
	return nil
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	// Always increment event counter
	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	switch evt.Type {
	case event.CosmeticInitialized:
		ServicesInitialized.Inc()

	case event.AvatarSelectionChanged, event.FrameSelectionChanged:
		payload, err := event.DecodePayload[domain.SelectionChangedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
			return nil
		}
		SelectionsChanged.WithLabelValues(string(payload.Category)).Inc()

	case event.InventoryChanged:
		payload, err := event.DecodePayload[domain.InventoryChangedPayload](evt.Payload)
		if err != nil {
			log.Debug(LogMsgUnexpectedPayload, "type", evt.Type, "error", err)
			return nil
		}
		direction := DirectionGranted
		if !payload.Granted {
			direction = DirectionRevoked
		}
		InventoryChanges.WithLabelValues(string(payload.Category), payload.Source, direction).Inc()

	case event.UserNameChanged:
		UserNamesChanged.Inc()
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

// RecordOperationError counts a failed operation by its error kind
func RecordOperationError(operation string, err error) {
	if err == nil {
		return
	}
	OperationErrors.WithLabelValues(operation, domain.KindOf(err).String()).Inc()
}
