package sse

import (
	"context"

	"github.com/osse101/cosmetics/internal/event"
	"github.com/osse101/cosmetics/internal/logger"
)

// playerRef picks the player out of any cosmetic event payload
type playerRef struct {
	PlayerID string `json:"player_id"`
}

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub) *Subscriber {
	return &Subscriber{hub: hub}
}

// Subscribe forwards every cosmetic event type to the hub
func (s *Subscriber) Subscribe(bus event.Bus) {
	event.SubscribeAll(bus, s.handleEvent)
	logger.Info(LogMsgSubscribed, "types", event.AllTypes)
}

func (s *Subscriber) handleEvent(ctx context.Context, evt event.Event) error {
	ref, err := event.DecodePayload[playerRef](evt.Payload)
	if err != nil {
		// A payload the stream cannot attribute is still worth sending to
		// unfiltered clients
		ref = playerRef{}
	}

	s.hub.Broadcast(string(evt.Type), ref.PlayerID, evt.Payload)
	logger.FromContext(ctx).Debug(LogMsgEventBroadcast,
		"event_type", evt.Type,
		"player_id", ref.PlayerID)
	return nil
}
