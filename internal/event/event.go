package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/cosmetics/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Cosmetic event types
const (
	CosmeticInitialized    Type = domain.EventTypeCosmeticInitialized
	AvatarSelectionChanged Type = domain.EventTypeAvatarSelectionChanged
	FrameSelectionChanged  Type = domain.EventTypeFrameSelectionChanged
	InventoryChanged       Type = domain.EventTypeInventoryChanged
	UserNameChanged        Type = domain.EventTypeUserNameChanged
)

// AllTypes lists every event type the cosmetics service publishes
var AllTypes = []Type{
	CosmeticInitialized,
	AvatarSelectionChanged,
	FrameSelectionChanged,
	InventoryChanged,
	UserNameChanged,
}

// Type-safe event constructors

// NewInitializedEvent creates the event fired when a player's service is ready
func NewInitializedEvent(playerID string, state domain.UserState) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    CosmeticInitialized,
		Payload: domain.InitializedPayload{
			PlayerID:         playerID,
			SelectedAvatarID: state.SelectedAvatarID,
			SelectedFrameID:  state.SelectedFrameID,
			Timestamp:        time.Now().Unix(),
		},
	}
}

// NewSelectionChangedEvent creates an avatar or frame selection event depending on cat
func NewSelectionChangedEvent(playerID string, cat domain.Category, id domain.ItemID) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    Type(domain.SelectionEventType(cat)),
		Payload: domain.SelectionChangedPayload{
			PlayerID:  playerID,
			Category:  cat,
			ItemID:    id,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewInventoryChangedEvent creates an inventory change event
func NewInventoryChangedEvent(playerID string, cat domain.Category, id domain.ItemID, granted bool, source string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    InventoryChanged,
		Payload: domain.InventoryChangedPayload{
			PlayerID:  playerID,
			Category:  cat,
			ItemID:    id,
			Granted:   granted,
			Source:    source,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewUserNameChangedEvent creates a user name change event
func NewUserNameChangedEvent(playerID, name string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    UserNameChanged,
		Payload: domain.UserNameChangedPayload{
			PlayerID:  playerID,
			UserName:  name,
			Timestamp: time.Now().Unix(),
		},
	}
}

// DecodePayload decodes an event payload into T via type assertion then JSON fallback.
// In-process MemoryBus payloads are already the correct struct.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber of event.Type synchronously, in subscription order
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(ErrMsgHandlersFailedFormat, len(errs), event.Type, errors.Join(errs...))
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll subscribes handler to every cosmetic event type
func SubscribeAll(bus Bus, handler Handler) {
	for _, t := range AllTypes {
		bus.Subscribe(t, handler)
	}
}
