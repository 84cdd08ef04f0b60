package cosmetic

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/event"
)

// MockPolicy implements unlock.Policy for testing
type MockPolicy struct {
	mock.Mock
}

func (m *MockPolicy) CanUnlock(ctx context.Context, def domain.Definition, state domain.UserState) (bool, string) {
	args := m.Called(ctx, def.ID)
	return args.Bool(0), args.String(1)
}

func (m *MockPolicy) TryUnlock(ctx context.Context, def domain.Definition, state domain.UserState) error {
	args := m.Called(ctx, def.ID)
	return args.Error(0)
}

// eventRecorder captures every cosmetic event published on a bus
type eventRecorder struct {
	mu     sync.Mutex
	events []event.Event
}

func newEventRecorder(bus event.Bus) *eventRecorder {
	r := &eventRecorder{}
	event.SubscribeAll(bus, func(_ context.Context, evt event.Event) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.events = append(r.events, evt)
		return nil
	})
	return r
}

func (r *eventRecorder) Types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]event.Type, 0, len(r.events))
	for _, evt := range r.events {
		types = append(types, evt.Type)
	}
	return types
}

func (r *eventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func (r *eventRecorder) Last() event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return event.Event{}
	}
	return r.events[len(r.events)-1]
}
