package eventlog

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) LogEvent(ctx context.Context, eventType string, playerID *string, payload map[string]interface{}) error {
	args := m.Called(ctx, eventType, playerID, payload)
	return args.Error(0)
}

func (m *MockRepository) GetEventsByPlayer(ctx context.Context, playerID string, limit int) ([]Event, error) {
	args := m.Called(ctx, playerID, limit)
	return args.Get(0).([]Event), args.Error(1)
}

func (m *MockRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	args := m.Called(ctx, retentionDays)
	return args.Get(0).(int64), args.Error(1)
}
