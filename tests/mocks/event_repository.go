package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"talenthub-backend/internal/domain"
)

type EventRepository struct {
	mock.Mock
}

func (m *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScheduledEvent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ScheduledEvent), args.Error(1)
}

func (m *EventRepository) GetUpcoming(ctx context.Context, now time.Time) ([]domain.ScheduledEvent, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ScheduledEvent), args.Error(1)
}
