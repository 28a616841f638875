package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type TickLease struct {
	mock.Mock
}

func (m *TickLease) Acquire(ctx context.Context, windowStart time.Time) (bool, error) {
	args := m.Called(ctx, windowStart)
	return args.Bool(0), args.Error(1)
}
