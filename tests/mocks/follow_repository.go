package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"talenthub-backend/internal/domain"
)

type FollowRepository struct {
	mock.Mock
}

func (m *FollowRepository) GetFollowers(ctx context.Context, target domain.FollowTarget) ([]uuid.UUID, error) {
	args := m.Called(ctx, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
