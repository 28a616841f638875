package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type AffiliationRepository struct {
	mock.Mock
}

func (m *AffiliationRepository) GetAffiliatedUsers(ctx context.Context, orgID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
