package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/clearwatch/screening-backend/models"
)

type ScreeningCache struct {
	mock.Mock
}

func (m *ScreeningCache) GetResult(ctx context.Context, entityId string,
	entityType models.EntityType,
) (*models.ScreeningResult, error) {
	args := m.Called(entityId, entityType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScreeningResult), args.Error(1)
}

func (m *ScreeningCache) SetResult(ctx context.Context, entityId string,
	entityType models.EntityType, result models.ScreeningResult, ttl time.Duration,
) error {
	args := m.Called(entityId, entityType, result, ttl)
	return args.Error(0)
}

func (m *ScreeningCache) GetFlag(ctx context.Context, purpose, entityId string,
	entityType models.EntityType,
) (*bool, error) {
	args := m.Called(purpose, entityId, entityType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bool), args.Error(1)
}

func (m *ScreeningCache) SetFlag(ctx context.Context, purpose, entityId string,
	entityType models.EntityType, value bool, ttl time.Duration,
) error {
	args := m.Called(purpose, entityId, entityType, value, ttl)
	return args.Error(0)
}

func (m *ScreeningCache) Invalidate(ctx context.Context, entityId string,
	entityType models.EntityType, purposes ...string,
) error {
	args := m.Called(entityId, entityType, purposes)
	return args.Error(0)
}
