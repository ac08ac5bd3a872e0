package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/clearwatch/screening-backend/models"
)

type ExemptionChecker struct {
	mock.Mock
}

func (m *ExemptionChecker) IsOverrideActive(ctx context.Context, entityId string,
	entityType models.EntityType,
) (bool, error) {
	args := m.Called(entityId, entityType)
	return args.Bool(0), args.Error(1)
}

func (m *ExemptionChecker) IsWhitelisted(ctx context.Context, entityId string,
	entityType models.EntityType,
) (bool, error) {
	args := m.Called(entityId, entityType)
	return args.Bool(0), args.Error(1)
}
