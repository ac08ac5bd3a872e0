package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/repositories"
)

type ScreeningOverrideRepository struct {
	mock.Mock
}

func (m *ScreeningOverrideRepository) CreateOverride(ctx context.Context, exec repositories.Executor,
	input models.CreateOverrideInput, newOverrideId string, now time.Time,
) error {
	args := m.Called(exec, input, newOverrideId, now)
	return args.Error(0)
}

func (m *ScreeningOverrideRepository) GetOverride(ctx context.Context, exec repositories.Executor,
	overrideId string,
) (models.ScreeningOverride, error) {
	args := m.Called(exec, overrideId)
	return args.Get(0).(models.ScreeningOverride), args.Error(1)
}

func (m *ScreeningOverrideRepository) UpdateOverrideStatus(ctx context.Context, exec repositories.Executor,
	overrideId string, status models.OverrideStatus, approvedBy *string, now time.Time,
) error {
	args := m.Called(exec, overrideId, status, approvedBy, now)
	return args.Error(0)
}

func (m *ScreeningOverrideRepository) GetLatestApprovedOverride(ctx context.Context, exec repositories.Executor,
	entityId string, entityType models.EntityType,
) (*models.ScreeningOverride, error) {
	args := m.Called(exec, entityId, entityType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ScreeningOverride), args.Error(1)
}

func (m *ScreeningOverrideRepository) ListPendingOverrides(ctx context.Context, exec repositories.Executor,
) ([]models.ScreeningOverride, error) {
	args := m.Called(exec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScreeningOverride), args.Error(1)
}

func (m *ScreeningOverrideRepository) ListOverridesForEntity(ctx context.Context, exec repositories.Executor,
	entityId string, entityType models.EntityType,
) ([]models.ScreeningOverride, error) {
	args := m.Called(exec, entityId, entityType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScreeningOverride), args.Error(1)
}

func (m *ScreeningOverrideRepository) AddWhitelistEntry(ctx context.Context, exec repositories.Executor,
	entry models.ScreeningWhitelistEntry,
) error {
	args := m.Called(exec, entry)
	return args.Error(0)
}

func (m *ScreeningOverrideRepository) DeleteWhitelistEntry(ctx context.Context, exec repositories.Executor,
	entityId string, entityType models.EntityType,
) error {
	args := m.Called(exec, entityId, entityType)
	return args.Error(0)
}

func (m *ScreeningOverrideRepository) IsWhitelisted(ctx context.Context, exec repositories.Executor,
	entityId string, entityType models.EntityType,
) (bool, error) {
	args := m.Called(exec, entityId, entityType)
	return args.Bool(0), args.Error(1)
}
