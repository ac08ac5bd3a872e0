package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/clearwatch/screening-backend/models"
)

type AuditLogger struct {
	mock.Mock
}

func (m *AuditLogger) RecordScreening(ctx context.Context, entity models.ScreeningEntity,
	result models.ScreeningResult,
) error {
	args := m.Called(entity, result)
	return args.Error(0)
}
