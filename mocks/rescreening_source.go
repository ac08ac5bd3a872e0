package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/clearwatch/screening-backend/models"
)

type RescreeningSource struct {
	mock.Mock
}

func (m *RescreeningSource) EntitiesDueForRescreening(ctx context.Context) ([]models.ScreeningEntity, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ScreeningEntity), args.Error(1)
}
