package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/clearwatch/screening-backend/models"
)

type Rescreener struct {
	mock.Mock
}

func (m *Rescreener) RescreenEntity(ctx context.Context, entity models.ScreeningEntity,
) (models.ScreeningResult, error) {
	args := m.Called(entity)
	return args.Get(0).(models.ScreeningResult), args.Error(1)
}
