package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/clearwatch/screening-backend/models"
)

type Tier1Screener struct {
	mock.Mock
}

func (m *Tier1Screener) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *Tier1Screener) Search(ctx context.Context, entity models.ScreeningEntity) ([]models.Match, error) {
	args := m.Called(entity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Match), args.Error(1)
}
