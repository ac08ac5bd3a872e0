package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/clearwatch/screening-backend/models"
)

type WatchlistIndex struct {
	mock.Mock
}

func (m *WatchlistIndex) CandidatesForCode(ctx context.Context, code string) ([]models.WatchlistRecord, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WatchlistRecord), args.Error(1)
}

func (m *WatchlistIndex) LoadRecords(ctx context.Context, records []models.IndexedWatchlistRecord) error {
	args := m.Called(records)
	return args.Error(0)
}
