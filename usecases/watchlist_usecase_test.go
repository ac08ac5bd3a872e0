package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clearwatch/screening-backend/mocks"
	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/pure_utils"
)

func TestWatchlistUsecase_RefreshComputesBucketCodes(t *testing.T) {
	index := new(mocks.WatchlistIndex)
	var loaded []models.IndexedWatchlistRecord
	index.On("LoadRecords", mock.Anything).
		Run(func(args mock.Arguments) {
			loaded = args.Get(0).([]models.IndexedWatchlistRecord)
		}).
		Return(nil)

	records := []models.WatchlistRecord{
		{
			Id:          "rec-1",
			PrimaryName: "Mohammed Al-Rashid",
			Aliases:     []string{"Mohamed Al Rashid"},
			EntityType:  models.EntityTypePerson,
			ListName:    "OFAC-SDN",
		},
	}

	err := NewWatchlistUsecase(index).RefreshWatchlist(context.Background(), records)

	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.NotEmpty(t, loaded[0].Codes)

	// Every name variant's codes are present.
	primary, alternate := pure_utils.PhoneticCodes("Mohammed Al-Rashid")
	assert.Contains(t, loaded[0].Codes, primary)
	assert.Contains(t, loaded[0].Codes, alternate)

	// No duplicate codes even when the alias encodes identically.
	seen := map[string]bool{}
	for _, code := range loaded[0].Codes {
		assert.False(t, seen[code], "duplicate code %q", code)
		seen[code] = true
	}
}

func TestWatchlistUsecase_RefreshRejectsEmptyDataset(t *testing.T) {
	index := new(mocks.WatchlistIndex)

	err := NewWatchlistUsecase(index).RefreshWatchlist(context.Background(), nil)

	assert.ErrorIs(t, err, models.BadParameterError)
	index.AssertNotCalled(t, "LoadRecords", mock.Anything)
}

func TestWatchlistUsecase_RefreshRejectsNamelessRecord(t *testing.T) {
	index := new(mocks.WatchlistIndex)

	err := NewWatchlistUsecase(index).RefreshWatchlist(context.Background(), []models.WatchlistRecord{
		{Id: "rec-1"},
	})

	assert.ErrorIs(t, err, models.BadParameterError)
	index.AssertNotCalled(t, "LoadRecords", mock.Anything)
}
