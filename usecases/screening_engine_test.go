package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clearwatch/screening-backend/mocks"
	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/repositories/clock"
)

var engineNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func newTestEngine(index *mocks.WatchlistIndex) *ScreeningEngine {
	return NewScreeningEngine(index, models.DefaultScreeningConfig(), clock.NewMock(engineNow))
}

func personEntity(name string) models.ScreeningEntity {
	return models.ScreeningEntity{
		Id:   "entity-1",
		Type: models.EntityTypePerson,
		Name: name,
	}
}

func TestScreeningEngine_ExactNameIsMatch(t *testing.T) {
	index := new(mocks.WatchlistIndex)
	index.On("CandidatesForCode", mock.Anything).Return([]models.WatchlistRecord{
		{
			Id:          "rec-1",
			PrimaryName: "Vladimir Petrov",
			EntityType:  models.EntityTypePerson,
			ListName:    "OFAC-SDN",
		},
	}, nil)

	result, err := newTestEngine(index).Screen(context.Background(), personEntity("Vladimir Petrov"))

	require.NoError(t, err)
	assert.Equal(t, models.ScreeningStatusMatch, result.Status)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, 1.0, result.Matches[0].Score)
	assert.Equal(t, models.MatchTypeName, result.Matches[0].MatchType)
	assert.Equal(t, models.ScreeningProviderLocal, result.Provider)
	assert.Equal(t, engineNow, result.ScreenedAt)
}

func TestScreeningEngine_CloseNameIsPotentialMatch(t *testing.T) {
	index := new(mocks.WatchlistIndex)
	index.On("CandidatesForCode", mock.Anything).Return([]models.WatchlistRecord{
		{
			Id:          "rec-1",
			PrimaryName: "Jonathan Smyth",
			EntityType:  models.EntityTypePerson,
			ListName:    "EU-CONSOLIDATED",
		},
	}, nil)

	result, err := newTestEngine(index).Screen(context.Background(), personEntity("Jon Smith"))

	require.NoError(t, err)
	assert.Equal(t, models.ScreeningStatusPotentialMatch, result.Status)
	require.Len(t, result.Matches, 1)
	assert.GreaterOrEqual(t, result.Matches[0].Score, 0.80)
	assert.Less(t, result.Matches[0].Score, 0.95)
	assert.Equal(t, models.MatchTypePhonetic, result.Matches[0].MatchType)
}

func TestScreeningEngine_DateOfBirthConfirmsMatch(t *testing.T) {
	dob := time.Date(1975, 6, 21, 0, 0, 0, 0, time.UTC)

	index := new(mocks.WatchlistIndex)
	index.On("CandidatesForCode", mock.Anything).Return([]models.WatchlistRecord{
		{
			Id:          "rec-1",
			PrimaryName: "Jonathan Smyth",
			EntityType:  models.EntityTypePerson,
			ListName:    "EU-CONSOLIDATED",
			DateOfBirth: &dob,
		},
	}, nil)

	entity := personEntity("Jon Smith")
	entity.DateOfBirth = &dob

	result, err := newTestEngine(index).Screen(context.Background(), entity)

	require.NoError(t, err)
	assert.Equal(t, models.ScreeningStatusMatch, result.Status)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, models.MatchTypeDobConfirmed, result.Matches[0].MatchType)
	assert.GreaterOrEqual(t, result.Matches[0].Score, 0.95)
}

func TestScreeningEngine_AliasScoresAgainstEveryName(t *testing.T) {
	index := new(mocks.WatchlistIndex)
	index.On("CandidatesForCode", mock.Anything).Return([]models.WatchlistRecord{
		{
			Id:          "rec-1",
			PrimaryName: "Aleksandr Volkov",
			Aliases:     []string{"Sasha Volkov"},
			EntityType:  models.EntityTypePerson,
			ListName:    "OFAC-SDN",
		},
	}, nil)

	result, err := newTestEngine(index).Screen(context.Background(), personEntity("Sasha Volkov"))

	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "Sasha Volkov", result.Matches[0].MatchedName)
	assert.Equal(t, models.MatchTypeAlias, result.Matches[0].MatchType)
}

func TestScreeningEngine_DeduplicatesAcrossBuckets(t *testing.T) {
	record := models.WatchlistRecord{
		Id:          "rec-1",
		PrimaryName: "Maria Sanchez",
		EntityType:  models.EntityTypePerson,
		ListName:    "OFAC-SDN",
	}
	// The same record comes back from every bucket the query hits.
	index := new(mocks.WatchlistIndex)
	index.On("CandidatesForCode", mock.Anything).Return([]models.WatchlistRecord{record}, nil)

	entity := personEntity("Maria Sanchez")
	entity.Aliases = []string{"Maria Sanches"}

	result, err := newTestEngine(index).Screen(context.Background(), entity)

	require.NoError(t, err)
	assert.Len(t, result.Matches, 1)
}

func TestScreeningEngine_FiltersOtherEntityTypes(t *testing.T) {
	index := new(mocks.WatchlistIndex)
	index.On("CandidatesForCode", mock.Anything).Return([]models.WatchlistRecord{
		{
			Id:          "rec-1",
			PrimaryName: "Petrov Trading",
			EntityType:  models.EntityTypeOrganization,
			ListName:    "OFAC-SDN",
		},
	}, nil)

	result, err := newTestEngine(index).Screen(context.Background(), personEntity("Petrov Trading"))

	require.NoError(t, err)
	assert.Equal(t, models.ScreeningStatusClear, result.Status)
	assert.Empty(t, result.Matches)
}

func TestScreeningEngine_NoCandidatesIsClear(t *testing.T) {
	index := new(mocks.WatchlistIndex)
	index.On("CandidatesForCode", mock.Anything).Return(nil, nil)

	result, err := newTestEngine(index).Screen(context.Background(), personEntity("John Doe"))

	require.NoError(t, err)
	assert.Equal(t, models.ScreeningStatusClear, result.Status)
	assert.Empty(t, result.Matches)
	assert.Equal(t, 0.0, result.HighestScore)
}

func TestScreeningEngine_IndexOutageIsUnavailable(t *testing.T) {
	index := new(mocks.WatchlistIndex)
	index.On("CandidatesForCode", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := newTestEngine(index).Screen(context.Background(), personEntity("John Doe"))

	assert.ErrorIs(t, err, models.ErrScreeningUnavailable)
}

func TestScreeningEngine_EmptyNameIsRejected(t *testing.T) {
	index := new(mocks.WatchlistIndex)

	_, err := newTestEngine(index).Screen(context.Background(), personEntity(""))

	assert.ErrorIs(t, err, models.BadParameterError)
	index.AssertNotCalled(t, "CandidatesForCode", mock.Anything)
}
