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

var orchestratorNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

type orchestratorFixture struct {
	local      *mocks.LocalScreener
	tier1      *mocks.Tier1Screener
	cache      *mocks.ScreeningCache
	exemptions *mocks.ExemptionChecker
	cases      *mocks.CaseTrigger
	audit      *mocks.AuditLogger
	auditDone  chan struct{}
	uc         *ScreeningOrchestrator
}

func newOrchestratorFixture(t *testing.T, tier1Enabled bool) *orchestratorFixture {
	t.Helper()

	config := models.DefaultScreeningConfig()
	config.Tier1Enabled = tier1Enabled
	// Keep retries cheap in tests.
	config.RetryAttempts = 2
	config.RetryInitialBackoff = time.Millisecond
	config.RateLimitPerSecond = 1000
	config.RateLimitBurst = 1000

	f := &orchestratorFixture{
		local:      new(mocks.LocalScreener),
		tier1:      new(mocks.Tier1Screener),
		cache:      new(mocks.ScreeningCache),
		exemptions: new(mocks.ExemptionChecker),
		cases:      new(mocks.CaseTrigger),
		audit:      new(mocks.AuditLogger),
		auditDone:  make(chan struct{}, 8),
	}
	f.audit.On("RecordScreening", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			select {
			case f.auditDone <- struct{}{}:
			default:
			}
		}).
		Return(nil).
		Maybe()

	f.uc = NewScreeningOrchestrator(config, f.local, f.tier1, f.cache,
		f.exemptions, f.cases, f.audit, clock.NewMock(orchestratorNow))
	return f
}

func (f *orchestratorFixture) waitForAudit(t *testing.T) {
	t.Helper()
	select {
	case <-f.auditDone:
	case <-time.After(time.Second):
		t.Fatal("audit event was never recorded")
	}
}

func newEntity(createdAt time.Time) models.ScreeningEntity {
	return models.ScreeningEntity{
		Id:        "entity-1",
		Type:      models.EntityTypePerson,
		Name:      "Jon Smith",
		CreatedAt: createdAt,
	}
}

func clearResult() models.ScreeningResult {
	return models.NewScreeningResult("Jon Smith", models.EntityTypePerson, nil,
		0.95, models.ScreeningProviderLocal, orchestratorNow)
}

func matchResult() models.ScreeningResult {
	return models.NewScreeningResult("Jon Smith", models.EntityTypePerson,
		[]models.Match{{MatchedName: "Jonathan Smyth", Score: 0.97, ListName: "OFAC-SDN"}},
		0.95, models.ScreeningProviderLocal, orchestratorNow)
}

func TestOrchestrator_CacheHitShortCircuits(t *testing.T) {
	f := newOrchestratorFixture(t, false)
	cached := clearResult()
	// A degraded result must stay recognizable as such when cache-served.
	cached.Provider = models.ScreeningProviderLocalFallback
	f.cache.On("GetResult", "entity-1", models.EntityTypePerson).Return(&cached, nil)

	result, err := f.uc.ScreenEntity(context.Background(), newEntity(orchestratorNow))

	require.NoError(t, err)
	assert.True(t, result.FromCache)
	assert.Equal(t, models.ScreeningProviderLocalFallback, result.Provider)
	f.local.AssertNotCalled(t, "Screen", mock.Anything)
	f.cache.AssertNotCalled(t, "SetResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrchestrator_CacheErrorDegradesToMiss(t *testing.T) {
	f := newOrchestratorFixture(t, false)
	f.cache.On("GetResult", "entity-1", models.EntityTypePerson).Return(nil, errors.New("redis down"))
	f.cache.On("SetResult", "entity-1", models.EntityTypePerson, mock.Anything, mock.Anything).Return(nil)
	f.local.On("Screen", mock.Anything).Return(clearResult(), nil)

	result, err := f.uc.ScreenEntity(context.Background(), newEntity(orchestratorNow))

	require.NoError(t, err)
	assert.Equal(t, models.ScreeningStatusClear, result.Status)
	f.local.AssertExpectations(t)
}

func TestOrchestrator_OldEntityNeverHitsTier1(t *testing.T) {
	f := newOrchestratorFixture(t, true)
	f.tier1.On("IsConfigured").Return(true)
	f.cache.On("GetResult", mock.Anything, mock.Anything).Return(nil, nil)
	f.cache.On("SetResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.local.On("Screen", mock.Anything).Return(clearResult(), nil)

	oldEntity := newEntity(orchestratorNow.Add(-60 * 24 * time.Hour))
	result, err := f.uc.ScreenEntity(context.Background(), oldEntity)

	require.NoError(t, err)
	assert.Equal(t, models.ScreeningProviderLocal, result.Provider)
	f.tier1.AssertNotCalled(t, "Search", mock.Anything)
}

func TestOrchestrator_NewEntityUsesTier1(t *testing.T) {
	f := newOrchestratorFixture(t, true)
	f.tier1.On("IsConfigured").Return(true)
	f.tier1.On("Search", mock.Anything).Return([]models.Match{}, nil)
	f.cache.On("GetResult", mock.Anything, mock.Anything).Return(nil, nil)
	f.cache.On("SetResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := f.uc.ScreenEntity(context.Background(), newEntity(orchestratorNow.Add(-24*time.Hour)))

	require.NoError(t, err)
	assert.Equal(t, models.ScreeningProviderTier1, result.Provider)
	assert.Equal(t, models.ScreeningStatusClear, result.Status)
	f.local.AssertNotCalled(t, "Screen", mock.Anything)
}

func TestOrchestrator_Tier1FailureFallsBackWithoutError(t *testing.T) {
	f := newOrchestratorFixture(t, true)
	f.tier1.On("IsConfigured").Return(true)
	f.tier1.On("Search", mock.Anything).Return(nil, errors.New("provider timeout"))
	f.cache.On("GetResult", mock.Anything, mock.Anything).Return(nil, nil)
	f.cache.On("SetResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.local.On("Screen", mock.Anything).Return(clearResult(), nil)

	result, err := f.uc.ScreenEntity(context.Background(), newEntity(orchestratorNow.Add(-24*time.Hour)))

	require.NoError(t, err)
	assert.Equal(t, models.ScreeningProviderLocalFallback, result.Provider)
}

func TestOrchestrator_TotalFailureIsNeverClear(t *testing.T) {
	f := newOrchestratorFixture(t, false)
	f.cache.On("GetResult", mock.Anything, mock.Anything).Return(nil, nil)
	f.local.On("Screen", mock.Anything).Return(models.ScreeningResult{},
		errors.Mark(errors.New("index unreachable"), models.ErrScreeningUnavailable))

	_, err := f.uc.ScreenEntity(context.Background(), newEntity(orchestratorNow))

	assert.ErrorIs(t, err, models.ErrScreeningUnavailable)
	f.cache.AssertNotCalled(t, "SetResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.cases.AssertNotCalled(t, "OpenScreeningCase", mock.Anything, mock.Anything)
}

func TestOrchestrator_BlockingResultOpensCaseOnce(t *testing.T) {
	f := newOrchestratorFixture(t, false)
	f.cache.On("GetResult", mock.Anything, mock.Anything).Return(nil, nil)
	f.cache.On("SetResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.local.On("Screen", mock.Anything).Return(matchResult(), nil)
	f.exemptions.On("IsOverrideActive", "entity-1", models.EntityTypePerson).Return(false, nil)
	f.exemptions.On("IsWhitelisted", "entity-1", models.EntityTypePerson).Return(false, nil)
	f.cases.On("OpenScreeningCase", mock.Anything, mock.Anything).Return(nil)

	result, err := f.uc.ScreenEntity(context.Background(), newEntity(orchestratorNow))

	require.NoError(t, err)
	assert.Equal(t, models.ScreeningStatusMatch, result.Status)
	f.cases.AssertNumberOfCalls(t, "OpenScreeningCase", 1)
}

func TestOrchestrator_OverrideSuppressesCaseButKeepsStatus(t *testing.T) {
	f := newOrchestratorFixture(t, false)
	f.cache.On("GetResult", mock.Anything, mock.Anything).Return(nil, nil)
	f.cache.On("SetResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.local.On("Screen", mock.Anything).Return(matchResult(), nil)
	f.exemptions.On("IsOverrideActive", "entity-1", models.EntityTypePerson).Return(true, nil)
	f.exemptions.On("IsWhitelisted", "entity-1", models.EntityTypePerson).Return(false, nil)

	result, err := f.uc.ScreenEntity(context.Background(), newEntity(orchestratorNow))

	require.NoError(t, err)
	assert.Equal(t, models.ScreeningStatusMatch, result.Status)
	assert.True(t, result.Overridden)
	f.cases.AssertNotCalled(t, "OpenScreeningCase", mock.Anything, mock.Anything)

	// The audit trail still records the match together with its override.
	f.waitForAudit(t)
	recorded := f.audit.Calls[0].Arguments.Get(1).(models.ScreeningResult)
	assert.Equal(t, models.ScreeningStatusMatch, recorded.Status)
	assert.True(t, recorded.Overridden)
}

func TestOrchestrator_WhitelistSuppressesCase(t *testing.T) {
	f := newOrchestratorFixture(t, false)
	f.cache.On("GetResult", mock.Anything, mock.Anything).Return(nil, nil)
	f.cache.On("SetResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.local.On("Screen", mock.Anything).Return(matchResult(), nil)
	f.exemptions.On("IsOverrideActive", "entity-1", models.EntityTypePerson).Return(false, nil)
	f.exemptions.On("IsWhitelisted", "entity-1", models.EntityTypePerson).Return(true, nil)

	result, err := f.uc.ScreenEntity(context.Background(), newEntity(orchestratorNow))

	require.NoError(t, err)
	assert.True(t, result.Whitelisted)
	f.cases.AssertNotCalled(t, "OpenScreeningCase", mock.Anything, mock.Anything)
}

func TestOrchestrator_ExemptionLookupFailsClosed(t *testing.T) {
	f := newOrchestratorFixture(t, false)
	f.cache.On("GetResult", mock.Anything, mock.Anything).Return(nil, nil)
	f.cache.On("SetResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.local.On("Screen", mock.Anything).Return(matchResult(), nil)
	f.exemptions.On("IsOverrideActive", mock.Anything, mock.Anything).Return(false, errors.New("pg down"))
	f.exemptions.On("IsWhitelisted", mock.Anything, mock.Anything).Return(false, errors.New("pg down"))
	f.cases.On("OpenScreeningCase", mock.Anything, mock.Anything).Return(nil)

	result, err := f.uc.ScreenEntity(context.Background(), newEntity(orchestratorNow))

	require.NoError(t, err)
	assert.False(t, result.Overridden)
	assert.False(t, result.Whitelisted)
	f.cases.AssertNumberOfCalls(t, "OpenScreeningCase", 1)
}

func TestOrchestrator_RescreenBypassesCache(t *testing.T) {
	f := newOrchestratorFixture(t, false)
	f.cache.On("SetResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.local.On("Screen", mock.Anything).Return(clearResult(), nil)

	_, err := f.uc.RescreenEntity(context.Background(), newEntity(orchestratorNow))

	require.NoError(t, err)
	f.cache.AssertNotCalled(t, "GetResult", mock.Anything, mock.Anything)
	f.local.AssertExpectations(t)
}

func TestOrchestrator_ScreenEntityWithOwnersKeepsOrder(t *testing.T) {
	f := newOrchestratorFixture(t, false)
	f.cache.On("GetResult", mock.Anything, mock.Anything).Return(nil, nil)
	f.cache.On("SetResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.local.On("Screen", mock.MatchedBy(func(e models.ScreeningEntity) bool { return e.Id == "merchant" })).
		Return(models.NewScreeningResult("Acme", models.EntityTypeOrganization, nil,
			0.95, models.ScreeningProviderLocal, orchestratorNow), nil)
	f.local.On("Screen", mock.MatchedBy(func(e models.ScreeningEntity) bool { return e.Id == "owner" })).
		Return(models.NewScreeningResult("Jane Doe", models.EntityTypePerson, nil,
			0.95, models.ScreeningProviderLocal, orchestratorNow), nil)

	results, err := f.uc.ScreenEntityWithOwners(context.Background(),
		models.ScreeningEntity{Id: "merchant", Type: models.EntityTypeOrganization, Name: "Acme"},
		[]models.ScreeningEntity{
			{Id: "owner", Type: models.EntityTypePerson, Name: "Jane Doe"},
		})

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Acme", results[0].ScreenedName)
	assert.Equal(t, "Jane Doe", results[1].ScreenedName)
}
