package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearwatch/screening-backend/models"
)

func testPolicy() Policy {
	return Policy{
		MaxAttempts:      3,
		InitialBackoff:   time.Millisecond,
		Timeout:          time.Second,
		FailureThreshold: 2,
		CoolDown:         50 * time.Millisecond,
		RatePerSecond:    1000,
		Burst:            1000,
	}
}

func TestGuard_PassesResultThrough(t *testing.T) {
	guard := NewGuard[int]("test", testPolicy())

	got, err := guard.Do(context.Background(), func(ctx context.Context) (int, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestGuard_RetriesTransientErrors(t *testing.T) {
	guard := NewGuard[int]("test", testPolicy())

	calls := 0
	_, err := guard.Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("connection reset")
	})

	assert.ErrorIs(t, err, models.ErrTierUnavailable)
	assert.Equal(t, 3, calls)
}

func TestGuard_RecoversWithinRetryBudget(t *testing.T) {
	guard := NewGuard[int]("test", testPolicy())

	calls := 0
	got, err := guard.Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("connection reset")
		}
		return 7, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, 3, calls)
}

func TestGuard_DoesNotRetryPermanentErrors(t *testing.T) {
	guard := NewGuard[int]("test", testPolicy())

	calls := 0
	_, err := guard.Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.Wrap(models.BadParameterError, "unknown entity type")
	})

	assert.ErrorIs(t, err, models.ErrTierUnavailable)
	assert.ErrorIs(t, err, models.BadParameterError)
	assert.Equal(t, 1, calls)
}

func TestGuard_BreakerOpensAndShortCircuits(t *testing.T) {
	policy := testPolicy()
	policy.MaxAttempts = 1
	guard := NewGuard[int]("test", policy)

	calls := 0
	failing := func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("provider down")
	}

	for range 2 {
		_, err := guard.Do(context.Background(), failing)
		require.ErrorIs(t, err, models.ErrTierUnavailable)
	}
	require.Equal(t, 2, calls)

	// Third call must be rejected without reaching the provider.
	_, err := guard.Do(context.Background(), failing)
	assert.ErrorIs(t, err, models.ErrTierUnavailable)
	assert.Equal(t, 2, calls)
}

func TestGuard_BreakerClosesAfterCoolDown(t *testing.T) {
	policy := testPolicy()
	policy.MaxAttempts = 1
	guard := NewGuard[int]("test", policy)

	failing := func(ctx context.Context) (int, error) {
		return 0, errors.New("provider down")
	}
	for range 2 {
		_, _ = guard.Do(context.Background(), failing)
	}

	time.Sleep(policy.CoolDown + 10*time.Millisecond)

	got, err := guard.Do(context.Background(), func(ctx context.Context) (int, error) {
		return 1, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestGuard_RateLimitExhaustionFailsFast(t *testing.T) {
	policy := testPolicy()
	policy.RatePerSecond = 0.001
	policy.Burst = 1
	guard := NewGuard[int]("test", policy)

	ok := func(ctx context.Context) (int, error) { return 1, nil }

	_, err := guard.Do(context.Background(), ok)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = guard.Do(ctx, ok)

	assert.ErrorIs(t, err, models.ErrTierUnavailable)
}
