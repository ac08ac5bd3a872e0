package resilience

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/cockroachdb/errors"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/clearwatch/screening-backend/models"
)

// Policy is the resilience envelope around an external screening call.
type Policy struct {
	// MaxAttempts bounds the retry loop, first try included.
	MaxAttempts uint
	// InitialBackoff is the delay before the first retry; it doubles on each
	// subsequent one.
	InitialBackoff time.Duration
	// Timeout applies per attempt. A timed-out attempt counts as a transient
	// failure.
	Timeout time.Duration
	// FailureThreshold is the consecutive-failure count after which the
	// breaker opens.
	FailureThreshold uint32
	// CoolDown is how long the breaker stays open before letting a probe
	// call through.
	CoolDown time.Duration
	// RatePerSecond and Burst cap the outbound request rate.
	RatePerSecond float64
	Burst         int
}

func PolicyFromConfig(cfg models.ScreeningConfig) Policy {
	return Policy{
		MaxAttempts:      cfg.RetryAttempts,
		InitialBackoff:   cfg.RetryInitialBackoff,
		Timeout:          cfg.Tier1Timeout,
		FailureThreshold: cfg.BreakerFailureThreshold,
		CoolDown:         cfg.BreakerCoolDown,
		RatePerSecond:    cfg.RateLimitPerSecond,
		Burst:            cfg.RateLimitBurst,
	}
}

// Guard wraps calls to one external provider with a rate limiter, a bounded
// retry loop and a circuit breaker, in that order. The breaker's failure
// counters and the limiter's token bucket are the only state shared between
// calls; both are safe for concurrent use.
//
// The declarative retry/circuit-breaker/rate-limit stack this replaces is an
// explicit composition here so each layer can be tested on its own.
type Guard[T any] struct {
	policy  Policy
	breaker *gobreaker.CircuitBreaker[T]
	limiter *rate.Limiter
}

func NewGuard[T any](name string, policy Policy) *Guard[T] {
	breaker := gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     policy.CoolDown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= policy.FailureThreshold
		},
	})

	return &Guard[T]{
		policy:  policy,
		breaker: breaker,
		limiter: rate.NewLimiter(rate.Limit(policy.RatePerSecond), policy.Burst),
	}
}

// Do runs call under the guard. Any returned error means the tier is to be
// considered unavailable for this request; errors.Is(err,
// models.ErrTierUnavailable) holds so the caller can fall back without
// inspecting the cause.
func (g *Guard[T]) Do(ctx context.Context, call func(ctx context.Context) (T, error)) (T, error) {
	var empty T

	if err := g.limiter.Wait(ctx); err != nil {
		return empty, errors.Mark(
			errors.Wrap(err, "tier rate limit exhausted"),
			models.ErrTierUnavailable)
	}

	result, err := g.breaker.Execute(func() (T, error) {
		return g.doWithRetry(ctx, call)
	})
	if err != nil {
		return empty, errors.Mark(err, models.ErrTierUnavailable)
	}
	return result, nil
}

func (g *Guard[T]) doWithRetry(ctx context.Context, call func(ctx context.Context) (T, error)) (T, error) {
	return retry.DoWithData(
		func() (T, error) {
			attemptCtx := ctx
			if g.policy.Timeout > 0 {
				var cancel context.CancelFunc
				attemptCtx, cancel = context.WithTimeout(ctx, g.policy.Timeout)
				defer cancel()
			}
			return call(attemptCtx)
		},
		retry.Context(ctx),
		retry.Attempts(g.policy.MaxAttempts),
		retry.Delay(g.policy.InitialBackoff),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(models.IsTransient),
	)
}

// State exposes the breaker state for logging and health reporting.
func (g *Guard[T]) State() gobreaker.State {
	return g.breaker.State()
}
