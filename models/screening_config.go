package models

import (
	"time"

	"github.com/cockroachdb/errors"
)

// ScreeningConfig carries every tunable of the screening core. It is built
// once at startup and passed to each component constructor; nothing reads
// configuration ambiently.
//
// The default thresholds and the recency window are inherited business
// defaults. They are inputs, not constants: confirm them with compliance
// stakeholders before deployment.
type ScreeningConfig struct {
	// SimilarityThreshold is the minimum score for a candidate to count as a
	// match at all.
	SimilarityThreshold float64
	// MatchThreshold is the score at or above which a result is a MATCH
	// rather than a POTENTIAL_MATCH.
	MatchThreshold float64

	// NewEntityWindow routes entities created within it to tier-1.
	NewEntityWindow time.Duration

	Tier1Enabled bool
	Tier1Timeout time.Duration

	// Tier-1 resilience settings.
	RetryAttempts           uint
	RetryInitialBackoff     time.Duration
	BreakerFailureThreshold uint32
	BreakerCoolDown         time.Duration
	RateLimitPerSecond      float64
	RateLimitBurst          int

	// Cache TTLs. Flags (override/whitelist booleans) change more often than
	// screening results and expire sooner.
	ResultCacheTTL time.Duration
	FlagCacheTTL   time.Duration

	// RescreeningSchedule is a cron expression for the periodic re-screening
	// job. Empty disables the job.
	RescreeningSchedule string
	// RescreeningAge is how long a screening decision stands before the job
	// picks the entity up again.
	RescreeningAge time.Duration
}

func DefaultScreeningConfig() ScreeningConfig {
	return ScreeningConfig{
		SimilarityThreshold:     0.80,
		MatchThreshold:          0.95,
		NewEntityWindow:         30 * 24 * time.Hour,
		Tier1Enabled:            false,
		Tier1Timeout:            10 * time.Second,
		RetryAttempts:           3,
		RetryInitialBackoff:     200 * time.Millisecond,
		BreakerFailureThreshold: 5,
		BreakerCoolDown:         30 * time.Second,
		RateLimitPerSecond:      10,
		RateLimitBurst:          5,
		ResultCacheTTL:          24 * time.Hour,
		FlagCacheTTL:            time.Hour,
		RescreeningAge:          30 * 24 * time.Hour,
	}
}

func (c ScreeningConfig) Validate() error {
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return errors.Wrap(BadParameterError, "similarity threshold must be in (0, 1]")
	}
	if c.MatchThreshold < c.SimilarityThreshold || c.MatchThreshold > 1 {
		return errors.Wrap(BadParameterError,
			"match threshold must be in [similarity threshold, 1]")
	}
	if c.NewEntityWindow < 0 {
		return errors.Wrap(BadParameterError, "new entity window must not be negative")
	}
	if c.RescreeningSchedule != "" && c.RescreeningAge <= 0 {
		return errors.Wrap(BadParameterError, "re-screening age must be positive")
	}
	if c.Tier1Enabled {
		if c.RetryAttempts == 0 {
			return errors.Wrap(BadParameterError, "retry attempts must be at least 1")
		}
		if c.BreakerFailureThreshold == 0 {
			return errors.Wrap(BadParameterError, "breaker failure threshold must be at least 1")
		}
		if c.RateLimitPerSecond <= 0 {
			return errors.Wrap(BadParameterError, "rate limit must be positive")
		}
	}
	return nil
}
