package repositories

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/clearwatch/screening-backend/models"
)

const (
	localCacheResultSize = 10_000
	localCacheFlagSize   = 50_000
)

// cachedFlag carries its own deadline: the LRU's TTL is fixed at
// construction, but flag entries may be cached for less (an override flag
// never outlives the override's expiry).
type cachedFlag struct {
	value     bool
	expiresAt time.Time
}

// LocalScreeningCache is the single-instance, in-process implementation of
// the screening cache, used when no redis is configured and in tests. Two
// LRUs because results and flags carry different TTLs.
type LocalScreeningCache struct {
	results *expirable.LRU[string, models.ScreeningResult]
	flags   *expirable.LRU[string, cachedFlag]
}

func NewLocalScreeningCache(resultTTL, flagTTL time.Duration) *LocalScreeningCache {
	return &LocalScreeningCache{
		results: expirable.NewLRU[string, models.ScreeningResult](localCacheResultSize, nil, resultTTL),
		flags:   expirable.NewLRU[string, cachedFlag](localCacheFlagSize, nil, flagTTL),
	}
}

func (cache *LocalScreeningCache) GetResult(ctx context.Context, entityId string,
	entityType models.EntityType,
) (*models.ScreeningResult, error) {
	result, ok := cache.results.Get(resultCacheKey(entityId, entityType))
	if !ok {
		return nil, nil
	}
	return &result, nil
}

func (cache *LocalScreeningCache) SetResult(ctx context.Context, entityId string,
	entityType models.EntityType, result models.ScreeningResult, ttl time.Duration,
) error {
	// The LRU's TTL is fixed at construction; the per-entry ttl argument only
	// matters for the shared redis implementation.
	cache.results.Add(resultCacheKey(entityId, entityType), result)
	return nil
}

func (cache *LocalScreeningCache) GetFlag(ctx context.Context, purpose, entityId string,
	entityType models.EntityType,
) (*bool, error) {
	flag, ok := cache.flags.Get(flagCacheKey(purpose, entityId, entityType))
	if !ok || time.Now().After(flag.expiresAt) {
		return nil, nil
	}
	return &flag.value, nil
}

func (cache *LocalScreeningCache) SetFlag(ctx context.Context, purpose, entityId string,
	entityType models.EntityType, value bool, ttl time.Duration,
) error {
	cache.flags.Add(flagCacheKey(purpose, entityId, entityType), cachedFlag{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

func (cache *LocalScreeningCache) Invalidate(ctx context.Context, entityId string,
	entityType models.EntityType, purposes ...string,
) error {
	cache.results.Remove(resultCacheKey(entityId, entityType))
	for _, purpose := range purposes {
		cache.flags.Remove(flagCacheKey(purpose, entityId, entityType))
	}
	return nil
}
