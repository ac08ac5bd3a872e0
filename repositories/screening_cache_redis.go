package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/pure_utils"
)

// RedisScreeningCache is the shared, multi-instance implementation of the
// screening cache. Values expire through redis TTLs; the cache is a pure
// optimization, so every error is reported to the caller who decides to
// degrade to a miss.
type RedisScreeningCache struct {
	client *redis.Client
}

func NewRedisScreeningCache(client *redis.Client) *RedisScreeningCache {
	return &RedisScreeningCache{client: client}
}

func resultCacheKey(entityId string, entityType models.EntityType) string {
	return fmt.Sprintf("sc:res:%s:%s", entityType, entityId)
}

func flagCacheKey(purpose, entityId string, entityType models.EntityType) string {
	return fmt.Sprintf("sc:flag:%s:%s:%s", purpose, entityType, entityId)
}

type dbCachedMatch struct {
	MatchedName   string   `json:"matched_name"`
	Score         float64  `json:"score"`
	ListName      string   `json:"list_name"`
	EntityType    string   `json:"entity_type"`
	MatchType     string   `json:"match_type"`
	RecordId      string   `json:"record_id"`
	DateOfBirth   *string  `json:"date_of_birth,omitempty"`
	Nationalities []string `json:"nationalities,omitempty"`
	SanctionType  string   `json:"sanction_type,omitempty"`
	Programs      []string `json:"programs,omitempty"`
	PepLevel      *int     `json:"pep_level,omitempty"`
	Position      string   `json:"position,omitempty"`
}

type dbCachedResult struct {
	ScreenedName string          `json:"screened_name"`
	EntityType   string          `json:"entity_type"`
	Status       string          `json:"status"`
	Matches      []dbCachedMatch `json:"matches"`
	HighestScore float64         `json:"highest_score"`
	ScreenedAt   time.Time       `json:"screened_at"`
	Provider     string          `json:"provider"`
}

func adaptDbCachedResult(result models.ScreeningResult) dbCachedResult {
	return dbCachedResult{
		ScreenedName: result.ScreenedName,
		EntityType:   result.EntityType.String(),
		Status:       result.Status.String(),
		Matches: pure_utils.Map(result.Matches, func(m models.Match) dbCachedMatch {
			db := dbCachedMatch{
				MatchedName:   m.MatchedName,
				Score:         m.Score,
				ListName:      m.ListName,
				EntityType:    m.EntityType.String(),
				MatchType:     m.MatchType.String(),
				RecordId:      m.RecordId,
				Nationalities: m.Nationalities,
				SanctionType:  m.SanctionType,
				Programs:      m.Programs,
				PepLevel:      m.PepLevel,
				Position:      m.Position,
			}
			if m.DateOfBirth != nil {
				dob := m.DateOfBirth.Format(time.DateOnly)
				db.DateOfBirth = &dob
			}
			return db
		}),
		HighestScore: result.HighestScore,
		ScreenedAt:   result.ScreenedAt,
		Provider:     result.Provider.String(),
	}
}

func adaptCachedResult(db dbCachedResult) models.ScreeningResult {
	return models.ScreeningResult{
		ScreenedName: db.ScreenedName,
		EntityType:   models.EntityTypeFrom(db.EntityType),
		Status:       models.ScreeningStatusFrom(db.Status),
		Matches: pure_utils.Map(db.Matches, func(m dbCachedMatch) models.Match {
			match := models.Match{
				MatchedName:   m.MatchedName,
				Score:         m.Score,
				ListName:      m.ListName,
				EntityType:    models.EntityTypeFrom(m.EntityType),
				MatchType:     models.MatchTypeFrom(m.MatchType),
				RecordId:      m.RecordId,
				Nationalities: m.Nationalities,
				SanctionType:  m.SanctionType,
				Programs:      m.Programs,
				PepLevel:      m.PepLevel,
				Position:      m.Position,
			}
			if m.DateOfBirth != nil {
				if dob, err := time.Parse(time.DateOnly, *m.DateOfBirth); err == nil {
					match.DateOfBirth = &dob
				}
			}
			return match
		}),
		HighestScore: db.HighestScore,
		ScreenedAt:   db.ScreenedAt,
		Provider:     models.ScreeningProviderFrom(db.Provider),
	}
}

func (cache *RedisScreeningCache) GetResult(ctx context.Context, entityId string,
	entityType models.EntityType,
) (*models.ScreeningResult, error) {
	raw, err := cache.client.Get(ctx, resultCacheKey(entityId, entityType)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not read cached screening result")
	}

	var db dbCachedResult
	if err := json.Unmarshal([]byte(raw), &db); err != nil {
		return nil, errors.Wrap(err, "could not decode cached screening result")
	}

	result := adaptCachedResult(db)
	return &result, nil
}

func (cache *RedisScreeningCache) SetResult(ctx context.Context, entityId string,
	entityType models.EntityType, result models.ScreeningResult, ttl time.Duration,
) error {
	payload, err := json.Marshal(adaptDbCachedResult(result))
	if err != nil {
		return errors.Wrap(err, "could not encode screening result")
	}

	return errors.Wrap(
		cache.client.Set(ctx, resultCacheKey(entityId, entityType), payload, ttl).Err(),
		"could not cache screening result")
}

func (cache *RedisScreeningCache) GetFlag(ctx context.Context, purpose, entityId string,
	entityType models.EntityType,
) (*bool, error) {
	raw, err := cache.client.Get(ctx, flagCacheKey(purpose, entityId, entityType)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not read cached flag")
	}

	flag := raw == "1"
	return &flag, nil
}

func (cache *RedisScreeningCache) SetFlag(ctx context.Context, purpose, entityId string,
	entityType models.EntityType, value bool, ttl time.Duration,
) error {
	payload := "0"
	if value {
		payload = "1"
	}

	return errors.Wrap(
		cache.client.Set(ctx, flagCacheKey(purpose, entityId, entityType), payload, ttl).Err(),
		"could not cache flag")
}

func (cache *RedisScreeningCache) Invalidate(ctx context.Context, entityId string,
	entityType models.EntityType, purposes ...string,
) error {
	keys := []string{resultCacheKey(entityId, entityType)}
	for _, purpose := range purposes {
		keys = append(keys, flagCacheKey(purpose, entityId, entityType))
	}

	return errors.Wrap(
		cache.client.Del(ctx, keys...).Err(),
		"could not invalidate cache entries")
}
