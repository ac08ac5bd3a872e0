package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"

	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/pure_utils"
)

const watchlistVersionKey = "wl:version"

// WatchlistIndexRepository stores watchlist records in redis, bucketed by
// phonetic code so that candidate retrieval is O(bucket size) instead of a
// full scan. The whole dataset lives under a version prefix; a refresh loads
// the next version and flips the version key, so readers never see a
// half-loaded list.
type WatchlistIndexRepository struct {
	client *redis.Client
}

func NewWatchlistIndexRepository(client *redis.Client) *WatchlistIndexRepository {
	return &WatchlistIndexRepository{client: client}
}

type dbWatchlistRecord struct {
	Id            string   `json:"id"`
	PrimaryName   string   `json:"primary_name"`
	Aliases       []string `json:"aliases,omitempty"`
	EntityType    string   `json:"entity_type"`
	ListName      string   `json:"list_name"`
	DateOfBirth   *string  `json:"date_of_birth,omitempty"`
	Nationalities []string `json:"nationalities,omitempty"`
	SanctionType  string   `json:"sanction_type,omitempty"`
	Programs      []string `json:"programs,omitempty"`
	PepLevel      *int     `json:"pep_level,omitempty"`
	Position      string   `json:"position,omitempty"`
}

func adaptDbWatchlistRecord(record models.WatchlistRecord) dbWatchlistRecord {
	db := dbWatchlistRecord{
		Id:            record.Id,
		PrimaryName:   record.PrimaryName,
		Aliases:       record.Aliases,
		EntityType:    record.EntityType.String(),
		ListName:      record.ListName,
		Nationalities: record.Nationalities,
		SanctionType:  record.SanctionType,
		Programs:      record.Programs,
		PepLevel:      record.PepLevel,
		Position:      record.Position,
	}
	if record.DateOfBirth != nil {
		dob := record.DateOfBirth.Format(time.DateOnly)
		db.DateOfBirth = &dob
	}
	return db
}

func adaptWatchlistRecord(db dbWatchlistRecord) (models.WatchlistRecord, error) {
	record := models.WatchlistRecord{
		Id:            db.Id,
		PrimaryName:   db.PrimaryName,
		Aliases:       db.Aliases,
		EntityType:    models.EntityTypeFrom(db.EntityType),
		ListName:      db.ListName,
		Nationalities: db.Nationalities,
		SanctionType:  db.SanctionType,
		Programs:      db.Programs,
		PepLevel:      db.PepLevel,
		Position:      db.Position,
	}
	if db.DateOfBirth != nil {
		dob, err := time.Parse(time.DateOnly, *db.DateOfBirth)
		if err != nil {
			return models.WatchlistRecord{}, errors.Wrap(err, "invalid date of birth in watchlist record")
		}
		record.DateOfBirth = &dob
	}
	return record, nil
}

func recordKey(version int64, recordId string) string {
	return fmt.Sprintf("wl:%d:rec:%s", version, recordId)
}

func bucketKey(version int64, code string) string {
	return fmt.Sprintf("wl:%d:code:%s", version, code)
}

func (repo *WatchlistIndexRepository) currentVersion(ctx context.Context) (int64, error) {
	raw, err := repo.client.Get(ctx, watchlistVersionKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "could not read watchlist version")
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "invalid watchlist version")
	}
	return version, nil
}

// CandidatesForCode returns every record bucketed under the phonetic code.
// An unknown code yields an empty slice, not an error.
func (repo *WatchlistIndexRepository) CandidatesForCode(ctx context.Context, code string,
) ([]models.WatchlistRecord, error) {
	if code == "" {
		return nil, nil
	}

	version, err := repo.currentVersion(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := repo.client.SMembers(ctx, bucketKey(version, code)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "could not read phonetic bucket")
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := pure_utils.Map(ids, func(id string) string {
		return recordKey(version, id)
	})
	raws, err := repo.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.Wrap(err, "could not read watchlist records")
	}

	records := make([]models.WatchlistRecord, 0, len(raws))
	for _, raw := range raws {
		payload, ok := raw.(string)
		if !ok {
			// Record evicted between SMEMBERS and MGET, skip it.
			continue
		}

		var db dbWatchlistRecord
		if err := json.Unmarshal([]byte(payload), &db); err != nil {
			return nil, errors.Wrap(err, "could not decode watchlist record")
		}
		record, err := adaptWatchlistRecord(db)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// LoadRecords writes a full refreshed dataset under the next version prefix
// and flips the version key once everything is in place. The previous
// version's keys are dropped afterwards.
func (repo *WatchlistIndexRepository) LoadRecords(ctx context.Context,
	records []models.IndexedWatchlistRecord,
) error {
	previous, err := repo.currentVersion(ctx)
	if err != nil {
		return err
	}
	version := previous + 1

	pipe := repo.client.Pipeline()
	for _, indexed := range records {
		payload, err := json.Marshal(adaptDbWatchlistRecord(indexed.Record))
		if err != nil {
			return errors.Wrap(err, "could not encode watchlist record")
		}
		pipe.Set(ctx, recordKey(version, indexed.Record.Id), payload, 0)
		for _, code := range indexed.Codes {
			if code == "" {
				continue
			}
			pipe.SAdd(ctx, bucketKey(version, code), indexed.Record.Id)
		}
	}
	pipe.Set(ctx, watchlistVersionKey, strconv.FormatInt(version, 10), 0)

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "could not load watchlist records")
	}

	if previous > 0 {
		go repo.dropVersion(context.WithoutCancel(ctx), previous)
	}

	return nil
}

func (repo *WatchlistIndexRepository) dropVersion(ctx context.Context, version int64) {
	var cursor uint64
	pattern := fmt.Sprintf("wl:%d:*", version)

	for {
		keys, next, err := repo.client.Scan(ctx, cursor, pattern, 500).Result()
		if err != nil {
			return
		}
		if len(keys) > 0 {
			repo.client.Del(ctx, keys...)
		}
		if next == 0 {
			return
		}
		cursor = next
	}
}
