package usecases

import (
	"context"
	"log/slog"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/pure_utils"
	"github.com/clearwatch/screening-backend/utils"
)

type WatchlistWriter interface {
	LoadRecords(ctx context.Context, records []models.IndexedWatchlistRecord) error
}

// WatchlistUsecase ingests a refreshed watchlist dataset into the index. The
// dataset arrives already parsed; this usecase only computes the phonetic
// bucket codes and hands the batch to the store.
type WatchlistUsecase struct {
	index WatchlistWriter
}

func NewWatchlistUsecase(index WatchlistWriter) *WatchlistUsecase {
	return &WatchlistUsecase{index: index}
}

// RefreshWatchlist replaces the indexed dataset. Records without a primary
// name are rejected up front, a half-validated load must not start.
func (uc *WatchlistUsecase) RefreshWatchlist(ctx context.Context, records []models.WatchlistRecord) error {
	if len(records) == 0 {
		return errors.Wrap(models.BadParameterError, "refusing to load an empty watchlist")
	}

	indexed := make([]models.IndexedWatchlistRecord, 0, len(records))
	for _, record := range records {
		if record.Id == "" || record.PrimaryName == "" {
			return errors.Wrapf(models.BadParameterError,
				"watchlist record %q must have an id and a primary name", record.Id)
		}
		indexed = append(indexed, models.IndexedWatchlistRecord{
			Record: record,
			Codes:  bucketCodes(record),
		})
	}

	if err := uc.index.LoadRecords(ctx, indexed); err != nil {
		return errors.Wrap(err, "could not load watchlist records")
	}

	utils.LoggerFromContext(ctx).InfoContext(ctx, "watchlist refreshed",
		slog.Int("records", len(indexed)))
	return nil
}

// bucketCodes returns the distinct phonetic codes of the primary name and
// every alias, primary and alternate encodings both.
func bucketCodes(record models.WatchlistRecord) []string {
	codes := make([]string, 0, 2*(len(record.Aliases)+1))
	for _, name := range record.AllNames() {
		primary, alternate := pure_utils.PhoneticCodes(name)
		for _, code := range []string{primary, alternate} {
			if code != "" && !slices.Contains(codes, code) {
				codes = append(codes, code)
			}
		}
	}
	return codes
}
