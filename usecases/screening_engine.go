package usecases

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/pure_utils"
	"github.com/clearwatch/screening-backend/repositories/clock"
)

type WatchlistIndex interface {
	CandidatesForCode(ctx context.Context, code string) ([]models.WatchlistRecord, error)
}

// ScreeningEngine is the local screening tier. It retrieves candidates by
// phonetic code from the watchlist index and scores them with normalized name
// similarity, so a lookup touches a handful of buckets instead of the whole
// list. Stateless apart from its dependencies.
type ScreeningEngine struct {
	index  WatchlistIndex
	config models.ScreeningConfig
	clock  clock.Clock
}

func NewScreeningEngine(index WatchlistIndex, config models.ScreeningConfig, clock clock.Clock) *ScreeningEngine {
	return &ScreeningEngine{
		index:  index,
		config: config,
		clock:  clock,
	}
}

// Screen checks one entity against the indexed watchlist. The returned result
// is CLEAR exactly when no candidate scores at or above the similarity
// threshold. Index failures are reported as screening unavailability, never as
// an empty result.
func (engine *ScreeningEngine) Screen(ctx context.Context, entity models.ScreeningEntity,
) (models.ScreeningResult, error) {
	if entity.Name == "" {
		return models.ScreeningResult{}, errors.Wrap(models.BadParameterError,
			"cannot screen an entity without a name")
	}

	queryNames := append([]string{entity.Name}, entity.Aliases...)

	candidates, err := engine.collectCandidates(ctx, queryNames)
	if err != nil {
		return models.ScreeningResult{}, errors.Mark(
			errors.Wrap(err, "local screening failed"),
			models.ErrScreeningUnavailable)
	}

	matches := make([]models.Match, 0, len(candidates))
	for _, record := range candidates {
		if !entity.Type.Matches(record.EntityType) {
			continue
		}

		match, ok := engine.scoreCandidate(entity, queryNames, record)
		if !ok {
			continue
		}
		matches = append(matches, match)
	}

	return models.NewScreeningResult(entity.Name, entity.Type, matches,
		engine.config.MatchThreshold, models.ScreeningProviderLocal, engine.clock.Now()), nil
}

// collectCandidates gathers the union of all phonetic buckets the query names
// hash to, deduplicated by record id.
func (engine *ScreeningEngine) collectCandidates(ctx context.Context, queryNames []string,
) (map[string]models.WatchlistRecord, error) {
	codes := make(map[string]struct{})
	for _, name := range queryNames {
		primary, alternate := pure_utils.PhoneticCodes(name)
		if primary != "" {
			codes[primary] = struct{}{}
		}
		if alternate != "" {
			codes[alternate] = struct{}{}
		}
	}

	candidates := make(map[string]models.WatchlistRecord)
	for code := range codes {
		records, err := engine.index.CandidatesForCode(ctx, code)
		if err != nil {
			return nil, err
		}
		for _, record := range records {
			candidates[record.Id] = record
		}
	}
	return candidates, nil
}

// scoreCandidate takes the best similarity over every (query name, record
// name) pair. Scores below the similarity threshold are discarded; a matching
// date of birth confirms the hit and lifts it to the match threshold.
func (engine *ScreeningEngine) scoreCandidate(entity models.ScreeningEntity,
	queryNames []string, record models.WatchlistRecord,
) (models.Match, bool) {
	bestScore := 0.0
	bestName := ""
	bestIsAlias := false

	for i, recordName := range record.AllNames() {
		for _, queryName := range queryNames {
			score := pure_utils.NameSimilarity(queryName, recordName)
			if score > bestScore {
				bestScore = score
				bestName = recordName
				bestIsAlias = i > 0
			}
		}
	}

	if bestScore < engine.config.SimilarityThreshold {
		return models.Match{}, false
	}

	matchType := models.MatchTypePhonetic
	if bestScore >= engine.config.MatchThreshold {
		matchType = models.MatchTypeName
		if bestIsAlias {
			matchType = models.MatchTypeAlias
		}
	}
	if record.SameDateOfBirth(entity.DateOfBirth) {
		matchType = models.MatchTypeDobConfirmed
		bestScore = max(bestScore, engine.config.MatchThreshold)
	}

	return models.Match{
		MatchedName:   bestName,
		Score:         bestScore,
		ListName:      record.ListName,
		EntityType:    record.EntityType,
		MatchType:     matchType,
		RecordId:      record.Id,
		DateOfBirth:   record.DateOfBirth,
		Nationalities: record.Nationalities,
		SanctionType:  record.SanctionType,
		Programs:      record.Programs,
		PepLevel:      record.PepLevel,
		Position:      record.Position,
	}, true
}
