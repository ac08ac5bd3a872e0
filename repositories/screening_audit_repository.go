package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/repositories/clock"
	"github.com/clearwatch/screening-backend/repositories/dbmodels"
)

const rescreeningBatchSize = 1000

// ScreeningAuditRepository writes the append-only trail of screening
// decisions, one row per computed result whatever the status, and derives
// the periodic re-screening batch from that trail.
type ScreeningAuditRepository struct {
	exec          Executor
	clock         clock.Clock
	rescreenAfter time.Duration
}

func NewScreeningAuditRepository(exec Executor, clock clock.Clock,
	rescreenAfter time.Duration,
) *ScreeningAuditRepository {
	return &ScreeningAuditRepository{
		exec:          exec,
		clock:         clock,
		rescreenAfter: rescreenAfter,
	}
}

func (repo *ScreeningAuditRepository) RecordScreening(ctx context.Context,
	entity models.ScreeningEntity, result models.ScreeningResult,
) error {
	return ExecBuilder(
		ctx,
		repo.exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_SCREENING_AUDIT_EVENTS).
			Columns(
				"id",
				"entity_id",
				"entity_type",
				"screened_name",
				"status",
				"provider",
				"highest_score",
				"match_count",
				"overridden",
				"whitelisted",
				"created_at",
			).
			Values(
				uuid.NewString(),
				entity.Id,
				entity.Type.String(),
				result.ScreenedName,
				result.Status.String(),
				result.Provider.String(),
				result.HighestScore,
				len(result.Matches),
				result.Overridden,
				result.Whitelisted,
				repo.clock.Now(),
			),
	)
}

// EntitiesDueForRescreening returns the entities whose latest screening
// decision is older than the configured re-screening age. The audit trail
// does not carry aliases or date of birth, so the re-check runs on the
// recorded name alone.
func (repo *ScreeningAuditRepository) EntitiesDueForRescreening(ctx context.Context,
) ([]models.ScreeningEntity, error) {
	cutoff := repo.clock.Now().Add(-repo.rescreenAfter)

	return SqlToListOfModels(
		ctx,
		repo.exec,
		NewQueryBuilder().
			Select(
				"entity_id",
				"entity_type",
				"MAX(screened_name) AS screened_name",
				"MIN(created_at) AS first_screened_at",
			).
			From(dbmodels.TABLE_SCREENING_AUDIT_EVENTS).
			GroupBy("entity_id", "entity_type").
			Having(squirrel.Lt{"MAX(created_at)": cutoff}).
			Limit(rescreeningBatchSize),
		dbmodels.AdaptRescreeningCandidate,
	)
}

func (repo *ScreeningAuditRepository) ListEventsForEntity(ctx context.Context,
	entityId string, entityType models.EntityType,
) ([]models.ScreeningAuditEvent, error) {
	return SqlToListOfModels(
		ctx,
		repo.exec,
		NewQueryBuilder().
			Select(dbmodels.SelectScreeningAuditEventColumn...).
			From(dbmodels.TABLE_SCREENING_AUDIT_EVENTS).
			Where(squirrel.Eq{
				"entity_id":   entityId,
				"entity_type": entityType.String(),
			}).
			OrderBy("created_at DESC"),
		dbmodels.AdaptScreeningAuditEvent,
	)
}
