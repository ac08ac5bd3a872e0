package repositories

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/repositories/dbmodels"
)

// ScreeningDbRepository holds the Postgres-backed persistence of the
// override workflow and the whitelist.
type ScreeningDbRepository struct{}

func NewScreeningDbRepository() *ScreeningDbRepository {
	return &ScreeningDbRepository{}
}

func (repo *ScreeningDbRepository) CreateOverride(ctx context.Context, exec Executor,
	input models.CreateOverrideInput, newOverrideId string, now time.Time,
) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_SCREENING_OVERRIDES).
			Columns(
				"id",
				"entity_id",
				"entity_type",
				"reason",
				"justification",
				"requested_by",
				"status",
				"expires_at",
				"created_at",
				"updated_at",
			).
			Values(
				newOverrideId,
				input.EntityId,
				input.EntityType.String(),
				input.Reason,
				input.Justification,
				input.RequestedBy,
				models.OverrideStatusPending.String(),
				input.ExpiresAt,
				now,
				now,
			),
	)
}

func (repo *ScreeningDbRepository) GetOverride(ctx context.Context, exec Executor,
	overrideId string,
) (models.ScreeningOverride, error) {
	return SqlToModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectScreeningOverrideColumn...).
			From(dbmodels.TABLE_SCREENING_OVERRIDES).
			Where(squirrel.Eq{"id": overrideId}),
		dbmodels.AdaptScreeningOverride,
	)
}

func (repo *ScreeningDbRepository) UpdateOverrideStatus(ctx context.Context, exec Executor,
	overrideId string, status models.OverrideStatus, approvedBy *string, now time.Time,
) error {
	query := NewQueryBuilder().
		Update(dbmodels.TABLE_SCREENING_OVERRIDES).
		Set("status", status.String()).
		Set("updated_at", now).
		Where(squirrel.Eq{"id": overrideId})

	if approvedBy != nil {
		query = query.Set("approved_by", *approvedBy)
	}

	return ExecBuilder(ctx, exec, query)
}

// GetLatestApprovedOverride returns the most recent APPROVED override for
// the entity, or nil. Lazy expiry happens in the usecase, not here.
func (repo *ScreeningDbRepository) GetLatestApprovedOverride(ctx context.Context, exec Executor,
	entityId string, entityType models.EntityType,
) (*models.ScreeningOverride, error) {
	return SqlToOptionalModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectScreeningOverrideColumn...).
			From(dbmodels.TABLE_SCREENING_OVERRIDES).
			Where(squirrel.Eq{
				"entity_id":   entityId,
				"entity_type": entityType.String(),
				"status":      models.OverrideStatusApproved.String(),
			}).
			OrderBy("created_at DESC").
			Limit(1),
		dbmodels.AdaptScreeningOverride,
	)
}

func (repo *ScreeningDbRepository) ListPendingOverrides(ctx context.Context, exec Executor,
) ([]models.ScreeningOverride, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectScreeningOverrideColumn...).
			From(dbmodels.TABLE_SCREENING_OVERRIDES).
			Where(squirrel.Eq{"status": models.OverrideStatusPending.String()}).
			OrderBy("created_at ASC"),
		dbmodels.AdaptScreeningOverride,
	)
}

func (repo *ScreeningDbRepository) ListOverridesForEntity(ctx context.Context, exec Executor,
	entityId string, entityType models.EntityType,
) ([]models.ScreeningOverride, error) {
	return SqlToListOfModels(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectScreeningOverrideColumn...).
			From(dbmodels.TABLE_SCREENING_OVERRIDES).
			Where(squirrel.Eq{
				"entity_id":   entityId,
				"entity_type": entityType.String(),
			}).
			OrderBy("created_at DESC"),
		dbmodels.AdaptScreeningOverride,
	)
}

func (repo *ScreeningDbRepository) AddWhitelistEntry(ctx context.Context, exec Executor,
	entry models.ScreeningWhitelistEntry,
) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_SCREENING_WHITELIST).
			Columns(
				"id",
				"entity_id",
				"entity_type",
				"entity_name",
				"added_by",
				"created_at",
			).
			Values(
				entry.Id,
				entry.EntityId,
				entry.EntityType.String(),
				entry.EntityName,
				entry.AddedBy,
				entry.CreatedAt,
			),
	)
}

func (repo *ScreeningDbRepository) DeleteWhitelistEntry(ctx context.Context, exec Executor,
	entityId string, entityType models.EntityType,
) error {
	return ExecBuilder(
		ctx,
		exec,
		NewQueryBuilder().
			Delete(dbmodels.TABLE_SCREENING_WHITELIST).
			Where(squirrel.Eq{
				"entity_id":   entityId,
				"entity_type": entityType.String(),
			}),
	)
}

func (repo *ScreeningDbRepository) IsWhitelisted(ctx context.Context, exec Executor,
	entityId string, entityType models.EntityType,
) (bool, error) {
	entry, err := SqlToOptionalModel(
		ctx,
		exec,
		NewQueryBuilder().
			Select(dbmodels.SelectScreeningWhitelistColumn...).
			From(dbmodels.TABLE_SCREENING_WHITELIST).
			Where(squirrel.Eq{
				"entity_id":   entityId,
				"entity_type": entityType.String(),
			}).
			Limit(1),
		dbmodels.AdaptScreeningWhitelistEntry,
	)
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}
