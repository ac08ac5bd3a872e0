package repositories

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/repositories/clock"
	"github.com/clearwatch/screening-backend/repositories/dbmodels"
)

// ScreeningCaseRepository opens compliance review cases for blocking
// screening results and serves the reviewers' reads. It satisfies the
// orchestrator's case trigger directly, so it holds its executor instead of
// receiving one per call.
type ScreeningCaseRepository struct {
	exec  Executor
	clock clock.Clock
}

func NewScreeningCaseRepository(exec Executor, clock clock.Clock) *ScreeningCaseRepository {
	return &ScreeningCaseRepository{
		exec:  exec,
		clock: clock,
	}
}

func (repo *ScreeningCaseRepository) OpenScreeningCase(ctx context.Context,
	entity models.ScreeningEntity, result models.ScreeningResult,
) error {
	return ExecBuilder(
		ctx,
		repo.exec,
		NewQueryBuilder().Insert(dbmodels.TABLE_SCREENING_CASES).
			Columns(
				"id",
				"entity_id",
				"entity_name",
				"entity_type",
				"status",
				"highest_score",
				"list_names",
				"created_at",
			).
			Values(
				uuid.NewString(),
				entity.Id,
				entity.Name,
				entity.Type.String(),
				models.CaseStatusOpen.String(),
				result.HighestScore,
				result.ListNames(),
				repo.clock.Now(),
			),
	)
}

func (repo *ScreeningCaseRepository) ListOpenCases(ctx context.Context) ([]models.ScreeningCase, error) {
	return SqlToListOfModels(
		ctx,
		repo.exec,
		NewQueryBuilder().
			Select(dbmodels.SelectScreeningCaseColumn...).
			From(dbmodels.TABLE_SCREENING_CASES).
			Where(squirrel.Eq{"status": models.CaseStatusOpen.String()}).
			OrderBy("created_at ASC"),
		dbmodels.AdaptScreeningCase,
	)
}

func (repo *ScreeningCaseRepository) CloseCase(ctx context.Context, caseId string) error {
	now := repo.clock.Now()
	return ExecBuilder(
		ctx,
		repo.exec,
		NewQueryBuilder().
			Update(dbmodels.TABLE_SCREENING_CASES).
			Set("status", models.CaseStatusClosed.String()).
			Set("closed_at", now).
			Where(squirrel.Eq{"id": caseId}),
	)
}
