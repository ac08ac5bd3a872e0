package jobs

import (
	"context"
	"log/slog"

	"github.com/adhocore/gronx/pkg/tasker"

	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/utils"
)

func errToReturnCode(err error) int {
	if err != nil {
		return 1
	}
	return 0
}

// RescreeningSource yields the entities due for their periodic re-check.
// Entity records belong to the surrounding platform, not to this service, so
// the source is an injected collaborator.
type RescreeningSource interface {
	EntitiesDueForRescreening(ctx context.Context) ([]models.ScreeningEntity, error)
}

// Rescreener is the orchestrator's cache-bypassing screening entry point.
type Rescreener interface {
	RescreenEntity(ctx context.Context, entity models.ScreeningEntity) (models.ScreeningResult, error)
}

// RunScheduler blocks, running the periodic re-screening on the configured
// cron expression. An empty schedule disables the job.
func RunScheduler(ctx context.Context, config models.ScreeningConfig,
	orchestrator Rescreener, source RescreeningSource,
) {
	if config.RescreeningSchedule == "" || source == nil {
		utils.LoggerFromContext(ctx).InfoContext(ctx, "periodic re-screening disabled")
		return
	}

	taskr := tasker.New(tasker.Option{
		Verbose: true,
	}).WithContext(ctx)

	notConcurrent := false
	taskr.Task(config.RescreeningSchedule, func(ctx context.Context) (int, error) {
		logger := utils.LoggerFromContext(ctx).With("job", "rescreen_due_entities")
		ctx = utils.StoreLoggerInContext(ctx, logger)
		err := RescreenDueEntities(ctx, orchestrator, source)
		return errToReturnCode(err), err
	}, notConcurrent)

	taskr.Run()
}

// RescreenDueEntities pulls the batch due for re-screening and runs each
// entity through the orchestrator. One failing entity does not stop the
// batch; the job reports the count of failures at the end.
func RescreenDueEntities(ctx context.Context, orchestrator Rescreener,
	source RescreeningSource,
) error {
	logger := utils.LoggerFromContext(ctx)

	entities, err := source.EntitiesDueForRescreening(ctx)
	if err != nil {
		return err
	}
	if len(entities) == 0 {
		return nil
	}

	failed := 0
	for _, entity := range entities {
		if _, err := orchestrator.RescreenEntity(ctx, entity); err != nil {
			failed++
			logger.ErrorContext(ctx, "re-screening failed",
				slog.String("entity_id", entity.Id), slog.String("error", err.Error()))
		}
	}

	logger.InfoContext(ctx, "re-screening batch done",
		slog.Int("screened", len(entities)-failed), slog.Int("failed", failed))
	return nil
}
