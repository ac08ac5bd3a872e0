package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/repositories/clock"
	"github.com/clearwatch/screening-backend/usecases/resilience"
	"github.com/clearwatch/screening-backend/utils"
)

// Flag cache purposes, shared between the orchestrator and the override
// usecase so invalidation hits the right keys.
const (
	flagPurposeOverride  = "override"
	flagPurposeWhitelist = "whitelist"
)

const maxParallelScreenings = 8

type LocalScreener interface {
	Screen(ctx context.Context, entity models.ScreeningEntity) (models.ScreeningResult, error)
}

type Tier1Screener interface {
	IsConfigured() bool
	Search(ctx context.Context, entity models.ScreeningEntity) ([]models.Match, error)
}

type ScreeningResultCache interface {
	GetResult(ctx context.Context, entityId string, entityType models.EntityType) (*models.ScreeningResult, error)
	SetResult(ctx context.Context, entityId string, entityType models.EntityType,
		result models.ScreeningResult, ttl time.Duration) error
}

// ExemptionChecker tells the orchestrator whether a blocking result is
// suppressed for an entity. Implemented by the override usecase.
type ExemptionChecker interface {
	IsOverrideActive(ctx context.Context, entityId string, entityType models.EntityType) (bool, error)
	IsWhitelisted(ctx context.Context, entityId string, entityType models.EntityType) (bool, error)
}

// CaseTrigger opens a compliance review case for a blocking screening result.
type CaseTrigger interface {
	OpenScreeningCase(ctx context.Context, entity models.ScreeningEntity, result models.ScreeningResult) error
}

// AuditLogger records every screening decision. Called on a detached context,
// a failing audit sink never blocks nor fails the screening itself.
type AuditLogger interface {
	RecordScreening(ctx context.Context, entity models.ScreeningEntity, result models.ScreeningResult) error
}

// ScreeningOrchestrator drives a full screening: cache consult, tier
// selection, fallback, exemption merge, case trigger, audit trail, cache
// write-back. The one invariant it defends at all costs: a screening that
// could not be computed surfaces as an error, never as a CLEAR result.
type ScreeningOrchestrator struct {
	config     models.ScreeningConfig
	local      LocalScreener
	tier1      Tier1Screener
	tier1Guard *resilience.Guard[[]models.Match]
	cache      ScreeningResultCache
	exemptions ExemptionChecker
	cases      CaseTrigger
	audit      AuditLogger
	clock      clock.Clock
}

func NewScreeningOrchestrator(
	config models.ScreeningConfig,
	local LocalScreener,
	tier1 Tier1Screener,
	cache ScreeningResultCache,
	exemptions ExemptionChecker,
	cases CaseTrigger,
	audit AuditLogger,
	clock clock.Clock,
) *ScreeningOrchestrator {
	return &ScreeningOrchestrator{
		config:     config,
		local:      local,
		tier1:      tier1,
		tier1Guard: resilience.NewGuard[[]models.Match]("tier1-screening", resilience.PolicyFromConfig(config)),
		cache:      cache,
		exemptions: exemptions,
		cases:      cases,
		audit:      audit,
		clock:      clock,
	}
}

// ScreenEntity screens one entity end to end.
func (uc *ScreeningOrchestrator) ScreenEntity(ctx context.Context, entity models.ScreeningEntity,
) (models.ScreeningResult, error) {
	if cached := uc.cachedResult(ctx, entity); cached != nil {
		return *cached, nil
	}
	return uc.screenFresh(ctx, entity)
}

// RescreenEntity forces a fresh screening, bypassing the cache consult. Used
// by the periodic re-screening job, which exists precisely to catch list
// changes within the cache TTL.
func (uc *ScreeningOrchestrator) RescreenEntity(ctx context.Context, entity models.ScreeningEntity,
) (models.ScreeningResult, error) {
	return uc.screenFresh(ctx, entity)
}

func (uc *ScreeningOrchestrator) screenFresh(ctx context.Context, entity models.ScreeningEntity,
) (models.ScreeningResult, error) {
	logger := utils.LoggerFromContext(ctx)

	result, err := uc.computeResult(ctx, entity)
	if err != nil {
		return models.ScreeningResult{}, err
	}

	result = uc.mergeExemptions(ctx, entity, result)

	if result.RequiresCase() {
		if err := uc.cases.OpenScreeningCase(ctx, entity, result); err != nil {
			logger.ErrorContext(ctx, "could not open compliance case for screening hit",
				slog.String("entity_id", entity.Id), slog.String("error", err.Error()))
		}
	}

	go func(ctx context.Context) {
		if err := uc.audit.RecordScreening(ctx, entity, result); err != nil {
			utils.LoggerFromContext(ctx).WarnContext(ctx, "could not record screening audit event",
				slog.String("entity_id", entity.Id), slog.String("error", err.Error()))
		}
	}(context.WithoutCancel(ctx))

	if err := uc.cache.SetResult(ctx, entity.Id, entity.Type, result, uc.config.ResultCacheTTL); err != nil {
		logger.WarnContext(ctx, "could not cache screening result",
			slog.String("entity_id", entity.Id), slog.String("error", err.Error()))
	}

	return result, nil
}

// ScreenEntities screens a batch, typically a merchant together with its
// beneficial owners, in parallel. Every entity is screened even when a
// sibling fails, so side effects (case triggers, audit) are not lost; the
// batch still errors if any screening was unavailable, because a partial
// answer could hide a hit. Results come back in input order.
func (uc *ScreeningOrchestrator) ScreenEntities(ctx context.Context, entities []models.ScreeningEntity,
) ([]models.ScreeningResult, error) {
	results := make([]models.ScreeningResult, len(entities))

	var group errgroup.Group
	group.SetLimit(maxParallelScreenings)

	for i, entity := range entities {
		group.Go(func() error {
			result, err := uc.ScreenEntity(ctx, entity)
			if err != nil {
				return errors.Wrapf(err, "screening entity %s", entity.Id)
			}
			results[i] = result
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ScreenEntityWithOwners screens a merchant together with its beneficial
// owners. The merchant's result comes first, owners follow in input order.
func (uc *ScreeningOrchestrator) ScreenEntityWithOwners(ctx context.Context,
	entity models.ScreeningEntity, owners []models.ScreeningEntity,
) ([]models.ScreeningResult, error) {
	return uc.ScreenEntities(ctx, append([]models.ScreeningEntity{entity}, owners...))
}

func (uc *ScreeningOrchestrator) cachedResult(ctx context.Context, entity models.ScreeningEntity,
) *models.ScreeningResult {
	cached, err := uc.cache.GetResult(ctx, entity.Id, entity.Type)
	if err != nil {
		// A broken cache degrades to a miss.
		utils.LoggerFromContext(ctx).WarnContext(ctx, "screening cache read failed",
			slog.String("entity_id", entity.Id), slog.String("error", err.Error()))
		return nil
	}
	if cached == nil {
		return nil
	}

	cached.FromCache = true
	// Overrides may have been granted or expired since the result was cached.
	refreshed := uc.mergeExemptions(ctx, entity, *cached)
	return &refreshed
}

// computeResult picks the screening tier. New entities go to the
// comprehensive tier-1 provider when it is enabled; everyone else, and every
// tier-1 failure, is served by the local engine.
func (uc *ScreeningOrchestrator) computeResult(ctx context.Context, entity models.ScreeningEntity,
) (models.ScreeningResult, error) {
	logger := utils.LoggerFromContext(ctx)

	useTier1 := uc.config.Tier1Enabled &&
		uc.tier1.IsConfigured() &&
		entity.IsNew(uc.clock.Now(), uc.config.NewEntityWindow)

	if useTier1 {
		matches, err := uc.tier1Guard.Do(ctx, func(ctx context.Context) ([]models.Match, error) {
			return uc.tier1.Search(ctx, entity)
		})
		if err == nil {
			return models.NewScreeningResult(entity.Name, entity.Type, matches,
				uc.config.MatchThreshold, models.ScreeningProviderTier1, uc.clock.Now()), nil
		}

		logger.WarnContext(ctx, "tier-1 screening failed, falling back to local engine",
			slog.String("entity_id", entity.Id), slog.String("error", err.Error()))

		result, err := uc.local.Screen(ctx, entity)
		if err != nil {
			return models.ScreeningResult{}, errors.Wrap(err,
				"tier-1 and local screening both failed")
		}
		result.Provider = models.ScreeningProviderLocalFallback
		return result, nil
	}

	return uc.local.Screen(ctx, entity)
}

// mergeExemptions applies override and whitelist state to a blocking result.
// Lookups failing closed: an exemption we cannot confirm does not suppress.
func (uc *ScreeningOrchestrator) mergeExemptions(ctx context.Context, entity models.ScreeningEntity,
	result models.ScreeningResult,
) models.ScreeningResult {
	if !result.Status.IsBlocking() {
		result.Overridden = false
		result.Whitelisted = false
		return result
	}

	logger := utils.LoggerFromContext(ctx)

	overridden, err := uc.exemptions.IsOverrideActive(ctx, entity.Id, entity.Type)
	if err != nil {
		logger.WarnContext(ctx, "could not check override state",
			slog.String("entity_id", entity.Id), slog.String("error", err.Error()))
		overridden = false
	}
	result.Overridden = overridden

	whitelisted, err := uc.exemptions.IsWhitelisted(ctx, entity.Id, entity.Type)
	if err != nil {
		logger.WarnContext(ctx, "could not check whitelist state",
			slog.String("entity_id", entity.Id), slog.String("error", err.Error()))
		whitelisted = false
	}
	result.Whitelisted = whitelisted

	return result
}
