package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/repositories"
	"github.com/clearwatch/screening-backend/repositories/clock"
	"github.com/clearwatch/screening-backend/utils"
)

type ScreeningOverrideRepository interface {
	CreateOverride(ctx context.Context, exec repositories.Executor,
		input models.CreateOverrideInput, newOverrideId string, now time.Time) error
	GetOverride(ctx context.Context, exec repositories.Executor,
		overrideId string) (models.ScreeningOverride, error)
	UpdateOverrideStatus(ctx context.Context, exec repositories.Executor,
		overrideId string, status models.OverrideStatus, approvedBy *string, now time.Time) error
	GetLatestApprovedOverride(ctx context.Context, exec repositories.Executor,
		entityId string, entityType models.EntityType) (*models.ScreeningOverride, error)
	ListPendingOverrides(ctx context.Context, exec repositories.Executor) ([]models.ScreeningOverride, error)
	ListOverridesForEntity(ctx context.Context, exec repositories.Executor,
		entityId string, entityType models.EntityType) ([]models.ScreeningOverride, error)
	AddWhitelistEntry(ctx context.Context, exec repositories.Executor,
		entry models.ScreeningWhitelistEntry) error
	DeleteWhitelistEntry(ctx context.Context, exec repositories.Executor,
		entityId string, entityType models.EntityType) error
	IsWhitelisted(ctx context.Context, exec repositories.Executor,
		entityId string, entityType models.EntityType) (bool, error)
}

type ScreeningFlagCache interface {
	GetFlag(ctx context.Context, purpose, entityId string, entityType models.EntityType) (*bool, error)
	SetFlag(ctx context.Context, purpose, entityId string, entityType models.EntityType,
		value bool, ttl time.Duration) error
	Invalidate(ctx context.Context, entityId string, entityType models.EntityType, purposes ...string) error
}

// OverrideUsecase runs the exemption workflow: overrides along the
// PENDING -> APPROVED | REJECTED state machine with lazy expiry, and the
// permanent whitelist. It also answers the orchestrator's exemption lookups,
// backed by the flag cache.
type OverrideUsecase struct {
	exec       repositories.Executor
	repository ScreeningOverrideRepository
	flagCache  ScreeningFlagCache
	config     models.ScreeningConfig
	clock      clock.Clock
}

func NewOverrideUsecase(
	exec repositories.Executor,
	repository ScreeningOverrideRepository,
	flagCache ScreeningFlagCache,
	config models.ScreeningConfig,
	clock clock.Clock,
) *OverrideUsecase {
	return &OverrideUsecase{
		exec:       exec,
		repository: repository,
		flagCache:  flagCache,
		config:     config,
		clock:      clock,
	}
}

// CreateOverride registers an exemption request in PENDING status. Nothing is
// cached at this point: a pending override suppresses nothing.
func (uc *OverrideUsecase) CreateOverride(ctx context.Context, input models.CreateOverrideInput,
) (models.ScreeningOverride, error) {
	if input.EntityId == "" {
		return models.ScreeningOverride{}, errors.Wrap(models.BadParameterError,
			"override requires an entity id")
	}
	if input.Reason == "" || input.RequestedBy == "" {
		return models.ScreeningOverride{}, errors.Wrap(models.BadParameterError,
			"override requires a reason and a requester")
	}
	now := uc.clock.Now()
	if input.ExpiresAt != nil && input.ExpiresAt.Before(now) {
		return models.ScreeningOverride{}, errors.Wrap(models.BadParameterError,
			"override expiry must be in the future")
	}

	overrideId := uuid.NewString()
	if err := uc.repository.CreateOverride(ctx, uc.exec, input, overrideId, now); err != nil {
		return models.ScreeningOverride{}, err
	}

	return uc.repository.GetOverride(ctx, uc.exec, overrideId)
}

func (uc *OverrideUsecase) GetOverride(ctx context.Context, overrideId string,
) (models.ScreeningOverride, error) {
	override, err := uc.repository.GetOverride(ctx, uc.exec, overrideId)
	if errors.Is(err, models.NotFoundError) {
		return models.ScreeningOverride{}, errors.WithDetailf(models.ErrOverrideNotFound,
			"override %s", overrideId)
	}
	return override, err
}

// ApproveOverride moves a pending override to APPROVED and caches the active
// exemption. Approval is the only transition that writes to the cache.
func (uc *OverrideUsecase) ApproveOverride(ctx context.Context, overrideId, approvedBy string) error {
	override, err := uc.GetOverride(ctx, overrideId)
	if err != nil {
		return err
	}
	if override.Status != models.OverrideStatusPending {
		return errors.WithDetailf(models.ErrOverrideNotPending,
			"override %s is %s", overrideId, override.Status)
	}

	now := uc.clock.Now()
	if err := uc.repository.UpdateOverrideStatus(ctx, uc.exec, overrideId,
		models.OverrideStatusApproved, &approvedBy, now); err != nil {
		return err
	}

	if ttl := uc.overrideFlagTTL(override, now); ttl > 0 {
		if err := uc.flagCache.SetFlag(ctx, flagPurposeOverride, override.EntityId,
			override.EntityType, true, ttl); err != nil {
			utils.LoggerFromContext(ctx).WarnContext(ctx, "could not cache approved override",
				slog.String("override_id", overrideId), slog.String("error", err.Error()))
		}
	}
	return nil
}

// overrideFlagTTL bounds the cached exemption flag by the override's own
// expiry, so a cached flag can never outlive the override it stands for.
func (uc *OverrideUsecase) overrideFlagTTL(override models.ScreeningOverride, now time.Time,
) time.Duration {
	ttl := uc.config.FlagCacheTTL
	if override.ExpiresAt != nil {
		if remaining := override.ExpiresAt.Sub(now); remaining < ttl {
			ttl = remaining
		}
	}
	return ttl
}

func (uc *OverrideUsecase) RejectOverride(ctx context.Context, overrideId, rejectedBy string) error {
	override, err := uc.GetOverride(ctx, overrideId)
	if err != nil {
		return err
	}
	if override.Status != models.OverrideStatusPending {
		return errors.WithDetailf(models.ErrOverrideNotPending,
			"override %s is %s", overrideId, override.Status)
	}

	if err := uc.repository.UpdateOverrideStatus(ctx, uc.exec, overrideId,
		models.OverrideStatusRejected, &rejectedBy, uc.clock.Now()); err != nil {
		return err
	}

	// Drop any stale exemption flag from a previous approval cycle.
	if err := uc.flagCache.Invalidate(ctx, override.EntityId, override.EntityType,
		flagPurposeOverride); err != nil {
		utils.LoggerFromContext(ctx).WarnContext(ctx, "could not invalidate override flag",
			slog.String("override_id", overrideId), slog.String("error", err.Error()))
	}
	return nil
}

func (uc *OverrideUsecase) ListPendingOverrides(ctx context.Context) ([]models.ScreeningOverride, error) {
	return uc.repository.ListPendingOverrides(ctx, uc.exec)
}

func (uc *OverrideUsecase) ListOverridesForEntity(ctx context.Context, entityId string,
	entityType models.EntityType,
) ([]models.ScreeningOverride, error) {
	return uc.repository.ListOverridesForEntity(ctx, uc.exec, entityId, entityType)
}

// IsOverrideActive reports whether an approved, unexpired override exists for
// the entity. Expiry is applied lazily here: an approved override found past
// its expiry is persisted as EXPIRED before answering.
func (uc *OverrideUsecase) IsOverrideActive(ctx context.Context, entityId string,
	entityType models.EntityType,
) (bool, error) {
	if flag, err := uc.flagCache.GetFlag(ctx, flagPurposeOverride, entityId, entityType); err == nil && flag != nil {
		return *flag, nil
	}

	override, err := uc.repository.GetLatestApprovedOverride(ctx, uc.exec, entityId, entityType)
	if err != nil {
		return false, err
	}
	if override == nil {
		return false, nil
	}

	now := uc.clock.Now()
	if override.IsExpired(now) {
		if err := uc.repository.UpdateOverrideStatus(ctx, uc.exec, override.Id,
			models.OverrideStatusExpired, nil, now); err != nil {
			return false, err
		}
		return false, nil
	}

	if ttl := uc.overrideFlagTTL(*override, now); ttl > 0 {
		if err := uc.flagCache.SetFlag(ctx, flagPurposeOverride, entityId, entityType,
			true, ttl); err != nil {
			utils.LoggerFromContext(ctx).WarnContext(ctx, "could not cache override flag",
				slog.String("entity_id", entityId), slog.String("error", err.Error()))
		}
	}
	return true, nil
}

// AddToWhitelist permanently exempts an entity, typically after a false
// positive was investigated and dismissed.
func (uc *OverrideUsecase) AddToWhitelist(ctx context.Context, entityId string,
	entityType models.EntityType, entityName, addedBy string,
) error {
	if entityId == "" || addedBy == "" {
		return errors.Wrap(models.BadParameterError,
			"whitelist entry requires an entity id and an author")
	}

	entry := models.ScreeningWhitelistEntry{
		Id:         uuid.NewString(),
		EntityId:   entityId,
		EntityType: entityType,
		EntityName: entityName,
		AddedBy:    addedBy,
		CreatedAt:  uc.clock.Now(),
	}
	if err := uc.repository.AddWhitelistEntry(ctx, uc.exec, entry); err != nil {
		return err
	}

	if err := uc.flagCache.SetFlag(ctx, flagPurposeWhitelist, entityId, entityType,
		true, uc.config.FlagCacheTTL); err != nil {
		utils.LoggerFromContext(ctx).WarnContext(ctx, "could not cache whitelist flag",
			slog.String("entity_id", entityId), slog.String("error", err.Error()))
	}
	return nil
}

func (uc *OverrideUsecase) RemoveFromWhitelist(ctx context.Context, entityId string,
	entityType models.EntityType,
) error {
	if err := uc.repository.DeleteWhitelistEntry(ctx, uc.exec, entityId, entityType); err != nil {
		return err
	}
	return uc.flagCache.Invalidate(ctx, entityId, entityType, flagPurposeWhitelist)
}

func (uc *OverrideUsecase) IsWhitelisted(ctx context.Context, entityId string,
	entityType models.EntityType,
) (bool, error) {
	if flag, err := uc.flagCache.GetFlag(ctx, flagPurposeWhitelist, entityId, entityType); err == nil && flag != nil {
		return *flag, nil
	}

	whitelisted, err := uc.repository.IsWhitelisted(ctx, uc.exec, entityId, entityType)
	if err != nil {
		return false, err
	}

	if whitelisted {
		if err := uc.flagCache.SetFlag(ctx, flagPurposeWhitelist, entityId, entityType,
			true, uc.config.FlagCacheTTL); err != nil {
			utils.LoggerFromContext(ctx).WarnContext(ctx, "could not cache whitelist flag",
				slog.String("entity_id", entityId), slog.String("error", err.Error()))
		}
	}
	return whitelisted, nil
}
