package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/clearwatch/screening-backend/infra"
	"github.com/clearwatch/screening-backend/jobs"
	"github.com/clearwatch/screening-backend/models"
	"github.com/clearwatch/screening-backend/repositories"
	"github.com/clearwatch/screening-backend/repositories/clock"
	"github.com/clearwatch/screening-backend/usecases"
	"github.com/clearwatch/screening-backend/utils"
)

type appConfig struct {
	screening     models.ScreeningConfig
	pg            infra.PgConfig
	redis         infra.RedisConfig
	tier1Host     string
	tier1Key      string
	loggingFormat string
}

func loadConfig() appConfig {
	screening := models.DefaultScreeningConfig()
	screening.SimilarityThreshold = utils.GetFloatEnv("SIMILARITY_THRESHOLD", screening.SimilarityThreshold)
	screening.MatchThreshold = utils.GetFloatEnv("MATCH_THRESHOLD", screening.MatchThreshold)
	screening.NewEntityWindow = utils.GetDurationEnv("NEW_ENTITY_WINDOW", screening.NewEntityWindow)
	screening.Tier1Enabled = utils.GetBoolEnv("TIER1_ENABLED", screening.Tier1Enabled)
	screening.Tier1Timeout = utils.GetDurationEnv("TIER1_TIMEOUT", screening.Tier1Timeout)
	screening.RetryAttempts = uint(utils.GetIntEnv("TIER1_RETRY_ATTEMPTS", int(screening.RetryAttempts)))
	screening.RetryInitialBackoff = utils.GetDurationEnv("TIER1_RETRY_BACKOFF", screening.RetryInitialBackoff)
	screening.BreakerFailureThreshold = uint32(utils.GetIntEnv("TIER1_BREAKER_FAILURES",
		int(screening.BreakerFailureThreshold)))
	screening.BreakerCoolDown = utils.GetDurationEnv("TIER1_BREAKER_COOLDOWN", screening.BreakerCoolDown)
	screening.RateLimitPerSecond = utils.GetFloatEnv("TIER1_RATE_LIMIT", screening.RateLimitPerSecond)
	screening.RateLimitBurst = utils.GetIntEnv("TIER1_RATE_BURST", screening.RateLimitBurst)
	screening.ResultCacheTTL = utils.GetDurationEnv("RESULT_CACHE_TTL", screening.ResultCacheTTL)
	screening.FlagCacheTTL = utils.GetDurationEnv("FLAG_CACHE_TTL", screening.FlagCacheTTL)
	screening.RescreeningSchedule = utils.GetStringEnv("RESCREENING_SCHEDULE", "")
	screening.RescreeningAge = utils.GetDurationEnv("RESCREENING_AGE", screening.RescreeningAge)

	return appConfig{
		screening: screening,
		pg: infra.PgConfig{
			Host:     utils.GetRequiredStringEnv("PG_HOSTNAME"),
			Port:     utils.GetStringEnv("PG_PORT", "5432"),
			User:     utils.GetRequiredStringEnv("PG_USER"),
			Password: utils.GetRequiredStringEnv("PG_PASSWORD"),
			Database: utils.GetStringEnv("PG_DATABASE", "screening"),
		},
		redis: infra.RedisConfig{
			URL:      utils.GetRequiredStringEnv("REDIS_URL"),
			PoolSize: utils.GetIntEnv("REDIS_POOL_SIZE", 0),
		},
		tier1Host:     utils.GetStringEnv("TIER1_HOST", ""),
		tier1Key:      utils.GetStringEnv("TIER1_API_KEY", ""),
		loggingFormat: utils.GetStringEnv("LOGGING_FORMAT", "text"),
	}
}

// watchlistSeedRecord is one entry of a normalized watchlist dataset file,
// as produced by the ingestion process.
type watchlistSeedRecord struct {
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

func loadWatchlistSeed(ctx context.Context, usecase *usecases.WatchlistUsecase, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "could not read watchlist seed file")
	}

	var seeds []watchlistSeedRecord
	if err := json.Unmarshal(raw, &seeds); err != nil {
		return errors.Wrap(err, "could not decode watchlist seed file")
	}

	records := make([]models.WatchlistRecord, 0, len(seeds))
	for _, seed := range seeds {
		record := models.WatchlistRecord{
			Id:            seed.Id,
			PrimaryName:   seed.PrimaryName,
			Aliases:       seed.Aliases,
			EntityType:    models.EntityTypeFrom(seed.EntityType),
			ListName:      seed.ListName,
			Nationalities: seed.Nationalities,
			SanctionType:  seed.SanctionType,
			Programs:      seed.Programs,
			PepLevel:      seed.PepLevel,
			Position:      seed.Position,
		}
		if seed.DateOfBirth != nil {
			dob, err := time.Parse(time.DateOnly, *seed.DateOfBirth)
			if err != nil {
				return errors.Wrapf(err, "bad date of birth on watchlist record %s", seed.Id)
			}
			record.DateOfBirth = &dob
		}
		records = append(records, record)
	}

	return usecase.RefreshWatchlist(ctx, records)
}

func main() {
	config := loadConfig()

	logger := utils.NewLogger(config.loggingFormat)
	ctx := utils.StoreLoggerInContext(context.Background(), logger)

	if err := config.screening.Validate(); err != nil {
		logger.ErrorContext(ctx, "invalid screening configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	pool, err := infra.NewPostgresConnectionPool(ctx, config.pg)
	if err != nil {
		logger.ErrorContext(ctx, "could not connect to postgres", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := infra.NewRedisClient(ctx, config.redis)
	if err != nil {
		logger.ErrorContext(ctx, "could not connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer redisClient.Close()

	wallClock := clock.New()

	var cache usecases.ScreeningCache = repositories.NewRedisScreeningCache(redisClient)
	if utils.GetStringEnv("CACHE_BACKEND", "redis") == "local" {
		cache = repositories.NewLocalScreeningCache(
			config.screening.ResultCacheTTL, config.screening.FlagCacheTTL)
	}

	watchlistIndex := repositories.NewWatchlistIndexRepository(redisClient)
	overrideRepository := repositories.NewScreeningDbRepository()
	caseRepository := repositories.NewScreeningCaseRepository(pool, wallClock)
	auditRepository := repositories.NewScreeningAuditRepository(pool, wallClock,
		config.screening.RescreeningAge)
	tier1Repository := repositories.NewTier1ScreeningRepository(
		infra.InitializeTier1Provider(config.tier1Host, config.tier1Key),
		&http.Client{Timeout: config.screening.Tier1Timeout},
	)

	overrideUsecase := usecases.NewOverrideUsecase(pool, overrideRepository, cache,
		config.screening, wallClock)
	engine := usecases.NewScreeningEngine(watchlistIndex, config.screening, wallClock)
	orchestrator := usecases.NewScreeningOrchestrator(config.screening, engine,
		tier1Repository, cache, overrideUsecase, caseRepository, auditRepository, wallClock)

	watchlistUsecase := usecases.NewWatchlistUsecase(watchlistIndex)
	if seedFile := utils.GetStringEnv("WATCHLIST_SEED_FILE", ""); seedFile != "" {
		if err := loadWatchlistSeed(ctx, watchlistUsecase, seedFile); err != nil {
			logger.ErrorContext(ctx, "could not load watchlist seed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	notify, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Entities due for a re-check are reconstructed from the audit trail.
	go jobs.RunScheduler(notify, config.screening, orchestrator, auditRepository)

	logger.InfoContext(ctx, "screening backend started",
		slog.Bool("tier1_enabled", config.screening.Tier1Enabled),
		slog.String("rescreening_schedule", config.screening.RescreeningSchedule))

	<-notify.Done()
	logger.InfoContext(ctx, "shutting down")
}
