// ABOUTME: Dependency wiring for the lectio service
package bootstrap

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"lectio/cache"
	"lectio/config"
	"lectio/driver"
	"lectio/handler"
	"lectio/origin"
	"lectio/ratelimit"
	"lectio/repository"
	"lectio/service"
)

// Dependencies holds all application dependencies.
type Dependencies struct {
	Config          *config.Config
	DBPool          *pgxpool.Pool
	ReadingsHandler *handler.ReadingsHandler
	OfficeHandler   *handler.OfficeHandler
	PrefetchHandler *handler.PrefetchHandler
	HealthHandler   *handler.HealthHandler
	Logger          *slog.Logger
}

// BuildDependencies constructs all application dependencies.
// Returns a cleanup function that should be deferred.
func BuildDependencies(ctx context.Context, log *slog.Logger) (*Dependencies, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	cacheStore := cache.New(cfg.Cache.RedisURL, log)

	// An explicit nil interface keeps the limiter on its in-process
	// fallback when no Redis backend is configured.
	var limiterClient ratelimit.RedisClient
	if rc := cacheStore.Client(); rc != nil {
		limiterClient = rc
	}
	limiter := ratelimit.New(limiterClient, log)

	fetcher := origin.NewFetcher(origin.Config{
		ReadingsURL:   cfg.Origin.ReadingsURL,
		OfficeFeedURL: cfg.Origin.OfficeFeedURL,
		MinInterval:   cfg.Origin.MinInterval,
		Timeout:       cfg.Origin.Timeout,
		MaxRetries:    cfg.Origin.MaxRetries,
		UserAgent:     cfg.Origin.UserAgent,
	}, log)

	// The Postgres archive is optional; without it fallbacks degrade to
	// placeholder content.
	var dbPool *pgxpool.Pool
	var archive repository.ReadingsArchive
	if cfg.Database.URL != "" {
		dbPool, err = driver.Init(ctx, cfg.Database.URL, log)
		if err != nil {
			log.Warn("archive database unavailable, continuing without it", "error", err)
		} else {
			archive = repository.NewReadingsArchive(dbPool, log)
		}
	}

	readingsService := service.NewReadingsService(cacheStore, limiter, fetcher, archive, service.ReadingsConfig{
		ContentTTL:    cfg.Cache.ContentTTL,
		FallbackTTL:   cfg.Cache.FallbackTTL,
		MissThreshold: cfg.RateLimit.MissThreshold,
	}, log)

	officeService := service.NewOfficeService(cacheStore, limiter, fetcher, service.OfficeConfig{
		ContentTTL:    cfg.Cache.ContentTTL,
		FallbackTTL:   cfg.Cache.FallbackTTL,
		MissThreshold: cfg.RateLimit.MissThreshold,
	}, log)

	prefetchService := service.NewPrefetchService(cacheStore, fetcher, archive, service.PrefetchConfig{
		DayOffsets:  cfg.Prefetch.DayOffsets(),
		Languages:   cfg.Prefetch.Languages,
		ContentTTL:  cfg.Cache.ContentTTL,
		Concurrency: cfg.Prefetch.Concurrency,
	}, log)

	cleanup := func() {
		if dbPool != nil {
			dbPool.Close()
		}
		if err := cacheStore.Close(); err != nil {
			log.Warn("cache close failed", "error", err)
		}
	}

	return &Dependencies{
		Config:          cfg,
		DBPool:          dbPool,
		ReadingsHandler: handler.NewReadingsHandler(readingsService),
		OfficeHandler:   handler.NewOfficeHandler(officeService),
		PrefetchHandler: handler.NewPrefetchHandler(prefetchService),
		HealthHandler:   handler.NewHealthHandler(),
		Logger:          log,
	}, cleanup, nil
}
