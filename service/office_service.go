// ABOUTME: Ingestion orchestrator for the structured morning-prayer office
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lectio/cache"
	"lectio/domain"
	"lectio/parser"
)

const (
	officeKind = "office"
	// officeLang keys the office in the cache and the rate limiter; the
	// provider publishes a single-language office feed.
	officeLang = "en"
)

// OfficeConfig tunes office caching.
type OfficeConfig struct {
	ContentTTL    time.Duration
	FallbackTTL   time.Duration
	MissThreshold int
}

// OfficeService serves the daily office with the same cache-first,
// rate-limited ingestion pipeline as the readings. Unlike the readings
// endpoint this one never returns a hard rate-limit failure: an over-budget
// miss degrades to fallback content, keeping the 200-always contract.
type OfficeService struct {
	cache   CacheStore
	limiter MissLimiter
	fetcher OfficeFetcher
	cfg     OfficeConfig
	logger  *slog.Logger
	now     func() time.Time
}

// NewOfficeService wires the office orchestrator.
func NewOfficeService(cacheStore CacheStore, limiter MissLimiter, fetcher OfficeFetcher, cfg OfficeConfig, logger *slog.Logger) *OfficeService {
	return &OfficeService{
		cache:   cacheStore,
		limiter: limiter,
		fetcher: fetcher,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Get resolves today's office.
func (s *OfficeService) Get(ctx context.Context, clientID string) *domain.PrayerOffice {
	key := cache.Key(officeKind, officeLang, domain.ToDateKey(s.now()))

	var cached domain.PrayerOffice
	if s.cache.GetJSON(ctx, key, &cached) {
		cached.CacheState = domain.CacheHit
		return &cached
	}

	count := s.limiter.RecordMiss(ctx, clientID, officeKind)
	if count > s.cfg.MissThreshold {
		s.logger.Warn("office miss budget exceeded", "client_id", clientID, "count", count)
		return s.fallback(ctx, "", domain.CacheRateLimit, domain.ErrRateLimitExceeded)
	}

	raw, err := s.fetcher.FetchOfficeFeed(ctx)
	if err != nil {
		s.logger.Error("office fetch failed", "error", err)
		return s.fallback(ctx, key, domain.CacheError, err)
	}

	parts, err := parser.ParseOffice(raw)
	if err != nil {
		s.logger.Error("office parse failed", "error", err)
		return s.fallback(ctx, key, domain.CacheError, err)
	}

	office := &domain.PrayerOffice{
		Parts:      parts,
		CachedAt:   s.now(),
		CacheState: domain.CacheFetch,
	}
	if err := s.cache.SetJSON(ctx, key, office, s.cfg.ContentTTL); err != nil && !errors.Is(err, domain.ErrCacheUnavailable) {
		s.logger.Warn("office cache write failed", "key", key, "error", err)
	}
	return office
}

// fallback returns a minimal office payload carrying the failure text. With
// an empty key nothing is cached (the rate-limited path must not touch the
// shared cache).
func (s *OfficeService) fallback(ctx context.Context, key string, state domain.CacheState, cause error) *domain.PrayerOffice {
	office := &domain.PrayerOffice{
		Parts: []domain.PrayerPart{{
			Title: "Morning Prayer",
			Sections: []domain.PrayerSection{{
				Kind: domain.SectionRubric,
				Text: "Morning prayer is temporarily unavailable. Please try again shortly.",
			}},
		}},
		CachedAt:   s.now(),
		CacheState: state,
		Error:      cause.Error(),
	}
	if key != "" {
		if err := s.cache.SetJSON(ctx, key, office, s.cfg.FallbackTTL); err != nil && !errors.Is(err, domain.ErrCacheUnavailable) {
			s.logger.Warn("office fallback cache write failed", "key", key, "error", err)
		}
	}
	return office
}
