// ABOUTME: Ingestion orchestrator for daily readings
// ABOUTME: CheckCache -> CheckRateLimit -> FetchOrigin -> Parse -> Classify -> StoreCache -> Respond
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lectio/cache"
	"lectio/domain"
	"lectio/liturgical"
	"lectio/parser"
	"lectio/repository"
)

const readingsKind = "readings"

// ReadingsConfig tunes the orchestrator's caching and limiting behavior.
type ReadingsConfig struct {
	// ContentTTL applies to successfully parsed days. Past content never
	// changes, so this is long (7-30 days).
	ContentTTL time.Duration
	// FallbackTTL applies to error payloads so a transient origin outage
	// self-heals within minutes.
	FallbackTTL time.Duration
	// MissThreshold is the per-day per-language miss budget for one client.
	MissThreshold int
}

// ReadingsService serves daily readings through the shared cache, fetching
// from the origin only on a rate-limited miss.
type ReadingsService struct {
	cache   CacheStore
	limiter MissLimiter
	fetcher ReadingsFetcher
	archive repository.ReadingsArchive
	cfg     ReadingsConfig
	logger  *slog.Logger
	now     func() time.Time
}

// NewReadingsService wires the orchestrator. archive may be nil when no
// Postgres archive is configured.
func NewReadingsService(
	cacheStore CacheStore,
	limiter MissLimiter,
	fetcher ReadingsFetcher,
	archive repository.ReadingsArchive,
	cfg ReadingsConfig,
	logger *slog.Logger,
) *ReadingsService {
	return &ReadingsService{
		cache:   cacheStore,
		limiter: limiter,
		fetcher: fetcher,
		archive: archive,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Get resolves one (date, language) request. It returns
// domain.ErrRateLimitExceeded when the client is over budget; every other
// failure degrades to fallback content with an ERROR cache state.
func (s *ReadingsService) Get(ctx context.Context, dateKey, lang, clientID string) (*domain.DailyReadings, error) {
	date := domain.FromDateKey(dateKey, s.now())
	key := cache.Key(readingsKind, lang, domain.ToDateKey(date))

	var cached domain.DailyReadings
	if s.cache.GetJSON(ctx, key, &cached) {
		cached.CacheState = domain.CacheHit
		return &cached, nil
	}

	count := s.limiter.RecordMiss(ctx, clientID, lang)
	if count > s.cfg.MissThreshold {
		s.logger.Warn("daily miss budget exceeded",
			"client_id", clientID, "lang", lang, "count", count, "threshold", s.cfg.MissThreshold)
		return nil, domain.ErrRateLimitExceeded
	}

	readings, err := s.fetchAndParse(ctx, date, lang)
	if err != nil {
		return s.fallback(ctx, key, date, lang, err), nil
	}

	if s.archive != nil {
		if err := s.archive.Upsert(ctx, readings); err != nil {
			s.logger.Warn("archive upsert failed",
				"date", readings.Date, "lang", lang, "error", err)
		}
	}

	if err := s.cache.SetJSON(ctx, key, readings, s.cfg.ContentTTL); err != nil && !errors.Is(err, domain.ErrCacheUnavailable) {
		s.logger.Warn("cache write failed", "key", key, "error", err)
	}

	return readings, nil
}

func (s *ReadingsService) fetchAndParse(ctx context.Context, date time.Time, lang string) (*domain.DailyReadings, error) {
	raw, err := s.fetcher.FetchReadingsPage(ctx, date, lang)
	if err != nil {
		s.logger.Error("origin fetch failed",
			"date", domain.ToDateKey(date), "lang", lang, "error", err)
		return nil, err
	}

	page, err := parser.ParseReadingsPage(raw, lang)
	if err != nil {
		s.logger.Error("readings parse failed",
			"date", domain.ToDateKey(date), "lang", lang, "error", err)
		return nil, err
	}

	return &domain.DailyReadings{
		Date:            domain.ToDateKey(date),
		Language:        lang,
		Readings:        page.Readings,
		LiturgicalColor: liturgical.ClassifyColor(page.Title, lang),
		Season:          liturgical.ClassifySeason(page.Title, lang),
		Saint:           page.Saint,
		FetchedAt:       s.now(),
		CacheState:      domain.CacheFetch,
	}, nil
}

var fallbackMessages = map[string]string{
	"en": "Today's readings are temporarily unavailable. Please try again shortly.",
	"es": "Las lecturas de hoy no están disponibles por el momento. Inténtelo de nuevo en unos minutos.",
}

// fallback answers a failed fetch without surfacing the raw failure. An
// archived copy of the day beats a placeholder; either way the payload is
// cached only briefly so the outage self-heals.
func (s *ReadingsService) fallback(ctx context.Context, key string, date time.Time, lang string, cause error) *domain.DailyReadings {
	if s.archive != nil {
		archived, err := s.archive.Find(ctx, domain.ToDateKey(date), lang)
		if err != nil {
			s.logger.Warn("archive lookup failed",
				"date", domain.ToDateKey(date), "lang", lang, "error", err)
		}
		if archived != nil {
			archived.CacheState = domain.CacheError
			archived.Error = "served from archive: origin unavailable"
			if err := s.cache.SetJSON(ctx, key, archived, s.cfg.FallbackTTL); err != nil && !errors.Is(err, domain.ErrCacheUnavailable) {
				s.logger.Warn("fallback cache write failed", "key", key, "error", err)
			}
			return archived
		}
	}

	msg, ok := fallbackMessages[lang]
	if !ok {
		msg = fallbackMessages["en"]
	}

	placeholder := &domain.DailyReadings{
		Date:     domain.ToDateKey(date),
		Language: lang,
		Readings: []domain.Reading{{
			Label:   "Reading",
			Content: msg,
			Type:    domain.ReadingFirst,
		}},
		LiturgicalColor: domain.ColorGreen,
		Season:          liturgical.ClassifySeason("", lang),
		FetchedAt:       s.now(),
		CacheState:      domain.CacheError,
		Error:           cause.Error(),
	}
	if err := s.cache.SetJSON(ctx, key, placeholder, s.cfg.FallbackTTL); err != nil && !errors.Is(err, domain.ErrCacheUnavailable) {
		s.logger.Warn("fallback cache write failed", "key", key, "error", err)
	}
	return placeholder
}
