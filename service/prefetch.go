// ABOUTME: Scheduled cache warmer for upcoming (date, language) pairs
// ABOUTME: A single failing pair never aborts the batch; each pair records its own status
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"lectio/cache"
	"lectio/domain"
	"lectio/liturgical"
	"lectio/parser"
	"lectio/repository"
)

// Prefetch pair statuses.
const (
	StatusAlreadyCached  = "already_cached"
	StatusCached         = "cached"
	StatusFetchError     = "fetch_error"
	StatusParseError     = "parse_error"
	StatusFetchException = "fetch_exception"
)

// PairResult is the outcome of warming one (date, language) pair.
type PairResult struct {
	Date   string `json:"date"`
	Lang   string `json:"lang"`
	Status string `json:"status"`
}

// PrefetchConfig tunes the warming batch.
type PrefetchConfig struct {
	// DayOffsets are offsets from today to warm, e.g. 0,1,2.
	DayOffsets []int
	// Languages to warm for each offset.
	Languages []string
	// ContentTTL matches the orchestrator's TTL for finalized content.
	ContentTTL time.Duration
	// Concurrency bounds simultaneous origin fetches; the fetcher's polite
	// interval still spaces them out.
	Concurrency int
}

// PrefetchService proactively populates the shared cache so interactive
// clients rarely miss.
type PrefetchService struct {
	cache   CacheStore
	fetcher ReadingsFetcher
	archive repository.ReadingsArchive
	cfg     PrefetchConfig
	logger  *slog.Logger
	now     func() time.Time
}

// NewPrefetchService wires the warmer. archive may be nil.
func NewPrefetchService(cacheStore CacheStore, fetcher ReadingsFetcher, archive repository.ReadingsArchive, cfg PrefetchConfig, logger *slog.Logger) *PrefetchService {
	return &PrefetchService{
		cache:   cacheStore,
		fetcher: fetcher,
		archive: archive,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Warm iterates the configured (offset, language) pairs and fills the cache
// for pairs not already present. It always returns one result per pair.
func (s *PrefetchService) Warm(ctx context.Context) []PairResult {
	type pair struct {
		date time.Time
		lang string
	}

	var pairs []pair
	today := s.now()
	for _, offset := range s.cfg.DayOffsets {
		for _, lang := range s.cfg.Languages {
			pairs = append(pairs, pair{date: today.AddDate(0, 0, offset), lang: lang})
		}
	}

	results := make([]PairResult, len(pairs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.cfg.Concurrency, 1))
	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			status := s.warmPair(ctx, p.date, p.lang)
			mu.Lock()
			results[i] = PairResult{Date: domain.ToDateKey(p.date), Lang: p.lang, Status: status}
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	s.logger.Info("prefetch batch completed", "pairs", len(pairs))
	return results
}

func (s *PrefetchService) warmPair(ctx context.Context, date time.Time, lang string) string {
	dateKey := domain.ToDateKey(date)
	key := cache.Key(readingsKind, lang, dateKey)

	if s.cache.Exists(ctx, key) {
		return StatusAlreadyCached
	}

	raw, err := s.fetcher.FetchReadingsPage(ctx, date, lang)
	if err != nil {
		s.logger.Warn("prefetch fetch failed", "date", dateKey, "lang", lang, "error", err)
		if errors.Is(err, domain.ErrOriginUnavailable) {
			return StatusFetchError
		}
		return StatusFetchException
	}

	page, err := parser.ParseReadingsPage(raw, lang)
	if err != nil {
		s.logger.Warn("prefetch parse failed", "date", dateKey, "lang", lang, "error", err)
		return StatusParseError
	}

	readings := &domain.DailyReadings{
		Date:            dateKey,
		Language:        lang,
		Readings:        page.Readings,
		LiturgicalColor: liturgical.ClassifyColor(page.Title, lang),
		Season:          liturgical.ClassifySeason(page.Title, lang),
		Saint:           page.Saint,
		FetchedAt:       s.now(),
	}

	if s.archive != nil {
		if err := s.archive.Upsert(ctx, readings); err != nil {
			s.logger.Warn("prefetch archive upsert failed", "date", dateKey, "lang", lang, "error", err)
		}
	}

	if err := s.cache.SetJSON(ctx, key, readings, s.cfg.ContentTTL); err != nil {
		if !errors.Is(err, domain.ErrCacheUnavailable) {
			s.logger.Warn("prefetch cache write failed", "key", key, "error", err)
		}
		return StatusFetchError
	}
	return StatusCached
}
