package service

import (
	"context"
	"time"
)

// CacheStore is the advisory shared cache consumed by the orchestrators.
type CacheStore interface {
	GetJSON(ctx context.Context, key string, v any) bool
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Exists(ctx context.Context, key string) bool
}

// MissLimiter counts origin-fetching cache misses per client and language.
type MissLimiter interface {
	RecordMiss(ctx context.Context, clientID, lang string) int
}

// ReadingsFetcher retrieves raw daily listing markup from the provider.
type ReadingsFetcher interface {
	FetchReadingsPage(ctx context.Context, date time.Time, lang string) (string, error)
}

// OfficeFetcher retrieves the raw office feed from the provider.
type OfficeFetcher interface {
	FetchOfficeFeed(ctx context.Context) (string, error)
}
