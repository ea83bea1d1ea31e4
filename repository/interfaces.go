package repository

import (
	"context"

	"lectio/domain"
)

// ReadingsArchive is the durable record of every successfully parsed day.
// The orchestrator upserts on each fresh fetch and reads it back as a
// second-level fallback when both the cache misses and the origin is down.
type ReadingsArchive interface {
	Upsert(ctx context.Context, readings *domain.DailyReadings) error
	Find(ctx context.Context, date, lang string) (*domain.DailyReadings, error)
	Exists(ctx context.Context, date, lang string) (bool, error)
}
