// ABOUTME: Postgres-backed archive of parsed daily readings
// ABOUTME: Rows are superseded by upsert, never mutated in place by callers
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"lectio/domain"
)

type readingsArchive struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewReadingsArchive creates a Postgres-backed ReadingsArchive.
func NewReadingsArchive(pool *pgxpool.Pool, logger *slog.Logger) ReadingsArchive {
	return &readingsArchive{pool: pool, logger: logger}
}

func (r *readingsArchive) Upsert(ctx context.Context, readings *domain.DailyReadings) error {
	payload, err := json.Marshal(readings.Readings)
	if err != nil {
		return fmt.Errorf("marshal readings: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO daily_readings (date, language, readings, liturgical_color, season, saint, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (date, language) DO UPDATE SET
			readings = EXCLUDED.readings,
			liturgical_color = EXCLUDED.liturgical_color,
			season = EXCLUDED.season,
			saint = EXCLUDED.saint,
			fetched_at = EXCLUDED.fetched_at`,
		readings.Date, readings.Language, payload,
		string(readings.LiturgicalColor), readings.Season, readings.Saint, readings.FetchedAt)
	if err != nil {
		return fmt.Errorf("upsert daily readings: %w", err)
	}

	r.logger.Info("archived daily readings",
		"date", readings.Date, "lang", readings.Language, "count", len(readings.Readings))
	return nil
}

func (r *readingsArchive) Find(ctx context.Context, date, lang string) (*domain.DailyReadings, error) {
	var (
		out     domain.DailyReadings
		payload []byte
		color   string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT date, language, readings, liturgical_color, season, saint, fetched_at
		FROM daily_readings WHERE date = $1 AND language = $2`,
		date, lang).Scan(&out.Date, &out.Language, &payload, &color, &out.Season, &out.Saint, &out.FetchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find daily readings: %w", err)
	}

	if err := json.Unmarshal(payload, &out.Readings); err != nil {
		return nil, fmt.Errorf("unmarshal archived readings: %w", err)
	}
	out.LiturgicalColor = domain.LiturgicalColor(color)
	return &out, nil
}

func (r *readingsArchive) Exists(ctx context.Context, date, lang string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM daily_readings WHERE date = $1 AND language = $2)`,
		date, lang).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check archived readings: %w", err)
	}
	return exists, nil
}
