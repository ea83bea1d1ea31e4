// ABOUTME: Per-client daily miss limiter guarding origin fetches
// ABOUTME: Redis INCR+EXPIREAT when available, in-process counter map otherwise
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of go-redis the limiter needs.
type RedisClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	ExpireAt(ctx context.Context, key string, tm time.Time) *redis.BoolCmd
}

// DailyLimiter counts cache-miss fetches per (client, language, calendar
// day). The Redis-backed count is atomic across processes. The in-process
// fallback is only correct for a single-instance deployment; under
// horizontal scaling each instance counts independently and the effective
// limit multiplies. That gap is accepted, not hidden.
type DailyLimiter struct {
	client RedisClient
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	counters map[string]int
	resetAt  time.Time
}

// New creates a DailyLimiter. client may be nil, in which case the limiter
// runs on the in-process fallback from the start.
func New(client RedisClient, logger *slog.Logger) *DailyLimiter {
	return &DailyLimiter{
		client:   client,
		logger:   logger,
		now:      time.Now,
		counters: make(map[string]int),
	}
}

// windowKey identifies one rate-limit window.
func windowKey(clientID, lang, day string) string {
	return fmt.Sprintf("lectio:ratelimit:%s:%s:%s", clientID, lang, day)
}

// RecordMiss atomically increments the client's miss count for today and
// returns the new count. The count never decreases within a window; the
// window expires at the next local midnight.
func (l *DailyLimiter) RecordMiss(ctx context.Context, clientID, lang string) int {
	now := l.now()
	day := now.Format("2006-01-02")
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	key := windowKey(clientID, lang, day)

	if l.client != nil {
		count, err := l.client.Incr(ctx, key).Result()
		if err == nil {
			if count == 1 {
				// First miss of the window: arm the day-boundary expiry.
				if err := l.client.ExpireAt(ctx, key, midnight).Err(); err != nil {
					l.logger.Warn("rate limit expiry not set", "key", key, "error", err)
				}
			}
			return int(count)
		}
		l.logger.Warn("rate limit backend unavailable, using in-process counter",
			"client_id", clientID, "lang", lang, "error", err)
	}

	return l.recordMissLocal(key, midnight)
}

func (l *DailyLimiter) recordMissLocal(key string, midnight time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.resetAt.IsZero() && !l.now().Before(l.resetAt) {
		l.counters = make(map[string]int)
	}
	l.resetAt = midnight

	l.counters[key]++
	return l.counters[key]
}
