// ABOUTME: Shared cache store wrapping Redis with TTL, gzip compression and no-op degradation
// ABOUTME: Callers must treat the cache as advisory; a dead backend never fails a request
package cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"lectio/domain"
)

// Key namespaces one cache entry by content kind, language and date.
func Key(kind, lang, date string) string {
	return fmt.Sprintf("lectio:%s:%s:%s", kind, lang, date)
}

// Store is the shared server-side cache. When the backing Redis service is
// unreachable every Get reports absent and every Set reports failure, so the
// ingestion path keeps working without it.
type Store struct {
	client *redis.Client
	logger *slog.Logger

	probeOnce sync.Once
	available bool
}

// New creates a Store connected to the given Redis URL. A bad URL degrades
// to a no-op store immediately; connectivity itself is probed lazily on
// first use so a slow-starting Redis can still be picked up.
func New(redisURL string, logger *slog.Logger) *Store {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Error("invalid redis url, cache disabled", "error", err)
		return &Store{logger: logger}
	}
	return &Store{client: redis.NewClient(opts), logger: logger}
}

// Client exposes the underlying Redis client for collaborators that need
// atomic primitives (the rate limiter). Nil when no backend is configured.
// Connectivity is not probed here; collaborators handle runtime errors.
func (s *Store) Client() *redis.Client {
	if s == nil {
		return nil
	}
	return s.client
}

// Close releases the Redis connection.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

// ready probes the backend once. The probe is idempotent under races: every
// racing caller converges on the same answer.
func (s *Store) ready() bool {
	if s.client == nil {
		return false
	}
	s.probeOnce.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.client.Ping(ctx).Err(); err != nil {
			s.logger.Warn("cache backend unreachable, degrading to pass-through", "error", err)
			return
		}
		s.available = true
	})
	return s.available
}

// Get returns the raw payload stored under key, or absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	if s == nil || !s.ready() {
		return nil, false
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		s.logger.Warn("cache get failed", "key", key, "error", err)
		return nil, false
	}
	return raw, true
}

// Set stores a raw payload under key with the given TTL.
func (s *Store) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if s == nil || !s.ready() {
		return domain.ErrCacheUnavailable
	}
	if err := s.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		s.logger.Warn("cache set failed", "key", key, "error", err)
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Exists reports whether a key is present without fetching its payload.
func (s *Store) Exists(ctx context.Context, key string) bool {
	if s == nil || !s.ready() {
		return false
	}
	n, err := s.client.Exists(ctx, key).Result()
	return err == nil && n > 0
}

// SetJSON serializes v, compresses it and stores it under key.
func (s *Store) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	payload, err := EncodePayload(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, key, payload, ttl)
}

// GetJSON fetches key and decodes its payload into v.
func (s *Store) GetJSON(ctx context.Context, key string, v any) bool {
	raw, ok := s.Get(ctx, key)
	if !ok {
		return false
	}
	if err := DecodePayload(raw, v); err != nil {
		s.logger.Warn("cache payload not decodable, treating as miss", "key", key, "error", err)
		return false
	}
	return true
}

// EncodePayload renders v as gzip-compressed JSON.
func EncodePayload(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodePayload unmarshals a stored payload into v. Compression is sniffed
// from the gzip magic header so plain JSON written by earlier versions still
// decodes.
func DecodePayload(raw []byte, v any) error {
	if isGzip(raw) {
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return fmt.Errorf("open compressed payload: %w", err)
		}
		defer zr.Close()
		decompressed, err := io.ReadAll(zr)
		if err != nil {
			return fmt.Errorf("decompress payload: %w", err)
		}
		raw = decompressed
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	return nil
}

func isGzip(raw []byte) bool {
	return len(raw) > 2 && raw[0] == 0x1f && raw[1] == 0x8b
}
