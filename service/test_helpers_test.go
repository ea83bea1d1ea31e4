// ABOUTME: Hand-written fakes shared by the orchestrator tests
package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"lectio/cache"
	"lectio/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// fakeCache is an in-memory CacheStore using the real payload codec.
type fakeCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	disabled bool
	sets     int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, v any) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.entries[key]
	if !ok {
		return false
	}
	return cache.DecodePayload(raw, v) == nil
}

func (f *fakeCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disabled {
		return domain.ErrCacheUnavailable
	}
	raw, err := cache.EncodePayload(v)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	f.sets++
	return nil
}

func (f *fakeCache) Exists(_ context.Context, key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[key]
	return ok
}

// fakeLimiter returns scripted counts.
type fakeLimiter struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakeLimiter() *fakeLimiter {
	return &fakeLimiter{counts: make(map[string]int)}
}

func (f *fakeLimiter) RecordMiss(_ context.Context, clientID, lang string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[clientID+"/"+lang]++
	return f.counts[clientID+"/"+lang]
}

// fakeFetcher serves canned pages per (date, lang).
type fakeFetcher struct {
	mu      sync.Mutex
	page    string
	feed    string
	err     error
	fetches int
}

func (f *fakeFetcher) FetchReadingsPage(_ context.Context, _ time.Time, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.err != nil {
		return "", f.err
	}
	return f.page, nil
}

func (f *fakeFetcher) FetchOfficeFeed(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.err != nil {
		return "", f.err
	}
	return f.feed, nil
}

func (f *fakeFetcher) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

// fakeArchive is an in-memory ReadingsArchive.
type fakeArchive struct {
	mu      sync.Mutex
	entries map[string]*domain.DailyReadings
	findErr error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{entries: make(map[string]*domain.DailyReadings)}
}

func (f *fakeArchive) Upsert(_ context.Context, r *domain.DailyReadings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *r
	f.entries[r.Date+"/"+r.Language] = &copied
	return nil
}

func (f *fakeArchive) Find(_ context.Context, date, lang string) (*domain.DailyReadings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	r, ok := f.entries[date+"/"+lang]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeArchive) Exists(_ context.Context, date, lang string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.entries[date+"/"+lang]
	return ok, nil
}

var errBoom = errors.New("boom")
