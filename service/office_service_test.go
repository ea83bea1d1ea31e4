package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lectio/domain"
)

const officeFeedFixture = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Morning Prayer</title>
<item>
  <title>Invitatory</title>
  <link>https://example.org/invitatory</link>
  <description><![CDATA[
    <p>Lord, open my lips.</p>
    <p>℟. And my mouth will proclaim your praise.</p>
  ]]></description>
</item>
</channel></rss>`

func testOfficeConfig() OfficeConfig {
	return OfficeConfig{
		ContentTTL:    24 * time.Hour,
		FallbackTTL:   5 * time.Minute,
		MissThreshold: 7,
	}
}

func TestOfficeGet_FetchThenHit(t *testing.T) {
	cacheStore := newFakeCache()
	fetcher := &fakeFetcher{feed: officeFeedFixture}
	svc := NewOfficeService(cacheStore, newFakeLimiter(), fetcher, testOfficeConfig(), testLogger())

	ctx := context.Background()
	first := svc.Get(ctx, "client-a")
	assert.Equal(t, domain.CacheFetch, first.CacheState)
	require.Len(t, first.Parts, 1)
	assert.Equal(t, "Invitatory", first.Parts[0].Title)

	second := svc.Get(ctx, "client-a")
	assert.Equal(t, domain.CacheHit, second.CacheState)
	assert.Equal(t, first.Parts, second.Parts)
	assert.Equal(t, 1, fetcher.fetchCount())
}

func TestOfficeGet_FallbackOnFetchFailure(t *testing.T) {
	cacheStore := newFakeCache()
	fetcher := &fakeFetcher{err: errBoom}
	svc := NewOfficeService(cacheStore, newFakeLimiter(), fetcher, testOfficeConfig(), testLogger())

	got := svc.Get(context.Background(), "client-a")
	assert.Equal(t, domain.CacheError, got.CacheState)
	assert.NotEmpty(t, got.Error)
	require.Len(t, got.Parts, 1)
}

func TestOfficeGet_RateLimitedServesFallbackWithoutFetching(t *testing.T) {
	cacheStore := newFakeCache()
	limiter := newFakeLimiter()
	limiter.counts["client-a/office"] = 7
	fetcher := &fakeFetcher{feed: officeFeedFixture}
	svc := NewOfficeService(cacheStore, limiter, fetcher, testOfficeConfig(), testLogger())

	got := svc.Get(context.Background(), "client-a")
	assert.Equal(t, domain.CacheRateLimit, got.CacheState)
	assert.Equal(t, 0, fetcher.fetchCount())
	// The rate-limited path never touches the shared cache.
	assert.Equal(t, 0, cacheStore.sets)
}
