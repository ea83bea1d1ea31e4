package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lectio/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func sampleReadings() domain.DailyReadings {
	return domain.DailyReadings{
		Date:            "2026-03-09",
		Language:        "en",
		Season:          "Lent",
		LiturgicalColor: domain.ColorViolet,
		Readings: []domain.Reading{
			{Citation: "Ps 42:2-3", Label: "Responsorial Psalm", Content: "Athirst is my soul.", Type: domain.ReadingPsalm},
			{Citation: "Lk 4:24-30", Label: "Gospel", Content: "Jesus said to the people.", Type: domain.ReadingGospel},
		},
		FetchedAt: time.Date(2026, 3, 9, 6, 0, 0, 0, time.UTC),
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "lectio:readings:en:2026-03-09", Key("readings", "en", "2026-03-09"))
}

func TestEncodeDecodePayloadRoundTrip(t *testing.T) {
	in := sampleReadings()

	payload, err := EncodePayload(in)
	require.NoError(t, err)

	// Stored form is compressed.
	assert.True(t, isGzip(payload))

	var out domain.DailyReadings
	require.NoError(t, DecodePayload(payload, &out))
	assert.Equal(t, in, out)
}

func TestDecodePayloadLegacyPlainJSON(t *testing.T) {
	// Entries written before compression was introduced are plain JSON.
	in := sampleReadings()
	raw, err := json.Marshal(in)
	require.NoError(t, err)

	var out domain.DailyReadings
	require.NoError(t, DecodePayload(raw, &out))
	assert.Equal(t, in, out)
}

func TestDecodePayloadGarbage(t *testing.T) {
	var out domain.DailyReadings
	assert.Error(t, DecodePayload([]byte("\x1f\x8bnot really gzip"), &out))
	assert.Error(t, DecodePayload([]byte("not json either"), &out))
}

func TestStoreDegradesWithoutBackend(t *testing.T) {
	// An invalid URL must yield a working no-op store, never a failure.
	store := New("::bad-url::", testLogger())

	ctx := context.Background()
	_, ok := store.Get(ctx, "lectio:readings:en:2026-03-09")
	assert.False(t, ok)

	err := store.Set(ctx, "lectio:readings:en:2026-03-09", []byte("{}"), time.Hour)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	assert.False(t, store.Exists(ctx, "anything"))
	assert.Nil(t, store.Client())
	assert.NoError(t, store.Close())
}

func TestStoreUnreachableBackendDegrades(t *testing.T) {
	// Valid URL, nothing listening: the lazy probe must settle on degraded
	// mode instead of erroring per call.
	store := New("redis://127.0.0.1:1/0", testLogger())

	ctx := context.Background()
	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)

	var v domain.DailyReadings
	assert.False(t, store.GetJSON(ctx, "k", &v))
	assert.ErrorIs(t, store.SetJSON(ctx, "k", v, time.Hour), domain.ErrCacheUnavailable)
}
