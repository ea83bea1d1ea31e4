package origin

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
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

func testConfig(readingsURL, feedURL string) Config {
	return Config{
		ReadingsURL:   readingsURL,
		OfficeFeedURL: feedURL,
		MinInterval:   0,
		Timeout:       2 * time.Second,
		MaxRetries:    1,
		UserAgent:     "lectio-test/1.0",
	}
}

func TestFetchReadingsPage(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte("<html>listing</html>"))
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL+"/bible/%s/%s.cfm", srv.URL+"/feed"), testLogger())

	date := time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local)
	body, err := f.FetchReadingsPage(context.Background(), date, "en")
	require.NoError(t, err)
	assert.Equal(t, "<html>listing</html>", body)
	assert.Equal(t, "/bible/readings/030926.cfm", gotPath)

	_, err = f.FetchReadingsPage(context.Background(), date, "es")
	require.NoError(t, err)
	assert.Equal(t, "/bible/lecturas/030926.cfm", gotPath)
}

func TestFetchReadingsPageUnsupportedLanguage(t *testing.T) {
	f := NewFetcher(testConfig("http://unused/%s/%s", "http://unused"), testLogger())
	_, err := f.FetchReadingsPage(context.Background(), time.Now(), "fr")
	assert.ErrorIs(t, err, domain.ErrUnsupportedLanguage)
}

func TestFetchOriginUnavailableOn404(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL+"/%s/%s", srv.URL), testLogger())
	_, err := f.FetchOfficeFeed(context.Background())
	assert.ErrorIs(t, err, domain.ErrOriginUnavailable)
	// 4xx is not retryable.
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchRetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	f := NewFetcher(testConfig(srv.URL+"/%s/%s", srv.URL), testLogger())
	body, err := f.FetchOfficeFeed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "recovered", body)
	assert.Equal(t, int32(2), calls.Load())
}
