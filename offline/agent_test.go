// ABOUTME: Tests for the offline agent's per-path caching policies
package offline

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedTransport struct {
	calls int
	body  string
	code  int
	err   error
}

func (s *scriptedTransport) RoundTrip(*http.Request) (*http.Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	code := s.code
	if code == 0 {
		code = http.StatusOK
	}
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(s.body))),
	}, nil
}

func newTestAgent(transport http.RoundTripper, store BucketStore) *Agent {
	return NewAgent(transport, store, Config{Version: "v1"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func getRequest(t *testing.T, url string, headers map[string]string) *http.Request {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return string(body)
}

func TestAgent_TimeBoxedReadings(t *testing.T) {
	t.Run("should serve from cache while younger than a day", func(t *testing.T) {
		transport := &scriptedTransport{body: `{"date":"2026-08-30"}`}
		agent := newTestAgent(transport, NewMemoryStore())

		req := getRequest(t, "https://lectio.example.com/api/v1/readings?date=2026-08-30", nil)

		first, err := agent.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, `{"date":"2026-08-30"}`, readBody(t, first))

		second, err := agent.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, `{"date":"2026-08-30"}`, readBody(t, second))
		assert.Equal(t, 1, transport.calls, "a fresh entry should not touch the network")
	})

	t.Run("should refresh past the age bound", func(t *testing.T) {
		transport := &scriptedTransport{body: `{"v":1}`}
		agent := newTestAgent(transport, NewMemoryStore())

		now := time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)
		agent.now = func() time.Time { return now }

		req := getRequest(t, "https://lectio.example.com/api/v1/readings?date=2026-08-30", nil)

		_, err := agent.RoundTrip(req)
		require.NoError(t, err)

		now = now.Add(25 * time.Hour)
		transport.body = `{"v":2}`

		resp, err := agent.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, `{"v":2}`, readBody(t, resp))
		assert.Equal(t, 2, transport.calls)
	})

	t.Run("should serve stale content when the network fails", func(t *testing.T) {
		transport := &scriptedTransport{body: `{"v":1}`}
		agent := newTestAgent(transport, NewMemoryStore())

		now := time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC)
		agent.now = func() time.Time { return now }

		req := getRequest(t, "https://lectio.example.com/api/v1/readings?date=2026-08-30", nil)

		_, err := agent.RoundTrip(req)
		require.NoError(t, err)

		// Well past the age bound, with the network down.
		now = now.Add(72 * time.Hour)
		transport.err = errors.New("dial tcp: network is unreachable")

		resp, err := agent.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, `{"v":1}`, readBody(t, resp))
	})

	t.Run("should propagate failure when nothing is cached", func(t *testing.T) {
		transport := &scriptedTransport{err: errors.New("offline")}
		agent := newTestAgent(transport, NewMemoryStore())

		req := getRequest(t, "https://lectio.example.com/api/v1/readings?date=2026-08-30", nil)

		_, err := agent.RoundTrip(req)
		assert.Error(t, err)
	})
}

func TestAgent_NavigationNetworkFirst(t *testing.T) {
	navHeaders := map[string]string{"Accept": "text/html,application/xhtml+xml"}

	t.Run("should prefer the network when it works", func(t *testing.T) {
		transport := &scriptedTransport{body: "<html>fresh</html>"}
		agent := newTestAgent(transport, NewMemoryStore())

		req := getRequest(t, "https://lectio.example.com/prayers", navHeaders)

		resp, err := agent.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, "<html>fresh</html>", readBody(t, resp))
		assert.Equal(t, 1, transport.calls)
	})

	t.Run("should fall back to the cached page when offline", func(t *testing.T) {
		transport := &scriptedTransport{body: "<html>prayers</html>"}
		agent := newTestAgent(transport, NewMemoryStore())

		req := getRequest(t, "https://lectio.example.com/prayers", navHeaders)

		_, err := agent.RoundTrip(req)
		require.NoError(t, err)

		transport.err = errors.New("offline")

		resp, err := agent.RoundTrip(req)
		require.NoError(t, err)
		assert.Equal(t, "<html>prayers</html>", readBody(t, resp))
	})

	t.Run("should fall back to the root shell for an uncached page", func(t *testing.T) {
		transport := &scriptedTransport{body: "<html>shell</html>"}
		agent := newTestAgent(transport, NewMemoryStore())

		// Cache the root shell first.
		_, err := agent.RoundTrip(getRequest(t, "https://lectio.example.com/", navHeaders))
		require.NoError(t, err)

		transport.err = errors.New("offline")

		resp, err := agent.RoundTrip(getRequest(t, "https://lectio.example.com/never-visited", navHeaders))
		require.NoError(t, err)
		assert.Equal(t, "<html>shell</html>", readBody(t, resp))
	})
}

func TestAgent_AssetsCacheFirst(t *testing.T) {
	transport := &scriptedTransport{body: "body { margin: 0 }"}
	agent := newTestAgent(transport, NewMemoryStore())

	req := getRequest(t, "https://lectio.example.com/static/app.css", nil)

	_, err := agent.RoundTrip(req)
	require.NoError(t, err)

	resp, err := agent.RoundTrip(req)
	require.NoError(t, err)
	assert.Equal(t, "body { margin: 0 }", readBody(t, resp))
	assert.Equal(t, 1, transport.calls, "assets should be served from cache after the first fetch")
}

func TestAgent_Passthrough(t *testing.T) {
	t.Run("should never intercept non-GET requests", func(t *testing.T) {
		transport := &scriptedTransport{body: "ok"}
		store := NewMemoryStore()
		agent := newTestAgent(transport, store)

		req, err := http.NewRequest(http.MethodPost, "https://lectio.example.com/api/v1/readings", nil)
		require.NoError(t, err)

		_, err = agent.RoundTrip(req)
		require.NoError(t, err)
		assert.Empty(t, store.Buckets())
	})

	t.Run("should never intercept build assets", func(t *testing.T) {
		transport := &scriptedTransport{body: "chunk"}
		store := NewMemoryStore()
		agent := newTestAgent(transport, store)

		for n := 0; n < 2; n++ {
			_, err := agent.RoundTrip(getRequest(t, "https://lectio.example.com/_build/chunk-abc123.js", nil))
			require.NoError(t, err)
		}

		assert.Equal(t, 2, transport.calls)
		assert.Empty(t, store.Buckets())
	})
}

func TestAgent_ActivateDropsOldVersions(t *testing.T) {
	store := NewMemoryStore()
	store.Put("assets-v0", "k", Entry{StatusCode: 200})
	store.Put("assets-v1", "k", Entry{StatusCode: 200})
	store.Put("readings-v0", "k", Entry{StatusCode: 200})

	agent := newTestAgent(&scriptedTransport{}, store)
	agent.Activate()

	assert.ElementsMatch(t, []string{"assets-v1"}, store.Buckets())
}
