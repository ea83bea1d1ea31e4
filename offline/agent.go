// ABOUTME: Offline network cache agent implementing http.RoundTripper
// ABOUTME: Readings are time-boxed, navigations network-first, assets cache-first
package offline

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"
)

const (
	// readingsMaxAge bounds how long a cached readings payload is served
	// without consulting the network. Stale payloads are still served when
	// the network fails.
	readingsMaxAge = 24 * time.Hour

	readingsBucket = "readings"
	pagesBucket    = "pages"
	assetsBucket   = "assets"
)

// Config tunes the agent's path classification.
type Config struct {
	// Version tags every bucket; Activate drops buckets written by other
	// versions.
	Version string
	// ReadingsPrefix marks time-boxed content endpoints.
	ReadingsPrefix string
	// BuildAssetPrefix is never intercepted; the build pipeline owns its
	// own cache-busting there.
	BuildAssetPrefix string
	// RootPath is the navigation shell served when nothing closer is
	// cached.
	RootPath string
}

// Agent intercepts outgoing GET requests and answers from its bucket store
// when the policy for the path allows it.
type Agent struct {
	transport http.RoundTripper
	store     BucketStore
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time
}

// NewAgent creates an Agent wrapping transport. If transport is nil,
// http.DefaultTransport is used.
func NewAgent(transport http.RoundTripper, store BucketStore, cfg Config, logger *slog.Logger) *Agent {
	if transport == nil {
		transport = http.DefaultTransport
	}
	if cfg.ReadingsPrefix == "" {
		cfg.ReadingsPrefix = "/api/v1/readings"
	}
	if cfg.BuildAssetPrefix == "" {
		cfg.BuildAssetPrefix = "/_build/"
	}
	if cfg.RootPath == "" {
		cfg.RootPath = "/"
	}
	return &Agent{
		transport: transport,
		store:     store,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Activate drops buckets written by other versions. Call once before the
// agent starts serving.
func (a *Agent) Activate() {
	for _, bucket := range a.store.Buckets() {
		if !strings.HasSuffix(bucket, "-"+a.cfg.Version) {
			a.logger.Info("dropping stale cache bucket", "bucket", bucket)
			a.store.DropBucket(bucket)
		}
	}
}

func (a *Agent) bucket(name string) string {
	return name + "-" + a.cfg.Version
}

// RoundTrip implements http.RoundTripper.
func (a *Agent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return a.transport.RoundTrip(req)
	}

	reqPath := req.URL.Path
	if strings.HasPrefix(reqPath, a.cfg.BuildAssetPrefix) {
		return a.transport.RoundTrip(req)
	}

	switch {
	case strings.HasPrefix(reqPath, a.cfg.ReadingsPrefix):
		return a.serveTimeBoxed(req)
	case isNavigation(req):
		return a.serveNetworkFirst(req)
	default:
		return a.serveCacheFirst(req)
	}
}

// serveTimeBoxed answers readings requests from cache while the entry is
// younger than readingsMaxAge, refreshes over the network otherwise, and
// falls back to the stale entry when the network fails.
func (a *Agent) serveTimeBoxed(req *http.Request) (*http.Response, error) {
	bucket := a.bucket(readingsBucket)
	key := cacheKey(req)

	entry, cached := a.store.Get(bucket, key)
	if cached && a.now().Sub(entry.StoredAt) < readingsMaxAge {
		return synthesize(req, entry), nil
	}

	resp, err := a.fetchAndStore(req, bucket, key)
	if err != nil || resp.StatusCode >= http.StatusInternalServerError {
		if cached {
			a.logger.Warn("network refresh failed, serving stale readings",
				"key", key, "age", a.now().Sub(entry.StoredAt), "error", err)
			if resp != nil {
				resp.Body.Close()
			}
			return synthesize(req, entry), nil
		}
		return resp, err
	}
	return resp, nil
}

// serveNetworkFirst prefers fresh navigations and falls back to the cached
// page, then to the cached root shell.
func (a *Agent) serveNetworkFirst(req *http.Request) (*http.Response, error) {
	bucket := a.bucket(pagesBucket)
	key := cacheKey(req)

	resp, err := a.fetchAndStore(req, bucket, key)
	if err == nil && resp.StatusCode < http.StatusInternalServerError {
		return resp, nil
	}

	if entry, ok := a.store.Get(bucket, key); ok {
		if resp != nil {
			resp.Body.Close()
		}
		return synthesize(req, entry), nil
	}

	rootKey := req.URL.Scheme + "://" + req.URL.Host + a.cfg.RootPath
	if entry, ok := a.store.Get(bucket, rootKey); ok {
		if resp != nil {
			resp.Body.Close()
		}
		a.logger.Warn("serving root shell for uncached navigation", "path", req.URL.Path)
		return synthesize(req, entry), nil
	}

	return resp, err
}

// serveCacheFirst answers assets from cache forever; the version tag is the
// invalidation mechanism.
func (a *Agent) serveCacheFirst(req *http.Request) (*http.Response, error) {
	bucket := a.bucket(assetsBucket)
	key := cacheKey(req)

	if entry, ok := a.store.Get(bucket, key); ok {
		return synthesize(req, entry), nil
	}

	return a.fetchAndStore(req, bucket, key)
}

// fetchAndStore performs the network request and records successful
// responses. The response body is replayed so callers still read it intact.
func (a *Agent) fetchAndStore(req *http.Request, bucket, key string) (*http.Response, error) {
	resp, err := a.transport.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return resp, nil
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(body))

	a.store.Put(bucket, key, Entry{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       body,
		StoredAt:   a.now(),
	})

	return resp, nil
}

func cacheKey(req *http.Request) string {
	return req.URL.Scheme + "://" + req.URL.Host + req.URL.RequestURI()
}

// isNavigation reports whether the request looks like a page load: the
// client accepts HTML and the path carries no file extension.
func isNavigation(req *http.Request) bool {
	if !strings.Contains(req.Header.Get("Accept"), "text/html") {
		return false
	}
	return path.Ext(req.URL.Path) == ""
}

// synthesize builds a response from a cached entry.
func synthesize(req *http.Request, entry Entry) *http.Response {
	return &http.Response{
		StatusCode: entry.StatusCode,
		Status:     http.StatusText(entry.StatusCode),
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     entry.Header.Clone(),
		Body:       io.NopCloser(bytes.NewReader(entry.Body)),
		Request:    req,
	}
}
