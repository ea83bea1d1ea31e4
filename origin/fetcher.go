// ABOUTME: Polite HTTP fetcher for the rate-sensitive content provider
// ABOUTME: Enforces a minimum request interval with jitter and bounded retries
package origin

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"sync"
	"time"

	"lectio/domain"
	"lectio/retry"
)

// Config holds the provider endpoints and politeness settings.
type Config struct {
	// ReadingsURL is a format string taking the provider date token and the
	// language path segment, e.g. "https://provider.example/%s/%s.cfm".
	ReadingsURL string
	// OfficeFeedURL is the RSS-like feed carrying the daily office.
	OfficeFeedURL string
	// MinInterval is the minimum spacing between origin requests.
	MinInterval time.Duration
	// Timeout bounds a single origin round trip.
	Timeout time.Duration
	// MaxRetries caps retry attempts on transport errors and 5xx responses.
	MaxRetries int
	// UserAgent identifies this service to the provider.
	UserAgent string
}

// langPathSegments maps a served language to the provider's path segment.
var langPathSegments = map[string]string{
	"en": "readings",
	"es": "lecturas",
}

// Fetcher retrieves provider pages with a minimum interval between requests
// so client traffic can never turn into an origin flood.
type Fetcher struct {
	cfg     Config
	client  *http.Client
	retrier *retry.Retrier
	logger  *slog.Logger

	mu          sync.Mutex
	lastRequest time.Time
}

// permanentError marks failures no retry can fix (4xx responses).
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var perm *permanentError
	return !errors.As(err, &perm)
}

// NewFetcher creates a Fetcher with conservative transport limits.
func NewFetcher(cfg Config, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		cfg: cfg,
		retrier: retry.New(retry.Config{
			MaxAttempts:   cfg.MaxRetries + 1,
			BaseDelay:     500 * time.Millisecond,
			MaxDelay:      30 * time.Second,
			BackoffFactor: 2.0,
			JitterFactor:  0.2,
		}, isRetryable, logger),
		logger: logger,
		client: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 10 * time.Second,
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   2,
			},
		},
	}
}

// FetchReadingsPage fetches the raw daily listing markup for a date and
// language. Network failures and non-2xx statuses surface as
// domain.ErrOriginUnavailable.
func (f *Fetcher) FetchReadingsPage(ctx context.Context, date time.Time, lang string) (string, error) {
	segment, ok := langPathSegments[lang]
	if !ok {
		return "", domain.ErrUnsupportedLanguage
	}
	url := fmt.Sprintf(f.cfg.ReadingsURL, segment, domain.ProviderToken(date))
	return f.get(ctx, url)
}

// FetchOfficeFeed fetches the raw office feed XML.
func (f *Fetcher) FetchOfficeFeed(ctx context.Context) (string, error) {
	return f.get(ctx, f.cfg.OfficeFeedURL)
}

func (f *Fetcher) get(ctx context.Context, url string) (string, error) {
	var body string
	err := f.retrier.Do(ctx, func() error {
		b, err := f.getOnce(ctx, url)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrOriginUnavailable, err)
	}
	return body, nil
}

func (f *Fetcher) getOnce(ctx context.Context, url string) (string, error) {
	f.waitInterval()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &permanentError{err: fmt.Errorf("request creation failed: %w", err)}
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("origin returned %d", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return "", &permanentError{err: fmt.Errorf("origin returned %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading origin response: %w", err)
	}
	return string(body), nil
}

// waitInterval spaces requests at least MinInterval apart, plus up to +20%
// jitter to avoid a thundering herd against the provider.
func (f *Fetcher) waitInterval() {
	f.mu.Lock()
	defer f.mu.Unlock()

	wait := f.cfg.MinInterval + time.Duration(randomFraction(0.2)*float64(f.cfg.MinInterval))
	if elapsed := time.Since(f.lastRequest); elapsed < wait {
		time.Sleep(wait - elapsed)
	}
	f.lastRequest = time.Now()
}

// randomFraction returns a random float64 in [0, max). It uses crypto/rand;
// if randomness fails, 0 is returned.
func randomFraction(max float64) float64 {
	const precision = 1_000_000
	n, err := crand.Int(crand.Reader, big.NewInt(precision))
	if err != nil {
		return 0
	}
	return (float64(n.Int64()) / precision) * max
}
