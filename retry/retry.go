// ABOUTME: This file implements exponential backoff retry with jitter
// ABOUTME: Used for origin-facing calls where transient failures are expected
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"
)

type Config struct {
	MaxAttempts   int
	BaseDelay     time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
	JitterFactor  float64
}

// Classifier reports whether an error is worth another attempt.
type Classifier func(error) bool

type Retrier struct {
	config      Config
	isRetryable Classifier
	logger      *slog.Logger
}

func New(config Config, classifier Classifier, logger *slog.Logger) *Retrier {
	return &Retrier{
		config:      config,
		isRetryable: classifier,
		logger:      logger,
	}
}

// Do runs operation until it succeeds, a non-retryable error occurs, the
// attempt budget runs out, or ctx is cancelled during a backoff wait.
func (r *Retrier) Do(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				r.logger.Info("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		retryable := r.isRetryable != nil && r.isRetryable(lastErr)
		if attempt == r.config.MaxAttempts || !retryable {
			break
		}

		delay := r.calculateDelay(attempt)
		r.logger.Warn("operation attempt failed, backing off",
			"attempt", attempt,
			"error", lastErr,
			"retry_delay_ms", delay.Milliseconds())

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("operation failed after %d attempt(s): %w", r.config.MaxAttempts, lastErr)
}

func (r *Retrier) calculateDelay(attempt int) time.Duration {
	delay := float64(r.config.BaseDelay) * math.Pow(r.config.BackoffFactor, float64(attempt-1))

	if delay > float64(r.config.MaxDelay) {
		delay = float64(r.config.MaxDelay)
	}

	// Jitter spreads concurrent retries apart.
	jitter := 1.0 + (rand.Float64()-0.5)*r.config.JitterFactor
	delay *= jitter

	return time.Duration(delay)
}
