package retry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(maxAttempts int) Config {
	return Config{
		MaxAttempts:   maxAttempts,
		BaseDelay:     time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
		JitterFactor:  0.1,
	}
}

func neverRetryable(error) bool { return false }

func TestRetrier_Do(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("should succeed on first attempt", func(t *testing.T) {
		r := New(fastConfig(3), func(error) bool { return true }, logger)

		calls := 0
		err := r.Do(context.Background(), func() error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("should retry transient failures until success", func(t *testing.T) {
		r := New(fastConfig(5), func(error) bool { return true }, logger)

		calls := 0
		err := r.Do(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("should stop immediately on non-retryable errors", func(t *testing.T) {
		r := New(fastConfig(5), neverRetryable, logger)

		calls := 0
		err := r.Do(context.Background(), func() error {
			calls++
			return errors.New("permanent")
		})

		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("should exhaust the attempt budget", func(t *testing.T) {
		r := New(fastConfig(3), func(error) bool { return true }, logger)

		calls := 0
		boom := errors.New("still down")
		err := r.Do(context.Background(), func() error {
			calls++
			return boom
		})

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 3, calls)
	})

	t.Run("should stop when the context is cancelled during backoff", func(t *testing.T) {
		r := New(Config{
			MaxAttempts:   10,
			BaseDelay:     time.Hour,
			MaxDelay:      time.Hour,
			BackoffFactor: 2.0,
		}, func(error) bool { return true }, logger)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()

		err := r.Do(ctx, func() error { return errors.New("down") })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCalculateDelay_CapsAtMax(t *testing.T) {
	r := New(Config{
		MaxAttempts:   10,
		BaseDelay:     time.Second,
		MaxDelay:      4 * time.Second,
		BackoffFactor: 2.0,
	}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	delay := r.calculateDelay(8)
	assert.LessOrEqual(t, delay, 4*time.Second)
}
