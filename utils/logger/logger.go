// ABOUTME: slog-based JSON logger shared by every component
// ABOUTME: Context carries the request id so handler logs stay correlated
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

// RequestIDKey carries the per-request id through context.
const RequestIDKey contextKey = "request_id"

// Config controls log output.
type Config struct {
	Level  string
	Format string
}

// LoadConfigFromEnv reads LOG_LEVEL and LOG_FORMAT with sensible defaults.
func LoadConfigFromEnv() Config {
	cfg := Config{Level: "info", Format: "json"}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Level = strings.ToLower(v)
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Format = strings.ToLower(v)
	}
	return cfg
}

// New builds the service logger: JSON by default, lowercase level names,
// preconfigured with the service attribute.
func New(serviceName string, cfg Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	options := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if l, ok := a.Value.Any().(slog.Level); ok {
					return slog.Attr{Key: slog.LevelKey, Value: slog.StringValue(strings.ToLower(l.String()))}
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, options)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, options)
	}

	return slog.New(handler).With("service", serviceName)
}

// WithRequestID stores a request id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// FromContext returns base enriched with any context fields present.
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		return base.With("request_id", requestID)
	}
	return base
}
