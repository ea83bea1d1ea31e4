package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadConfig builds the configuration from defaults and overrides provided via environment variables.
func LoadConfig() (*Config, error) {
	config := defaultConfig()

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func loadFromEnv(config *Config) error {
	if err := loadServerConfig(&config.Server); err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}

	if err := loadOriginConfig(&config.Origin); err != nil {
		return fmt.Errorf("failed to load origin config: %w", err)
	}

	if err := loadCacheConfig(&config.Cache); err != nil {
		return fmt.Errorf("failed to load cache config: %w", err)
	}

	if err := loadRateLimitConfig(&config.RateLimit); err != nil {
		return fmt.Errorf("failed to load rate limit config: %w", err)
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		config.Database.URL = url
	}

	if err := loadPrefetchConfig(&config.Prefetch); err != nil {
		return fmt.Errorf("failed to load prefetch config: %w", err)
	}

	return nil
}

func loadServerConfig(cfg *ServerConfig) error {
	var err error

	if cfg.Port, err = parseIntEnv("SERVER_PORT", cfg.Port); err != nil {
		return err
	}

	if cfg.ShutdownTimeout, err = parseDurationEnv("SERVER_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return err
	}

	if cfg.ReadTimeout, err = parseDurationEnv("SERVER_READ_TIMEOUT", cfg.ReadTimeout); err != nil {
		return err
	}

	if cfg.WriteTimeout, err = parseDurationEnv("SERVER_WRITE_TIMEOUT", cfg.WriteTimeout); err != nil {
		return err
	}

	return nil
}

func loadOriginConfig(cfg *OriginConfig) error {
	var err error

	if url := os.Getenv("ORIGIN_READINGS_URL"); url != "" {
		cfg.ReadingsURL = url
	}

	if url := os.Getenv("ORIGIN_OFFICE_FEED_URL"); url != "" {
		cfg.OfficeFeedURL = url
	}

	if cfg.MinInterval, err = parseDurationEnv("ORIGIN_MIN_INTERVAL", cfg.MinInterval); err != nil {
		return err
	}

	if cfg.Timeout, err = parseDurationEnv("ORIGIN_TIMEOUT", cfg.Timeout); err != nil {
		return err
	}

	if cfg.MaxRetries, err = parseIntEnv("ORIGIN_MAX_RETRIES", cfg.MaxRetries); err != nil {
		return err
	}

	if agent := os.Getenv("ORIGIN_USER_AGENT"); agent != "" {
		cfg.UserAgent = agent
	}

	return nil
}

func loadCacheConfig(cfg *CacheConfig) error {
	var err error

	if url := os.Getenv("CACHE_REDIS_URL"); url != "" {
		cfg.RedisURL = url
	}

	if cfg.ContentTTL, err = parseDurationEnv("CACHE_CONTENT_TTL", cfg.ContentTTL); err != nil {
		return err
	}

	if cfg.FallbackTTL, err = parseDurationEnv("CACHE_FALLBACK_TTL", cfg.FallbackTTL); err != nil {
		return err
	}

	return nil
}

func loadRateLimitConfig(cfg *RateLimitConfig) error {
	var err error

	if cfg.MissThreshold, err = parseIntEnv("RATE_LIMIT_MISS_THRESHOLD", cfg.MissThreshold); err != nil {
		return err
	}

	return nil
}

func loadPrefetchConfig(cfg *PrefetchConfig) error {
	var err error

	if cfg.Days, err = parseIntEnv("PREFETCH_DAYS", cfg.Days); err != nil {
		return err
	}

	if langs := os.Getenv("PREFETCH_LANGUAGES"); langs != "" {
		cfg.Languages = splitList(langs)
	}

	if cfg.Concurrency, err = parseIntEnv("PREFETCH_CONCURRENCY", cfg.Concurrency); err != nil {
		return err
	}

	if secret := os.Getenv("PREFETCH_SCHEDULER_SECRET"); secret != "" {
		cfg.SchedulerSecret = secret
	}

	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return d, nil
	}
	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		return i, nil
	}
	return defaultValue, nil
}
