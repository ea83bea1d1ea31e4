// ABOUTME: This file defines the service configuration with environment variable support
// ABOUTME: Provides per-section defaults suitable for local development
package config

import (
	"time"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Origin    OriginConfig    `json:"origin"`
	Cache     CacheConfig     `json:"cache"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Database  DatabaseConfig  `json:"database"`
	Prefetch  PrefetchConfig  `json:"prefetch"`
}

type ServerConfig struct {
	Port            int           `json:"port" env:"SERVER_PORT" default:"9400"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	ReadTimeout     time.Duration `json:"read_timeout" env:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `json:"write_timeout" env:"SERVER_WRITE_TIMEOUT" default:"30s"`
}

type OriginConfig struct {
	// ReadingsURL is a format string taking the language path segment and
	// the provider's MMDDYY date token.
	ReadingsURL   string        `json:"readings_url" env:"ORIGIN_READINGS_URL" default:"https://bible.usccb.org/bible/%s/%s.cfm"`
	OfficeFeedURL string        `json:"office_feed_url" env:"ORIGIN_OFFICE_FEED_URL" default:"https://www.ibreviary.com/m2/breviario.php?s=lodi&rss=1"`
	MinInterval   time.Duration `json:"min_interval" env:"ORIGIN_MIN_INTERVAL" default:"5s"`
	Timeout       time.Duration `json:"timeout" env:"ORIGIN_TIMEOUT" default:"30s"`
	MaxRetries    int           `json:"max_retries" env:"ORIGIN_MAX_RETRIES" default:"3"`
	UserAgent     string        `json:"user_agent" env:"ORIGIN_USER_AGENT" default:"lectio/1.0 (+https://lectio.example.com)"`
}

type CacheConfig struct {
	RedisURL    string        `json:"redis_url" env:"CACHE_REDIS_URL" default:"redis://localhost:6379/0"`
	ContentTTL  time.Duration `json:"content_ttl" env:"CACHE_CONTENT_TTL" default:"168h"`
	FallbackTTL time.Duration `json:"fallback_ttl" env:"CACHE_FALLBACK_TTL" default:"5m"`
}

type RateLimitConfig struct {
	// MissThreshold is the per-client per-language daily budget of cache
	// misses that reach the origin.
	MissThreshold int `json:"miss_threshold" env:"RATE_LIMIT_MISS_THRESHOLD" default:"7"`
}

type DatabaseConfig struct {
	// URL enables the Postgres readings archive; empty disables it.
	URL string `json:"url" env:"DATABASE_URL" default:""`
}

type PrefetchConfig struct {
	// Days counts days ahead of today to warm, today included.
	Days        int      `json:"days" env:"PREFETCH_DAYS" default:"3"`
	Languages   []string `json:"languages" env:"PREFETCH_LANGUAGES" default:"en,es"`
	Concurrency int      `json:"concurrency" env:"PREFETCH_CONCURRENCY" default:"2"`
	// SchedulerSecret authorizes the prefetch endpoint; empty disables it.
	SchedulerSecret string `json:"-" env:"PREFETCH_SCHEDULER_SECRET" default:""`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            9400,
			ShutdownTimeout: 30 * time.Second,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
		},
		Origin: OriginConfig{
			ReadingsURL:   "https://bible.usccb.org/bible/%s/%s.cfm",
			OfficeFeedURL: "https://www.ibreviary.com/m2/breviario.php?s=lodi&rss=1",
			MinInterval:   5 * time.Second,
			Timeout:       30 * time.Second,
			MaxRetries:    3,
			UserAgent:     "lectio/1.0 (+https://lectio.example.com)",
		},
		Cache: CacheConfig{
			RedisURL:    "redis://localhost:6379/0",
			ContentTTL:  7 * 24 * time.Hour,
			FallbackTTL: 5 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			MissThreshold: 7,
		},
		Database: DatabaseConfig{},
		Prefetch: PrefetchConfig{
			Days:        3,
			Languages:   []string{"en", "es"},
			Concurrency: 2,
		},
	}
}

// DayOffsets expands Days into offsets from today for the warmer.
func (p PrefetchConfig) DayOffsets() []int {
	offsets := make([]int, p.Days)
	for i := range offsets {
		offsets[i] = i
	}
	return offsets
}
