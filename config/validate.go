package config

import (
	"fmt"
	"strings"
)

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Origin.ReadingsURL == "" {
		return fmt.Errorf("origin readings URL cannot be empty")
	}

	if strings.Count(config.Origin.ReadingsURL, "%s") != 2 {
		return fmt.Errorf("origin readings URL must contain two %%s placeholders: %s", config.Origin.ReadingsURL)
	}

	if config.Origin.OfficeFeedURL == "" {
		return fmt.Errorf("origin office feed URL cannot be empty")
	}

	if config.Origin.MinInterval <= 0 {
		return fmt.Errorf("origin min interval must be positive: %v", config.Origin.MinInterval)
	}

	if config.Origin.Timeout <= 0 {
		return fmt.Errorf("origin timeout must be positive: %v", config.Origin.Timeout)
	}

	if config.Origin.MaxRetries < 0 {
		return fmt.Errorf("origin max retries must be non-negative: %d", config.Origin.MaxRetries)
	}

	if config.Cache.ContentTTL <= 0 {
		return fmt.Errorf("cache content TTL must be positive: %v", config.Cache.ContentTTL)
	}

	if config.Cache.FallbackTTL <= 0 {
		return fmt.Errorf("cache fallback TTL must be positive: %v", config.Cache.FallbackTTL)
	}

	if config.RateLimit.MissThreshold <= 0 {
		return fmt.Errorf("rate limit miss threshold must be positive: %d", config.RateLimit.MissThreshold)
	}

	if config.Prefetch.Days <= 0 {
		return fmt.Errorf("prefetch days must be positive: %d", config.Prefetch.Days)
	}

	if len(config.Prefetch.Languages) == 0 {
		return fmt.Errorf("prefetch languages cannot be empty")
	}

	for i, lang := range config.Prefetch.Languages {
		if strings.TrimSpace(lang) == "" {
			return fmt.Errorf("prefetch language at index %d cannot be empty", i)
		}
	}

	if config.Prefetch.Concurrency <= 0 {
		return fmt.Errorf("prefetch concurrency must be positive: %d", config.Prefetch.Concurrency)
	}

	return nil
}
