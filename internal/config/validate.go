package config

import (
	"errors"
	"fmt"
)

func (c *Config) Validate() error {
	switch c.Generation.Provider {
	case "openai":
		if c.Generation.OpenaiApiKey == "" {
			return errors.New("generation.openai_api_key (or OPENAI_API_KEY) is required when generation.provider is openai")
		}
	case "gemini":
		if c.Generation.GoogleApiKey == "" {
			return errors.New("generation.google_api_key (or GEMINI_API_KEY) is required when generation.provider is gemini")
		}
	case "fake":
		// No credentials; only useful for local development and tests.
	default:
		return fmt.Errorf("unknown generation.provider %q (expected openai, gemini, or fake)", c.Generation.Provider)
	}

	if c.Generation.TimeoutSeconds <= 0 {
		return errors.New("generation.timeout_seconds must be a positive integer")
	}
	if c.Generation.MaxAttempts < 1 {
		return errors.New("generation.max_attempts must be at least 1")
	}
	if c.Generation.RetryBaseDelayMs < 0 {
		return errors.New("generation.retry_base_delay_ms must not be negative")
	}

	// Redis is optional; batch moderation is disabled without it. When it is
	// configured the worker settings must be sane.
	if c.Redis.Address != "" && c.Worker.Concurrency <= 0 {
		return errors.New("worker.concurrency must be positive when redis.address is set")
	}
	return nil
}
