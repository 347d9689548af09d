package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Generation.Provider = "openai"
	cfg.Generation.OpenaiApiKey = "sk-test"
	cfg.Generation.OpenaiModel = "gpt-4o-mini"
	cfg.Generation.TimeoutSeconds = 30
	cfg.Generation.MaxAttempts = 2
	cfg.Generation.RetryBaseDelayMs = 200
	return cfg
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_FakeProviderNeedsNoKey(t *testing.T) {
	cfg := validConfig()
	cfg.Generation.Provider = "fake"
	cfg.Generation.OpenaiApiKey = ""
	require.NoError(t, cfg.Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "openai without key",
			mutate:  func(c *Config) { c.Generation.OpenaiApiKey = "" },
			wantMsg: "openai_api_key",
		},
		{
			name: "gemini without key",
			mutate: func(c *Config) {
				c.Generation.Provider = "gemini"
				c.Generation.GoogleApiKey = ""
			},
			wantMsg: "google_api_key",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *Config) { c.Generation.Provider = "anthropic" },
			wantMsg: "unknown generation.provider",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.Generation.TimeoutSeconds = 0 },
			wantMsg: "timeout_seconds",
		},
		{
			name:    "zero attempts",
			mutate:  func(c *Config) { c.Generation.MaxAttempts = 0 },
			wantMsg: "max_attempts",
		},
		{
			name:    "negative retry delay",
			mutate:  func(c *Config) { c.Generation.RetryBaseDelayMs = -1 },
			wantMsg: "retry_base_delay_ms",
		},
		{
			name: "redis without worker concurrency",
			mutate: func(c *Config) {
				c.Redis.Address = "localhost:6379"
				c.Worker.Concurrency = 0
			},
			wantMsg: "worker.concurrency",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
