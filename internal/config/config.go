package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// PricingInfo holds cost details per token for a specific model.
type PricingInfo struct {
	InputPerToken  float64 `mapstructure:"input_per_token"`
	OutputPerToken float64 `mapstructure:"output_per_token"`
}

type Config struct {
	Generation struct {
		Provider         string `mapstructure:"provider"` // "openai", "gemini", or "fake"
		OpenaiApiKey     string `mapstructure:"openai_api_key"`
		OpenaiModel      string `mapstructure:"openai_model"`
		GoogleApiKey     string `mapstructure:"google_api_key"`
		GeminiModel      string `mapstructure:"gemini_model"`
		TimeoutSeconds   int    `mapstructure:"timeout_seconds"`
		MaxAttempts      int    `mapstructure:"max_attempts"`
		RetryBaseDelayMs int    `mapstructure:"retry_base_delay_ms"`
	} `mapstructure:"generation"`

	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Worker struct {
		Concurrency int            `mapstructure:"concurrency"`
		Queues      map[string]int `mapstructure:"queues"`
	} `mapstructure:"worker"`

	// Pricing: map[provider][model] = per-token rates, used by the usage tracker.
	Pricing map[string]map[string]PricingInfo `mapstructure:"pricing"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("generation.provider", "openai")
	viper.SetDefault("generation.openai_model", "gpt-4o-mini")
	viper.SetDefault("generation.gemini_model", "gemini-1.5-flash")
	viper.SetDefault("generation.timeout_seconds", 30)
	viper.SetDefault("generation.max_attempts", 2)
	viper.SetDefault("generation.retry_base_delay_ms", 200)
	viper.SetDefault("worker.concurrency", 5)

	viper.AutomaticEnv()
	// API keys are usually set through the environment rather than config.yaml.
	viper.BindEnv("generation.openai_api_key", "OPENAI_API_KEY")
	viper.BindEnv("generation.google_api_key", "GEMINI_API_KEY")

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine; defaults and env vars cover it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
