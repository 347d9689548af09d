package app

import (
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"

	"modgate/internal/config"
	"modgate/internal/services"
	"modgate/internal/usagetracker"
)

// TaskRetention is how long finished batch tasks (and their verdicts) stay
// readable in redis. Queue bookkeeping only; moderation history is not kept.
const TaskRetention = 24 * time.Hour

type App struct {
	Config            *config.Config
	UsageTracker      usagetracker.Tracker
	CompletionService services.CompletionService
	ModerationService *services.ModerationService

	// JobClient and Inspector are nil when redis is not configured; batch
	// moderation is disabled in that case.
	JobClient *asynq.Client
	Inspector *asynq.Inspector
}

func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg, UsageTracker: usagetracker.New()}

	if err := app.initCompletionService(); err != nil {
		return nil, err
	}
	app.initModerationService()
	app.initJobClient()

	log.Debug("Application initialization complete.")
	return app, nil
}

func (a *App) initCompletionService() error {
	cfg := a.Config
	switch cfg.Generation.Provider {
	case "openai":
		provider, err := services.NewOpenAIProvider(
			cfg.Generation.OpenaiApiKey,
			cfg.Generation.OpenaiModel,
			a.UsageTracker,
			cfg.Pricing["openai"],
		)
		if err != nil {
			return fmt.Errorf("init OpenAI provider: %w", err)
		}
		a.CompletionService = provider
	case "gemini":
		provider, err := services.NewGeminiProvider(
			cfg.Generation.GoogleApiKey,
			cfg.Generation.GeminiModel,
			a.UsageTracker,
			cfg.Pricing["gemini"],
		)
		if err != nil {
			return fmt.Errorf("init Gemini provider: %w", err)
		}
		a.CompletionService = provider
	case "fake":
		log.Warn("Using the fake completion provider; verdicts from the generative stage are scripted.")
		a.CompletionService = services.NewFakeCompletionService()
	default:
		return fmt.Errorf("unknown generation provider: %s", cfg.Generation.Provider)
	}
	return nil
}

func (a *App) initModerationService() {
	cfg := a.Config
	retry := services.SimpleRetryStrategy{
		MaxAttempts: cfg.Generation.MaxAttempts,
		BaseDelayMs: int64(cfg.Generation.RetryBaseDelayMs),
	}
	timeout := time.Duration(cfg.Generation.TimeoutSeconds) * time.Second
	a.ModerationService = services.NewModerationService(a.CompletionService, timeout, retry)
}

func (a *App) initJobClient() {
	if a.Config.Redis.Address == "" {
		log.Debug("Redis not configured; batch moderation endpoints are disabled.")
		return
	}
	opt := a.RedisClientOpt()
	a.JobClient = asynq.NewClient(opt)
	a.Inspector = asynq.NewInspector(opt)
}

// RedisClientOpt builds the Asynq redis options from config. Shared by the
// serve-side client and the worker server.
func (a *App) RedisClientOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     a.Config.Redis.Address,
		Password: a.Config.Redis.Password,
		DB:       a.Config.Redis.DB,
	}
}

// Close releases provider and queue resources.
func (a *App) Close() {
	if a.JobClient != nil {
		if err := a.JobClient.Close(); err != nil {
			log.Warnf("Error closing job client: %v", err)
		}
	}
	if a.Inspector != nil {
		if err := a.Inspector.Close(); err != nil {
			log.Warnf("Error closing inspector: %v", err)
		}
	}
	if cs, ok := a.CompletionService.(interface{ Close() error }); ok && cs != nil {
		if err := cs.Close(); err != nil {
			log.Warnf("Error closing completion service: %v", err)
		}
	}
}
