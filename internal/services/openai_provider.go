package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"modgate/internal/config"
	"modgate/internal/models"
	"modgate/internal/usagetracker"

	"github.com/sashabaranov/go-openai"
	log "github.com/sirupsen/logrus"
)

// OpenAIProvider implements CompletionService using the OpenAI chat API.
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	tracker usagetracker.Tracker
	pricing map[string]config.PricingInfo
}

// NewOpenAIProvider creates a new OpenAI completion provider.
func NewOpenAIProvider(apiKey, model string, tracker usagetracker.Tracker, pricing map[string]config.PricingInfo) (*OpenAIProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		log.Warn("OpenAI API key not provided. OpenAI provider will be disabled.")
		return &OpenAIProvider{client: nil}, nil
	}
	if tracker == nil {
		tracker = usagetracker.Noop()
	}

	log.Infof("OpenAI provider initialized with model %s", model)
	return &OpenAIProvider{
		client:  openai.NewClient(apiKey),
		model:   model,
		tracker: tracker,
		pricing: pricing,
	}, nil
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string { return "openai" }

// ModelName returns the specific model identifier.
func (p *OpenAIProvider) ModelName() string { return p.model }

func (p *OpenAIProvider) GenerateChatCompletion(ctx context.Context, messages []ChatMessage) (string, error) {
	if p.client == nil {
		return "", models.ErrProviderDisabled
	}

	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0,
		Messages:    make([]openai.ChatCompletionMessage, len(messages)),
	}
	for i, m := range messages {
		req.Messages[i] = openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error generating completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("OpenAI API returned no choices")
	}

	p.recordUsage(ctx, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) recordUsage(ctx context.Context, inputTokens, outputTokens int) {
	if inputTokens == 0 && outputTokens == 0 {
		return
	}
	var cost float64
	if priceInfo, ok := p.pricing[p.model]; ok {
		cost = float64(inputTokens)*priceInfo.InputPerToken + float64(outputTokens)*priceInfo.OutputPerToken
	} else {
		log.Warnf("Pricing info not found for model '%s'. Recording usage with zero cost.", p.model)
	}
	event := usagetracker.Event{
		Timestamp:    time.Now(),
		Provider:     p.Name(),
		Model:        p.model,
		Operation:    "moderation",
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		CostUSD:      cost,
	}
	if err := p.tracker.Record(ctx, event); err != nil {
		log.Errorf("Failed to record generation usage: %v", err)
	} else {
		log.Debugf("Recorded generation usage: Provider=%s, Model=%s, InputTokens=%d, OutputTokens=%d, Cost=%.8f",
			event.Provider, event.Model, event.InputTokens, event.OutputTokens, event.CostUSD)
	}
}

// Status returns the operational status of the provider.
func (p *OpenAIProvider) Status() ProviderStatus {
	if p.client == nil {
		return ProviderStatusDisabled
	}
	return ProviderStatusActive
}

var _ CompletionService = (*OpenAIProvider)(nil)
