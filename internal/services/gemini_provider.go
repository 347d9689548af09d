package services

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"modgate/internal/config"
	"modgate/internal/models"
	"modgate/internal/usagetracker"

	"github.com/google/generative-ai-go/genai"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// GeminiProvider implements CompletionService using the Google Gemini API.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	tracker usagetracker.Tracker
	pricing map[string]config.PricingInfo
}

// NewGeminiProvider creates a new Gemini completion provider.
func NewGeminiProvider(apiKey, model string, tracker usagetracker.Tracker, pricing map[string]config.PricingInfo) (*GeminiProvider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		log.Warn("Gemini API key not provided. Gemini provider will be disabled.")
		return &GeminiProvider{client: nil}, nil
	}
	if tracker == nil {
		tracker = usagetracker.Noop()
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	log.Infof("Gemini provider initialized with model %s", model)
	return &GeminiProvider{
		client:  client,
		model:   model,
		tracker: tracker,
		pricing: pricing,
	}, nil
}

// Name returns the provider name.
func (p *GeminiProvider) Name() string { return "gemini" }

// ModelName returns the specific model identifier.
func (p *GeminiProvider) ModelName() string { return p.model }

func (p *GeminiProvider) GenerateChatCompletion(ctx context.Context, messages []ChatMessage) (string, error) {
	if p.client == nil {
		return "", models.ErrProviderDisabled
	}

	gm := p.client.GenerativeModel(p.model)
	gm.SetTemperature(0)

	// Gemini has no system role in contents; a leading system message becomes
	// the system instruction, the rest is joined as the user turn. A lone
	// system instruction still needs a non-empty user turn.
	var user []string
	for i, m := range messages {
		if i == 0 && m.Role == ChatMessageRoleSystem {
			gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(m.Content)}}
			continue
		}
		user = append(user, m.Content)
	}
	input := strings.Join(user, "\n")
	if input == "" {
		input = "Respond to the instruction above."
	}

	resp, err := gm.GenerateContent(ctx, genai.Text(input))
	if err != nil {
		return "", fmt.Errorf("Gemini API error generating completion: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("Gemini API returned no candidates")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if resp.UsageMetadata != nil {
		p.recordUsage(ctx, int(resp.UsageMetadata.PromptTokenCount), int(resp.UsageMetadata.CandidatesTokenCount))
	}
	return b.String(), nil
}

func (p *GeminiProvider) recordUsage(ctx context.Context, inputTokens, outputTokens int) {
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
	}
}

// Status returns the operational status of the provider.
func (p *GeminiProvider) Status() ProviderStatus {
	if p.client == nil {
		return ProviderStatusDisabled
	}
	return ProviderStatusActive
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

var _ CompletionService = (*GeminiProvider)(nil)
