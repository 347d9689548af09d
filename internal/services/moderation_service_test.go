package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modgate/internal/models"
)

func newTestService(completion CompletionService) *ModerationService {
	return NewModerationService(completion, 5*time.Second, SimpleRetryStrategy{MaxAttempts: 2, BaseDelayMs: 1})
}

func TestModerate_PrecheckFastPathSkipsGeneration(t *testing.T) {
	fake := NewFakeCompletionService()
	svc := newTestService(fake)

	verdict, err := svc.Moderate(context.Background(), models.Item{
		Type: models.ItemTypeChat,
		Text: "Email me at test@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, models.VerdictBlock, verdict.Verdict)
	assert.Equal(t, []models.PolicyTag{models.TagPII}, verdict.PolicyTags)
	assert.Equal(t, "PII detected.", verdict.Rationale)
	assert.Nil(t, verdict.SafeSuggestion)
	assert.Zero(t, fake.Calls, "generation must not be invoked on a precheck match")
}

func TestModerate_SoftBlockFastPath(t *testing.T) {
	fake := NewFakeCompletionService()
	svc := newTestService(fake)

	verdict, err := svc.Moderate(context.Background(), models.Item{
		Type: models.ItemTypeChat,
		Text: "you're such an idiot",
	})
	require.NoError(t, err)
	assert.Equal(t, models.VerdictSoftBlock, verdict.Verdict)
	assert.Equal(t, []models.PolicyTag{models.TagBullying}, verdict.PolicyTags)
	require.NotNil(t, verdict.SafeSuggestion)
	assert.Zero(t, fake.Calls)
}

func TestModerate_DefersToGeneration(t *testing.T) {
	fake := NewFakeCompletionService(
		"```json\n{\"verdict\":\"allow\",\"policy_tags\":[],\"rationale\":\"Friendly question.\",\"safe_suggestion\":null}\n```",
	)
	svc := newTestService(fake)

	verdict, err := svc.Moderate(context.Background(), models.Item{
		Type: models.ItemTypeChat,
		Text: "What do you think about kindness?",
	})
	require.NoError(t, err)
	assert.Equal(t, models.VerdictAllow, verdict.Verdict)
	assert.Equal(t, "Friendly question.", verdict.Rationale)
	assert.Equal(t, 1, fake.Calls)
}

func TestModerate_MalformedItemType(t *testing.T) {
	svc := newTestService(NewFakeCompletionService())
	_, err := svc.Moderate(context.Background(), models.Item{Type: "poem", Text: "hi"})
	require.ErrorIs(t, err, models.ErrMalformedItem)
}

// flakyCompletion fails a fixed number of times before succeeding.
type flakyCompletion struct {
	mu       sync.Mutex
	failures int
	calls    int
	response string
}

func (f *flakyCompletion) GenerateChatCompletion(context.Context, []ChatMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("connection reset by peer")
	}
	return f.response, nil
}

func (f *flakyCompletion) Status() ProviderStatus { return ProviderStatusActive }
func (f *flakyCompletion) Name() string           { return "flaky" }
func (f *flakyCompletion) ModelName() string      { return "test" }

func TestModerate_RetriesTransportFailureOnce(t *testing.T) {
	flaky := &flakyCompletion{
		failures: 1,
		response: `{"verdict":"allow","policy_tags":[],"rationale":"Fine.","safe_suggestion":null}`,
	}
	svc := newTestService(flaky)

	verdict, err := svc.Moderate(context.Background(), models.Item{
		Type: models.ItemTypeChat,
		Text: "tell me about turtles",
	})
	require.NoError(t, err)
	assert.Equal(t, models.VerdictAllow, verdict.Verdict)
	assert.Equal(t, 2, flaky.calls)
}

func TestModerate_UpstreamUnavailableAfterRetries(t *testing.T) {
	flaky := &flakyCompletion{failures: 10}
	svc := newTestService(flaky)

	_, err := svc.Moderate(context.Background(), models.Item{
		Type: models.ItemTypeChat,
		Text: "tell me about turtles",
	})
	require.ErrorIs(t, err, models.ErrUpstreamUnavailable)
	assert.Equal(t, 2, flaky.calls, "bounded attempts")
}

// stalledCompletion blocks until the context is cancelled.
type stalledCompletion struct{}

func (s *stalledCompletion) GenerateChatCompletion(ctx context.Context, _ []ChatMessage) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (s *stalledCompletion) Status() ProviderStatus { return ProviderStatusActive }
func (s *stalledCompletion) Name() string           { return "stalled" }
func (s *stalledCompletion) ModelName() string      { return "test" }

func TestModerate_GenerationTimeout(t *testing.T) {
	svc := NewModerationService(&stalledCompletion{}, 30*time.Millisecond, SimpleRetryStrategy{MaxAttempts: 2, BaseDelayMs: 1})

	_, err := svc.Moderate(context.Background(), models.Item{
		Type: models.ItemTypeChat,
		Text: "tell me about turtles",
	})
	require.ErrorIs(t, err, models.ErrGenerationTimeout)
}

func TestModerate_ParseAndSchemaFailuresNotRetried(t *testing.T) {
	t.Run("Parse failure", func(t *testing.T) {
		fake := NewFakeCompletionService("not json at all")
		svc := newTestService(fake)

		_, err := svc.Moderate(context.Background(), models.Item{Type: models.ItemTypeChat, Text: "hello there"})
		var parseErr *models.GenerationParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 1, fake.Calls, "parse failures are terminal")
	})

	t.Run("Schema failure", func(t *testing.T) {
		fake := NewFakeCompletionService(`{"verdict":"allow","policy_tags":[],"rationale":"ok","safe_suggestion":null,"extra":true}`)
		svc := newTestService(fake)

		_, err := svc.Moderate(context.Background(), models.Item{Type: models.ItemTypeChat, Text: "hello there"})
		var schemaErr *models.SchemaViolationError
		require.ErrorAs(t, err, &schemaErr)
		assert.Equal(t, 1, fake.Calls, "schema failures are terminal")
	})
}

func TestRetryStrategy_NextBackoff(t *testing.T) {
	s := SimpleRetryStrategy{MaxAttempts: 3, BaseDelayMs: 200}
	assert.Equal(t, int64(200), s.NextBackoff(1))
	assert.Equal(t, int64(400), s.NextBackoff(2))
	assert.Equal(t, int64(-1), s.NextBackoff(3))

	single := SimpleRetryStrategy{MaxAttempts: 1, BaseDelayMs: 200}
	assert.Equal(t, int64(-1), single.NextBackoff(1), "single-attempt config never retries")
}
