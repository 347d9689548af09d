package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"modgate/internal/models"
	"modgate/internal/policy"
	"modgate/pkg/judge"

	log "github.com/sirupsen/logrus"
)

// SimpleRetryStrategy provides basic exponential backoff for the generation
// call. MaxAttempts counts total attempts, not retries.
type SimpleRetryStrategy struct {
	MaxAttempts int
	BaseDelayMs int64
}

// NextBackoff returns the delay in milliseconds before the next attempt,
// given how many attempts have already been made, or -1 to stop.
func (s *SimpleRetryStrategy) NextBackoff(attemptsMade int) int64 {
	if s.MaxAttempts <= 0 || attemptsMade >= s.MaxAttempts {
		return -1
	}
	backoff := s.BaseDelayMs * (1 << (attemptsMade - 1))
	maxDelay := int64(30000)
	if backoff > maxDelay {
		backoff = maxDelay
	}
	return backoff
}

// ModerationService sequences the moderation pipeline: precheck fast path,
// then on pass-through a single bounded generation round trip through the
// judge. It holds no mutable state and is safe for concurrent use.
type ModerationService struct {
	judge      *judge.Judge
	completion CompletionService
	timeout    time.Duration
}

// NewModerationService wires a completion backend into the pipeline. The
// timeout bounds each generation call; retry applies to transport failures
// only, never to parse or schema failures.
func NewModerationService(completion CompletionService, timeout time.Duration, retry SimpleRetryStrategy) *ModerationService {
	var completer judge.Completer
	if completion != nil {
		completer = &generationCompleter{completion: completion, retry: retry}
	}
	return &ModerationService{
		judge:      judge.New(completer),
		completion: completion,
		timeout:    timeout,
	}
}

// Moderate classifies a single item. Error kinds a caller can match on:
// models.ErrMalformedItem, models.ErrGenerationTimeout,
// models.ErrUpstreamUnavailable, *models.GenerationParseError,
// *models.SchemaViolationError.
func (s *ModerationService) Moderate(ctx context.Context, item models.Item) (*models.Verdict, error) {
	if !item.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown item type %q", models.ErrMalformedItem, item.Type)
	}

	if verdict := policy.Precheck(item); verdict != nil {
		log.Debugf("Precheck resolved item (type=%s) to %s/%v without generation", item.Type, verdict.Verdict, verdict.PolicyTags)
		return verdict, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.judge.Evaluate(ctx, item.Type, item.Text)
}

// generationCompleter adapts a CompletionService to the judge's Completer:
// the prompt goes out as a single system-role instruction, transport
// failures are retried with backoff and finally classified as timeout or
// upstream-unavailable.
type generationCompleter struct {
	completion CompletionService
	retry      SimpleRetryStrategy
}

func (g *generationCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	messages := []ChatMessage{{Role: ChatMessageRoleSystem, Content: prompt}}

	var lastErr error
	for attempt := 1; ; attempt++ {
		out, err := g.completion.GenerateChatCompletion(ctx, messages)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, models.ErrProviderDisabled) {
			return "", err
		}
		if ctxErr := classifyContextErr(ctx); ctxErr != nil {
			return "", ctxErr
		}
		lastErr = err

		backoff := g.retry.NextBackoff(attempt)
		if backoff < 0 {
			break
		}
		log.Warnf("Generation attempt %d failed (%v), retrying in %dms", attempt, err, backoff)
		select {
		case <-ctx.Done():
			return "", classifyContextErr(ctx)
		case <-time.After(time.Duration(backoff) * time.Millisecond):
		}
	}
	return "", fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, lastErr)
}

func classifyContextErr(ctx context.Context) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return models.ErrGenerationTimeout
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return nil
	}
}
