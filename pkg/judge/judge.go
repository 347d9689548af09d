// Package judge implements the structured-output contract around the
// generative moderation stage: prompt construction, heuristic JSON
// extraction from the raw response, and strict schema validation of the
// resulting verdict. Everything here except the Completer call itself is
// pure and deterministic.
package judge

import (
	"context"
	"encoding/json"

	"modgate/internal/models"
)

// Completer is the narrow capability the judge needs from a generation
// provider: send one instruction, receive one completion string.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Judge turns an item into a validated verdict via a single generation call.
type Judge struct {
	completer Completer
}

// New creates a Judge backed by the given completer.
func New(completer Completer) *Judge {
	return &Judge{completer: completer}
}

// Evaluate builds the instruction, invokes the generative stage once, then
// sanitizes and validates its output. Error kinds:
//   - provider errors pass through unchanged (classified by the caller),
//   - *models.GenerationParseError when the sanitized output is not JSON,
//   - *models.SchemaViolationError when it parses but breaks the contract.
func (j *Judge) Evaluate(ctx context.Context, itemType models.ItemType, text string) (*models.Verdict, error) {
	if j.completer == nil {
		return nil, models.ErrProviderDisabled
	}

	raw, err := j.completer.Complete(ctx, BuildPrompt(itemType, text))
	if err != nil {
		return nil, err
	}

	sanitized := ExtractJSON(raw)
	var parsed any
	if err := json.Unmarshal([]byte(sanitized), &parsed); err != nil {
		return nil, &models.GenerationParseError{RawOutput: raw, Err: err}
	}
	return ValidateVerdict(parsed)
}
