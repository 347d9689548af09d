package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMalformedItem       = errors.New("malformed item")
	ErrUpstreamUnavailable = errors.New("generation upstream unavailable")
	ErrGenerationTimeout   = errors.New("generation timed out")
	ErrProviderDisabled    = errors.New("generation provider is not initialized")
)

// GenerationParseError reports that the generative stage returned text that
// could not be parsed as JSON even after sanitization. RawOutput is kept for
// diagnostics.
type GenerationParseError struct {
	RawOutput string
	Err       error
}

func (e *GenerationParseError) Error() string {
	return fmt.Sprintf("generation output is not valid JSON: %v", e.Err)
}

func (e *GenerationParseError) Unwrap() error { return e.Err }

// SchemaViolationError reports that generation output parsed as JSON but did
// not satisfy the verdict contract. Object holds the parsed-but-invalid
// value; Violations lists every field-level failure found.
type SchemaViolationError struct {
	Object     any
	Violations []string
}

func (e *SchemaViolationError) Error() string {
	return "verdict schema violation: " + strings.Join(e.Violations, "; ")
}

// ErrorCode maps a moderation pipeline error to a stable machine-readable
// code, shared by the HTTP error payloads and batch task results.
func ErrorCode(err error) string {
	var parseErr *GenerationParseError
	var schemaErr *SchemaViolationError
	switch {
	case errors.Is(err, ErrMalformedItem):
		return "bad_request"
	case errors.Is(err, ErrGenerationTimeout):
		return "generation_timeout"
	case errors.Is(err, ErrUpstreamUnavailable), errors.Is(err, ErrProviderDisabled):
		return "upstream_unavailable"
	case errors.As(err, &parseErr):
		return "generation_parse_failure"
	case errors.As(err, &schemaErr):
		return "schema_violation"
	default:
		return "internal_error"
	}
}
