package services

import (
	"context"
	"sync"
)

// FakeCompletionService is a scripted completion backend for tests and
// offline development (generation.provider: fake). It returns its configured
// responses in order, repeating the last one when exhausted.
type FakeCompletionService struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	Calls     int
	Prompts   []string
}

// NewFakeCompletionService returns a fake that always answers with the given
// responses, defaulting to a permissive verdict when none are given.
func NewFakeCompletionService(responses ...string) *FakeCompletionService {
	if len(responses) == 0 {
		responses = []string{`{"verdict":"allow","policy_tags":[],"rationale":"No concerns.","safe_suggestion":null}`}
	}
	return &FakeCompletionService{Responses: responses}
}

func (f *FakeCompletionService) GenerateChatCompletion(_ context.Context, messages []ChatMessage) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range messages {
		f.Prompts = append(f.Prompts, m.Content)
	}
	idx := f.Calls
	f.Calls++
	if f.Err != nil {
		return "", f.Err
	}
	if idx >= len(f.Responses) {
		idx = len(f.Responses) - 1
	}
	return f.Responses[idx], nil
}

func (f *FakeCompletionService) Status() ProviderStatus { return ProviderStatusActive }
func (f *FakeCompletionService) Name() string           { return "fake" }
func (f *FakeCompletionService) ModelName() string      { return "scripted" }

var _ CompletionService = (*FakeCompletionService)(nil)
