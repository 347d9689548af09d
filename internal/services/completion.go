package services

import "context"

// ChatMessageRole defines the role of the message sender.
type ChatMessageRole string

const (
	ChatMessageRoleSystem    ChatMessageRole = "system"
	ChatMessageRoleUser      ChatMessageRole = "user"
	ChatMessageRoleAssistant ChatMessageRole = "assistant" // "model" for Gemini
)

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    ChatMessageRole
	Content string
}

// ProviderStatus reports whether a provider is usable.
type ProviderStatus string

const (
	ProviderStatusActive   ProviderStatus = "active"
	ProviderStatusDisabled ProviderStatus = "disabled"
)

// CompletionService is the capability shared by the interchangeable
// generation backends: one instruction in, one completion string out.
// Temperature is pinned to zero in every implementation so the generative
// stage is as deterministic as the provider allows.
type CompletionService interface {
	GenerateChatCompletion(ctx context.Context, messages []ChatMessage) (string, error)
	Status() ProviderStatus
	Name() string      // provider name, e.g. "openai", "gemini"
	ModelName() string // specific model used
}
