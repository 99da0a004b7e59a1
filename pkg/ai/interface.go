package ai

import "context"

// CompletionService is the text-generation backend used by the email
// pipeline: one prompt in, raw model text out.
// Implement this interface to add new providers (Gemini, Ollama, OpenAI, etc.)
type CompletionService interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ProviderType represents the AI provider type
type ProviderType string

const (
	ProviderGemini ProviderType = "gemini"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)
