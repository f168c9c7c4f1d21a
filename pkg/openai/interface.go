package openai

import "context"

// IOpenAI defines the interface for an OpenAI-compatible chat-completions client.
// Implementations are safe for concurrent use.
type IOpenAI interface {
	// ChatCompletion sends a chat-completions request
	ChatCompletion(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// Model returns the default model used when the request sets none
	Model() string
}

// New creates a new client with the given configuration
func New(cfg Config) (IOpenAI, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newOpenAIImpl(cfg), nil
}
