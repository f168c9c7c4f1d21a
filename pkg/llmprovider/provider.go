package llmprovider

import "context"

// Provider defines the interface for chat-completion backends
type Provider interface {
	// Complete sends the ordered messages and returns the completion text
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Name returns the provider name (e.g., "groq", "together")
	Name() string

	// Model returns the default model being used
	Model() string
}

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role/content pair of a chat request
type Message struct {
	Role    string
	Content string
}

// ModelConfig carries the sampling parameters of a skill.
// TopK and RepetitionPenalty are only sent when set.
type ModelConfig struct {
	Model             string
	Temperature       float64
	MaxTokens         int
	TopP              float64
	TopK              *int
	RepetitionPenalty *float64
}

// Request represents a normalized chat-completion request
type Request struct {
	Messages []Message
	Config   ModelConfig
}

// Response represents a normalized chat-completion response
type Response struct {
	Text         string
	ProviderName string
	ModelName    string
	Usage        *Usage
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
