package llmprovider

import (
	"context"
	"errors"
	"fmt"

	"lacri-bot/pkg/openai"
)

// OpenAIAdapter adapts an OpenAI-compatible client to the Provider interface.
// Groq, Together and SambaNova all speak this dialect.
type OpenAIAdapter struct {
	name   string
	client openai.IOpenAI
}

var _ Provider = (*OpenAIAdapter)(nil)

// NewOpenAIAdapter creates a new adapter reporting itself as name
func NewOpenAIAdapter(name string, client openai.IOpenAI) *OpenAIAdapter {
	return &OpenAIAdapter{name: name, client: client}
}

// Complete implements Provider interface
func (a *OpenAIAdapter) Complete(ctx context.Context, req *Request) (*Response, error) {
	resp, err := a.client.ChatCompletion(ctx, toChatRequest(req))
	if err != nil {
		return nil, classify(ctx, err)
	}

	text, ok := resp.FirstText()
	if !ok {
		return nil, fmt.Errorf("%w: no completion text in %d choice(s)", ErrMalformedResponse, len(resp.Choices))
	}

	model := resp.Model
	if model == "" {
		model = req.Config.Model
	}

	return &Response{
		Text:         text,
		ProviderName: a.name,
		ModelName:    model,
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// Name returns provider name
func (a *OpenAIAdapter) Name() string {
	return a.name
}

// Model returns model name
func (a *OpenAIAdapter) Model() string {
	return a.client.Model()
}

func toChatRequest(req *Request) *openai.ChatRequest {
	msgs := make([]openai.Message, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = openai.Message{Role: m.Role, Content: m.Content}
	}
	return &openai.ChatRequest{
		Model:             req.Config.Model,
		Messages:          msgs,
		Temperature:       req.Config.Temperature,
		MaxTokens:         req.Config.MaxTokens,
		TopP:              req.Config.TopP,
		TopK:              req.Config.TopK,
		RepetitionPenalty: req.Config.RepetitionPenalty,
	}
}

// classify maps client errors onto the provider error taxonomy.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, openai.ErrInvalidResponse):
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	default:
		return fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
}
