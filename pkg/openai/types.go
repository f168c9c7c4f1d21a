package openai

import (
	"fmt"
	"net/http"
	"strings"
)

// Config holds client configuration
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Validate validates the configuration and fills defaults
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("openai: APIKey is required")
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	return nil
}

// openAIImpl is the internal implementation of IOpenAI
type openAIImpl struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Message is a chat message on the wire
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the chat-completions request body.
// TopK and RepetitionPenalty are extensions accepted by Together and SambaNova.
type ChatRequest struct {
	Model             string    `json:"model"`
	Messages          []Message `json:"messages"`
	Temperature       float64   `json:"temperature"`
	MaxTokens         int       `json:"max_tokens,omitempty"`
	TopP              float64   `json:"top_p,omitempty"`
	TopK              *int      `json:"top_k,omitempty"`
	RepetitionPenalty *float64  `json:"repetition_penalty,omitempty"`
}

// ChatResponse is the chat-completions response body
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is one completion candidate. Text is filled by legacy
// completions-shaped responses instead of Message.
type Choice struct {
	Index        int      `json:"index"`
	Message      *Message `json:"message,omitempty"`
	Text         string   `json:"text,omitempty"`
	FinishReason string   `json:"finish_reason"`
}

// Usage tracks token consumption
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ErrorResponse is the error body returned on non-200 responses
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// APIError is returned for non-200 responses
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openai: API error %d: %s", e.StatusCode, e.Message)
}

// FirstText returns the text of the first choice, whichever shape it has.
func (r *ChatResponse) FirstText() (string, bool) {
	if r == nil || len(r.Choices) == 0 {
		return "", false
	}
	choice := r.Choices[0]
	if choice.Message != nil && strings.TrimSpace(choice.Message.Content) != "" {
		return strings.TrimSpace(choice.Message.Content), true
	}
	if strings.TrimSpace(choice.Text) != "" {
		return strings.TrimSpace(choice.Text), true
	}
	return "", false
}
