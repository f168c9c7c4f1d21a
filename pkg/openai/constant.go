package openai

import "time"

const (
	// DefaultBaseURL is the default OpenAI-compatible API endpoint
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 60 * time.Second

	chatCompletionsPath = "/chat/completions"
)

// Base URLs of the hosted providers the bot ships presets for.
const (
	GroqBaseURL      = "https://api.groq.com/openai/v1"
	TogetherBaseURL  = "https://api.together.xyz/v1"
	SambaNovaBaseURL = "https://api.sambanova.ai/v1"
)
