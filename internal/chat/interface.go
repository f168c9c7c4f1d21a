package chat

import (
	"context"
	"time"

	"lacri-bot/internal/completion"
	"lacri-bot/internal/model"
	"lacri-bot/pkg/llmprovider"
)

// UseCase routes utterances to skills and returns text to deliver.
type UseCase interface {
	// Handle runs one exchange on a skill. Provider failures come back as
	// fallback text, not as errors.
	Handle(ctx context.Context, sc model.Scope, input HandleInput) (HandleOutput, error)

	// Weather looks up city and lets the chat skill describe it.
	Weather(ctx context.Context, sc model.Scope, city string) (HandleOutput, error)

	// Ping reports the transport round trip.
	Ping(ctx context.Context) (HandleOutput, error)
}

// Completer is the completion client of one skill.
type Completer interface {
	Complete(ctx context.Context, messages []llmprovider.Message, cfg llmprovider.ModelConfig) completion.Result
	Fallback() string
}

// Pinger measures a round trip to the transport API.
type Pinger interface {
	Ping(ctx context.Context) (time.Duration, error)
}
