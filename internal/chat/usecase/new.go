package usecase

import (
	"lacri-bot/internal/chat"
	"lacri-bot/internal/conversation"
	"lacri-bot/pkg/llmprovider"
	"lacri-bot/pkg/log"
	"lacri-bot/pkg/weather"
)

// DefaultChunkSize is the maximum rune count of one delivered chunk.
const DefaultChunkSize = 2000

// Skill binds one persona to its history and completion client.
type Skill struct {
	Store        conversation.Memory
	Completer    chat.Completer
	SystemPrompt string
	Model        llmprovider.ModelConfig
}

// Config is the dependency bag passed to New().
type Config struct {
	Skills    map[chat.Skill]Skill
	Weather   weather.IWeather // optional
	Pinger    chat.Pinger      // optional
	ChunkSize int
}

type implUseCase struct {
	l         log.Logger
	skills    map[chat.Skill]Skill
	weather   weather.IWeather
	pinger    chat.Pinger
	chunkSize int
	locks     *keyedMutex
}

var _ chat.UseCase = (*implUseCase)(nil)

// New creates a new chat use case.
func New(l log.Logger, cfg Config) chat.UseCase {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	return &implUseCase{
		l:         l,
		skills:    cfg.Skills,
		weather:   cfg.Weather,
		pinger:    cfg.Pinger,
		chunkSize: cfg.ChunkSize,
		locks:     newKeyedMutex(),
	}
}
