package telegram

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"lacri-bot/internal/chat"
	pkgLog "lacri-bot/pkg/log"
	pkgTelegram "lacri-bot/pkg/telegram"
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
	ProcessUpdate(ctx context.Context, update pkgTelegram.Update)
	// Wait blocks until background webhook work finishes or ctx is done.
	Wait(ctx context.Context) error
}

// Sender is the outbound side of the Bot API used by the handler.
type Sender interface {
	SendReply(ctx context.Context, chatID, replyTo int64, text string) (*pkgTelegram.Message, error)
	SendChatAction(ctx context.Context, chatID int64, action string) error
}

// Config tunes command recognition and reply tracking.
type Config struct {
	BotUsername   string
	CommandPrefix string
	// ReplyTTL is how long a program answer accepts replies as follow-ups.
	ReplyTTL time.Duration
}

type handler struct {
	l           pkgLog.Logger
	uc          chat.UseCase
	bot         Sender
	prefix      string
	botUsername string

	seenMu sync.Mutex
	seen   *expirable.LRU[int64, struct{}]
	// botMessages maps "chatID:messageID" of sent program answers to their skill.
	botMessages *expirable.LRU[string, chat.Skill]

	inflight sync.WaitGroup
}

// New creates a new Telegram delivery handler.
func New(l pkgLog.Logger, uc chat.UseCase, bot Sender, cfg Config) Handler {
	if cfg.ReplyTTL <= 0 {
		cfg.ReplyTTL = time.Hour
	}
	return &handler{
		l:           l,
		uc:          uc,
		bot:         bot,
		prefix:      cfg.CommandPrefix,
		botUsername: cfg.BotUsername,
		seen:        expirable.NewLRU[int64, struct{}](seenUpdatesSize, nil, seenUpdatesTTL),
		botMessages: expirable.NewLRU[string, chat.Skill](botMessagesSize, nil, cfg.ReplyTTL),
	}
}
