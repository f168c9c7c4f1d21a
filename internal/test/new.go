package test

import (
	"github.com/gin-gonic/gin"

	"lacri-bot/internal/chat"
	"lacri-bot/internal/conversation"
	pkgLog "lacri-bot/pkg/log"
)

// Handler is the interface for the test handler
type Handler interface {
	HandleTestMessage(c *gin.Context)
	HandleHealthCheck(c *gin.Context)
}

// New creates a new test handler
func New(
	l pkgLog.Logger,
	uc chat.UseCase,
	stores map[chat.Skill]conversation.Memory,
) Handler {
	return &handler{
		l:      l,
		uc:     uc,
		stores: stores,
	}
}
