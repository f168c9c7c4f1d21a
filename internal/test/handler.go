package test

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"lacri-bot/internal/chat"
	"lacri-bot/internal/conversation"
	"lacri-bot/internal/model"
	pkgLog "lacri-bot/pkg/log"
)

type handler struct {
	l      pkgLog.Logger
	uc     chat.UseCase
	stores map[chat.Skill]conversation.Memory
}

// HandleTestMessage runs one exchange without going through Telegram.
func (h *handler) HandleTestMessage(c *gin.Context) {
	ctx := c.Request.Context()

	var req TestMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	// Default values
	if req.UserID == 0 {
		req.UserID = defaultTestUserID
	}
	if req.Skill == "" {
		req.Skill = string(chat.SkillChat)
	}

	skill, ok := chat.ParseSkill(req.Skill)
	if !ok {
		c.JSON(http.StatusBadRequest, TestMessageResponse{
			Success: false,
			Text:    req.Text,
			UserID:  req.UserID,
			Error:   "Unknown skill",
			Details: fmt.Sprintf("skill must be one of %v", chat.Skills),
		})
		return
	}

	sc := model.Scope{UserID: model.TelegramUserID(req.UserID)}

	out, err := h.uc.Handle(ctx, sc, chat.HandleInput{Skill: skill, Text: req.Text})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, chat.ErrEmptyText) {
			status = http.StatusBadRequest
		}
		h.l.Errorf(ctx, "internal.test.HandleTestMessage: Handle failed: %v", err)
		c.JSON(status, TestMessageResponse{
			Success: false,
			Text:    req.Text,
			UserID:  req.UserID,
			Error:   "Handle failed",
			Details: err.Error(),
		})
		return
	}

	var history []string
	if store, ok := h.stores[skill]; ok {
		for _, m := range store.ContextFor(sc.UserID) {
			history = append(history, fmt.Sprintf("%s: %s", m.Role, m.Content))
		}
	}

	h.l.Infof(ctx, "internal.test.HandleTestMessage: skill=%s user_id=%d fallback=%v", skill, req.UserID, out.Fallback)

	c.JSON(http.StatusOK, TestMessageResponse{
		Success:  true,
		Skill:    string(skill),
		Reply:    out.Reply,
		Chunks:   len(out.Chunks),
		Fallback: out.Fallback,
		Text:     req.Text,
		UserID:   req.UserID,
		History:  history,
	})
}

// HandleHealthCheck returns the health status of test endpoints
func (h *handler) HandleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthCheckResponse{
		Status:  "ok",
		Message: "Test endpoints are available",
	})
}
