package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lacri-bot/internal/chat"
	"lacri-bot/internal/metrics"
	"lacri-bot/internal/model"
	pkgLog "lacri-bot/pkg/log"
	pkgResponse "lacri-bot/pkg/response"
	pkgTelegram "lacri-bot/pkg/telegram"
)

// HandleWebhook is the Gin handler for incoming Telegram webhook updates.
// It responds with HTTP 200 immediately and processes the message in a background goroutine
// so a slow completion never makes Telegram retry the delivery.
func (h *handler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var update pkgTelegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		// A body that does not parse never will, so ack it and stop Telegram redelivering it.
		h.l.Warnf(ctx, "telegram handler: dropping unparseable update: %v", err)
		metrics.TelegramUpdatesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	if update.Message == nil {
		metrics.TelegramUpdatesTotal.WithLabelValues(metrics.OutcomeIgnored).Inc()
		pkgResponse.OK(c, map[string]string{"status": "ignored"})
		return
	}

	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		// Detach from HTTP request context (which gets cancelled after response)
		h.ProcessUpdate(context.Background(), update)
	}()

	pkgResponse.OK(c, map[string]string{"status": "accepted"})
}

// Wait blocks until background webhook work finishes or ctx is done.
func (h *handler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ProcessUpdate handles one update, dropping update ids already processed.
func (h *handler) ProcessUpdate(ctx context.Context, update pkgTelegram.Update) {
	if update.Message == nil {
		metrics.TelegramUpdatesTotal.WithLabelValues(metrics.OutcomeIgnored).Inc()
		return
	}
	if !h.markSeen(update.UpdateID) {
		h.l.Debugf(ctx, "telegram handler: duplicate update %d dropped", update.UpdateID)
		metrics.TelegramUpdatesTotal.WithLabelValues(metrics.OutcomeDuplicate).Inc()
		return
	}
	metrics.TelegramUpdatesTotal.WithLabelValues(metrics.OutcomeAccepted).Inc()

	ctx = pkgLog.WithTraceID(ctx, uuid.NewString())
	if err := h.processMessage(ctx, update.Message); err != nil {
		h.l.Errorf(ctx, "telegram handler: update %d: %v", update.UpdateID, err)
	}
}

// markSeen records id and reports whether it was new.
func (h *handler) markSeen(id int64) bool {
	h.seenMu.Lock()
	defer h.seenMu.Unlock()
	if h.seen.Contains(id) {
		return false
	}
	h.seen.Add(id, struct{}{})
	return true
}

// processMessage routes a single Telegram message.
func (h *handler) processMessage(ctx context.Context, msg *pkgTelegram.Message) error {
	if msg.Text == "" || msg.From == nil || msg.From.IsBot || msg.Chat == nil {
		return nil
	}

	sc := model.Scope{
		UserID:   model.TelegramUserID(msg.From.ID),
		Username: msg.From.Username,
		ChatID:   msg.Chat.ID,
	}

	cmd, ok := parseCommand(msg.Text, h.prefix, h.botUsername)
	if !ok {
		if skill, tracked := h.repliedSkill(msg); tracked {
			return h.runSkill(ctx, sc, msg, skill, msg.Text)
		}
		if msg.IsPrivate() {
			return h.runSkill(ctx, sc, msg, chat.SkillChat, msg.Text)
		}
		return nil
	}

	switch cmd.name {
	case cmdStart:
		return h.reply(ctx, msg, startText)
	case cmdHelp:
		return h.reply(ctx, msg, fmt.Sprintf(helpText, h.prefix))
	case cmdPing:
		out, err := h.uc.Ping(ctx)
		if err != nil {
			return err
		}
		return h.deliver(ctx, msg, "", out)
	}

	if cmd.arg == "" {
		return h.reply(ctx, msg, usageHints[cmd.name])
	}

	if cmd.name == cmdWeather {
		h.typing(ctx, msg)
		out, err := h.uc.Weather(ctx, sc, cmd.arg)
		if err != nil {
			return fmt.Errorf("weather: %w", err)
		}
		return h.deliver(ctx, msg, chat.SkillChat, out)
	}

	skill, ok := chat.ParseSkill(cmd.name)
	if !ok {
		return fmt.Errorf("%w: %s", chat.ErrUnknownSkill, cmd.name)
	}
	return h.runSkill(ctx, sc, msg, skill, cmd.arg)
}

func (h *handler) runSkill(ctx context.Context, sc model.Scope, msg *pkgTelegram.Message, skill chat.Skill, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	h.typing(ctx, msg)
	out, err := h.uc.Handle(ctx, sc, chat.HandleInput{Skill: skill, Text: text})
	if err != nil {
		if errors.Is(err, chat.ErrEmptyText) {
			return nil
		}
		return fmt.Errorf("handle %s: %w", skill, err)
	}
	return h.deliver(ctx, msg, skill, out)
}

// deliver sends every chunk in order as replies to msg. Program answers are
// remembered so replies to them continue the program conversation.
func (h *handler) deliver(ctx context.Context, msg *pkgTelegram.Message, skill chat.Skill, out chat.HandleOutput) error {
	for i, chunk := range out.Chunks {
		sent, err := h.bot.SendReply(ctx, msg.Chat.ID, msg.MessageID, chunk)
		if err != nil {
			h.l.Warnf(ctx, "telegram handler: send chunk %d/%d to chat %d failed: %v", i+1, len(out.Chunks), msg.Chat.ID, err)
			return nil
		}
		if skill == chat.SkillProgram && sent != nil {
			h.botMessages.Add(messageKey(msg.Chat.ID, sent.MessageID), skill)
		}
	}
	return nil
}

func (h *handler) reply(ctx context.Context, msg *pkgTelegram.Message, text string) error {
	if _, err := h.bot.SendReply(ctx, msg.Chat.ID, msg.MessageID, text); err != nil {
		h.l.Warnf(ctx, "telegram handler: reply to chat %d failed: %v", msg.Chat.ID, err)
	}
	return nil
}

func (h *handler) typing(ctx context.Context, msg *pkgTelegram.Message) {
	if err := h.bot.SendChatAction(ctx, msg.Chat.ID, pkgTelegram.ActionTyping); err != nil {
		h.l.Debugf(ctx, "telegram handler: chat action failed: %v", err)
	}
}

func (h *handler) repliedSkill(msg *pkgTelegram.Message) (chat.Skill, bool) {
	if msg.ReplyToMessage == nil {
		return "", false
	}
	return h.botMessages.Get(messageKey(msg.Chat.ID, msg.ReplyToMessage.MessageID))
}

func messageKey(chatID, messageID int64) string {
	return fmt.Sprintf("%d:%d", chatID, messageID)
}
