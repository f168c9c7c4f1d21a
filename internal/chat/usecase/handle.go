package usecase

import (
	"context"
	"strings"

	"lacri-bot/internal/chat"
	"lacri-bot/internal/metrics"
	"lacri-bot/internal/model"
	"lacri-bot/internal/prompt"
)

// Handle reads the skill's history, asks the provider and records the exchange
// on success. Exchanges of one user on one skill run one at a time.
func (uc *implUseCase) Handle(ctx context.Context, sc model.Scope, input chat.HandleInput) (out chat.HandleOutput, err error) {
	sk, ok := uc.skills[input.Skill]
	if !ok {
		return chat.HandleOutput{}, chat.ErrUnknownSkill
	}

	// Blank input is rejected, but the text itself goes out and is stored as sent.
	if strings.TrimSpace(input.Text) == "" {
		return chat.HandleOutput{}, chat.ErrEmptyText
	}

	defer func() {
		if r := recover(); r != nil {
			uc.l.Errorf(ctx, "chat.usecase.Handle: skill=%s user=%s: recovered panic: %v", input.Skill, sc.UserID, r)
			out = uc.output(chat.DefaultFallback(input.Skill), true)
			err = nil
		}
	}()

	metrics.UtterancesTotal.WithLabelValues(string(input.Skill)).Inc()

	unlock := uc.locks.lock(string(input.Skill) + ":" + sc.UserID)
	defer unlock()

	history := sk.Store.ContextFor(sc.UserID)
	msgs := prompt.Build(sk.SystemPrompt, history, input.Text, input.ExtraContext)

	res := sk.Completer.Complete(ctx, msgs, sk.Model)
	if res.Fallback {
		return uc.output(res.Text, true), nil
	}

	reply := strings.TrimSpace(res.Text)
	if reply == "" {
		uc.l.Warnf(ctx, "chat.usecase.Handle: skill=%s provider=%s returned no text", input.Skill, res.Provider)
		if input.Skill == chat.SkillProgram {
			return uc.output(chat.NoResponseText, true), nil
		}
		return uc.output(sk.Completer.Fallback(), true), nil
	}

	sk.Store.AppendExchange(sc.UserID, input.Text, reply)
	metrics.ConversationsActive.WithLabelValues(string(input.Skill)).Set(float64(sk.Store.Users()))

	uc.l.Debugf(ctx, "chat.usecase.Handle: skill=%s user=%s provider=%s reply_len=%d", input.Skill, sc.UserID, res.Provider, len(reply))

	if input.Skill == chat.SkillProgram {
		reply = FormatCode(reply)
	}
	return uc.output(reply, false), nil
}

func (uc *implUseCase) output(reply string, fallback bool) chat.HandleOutput {
	return chat.HandleOutput{
		Reply:    reply,
		Chunks:   Chunk(reply, uc.chunkSize),
		Fallback: fallback,
	}
}
