package usecase

import (
	"context"
	"fmt"

	"lacri-bot/internal/chat"
)

func (uc *implUseCase) Ping(ctx context.Context) (chat.HandleOutput, error) {
	if uc.pinger == nil {
		return uc.output(chat.PingUnavailableText, true), nil
	}

	d, err := uc.pinger.Ping(ctx)
	if err != nil {
		uc.l.Warnf(ctx, "chat.usecase.Ping: %v", err)
		return uc.output(chat.PingUnavailableText, true), nil
	}
	return uc.output(fmt.Sprintf(chat.PingFormat, d.Milliseconds()), false), nil
}
