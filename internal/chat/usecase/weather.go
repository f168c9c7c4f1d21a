package usecase

import (
	"context"
	"fmt"
	"strings"

	"lacri-bot/internal/chat"
	"lacri-bot/internal/metrics"
	"lacri-bot/internal/model"
)

// Weather resolves city and hands the conditions to the chat skill. An unknown
// city is a normal answer, not an error.
func (uc *implUseCase) Weather(ctx context.Context, sc model.Scope, city string) (chat.HandleOutput, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return chat.HandleOutput{}, chat.ErrEmptyText
	}

	if uc.weather == nil {
		uc.l.Warnf(ctx, "chat.usecase.Weather: weather client not configured")
		metrics.WeatherLookupsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return uc.output(chat.WeatherUnavailableText, true), nil
	}

	conditions, found, err := uc.weather.Current(ctx, city)
	if err != nil {
		uc.l.Warnf(ctx, "chat.usecase.Weather: city=%q: %v", city, err)
		metrics.WeatherLookupsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return uc.output(chat.WeatherUnavailableText, true), nil
	}
	if !found {
		metrics.WeatherLookupsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		return uc.output(chat.UnknownLocationText, false), nil
	}
	metrics.WeatherLookupsTotal.WithLabelValues(metrics.OutcomeFound).Inc()

	return uc.Handle(ctx, sc, chat.HandleInput{
		Skill:        chat.SkillChat,
		Text:         fmt.Sprintf(chat.WeatherPromptFormat, city),
		ExtraContext: conditions.Summary(city),
	})
}
