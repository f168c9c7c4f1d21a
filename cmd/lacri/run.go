package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"lacri-bot/config"
	"lacri-bot/internal/chat"
	tgDelivery "lacri-bot/internal/chat/delivery/telegram"
	"lacri-bot/internal/chat/usecase"
	"lacri-bot/internal/completion"
	"lacri-bot/internal/conversation"
	"lacri-bot/internal/httpserver"
	"lacri-bot/internal/metrics"
	"lacri-bot/internal/test"
	"lacri-bot/pkg/llmprovider"
	"lacri-bot/pkg/log"
	"lacri-bot/pkg/telegram"
	"lacri-bot/pkg/weather"
)

const (
	modeWebhook = config.TelegramModeWebhook
	modePolling = config.TelegramModePolling
)

func run(parent context.Context, configPath, mode string) error {
	if parent == nil {
		parent = context.Background()
	}

	// 1. Configuration
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if mode == "" {
		mode = cfg.Telegram.Mode
	}
	if mode != modeWebhook && mode != modePolling {
		return fmt.Errorf("unknown mode %q", mode)
	}
	if cfg.Telegram.BotToken == "" {
		return errors.New("telegram bot token is missing: set TELEGRAM_BOT_TOKEN or telegram.bot_token")
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting lacri.ai...")
	logger.Infof(ctx, "Environment: %s, mode: %s", cfg.Environment.Name, mode)

	// 3. Telegram Bot client
	bot := telegram.NewBot(cfg.Telegram.BotToken)
	if cfg.Telegram.APIURL != "" {
		bot.SetAPIURL(cfg.Telegram.APIURL)
	}
	bot.SetSendRate(cfg.Telegram.SendRate, cfg.Telegram.SendBurst)

	me, err := bot.GetMe(ctx)
	if err != nil {
		return fmt.Errorf("telegram getMe failed, is the bot token valid? %w", err)
	}
	logger.Infof(ctx, "Telegram bot: @%s", me.Username)

	// 4. Chat domain
	uc, stores, err := buildChat(ctx, cfg, logger, bot)
	if err != nil {
		return err
	}

	handler := tgDelivery.New(logger, uc, bot, tgDelivery.Config{
		BotUsername:   me.Username,
		CommandPrefix: cfg.Bot.CommandPrefix,
		ReplyTTL:      cfg.Conversation.TTL,
	})

	// 5. HTTP Server: webhook route only in webhook mode
	srvCfg := httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		TestHandler: test.New(logger, uc, stores),
	}
	if mode == modeWebhook {
		srvCfg.TelegramHandler = handler
	}
	httpServer, err := httpserver.New(logger, srvCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	// 6. Run
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return httpServer.Run(gctx) })
	g.Go(func() error { return sweepConversations(gctx, logger, stores, cfg.Conversation.TTL) })

	if mode == modeWebhook {
		g.Go(func() error {
			if err := registerWebhook(gctx, logger, bot, cfg.Telegram); err != nil {
				return err
			}
			httpServer.SetReady(true)
			return nil
		})
	} else {
		g.Go(func() error {
			if err := bot.DeleteWebhook(gctx); err != nil {
				logger.Warnf(gctx, "Failed to delete Telegram webhook: %v", err)
			}
			httpServer.SetReady(true)
			return tgDelivery.NewPoller(logger, bot, handler, cfg.Telegram.PollTimeout).Run(gctx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "lacri.ai stopped with error: ", err)
		return err
	}

	logger.Info(ctx, "lacri.ai stopped gracefully")
	return nil
}

// buildChat wires providers, per-skill stores and completion clients into the use case.
func buildChat(ctx context.Context, cfg *config.Config, l log.Logger, bot *telegram.Bot) (chat.UseCase, map[chat.Skill]conversation.Memory, error) {
	providers, err := llmprovider.InitializeProviders(ctx, &cfg.LLM, l)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize LLM providers: %w", err)
	}

	managerCfg := &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      cfg.LLM.RetryDelay,
		MaxTotalTimeout: cfg.LLM.Timeout,
	}

	skillCfgs := map[chat.Skill]config.SkillConfig{
		chat.SkillChat:    cfg.Skills.Chat,
		chat.SkillMath:    cfg.Skills.Math,
		chat.SkillProgram: cfg.Skills.Program,
	}

	skills := make(map[chat.Skill]usecase.Skill, len(skillCfgs))
	stores := make(map[chat.Skill]conversation.Memory, len(skillCfgs))
	for _, s := range chat.Skills {
		sc := skillCfgs[s]

		chain, err := llmprovider.Chain(sc.Providers, providers, managerCfg, l)
		if err != nil {
			return nil, nil, fmt.Errorf("skill %s: %w", s, err)
		}

		fallback := sc.Fallback
		if fallback == "" {
			fallback = chat.DefaultFallback(s)
		}
		systemPrompt := sc.SystemPrompt
		if systemPrompt == "" {
			systemPrompt = chat.DefaultSystemPrompt(s)
		}

		store := conversation.New(conversation.Options{
			MaxEntries:    cfg.Conversation.MaxEntries,
			ContextWindow: cfg.Conversation.ContextWindow,
			TTL:           cfg.Conversation.TTL,
		})
		stores[s] = store

		skills[s] = usecase.Skill{
			Store:        store,
			Completer:    completion.New(l, chain, completion.Options{Fallback: fallback, Timeout: cfg.LLM.Timeout}),
			SystemPrompt: systemPrompt,
			Model:        modelConfig(sc),
		}
		l.Infof(ctx, "Skill %s: providers=%s model=%s", s, chain.Name(), sc.Model)
	}

	var weatherClient weather.IWeather
	if cfg.Weather.APIKey != "" {
		weatherClient, err = weather.New(weather.Config{
			APIKey:     cfg.Weather.APIKey,
			BaseURL:    cfg.Weather.BaseURL,
			HTTPClient: &http.Client{Timeout: cfg.Weather.Timeout},
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create weather client: %w", err)
		}
	} else {
		l.Warn(ctx, "WEATHER_API_KEY is missing, /weather will answer with its fallback")
	}

	uc := usecase.New(l, usecase.Config{
		Skills:    skills,
		Weather:   weatherClient,
		Pinger:    bot,
		ChunkSize: cfg.Telegram.MaxMessageLength,
	})
	return uc, stores, nil
}

func modelConfig(sc config.SkillConfig) llmprovider.ModelConfig {
	mc := llmprovider.ModelConfig{
		Model:       sc.Model,
		Temperature: sc.Temperature,
		MaxTokens:   sc.MaxTokens,
		TopP:        sc.TopP,
	}
	if sc.TopK > 0 {
		topK := sc.TopK
		mc.TopK = &topK
	}
	if sc.RepetitionPenalty > 0 {
		rp := sc.RepetitionPenalty
		mc.RepetitionPenalty = &rp
	}
	return mc
}

// sweepConversations purges idle histories once per TTL so memory does not
// depend on someone appending, and keeps the active-conversations gauge fresh.
func sweepConversations(ctx context.Context, l log.Logger, stores map[chat.Skill]conversation.Memory, ttl time.Duration) error {
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			for skill, store := range stores {
				store.Cleanup(now)
				metrics.ConversationsActive.WithLabelValues(string(skill)).Set(float64(store.Users()))
			}
			l.Debugf(ctx, "Conversation sweep done")
		}
	}
}

// registerWebhook sets the webhook: explicit URL first, then ngrok auto-detection.
func registerWebhook(ctx context.Context, l log.Logger, bot *telegram.Bot, cfg config.TelegramConfig) error {
	webhookURL := cfg.WebhookURL
	if webhookURL == "" {
		ngrokURL, err := detectNgrokURL(ctx, cfg.NgrokAPIURL)
		if err != nil {
			return fmt.Errorf("no telegram.webhook_url configured and ngrok detection failed: %w", err)
		}
		webhookURL = ngrokURL + "/webhook/telegram"
		l.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
	}

	if err := bot.SetWebhook(ctx, webhookURL); err != nil {
		return fmt.Errorf("failed to set Telegram webhook: %w", err)
	}
	l.Infof(ctx, "Telegram webhook registered at %s", webhookURL)
	return nil
}
