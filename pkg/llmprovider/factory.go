package llmprovider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lacri-bot/config"
	"lacri-bot/pkg/log"
	"lacri-bot/pkg/openai"
)

// InitializeProviders creates Provider instances from config.LLMConfig, keyed by name.
// Disabled providers and providers without an API key are skipped with a warning
// instead of failing the entire service.
func InitializeProviders(ctx context.Context, cfg *config.LLMConfig, l log.Logger) (map[string]Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("LLM config is nil")
	}
	if len(cfg.Providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	providers := make(map[string]Provider, len(cfg.Providers))
	var initErrors []string

	for _, p := range cfg.Providers {
		if !p.Enabled {
			l.Infof(ctx, "llmprovider.InitializeProviders: provider %s disabled", p.Name)
			continue
		}

		provider, err := createProvider(p)
		if err != nil {
			initErrors = append(initErrors, err.Error())
			l.Warnf(ctx, "llmprovider.InitializeProviders: skipping provider %s: %v", p.Name, err)
			continue
		}
		providers[p.Name] = provider
	}

	if len(providers) == 0 {
		if len(initErrors) == 0 {
			return nil, ErrNoProvidersConfigured
		}
		return nil, fmt.Errorf("%w: %s", ErrNoProvidersConfigured, strings.Join(initErrors, "; "))
	}

	return providers, nil
}

// Chain builds a Manager over the named providers in order. Names missing from
// available are skipped; a chain with no usable provider is an error.
func Chain(names []string, available map[string]Provider, cfg *Config, l log.Logger) (*Manager, error) {
	var chain []Provider
	for _, name := range names {
		if p, ok := available[name]; ok {
			chain = append(chain, p)
		}
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: none of [%s] is available", ErrNoProvidersConfigured, strings.Join(names, ", "))
	}
	return NewManager(chain, cfg, l), nil
}

// createProvider creates a concrete provider instance based on the provider config
func createProvider(cfg config.ProviderConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("provider %s: API key is required", cfg.Name)
	}

	baseURL, err := baseURLFor(cfg)
	if err != nil {
		return nil, err
	}

	timeout := openai.DefaultTimeout
	if cfg.Timeout != "" {
		timeout, err = time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("provider %s: invalid timeout %q: %w", cfg.Name, cfg.Timeout, err)
		}
	}

	client, err := openai.New(openai.Config{
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Name, err)
	}
	return NewOpenAIAdapter(cfg.Name, client), nil
}

// baseURLFor resolves the endpoint: an explicit base_url wins, otherwise the preset
// for well-known provider names.
func baseURLFor(cfg config.ProviderConfig) (string, error) {
	if cfg.BaseURL != "" {
		return cfg.BaseURL, nil
	}

	switch cfg.Name {
	case "groq":
		return openai.GroqBaseURL, nil
	case "together":
		return openai.TogetherBaseURL, nil
	case "sambanova":
		return openai.SambaNovaBaseURL, nil
	case "openai":
		return openai.DefaultBaseURL, nil
	default:
		return "", fmt.Errorf("unknown provider %s: base_url is required", cfg.Name)
	}
}
