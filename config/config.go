package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Transport
	Telegram TelegramConfig
	Bot      BotConfig

	// Conversation memory
	Conversation ConversationConfig

	// LLM Provider Abstraction
	LLM    LLMConfig
	Skills SkillsConfig

	// Weather
	Weather WeatherConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type TelegramConfig struct {
	BotToken         string
	APIURL           string // Override for tests or self-hosted Bot API servers
	Mode             string // webhook or polling
	WebhookURL       string
	NgrokAPIURL      string
	PollTimeout      int // Long polling timeout in seconds
	MaxMessageLength int
	SendRate         float64 // Outbound messages per second
	SendBurst        int
}

type BotConfig struct {
	CommandPrefix string
}

type ConversationConfig struct {
	MaxEntries    int
	ContextWindow int
	TTL           time.Duration
}

// LLMConfig holds configuration for the LLM provider abstraction layer
type LLMConfig struct {
	Providers       []ProviderConfig `yaml:"providers"`
	FallbackEnabled bool             `yaml:"fallback_enabled"`
	RetryAttempts   int              `yaml:"retry_attempts"`
	RetryDelay      time.Duration    `yaml:"retry_delay"`
	Timeout         time.Duration    `yaml:"timeout"` // Per completion, covers the whole chain
}

// ProviderConfig holds configuration for a single LLM provider
type ProviderConfig struct {
	Name    string `yaml:"name"`
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

// SkillsConfig binds each persona to a provider chain and sampling parameters.
type SkillsConfig struct {
	Chat    SkillConfig
	Math    SkillConfig
	Program SkillConfig
}

// SkillConfig is one persona. Zero TopK / RepetitionPenalty mean "not sent".
// Empty SystemPrompt / Fallback keep the built-in texts.
type SkillConfig struct {
	Providers         []string
	Model             string
	Temperature       float64
	MaxTokens         int
	TopP              float64
	TopK              int
	RepetitionPenalty float64
	SystemPrompt      string
	Fallback          string
}

type WeatherConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

const (
	TelegramModeWebhook = "webhook"
	TelegramModePolling = "polling"
)

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/lacri/
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from path, or from the default search paths when path is empty.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/lacri/")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return build(v)
}

func build(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Port = v.GetInt("http_server.port")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	// Telegram
	cfg.Telegram.BotToken = v.GetString("telegram.bot_token")
	if tgToken := v.GetString("telegram_bot_token"); tgToken != "" {
		cfg.Telegram.BotToken = tgToken
	}
	cfg.Telegram.APIURL = v.GetString("telegram.api_url")
	cfg.Telegram.Mode = v.GetString("telegram.mode")
	cfg.Telegram.WebhookURL = v.GetString("telegram.webhook_url")
	cfg.Telegram.NgrokAPIURL = v.GetString("telegram.ngrok_api_url")
	cfg.Telegram.PollTimeout = v.GetInt("telegram.poll_timeout")
	cfg.Telegram.MaxMessageLength = v.GetInt("telegram.max_message_length")
	cfg.Telegram.SendRate = v.GetFloat64("telegram.send_rate")
	cfg.Telegram.SendBurst = v.GetInt("telegram.send_burst")

	cfg.Bot.CommandPrefix = v.GetString("bot.command_prefix")
	if prefix := v.GetString("command_prefix"); prefix != "" {
		cfg.Bot.CommandPrefix = prefix
	}

	// Conversation memory
	cfg.Conversation.MaxEntries = v.GetInt("conversation.max_entries")
	cfg.Conversation.ContextWindow = v.GetInt("conversation.context_window")
	cfg.Conversation.TTL = v.GetDuration("conversation.ttl")

	// LLM Provider Abstraction
	cfg.LLM.FallbackEnabled = v.GetBool("llm.fallback_enabled")
	cfg.LLM.RetryAttempts = v.GetInt("llm.retry_attempts")
	cfg.LLM.RetryDelay = v.GetDuration("llm.retry_delay")
	cfg.LLM.Timeout = v.GetDuration("llm.timeout")

	for _, providerMap := range mapList(v.Get("llm.providers")) {
		cfg.LLM.Providers = append(cfg.LLM.Providers, ProviderConfig{
			Name:    getStringFromMap(providerMap, "name"),
			Enabled: getBoolFromMap(providerMap, "enabled"),
			APIKey:  expandEnvVar(v, getStringFromMap(providerMap, "api_key")),
			BaseURL: getStringFromMap(providerMap, "base_url"),
			Model:   getStringFromMap(providerMap, "model"),
			Timeout: getStringFromMap(providerMap, "timeout"),
		})
	}

	cfg.Skills.Chat = skill(v, "skills.chat")
	cfg.Skills.Math = skill(v, "skills.math")
	cfg.Skills.Program = skill(v, "skills.program")

	// Weather
	cfg.Weather.APIKey = v.GetString("weather.api_key")
	if weatherKey := v.GetString("weather_api_key"); weatherKey != "" {
		cfg.Weather.APIKey = weatherKey
	}
	cfg.Weather.BaseURL = v.GetString("weather.base_url")
	cfg.Weather.Timeout = v.GetDuration("weather.timeout")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func skill(v *viper.Viper, prefix string) SkillConfig {
	return SkillConfig{
		Providers:         v.GetStringSlice(prefix + ".providers"),
		Model:             v.GetString(prefix + ".model"),
		Temperature:       v.GetFloat64(prefix + ".temperature"),
		MaxTokens:         v.GetInt(prefix + ".max_tokens"),
		TopP:              v.GetFloat64(prefix + ".top_p"),
		TopK:              v.GetInt(prefix + ".top_k"),
		RepetitionPenalty: v.GetFloat64(prefix + ".repetition_penalty"),
		SystemPrompt:      v.GetString(prefix + ".system_prompt"),
		Fallback:          v.GetString(prefix + ".fallback"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.port", 8080)
	v.SetDefault("http_server.mode", "debug")
	v.SetDefault("logger.level", "debug")
	v.SetDefault("logger.mode", "development")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", true)

	v.SetDefault("telegram.mode", TelegramModePolling)
	v.SetDefault("telegram.ngrok_api_url", "http://ngrok:4040")
	v.SetDefault("telegram.poll_timeout", 30)
	v.SetDefault("telegram.max_message_length", 2000)
	v.SetDefault("telegram.send_rate", 20)
	v.SetDefault("telegram.send_burst", 5)

	v.SetDefault("bot.command_prefix", "!")

	v.SetDefault("conversation.max_entries", 10)
	v.SetDefault("conversation.context_window", 5)
	v.SetDefault("conversation.ttl", "1h")

	// LLM defaults: one attempt, no fallback chain
	v.SetDefault("llm.fallback_enabled", false)
	v.SetDefault("llm.retry_attempts", 1)
	v.SetDefault("llm.retry_delay", "1s")
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.providers", []any{
		map[string]any{"name": "groq", "enabled": true, "api_key": "${GROQ_API_KEY}"},
		map[string]any{"name": "together", "enabled": true, "api_key": "${TOGETHER_API_KEY}"},
		map[string]any{"name": "sambanova", "enabled": true, "api_key": "${SAMBANOVA_API_KEY}"},
	})

	v.SetDefault("skills.chat.providers", []string{"groq"})
	v.SetDefault("skills.chat.model", "llama-3.3-70b-versatile")
	v.SetDefault("skills.chat.temperature", 0.7)
	v.SetDefault("skills.chat.max_tokens", 1000)
	v.SetDefault("skills.chat.top_p", 0.9)

	v.SetDefault("skills.math.providers", []string{"together"})
	v.SetDefault("skills.math.model", "Qwen/QwQ-32B-Preview")
	v.SetDefault("skills.math.temperature", 0.7)
	v.SetDefault("skills.math.max_tokens", 512)
	v.SetDefault("skills.math.top_p", 0.9)
	v.SetDefault("skills.math.top_k", 50)
	v.SetDefault("skills.math.repetition_penalty", 1.0)

	v.SetDefault("skills.program.providers", []string{"sambanova"})
	v.SetDefault("skills.program.model", "Qwen2.5-Coder-32B-Instruct")
	v.SetDefault("skills.program.temperature", 0.7)
	v.SetDefault("skills.program.max_tokens", 2048)
	v.SetDefault("skills.program.top_p", 0.9)

	v.SetDefault("weather.base_url", "http://api.openweathermap.org")
	v.SetDefault("weather.timeout", "10s")
}

// Validate checks the invariants the rest of the service relies on.
func (c *Config) Validate() error {
	if c.Telegram.Mode != TelegramModeWebhook && c.Telegram.Mode != TelegramModePolling {
		return fmt.Errorf("telegram.mode must be %q or %q, got %q", TelegramModeWebhook, TelegramModePolling, c.Telegram.Mode)
	}
	if c.Telegram.MaxMessageLength <= 0 {
		return fmt.Errorf("telegram.max_message_length must be positive")
	}
	if c.Conversation.MaxEntries <= 0 || c.Conversation.ContextWindow <= 0 {
		return fmt.Errorf("conversation.max_entries and conversation.context_window must be positive")
	}
	if c.Conversation.TTL <= 0 {
		return fmt.Errorf("conversation.ttl must be positive")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive")
	}
	return validateLLMConfig(&c.LLM, c.Skills)
}

// validateLLMConfig validates the LLM configuration
func validateLLMConfig(cfg *LLMConfig, skills SkillsConfig) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("no LLM providers configured - please add llm.providers section to config.yaml")
	}

	names := make(map[string]bool)
	for i, provider := range cfg.Providers {
		if provider.Name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if names[provider.Name] {
			return fmt.Errorf("provider %s: duplicate name", provider.Name)
		}
		names[provider.Name] = true
	}

	for skillName, s := range map[string]SkillConfig{"chat": skills.Chat, "math": skills.Math, "program": skills.Program} {
		if len(s.Providers) == 0 {
			return fmt.Errorf("skill %s: at least one provider is required", skillName)
		}
		for _, p := range s.Providers {
			if !names[p] {
				return fmt.Errorf("skill %s: unknown provider %q", skillName, p)
			}
		}
		if s.Model == "" {
			return fmt.Errorf("skill %s: model is required", skillName)
		}
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(v *viper.Viper, value string) string {
	if value == "" {
		return value
	}

	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		// Try viper first (handles both env and config)
		if envValue := v.GetString(envVar); envValue != "" {
			return envValue
		}
		if envValue := v.GetString(strings.ToLower(envVar)); envValue != "" {
			return envValue
		}
		if envValue := os.Getenv(envVar); envValue != "" {
			return envValue
		}
		return ""
	}

	return value
}

// mapList normalizes a list value coming either from YAML ([]interface{})
// or from SetDefault ([]map[string]any).
func mapList(raw any) []map[string]interface{} {
	var out []map[string]interface{}
	switch list := raw.(type) {
	case []interface{}:
		for _, item := range list {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
	case []map[string]interface{}:
		out = list
	}
	return out
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}
