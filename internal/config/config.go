// Package config loads service configuration from an optional YAML file,
// environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/interview-coach/internal/llm"
)

const (
	// EnvPrefix prefixes every configuration environment variable.
	EnvPrefix = "INTERVIEW"
	// DefaultConfigName is looked up in the working directory when no file is given.
	DefaultConfigName = "interview-coach"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Interview InterviewConfig `mapstructure:"interview"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port            int             `mapstructure:"port"`
	ReadTimeout     time.Duration   `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration   `mapstructure:"write-timeout"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown-timeout"`
	CORSOrigins     []string        `mapstructure:"cors-origins"`
	RateLimit       RateLimitConfig `mapstructure:"rate-limit"`
}

// RateLimitConfig configures per-client request limiting.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
	// AnswerRPS and AnswerBurst apply to the answer and start routes, which
	// call the language model.
	AnswerRPS   float64 `mapstructure:"answer-rps"`
	AnswerBurst int     `mapstructure:"answer-burst"`
}

// DatabaseConfig configures PostgreSQL. An empty URL selects the in-memory store.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// LLMConfig selects the language model provider and models.
type LLMConfig struct {
	Provider         string        `mapstructure:"provider"`
	GeminiAPIKey     string        `mapstructure:"gemini-api-key"`
	OpenRouterAPIKey string        `mapstructure:"openrouter-api-key"`
	BaseURL          string        `mapstructure:"base-url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	Models           ModelsConfig  `mapstructure:"models"`
}

// ModelsConfig overrides the provider's default model per tier.
type ModelsConfig struct {
	Lite     string `mapstructure:"lite"`
	Standard string `mapstructure:"standard"`
	Advanced string `mapstructure:"advanced"`
}

// AuthConfig configures bearer token authentication.
type AuthConfig struct {
	Disabled        bool   `mapstructure:"disabled"`
	JWTSecret       string `mapstructure:"jwt-secret"`
	ExpirationHours int    `mapstructure:"expiration-hours"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// InterviewConfig tunes sessions.
type InterviewConfig struct {
	QuestionCount int `mapstructure:"question-count"`
	HistoryLimit  int `mapstructure:"history-limit"`
}

// Load reads configuration. path may be empty, in which case
// interview-coach.yaml in the working directory is used if present.
func Load(path string) (*Config, error) {
	v := New()
	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return Decode(v)
}

// New returns a viper instance with defaults and environment bindings set.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Conventional names used by hosting platforms and the provider SDKs.
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("llm.gemini-api-key", EnvPrefix+"_LLM_GEMINI_API_KEY", "GEMINI_API_KEY")
	_ = v.BindEnv("llm.openrouter-api-key", EnvPrefix+"_LLM_OPENROUTER_API_KEY", "OPENROUTER_API_KEY")
	_ = v.BindEnv("auth.jwt-secret", EnvPrefix+"_AUTH_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
	return v
}

// ReadFile merges a config file into v. A missing default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.AddConfigPath(".")
	v.SetConfigName(DefaultConfigName)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// Decode unmarshals and validates the configuration held by v.
func Decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read-timeout", 15*time.Second)
	v.SetDefault("server.write-timeout", 90*time.Second)
	v.SetDefault("server.shutdown-timeout", 10*time.Second)
	v.SetDefault("server.cors-origins", []string{"*"})
	v.SetDefault("server.rate-limit.enabled", true)
	v.SetDefault("server.rate-limit.rps", 10.0)
	v.SetDefault("server.rate-limit.burst", 20)
	v.SetDefault("server.rate-limit.answer-rps", 1.0)
	v.SetDefault("server.rate-limit.answer-burst", 5)

	v.SetDefault("database.url", "")

	v.SetDefault("llm.provider", string(llm.ProviderGemini))
	v.SetDefault("llm.gemini-api-key", "")
	v.SetDefault("llm.openrouter-api-key", "")
	v.SetDefault("llm.base-url", "")
	v.SetDefault("llm.timeout", 30*time.Second)
	v.SetDefault("llm.models.lite", "")
	v.SetDefault("llm.models.standard", "")
	v.SetDefault("llm.models.advanced", "")

	v.SetDefault("auth.disabled", false)
	v.SetDefault("auth.jwt-secret", "")
	v.SetDefault("auth.expiration-hours", 24)

	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetDefault("interview.question-count", 5)
	v.SetDefault("interview.history-limit", 20)
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: 'server.port' must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.RateLimit.Enabled {
		if c.Server.RateLimit.RPS <= 0 || c.Server.RateLimit.Burst < 1 {
			return fmt.Errorf("config error: 'server.rate-limit' needs positive rps and burst")
		}
		if c.Server.RateLimit.AnswerRPS <= 0 || c.Server.RateLimit.AnswerBurst < 1 {
			return fmt.Errorf("config error: 'server.rate-limit' needs positive answer-rps and answer-burst")
		}
	}

	switch llm.Provider(c.LLM.Provider) {
	case llm.ProviderGemini, llm.ProviderOpenRouter:
	default:
		return fmt.Errorf("config error: unknown 'llm.provider' %q", c.LLM.Provider)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("config error: 'llm.timeout' must be positive, got %s", c.LLM.Timeout)
	}

	if !c.Auth.Disabled && c.Auth.ExpirationHours < 1 {
		return fmt.Errorf("config error: 'auth.expiration-hours' must be at least 1, got %d", c.Auth.ExpirationHours)
	}

	if c.Interview.QuestionCount < 1 || c.Interview.QuestionCount > 20 {
		return fmt.Errorf("config error: 'interview.question-count' must be between 1 and 20")
	}
	if c.Interview.HistoryLimit < 1 {
		return fmt.Errorf("config error: 'interview.history-limit' must be at least 1")
	}
	return nil
}

// APIKey returns the key for the configured provider.
func (c LLMConfig) APIKey() string {
	if llm.Provider(c.Provider) == llm.ProviderOpenRouter {
		return c.OpenRouterAPIKey
	}
	return c.GeminiAPIKey
}

// ClientConfig builds the llm client configuration, applying model and
// endpoint overrides to the provider defaults.
func (c LLMConfig) ClientConfig() *llm.Config {
	cfg := llm.ConfigFor(llm.Provider(c.Provider))
	overrides := map[llm.ModelTier]string{
		llm.TierLite:     c.Models.Lite,
		llm.TierStandard: c.Models.Standard,
		llm.TierAdvanced: c.Models.Advanced,
	}
	for tier, model := range overrides {
		if model = strings.TrimSpace(model); model != "" {
			cfg = cfg.WithModel(tier, model)
		}
	}
	if c.BaseURL != "" {
		cfg.BaseURL = c.BaseURL
	}
	if c.Timeout > 0 {
		cfg.HTTPTimeout = c.Timeout
	}
	return cfg
}

// Enabled reports whether an API key is available for the configured provider.
func (c LLMConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey()) != ""
}

// RequireSecret reports an error when auth is enabled without a secret.
func (c AuthConfig) RequireSecret() error {
	if !c.Disabled && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required unless auth.disabled is set")
	}
	return nil
}
