package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// LLMConfig contains all settings for the OpenRouter model gateway.
type LLMConfig struct {
	// OpenRouterAPIKey authenticates outbound chat-completion calls.
	// Service construction fails when it is absent.
	OpenRouterAPIKey string `mapstructure:"openrouter_api_key" validate:"required"`

	// BaseURL is the OpenAI-compatible API root, without a trailing slash.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Model is the default model identifier sent with generation requests.
	Model string `mapstructure:"model" validate:"required"`

	// MaxAttempts is the total number of attempts per call, including the first.
	MaxAttempts int `mapstructure:"max_attempts" validate:"required,gte=1,lte=10"`

	// TimeoutSeconds bounds each individual attempt.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"required,gt=0"`

	// BackoffBaseMs and BackoffCapMs shape the exponential retry backoff:
	// delay = min(base * 2^attempt, cap).
	BackoffBaseMs int `mapstructure:"backoff_base_ms" validate:"required,gt=0"`
	BackoffCapMs  int `mapstructure:"backoff_cap_ms"  validate:"required,gt=0"`
}
