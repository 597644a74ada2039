package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// defaults maps every configuration key to its default value. Registering
// a default for each key (empty for required settings) is what lets viper
// resolve the key through AutomaticEnv during Unmarshal.
var defaults = map[string]any{
	"server.port":      8080,
	"server.log_level": "info",

	"database.url": "",

	"auth.jwt_secret":             "",
	"auth.token_lifetime_minutes": 60,

	"llm.openrouter_api_key": "",
	"llm.base_url":           "https://openrouter.ai/api/v1",
	"llm.model":              "mistralai/mistral-7b-instruct:free",
	"llm.max_attempts":       3,
	"llm.timeout_seconds":    30,
	"llm.backoff_base_ms":    1000,
	"llm.backoff_cap_ms":     10000,
}

// Load reads configuration from environment variables with the CARDGEN_
// prefix (e.g. CARDGEN_DATABASE_URL maps to database.url) and validates
// the result. Environment variables take precedence over defaults.
// Returns a populated Config or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("CARDGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
