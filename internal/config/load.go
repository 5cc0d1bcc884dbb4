package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix namespaces every environment variable read by Load, e.g.
// LOEK_SERVER_PORT or LOEK_DATABASE_URL.
const envPrefix = "LOEK"

// Load reads configuration from environment variables, applies defaults,
// and validates the result. Returns a populated Config or an error when
// loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("study.max_stage_fails", 0)
	v.SetDefault("study.advance_delay_correct_ms", 600)
	v.SetDefault("study.advance_delay_wrong_ms", 900)
	v.SetDefault("study.connect_lockout_ms", 450)
	v.SetDefault("llm.model_name", "gemini-2.0-flash")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not register keys for Unmarshal; bind each one
	// explicitly so env-only values are picked up.
	for _, key := range []string{
		"server.port",
		"server.log_level",
		"database.url",
		"auth.jwt_secret",
		"auth.token_lifetime_minutes",
		"auth.bcrypt_cost",
		"study.max_stage_fails",
		"study.advance_delay_correct_ms",
		"study.advance_delay_wrong_ms",
		"study.connect_lockout_ms",
		"llm.gemini_api_key",
		"llm.model_name",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
