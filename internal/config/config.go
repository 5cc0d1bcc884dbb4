package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Study    StudyConfig    `mapstructure:"study" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// TokenLifetimeMinutes is how long issued access tokens stay valid.
	TokenLifetimeMinutes int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`

	// BcryptCost is the work factor for password hashing. The range
	// matches bcrypt's own MinCost..MaxCost.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// StudyConfig contains the session-engine tunables.
type StudyConfig struct {
	// MaxStageFails caps how many times a word may fail a non-typing
	// stage before it is force-advanced. Zero disables the cap.
	MaxStageFails int `mapstructure:"max_stage_fails" validate:"gte=0"`

	// AdvanceDelayCorrectMS and AdvanceDelayWrongMS are the pacing
	// hints echoed to clients after a graded answer, in milliseconds.
	AdvanceDelayCorrectMS int `mapstructure:"advance_delay_correct_ms" validate:"required,gt=0"`
	AdvanceDelayWrongMS   int `mapstructure:"advance_delay_wrong_ms" validate:"required,gt=0"`

	// ConnectLockoutMS is the board lockout after a mismatched pair in
	// the matching game, in milliseconds.
	ConnectLockoutMS int `mapstructure:"connect_lockout_ms" validate:"required,gt=0"`
}

// LLMConfig contains all LLM integration related settings. The group is
// optional: without an API key the example-sentence feature is disabled.
type LLMConfig struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name"`
}
