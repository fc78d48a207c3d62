package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Study    StudyConfig    `mapstructure:"study"`
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
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"gte=0,lte=31"`
}

// LLMConfig contains settings for the card-generation integration.
// The API key may be empty, in which case AI-assisted card extraction is
// disabled and the corresponding endpoint reports it as unavailable.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// StudyConfig contains tunables for the study/statistics subsystem.
type StudyConfig struct {
	// StatsLookbackDays bounds the window scanned for streak and accuracy
	// aggregation.
	StatsLookbackDays int `mapstructure:"stats_lookback_days" validate:"gte=1"`

	// ProgressWorkers is the number of outbox workers flushing per-card
	// study progress updates.
	ProgressWorkers int `mapstructure:"progress_workers" validate:"gte=1"`

	// ProgressQueueSize bounds the progress outbox queue.
	ProgressQueueSize int `mapstructure:"progress_queue_size" validate:"gte=1"`

	// ListRetryAttempts is the ceiling on deck-listing read retries.
	ListRetryAttempts int `mapstructure:"list_retry_attempts" validate:"gte=1"`
}
