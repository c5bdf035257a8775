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
	JWTSecret          string `mapstructure:"jwt_secret"           validate:"required,min=32"`
	TokenLifetimeHours int    `mapstructure:"token_lifetime_hours" validate:"required,gt=0"`
}

// LLMConfig contains all reasoning-service integration settings.
// Provider selects the client implementation; the OpenRouter endpoint
// speaks the chat-completions wire format, Gemini goes through the
// genai SDK. TimeoutSeconds bounds a single reasoning call; a call is
// abandoned at this boundary and the caller falls back locally.
type LLMConfig struct {
	Provider       string `mapstructure:"provider"        validate:"required,oneof=openrouter gemini"`
	APIKey         string `mapstructure:"api_key"         validate:"required"`
	ModelName      string `mapstructure:"model_name"      validate:"required"`
	Endpoint       string `mapstructure:"endpoint"        validate:"omitempty,url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}
