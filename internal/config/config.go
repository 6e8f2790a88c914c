package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`

	// Connection pool settings; zero values keep database/sql defaults.
	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains the session-cookie authentication settings.
type AuthConfig struct {
	// SessionSecret signs the session tokens; it must be long enough to
	// resist brute force of the HMAC key.
	SessionSecret string `mapstructure:"session_secret" validate:"required,min=32"`

	// SessionLifetimeMinutes is the fixed session expiry measured from the
	// last login. Defaults to 24 hours.
	SessionLifetimeMinutes int `mapstructure:"session_lifetime_minutes" validate:"required,gt=0"`
}
