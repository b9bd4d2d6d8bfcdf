package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth" validate:"required"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// CORSAllowedOrigins lists the browser origins allowed to call the API.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins" validate:"dive,required"`
	// AuthRateLimitPerMinute caps requests per client IP on the credential endpoints.
	AuthRateLimitPerMinute int `mapstructure:"auth_rate_limit_per_minute" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// URL selects the backend by scheme: postgres:// or postgresql:// for
	// PostgreSQL, sqlite:// or file: for an embedded SQLite file.
	URL string `mapstructure:"url" validate:"required,dburl"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret             string `mapstructure:"jwt_secret" validate:"required,min=32"`
	SigningAlgorithm      string `mapstructure:"signing_algorithm" validate:"required,oneof=HS256 HS384 HS512"`
	AccessTokenTTLMinutes int    `mapstructure:"access_token_ttl_minutes" validate:"required,gt=0"`
	RefreshTokenTTLDays   int    `mapstructure:"refresh_token_ttl_days" validate:"required,gt=0"`
	BCryptCost            int    `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}

// AccessTokenLifetime returns the configured access token lifetime.
func (c AuthConfig) AccessTokenLifetime() time.Duration {
	return time.Duration(c.AccessTokenTTLMinutes) * time.Minute
}

// RefreshTokenLifetime returns the configured refresh token lifetime.
func (c AuthConfig) RefreshTokenLifetime() time.Duration {
	return time.Duration(c.RefreshTokenTTLDays) * 24 * time.Hour
}

// TelemetryConfig controls OpenTelemetry tracing. Tracing is disabled when
// OTLPEndpoint is empty.
type TelemetryConfig struct {
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	ServiceName  string `mapstructure:"service_name" validate:"required"`
}
