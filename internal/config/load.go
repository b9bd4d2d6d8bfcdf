package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// EnvPrefix is prepended to every configuration key when read from the environment.
const EnvPrefix = "TODOAPI"

// legacyEnv maps configuration keys to the unprefixed variable names older
// deployments used. The prefixed name always wins when both are set.
var legacyEnv = map[string]string{
	"server.port":                   "PORT",
	"database.url":                  "DATABASE_URL",
	"auth.jwt_secret":               "SECRET_KEY",
	"auth.signing_algorithm":        "ALGORITHM",
	"auth.access_token_ttl_minutes": "ACCESS_TOKEN_EXPIRE_MINUTES",
	"auth.refresh_token_ttl_days":   "REFRESH_TOKEN_EXPIRE_DAYS",
	"telemetry.otlp_endpoint":       "OTEL_EXPORTER_OTLP_ENDPOINT",
}

// keys lists every configuration key so that each one is bound to the
// environment explicitly; viper's AutomaticEnv alone does not populate
// Unmarshal for keys that have no default.
var keys = []string{
	"server.port",
	"server.log_level",
	"server.cors_allowed_origins",
	"server.auth_rate_limit_per_minute",
	"database.url",
	"auth.jwt_secret",
	"auth.signing_algorithm",
	"auth.access_token_ttl_minutes",
	"auth.refresh_token_ttl_days",
	"auth.bcrypt_cost",
	"telemetry.otlp_endpoint",
	"telemetry.service_name",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_allowed_origins", []string{
		"http://localhost",
		"http://localhost:8080",
		"http://localhost:3000",
	})
	v.SetDefault("server.auth_rate_limit_per_minute", 60)
	v.SetDefault("auth.signing_algorithm", "HS256")
	v.SetDefault("auth.access_token_ttl_minutes", 30)
	v.SetDefault("auth.refresh_token_ttl_days", 7)
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("telemetry.service_name", "todo-api")
}

// Load configuration from a .env file, an optional config.yaml and environment variables.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		names := []string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}
		if legacy, ok := legacyEnv[key]; ok {
			names = append(names, legacy)
		}
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("error binding env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.RegisterValidation("dburl", validateDatabaseURL); err != nil {
		return fmt.Errorf("error registering validator: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

func validateDatabaseURL(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	if strings.HasPrefix(raw, "file:") {
		return len(raw) > len("file:")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "postgres", "postgresql":
		return u.Host != ""
	case "sqlite":
		return u.Host != "" || u.Path != "" || u.Opaque != ""
	default:
		return false
	}
}
