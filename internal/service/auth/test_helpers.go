package auth

import (
	"time"

	"github.com/phrazzld/todo-api/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// TestSecret is a signing secret long enough to pass validation. Tests only.
const TestSecret = "test-jwt-secret-that-is-32-chars-long"

// DefaultJWTConfig returns a standard configuration for JWT authentication suitable for testing.
func DefaultJWTConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:             TestSecret,
		SigningAlgorithm:      "HS256",
		AccessTokenTTLMinutes: 30,
		RefreshTokenTTLDays:   7,
		BCryptCost:            bcrypt.MinCost,
	}
}

// NewTestJWTService creates a JWT service with DefaultJWTConfig and the given clock.
// A nil clock uses time.Now.
func NewTestJWTService(clock func() time.Time) JWTService {
	opts := []JWTOption{}
	if clock != nil {
		opts = append(opts, WithClock(clock))
	}
	svc, err := NewJWTService(DefaultJWTConfig(), opts...)
	if err != nil {
		// ALLOW-PANIC: the default configuration is valid
		panic(err)
	}
	return svc
}
