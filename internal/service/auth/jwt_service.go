package auth

import (
	"context"
	"time"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the user.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, userID int64) (string, error)

	// ValidateToken validates the provided access token string and extracts the claims.
	// Returns ErrExpiredToken for an expired token, ErrWrongTokenType for a
	// refresh token and ErrInvalidToken for anything else that fails to verify.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed JWT refresh token for the user and
	// returns it with its expiry. Persisting the token is the caller's job.
	GenerateRefreshToken(ctx context.Context, userID int64) (string, time.Time, error)

	// ValidateRefreshToken validates the signature, expiry and type of a
	// refresh token. It does not consult the token store.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	// UserID is the user the token was issued for, decoded from the subject.
	UserID int64

	// TokenType indicates the purpose of the token ("access" or "refresh").
	TokenType string

	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
