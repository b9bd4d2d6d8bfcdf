package domain

import (
	"fmt"
	"time"
)

// Common validation errors for RefreshToken
var (
	ErrEmptyRefreshToken      = fmt.Errorf("%w: refresh token cannot be empty", ErrValidation)
	ErrEmptyRefreshTokenOwner = fmt.Errorf("%w: refresh token owner cannot be empty", ErrValidation)
	ErrInvalidTokenExpiry     = fmt.Errorf("%w: refresh token must expire after it is created", ErrValidation)
)

// RefreshToken is the persisted record of an issued refresh token. Its
// presence in the store is what keeps the token usable; deleting the row
// revokes the token before its natural expiry.
type RefreshToken struct {
	ID        int64
	OwnerID   int64
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewRefreshToken builds the record for a token signed at createdAt.
func NewRefreshToken(ownerID int64, token string, createdAt, expiresAt time.Time) (*RefreshToken, error) {
	rt := &RefreshToken{
		OwnerID:   ownerID,
		Token:     token,
		CreatedAt: createdAt.UTC(),
		ExpiresAt: expiresAt.UTC(),
	}

	if err := rt.Validate(); err != nil {
		return nil, err
	}

	return rt, nil
}

// Validate checks if the RefreshToken has valid data.
func (rt *RefreshToken) Validate() error {
	if rt.OwnerID <= 0 {
		return ErrEmptyRefreshTokenOwner
	}
	if rt.Token == "" {
		return ErrEmptyRefreshToken
	}
	if !rt.ExpiresAt.After(rt.CreatedAt) {
		return ErrInvalidTokenExpiry
	}
	return nil
}
