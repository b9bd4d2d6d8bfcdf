package auth

import (
	"errors"
	"fmt"
)

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrRevokedToken indicates a refresh token that is well formed and unexpired
	// but has no live row in the store (logged out, or never persisted).
	ErrRevokedToken = errors.New("refresh token has been revoked")

	// ErrWrongTokenType indicates an access token was presented where a refresh
	// token was expected, or vice versa. It is a kind of ErrInvalidToken.
	ErrWrongTokenType = fmt.Errorf("%w: wrong token type", ErrInvalidToken)

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidCredentials indicates an unknown username or a wrong password.
	// The two cases are deliberately indistinguishable to callers.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrUnsupportedAlgorithm indicates a configured signing algorithm that is not HMAC.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)
