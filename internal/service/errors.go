package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers use errors.Is to check for them; the API layer maps them to HTTP
// status codes.
var (
	// ErrUnauthenticated is returned by IdentityResolver for every failure to
	// establish who is calling: missing, malformed, forged or expired tokens,
	// and tokens whose user no longer exists. The underlying cause stays in the
	// error chain for logging.
	ErrUnauthenticated = errors.New("could not validate credentials")
)
