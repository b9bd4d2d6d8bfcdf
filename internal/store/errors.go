package store

import (
	"errors"
	"fmt"
)

// Error families. Backends return the specific sentinels below; callers may
// match either the specific error or its family with errors.Is.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrDuplicate     = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")
)

var (
	ErrUserNotFound         = fmt.Errorf("%w: user", ErrNotFound)
	ErrTaskNotFound         = fmt.Errorf("%w: task", ErrNotFound)
	ErrRefreshTokenNotFound = fmt.Errorf("%w: refresh token", ErrNotFound)

	// ErrUsernameExists is returned by UserStore.Create for a taken username.
	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)
)

// IsNotFoundError reports whether err belongs to the not-found family.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError reports whether err belongs to the duplicate family.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
