package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
)

// RefreshTokenStore defines the interface for persisted refresh tokens.
type RefreshTokenStore interface {
	// Create persists a refresh token. If a row with the identical token
	// string already exists the insert is skipped and no error is returned.
	// token.ID is set when a row was inserted.
	Create(ctx context.Context, token *domain.RefreshToken) error

	// GetActive returns the row whose token equals the given string and whose
	// expires_at is after now. Expired rows are filtered here rather than
	// purged. Returns ErrRefreshTokenNotFound when no live row matches.
	GetActive(ctx context.Context, token string, now time.Time) (*domain.RefreshToken, error)

	// DeleteByToken removes the row with the given token string. Deleting a
	// token that does not exist is not an error.
	DeleteByToken(ctx context.Context, token string) error

	// WithTx returns a new RefreshTokenStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) RefreshTokenStore
}
