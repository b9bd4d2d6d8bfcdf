package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
)

// RefreshTokenStore implements store.RefreshTokenStore over SQLite.
type RefreshTokenStore struct {
	db store.DBTX
}

// NewRefreshTokenStore creates a RefreshTokenStore over a database handle or transaction.
func NewRefreshTokenStore(db store.DBTX) *RefreshTokenStore {
	return &RefreshTokenStore{db: db}
}

var _ store.RefreshTokenStore = (*RefreshTokenStore)(nil)

type refreshTokenRow struct {
	ID        int64  `db:"id"`
	OwnerID   int64  `db:"user_id"`
	Token     string `db:"token"`
	CreatedAt int64  `db:"created_at"`
	ExpiresAt int64  `db:"expires_at"`
}

// WithTx implements store.RefreshTokenStore.WithTx
func (s *RefreshTokenStore) WithTx(tx *sql.Tx) store.RefreshTokenStore {
	return &RefreshTokenStore{db: tx}
}

// Create implements store.RefreshTokenStore.Create
func (s *RefreshTokenStore) Create(ctx context.Context, token *domain.RefreshToken) error {
	if err := token.Validate(); err != nil {
		return err
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO refresh_tokens (user_id, token, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (token) DO NOTHING
		RETURNING id`,
		token.OwnerID, token.Token, toMillis(token.CreatedAt), toMillis(token.ExpiresAt),
	).Scan(&token.ID)
	if errors.Is(err, sql.ErrNoRows) {
		// Row already present
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", MapError(err, nil))
	}
	return nil
}

// GetActive implements store.RefreshTokenStore.GetActive
func (s *RefreshTokenStore) GetActive(ctx context.Context, token string, now time.Time) (*domain.RefreshToken, error) {
	var row refreshTokenRow
	err := sqlscan.Get(ctx, s.db, &row, `
		SELECT id, user_id, token, created_at, expires_at
		FROM refresh_tokens
		WHERE token = ? AND expires_at > ?`, token, toMillis(now))
	if err != nil {
		return nil, MapError(err, store.ErrRefreshTokenNotFound)
	}
	return &domain.RefreshToken{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Token:     row.Token,
		CreatedAt: fromMillis(row.CreatedAt),
		ExpiresAt: fromMillis(row.ExpiresAt),
	}, nil
}

// DeleteByToken implements store.RefreshTokenStore.DeleteByToken
func (s *RefreshTokenStore) DeleteByToken(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = ?`, token); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", MapError(err, nil))
	}
	return nil
}
