package postgres

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

// PostgresRefreshTokenStore implements store.RefreshTokenStore using PostgreSQL.
type PostgresRefreshTokenStore struct {
	db store.DBTX
}

// NewPostgresRefreshTokenStore creates a new PostgresRefreshTokenStore
func NewPostgresRefreshTokenStore(db store.DBTX) *PostgresRefreshTokenStore {
	return &PostgresRefreshTokenStore{db: db}
}

var _ store.RefreshTokenStore = (*PostgresRefreshTokenStore)(nil)

type refreshTokenRow struct {
	ID        int64     `db:"id"`
	OwnerID   int64     `db:"user_id"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// WithTx implements store.RefreshTokenStore.WithTx
func (s *PostgresRefreshTokenStore) WithTx(tx *sql.Tx) store.RefreshTokenStore {
	return &PostgresRefreshTokenStore{db: tx}
}

// Create implements store.RefreshTokenStore.Create
func (s *PostgresRefreshTokenStore) Create(ctx context.Context, token *domain.RefreshToken) error {
	if err := token.Validate(); err != nil {
		return err
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO refresh_tokens (user_id, token, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token) DO NOTHING
		RETURNING id`,
		token.OwnerID, token.Token, token.CreatedAt, token.ExpiresAt,
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
func (s *PostgresRefreshTokenStore) GetActive(
	ctx context.Context,
	token string,
	now time.Time,
) (*domain.RefreshToken, error) {
	var row refreshTokenRow
	err := sqlscan.Get(ctx, s.db, &row, `
		SELECT id, user_id, token, created_at, expires_at
		FROM refresh_tokens
		WHERE token = $1 AND expires_at > $2`, token, now.UTC())
	if err != nil {
		return nil, MapError(err, store.ErrRefreshTokenNotFound)
	}
	return &domain.RefreshToken{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Token:     row.Token,
		CreatedAt: row.CreatedAt.UTC(),
		ExpiresAt: row.ExpiresAt.UTC(),
	}, nil
}

// DeleteByToken implements store.RefreshTokenStore.DeleteByToken
func (s *PostgresRefreshTokenStore) DeleteByToken(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE token = $1`, token); err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", MapError(err, nil))
	}
	return nil
}
