package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// UserStore implements store.UserStore over SQLite.
type UserStore struct {
	db store.DBTX
}

// NewUserStore creates a UserStore over a database handle or transaction.
func NewUserStore(db store.DBTX) *UserStore {
	return &UserStore{db: db}
}

var _ store.UserStore = (*UserStore)(nil)

type userRow struct {
	ID             int64  `db:"id"`
	Username       string `db:"username"`
	HashedPassword string `db:"hashed_password"`
	CreatedAt      int64  `db:"created_at"`
}

func (r userRow) toDomain() *domain.User {
	return &domain.User{
		ID:             r.ID,
		Username:       r.Username,
		HashedPassword: r.HashedPassword,
		CreatedAt:      fromMillis(r.CreatedAt),
	}
}

// WithTx implements store.UserStore.WithTx
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx}
}

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	if user.HashedPassword == "" {
		return domain.ErrEmptyHashedPassword
	}
	if err := user.Validate(); err != nil {
		return err
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, hashed_password, created_at)
		VALUES (?, ?, ?)
		RETURNING id`,
		user.Username, user.HashedPassword, toMillis(user.CreatedAt),
	).Scan(&user.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("username already exists", slog.String("username", user.Username))
			return store.ErrUsernameExists
		}
		return fmt.Errorf("failed to create user: %w", MapError(err, nil))
	}

	user.Password = ""
	user.CreatedAt = fromMillis(toMillis(user.CreatedAt))
	log.Debug("user created", slog.Int64("user_id", user.ID))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var row userRow
	err := sqlscan.Get(ctx, s.db, &row, `
		SELECT id, username, hashed_password, created_at
		FROM users
		WHERE id = ?`, id)
	if err != nil {
		return nil, MapError(err, store.ErrUserNotFound)
	}
	return row.toDomain(), nil
}

// GetByUsername implements store.UserStore.GetByUsername
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var row userRow
	err := sqlscan.Get(ctx, s.db, &row, `
		SELECT id, username, hashed_password, created_at
		FROM users
		WHERE username = ?`, username)
	if err != nil {
		return nil, MapError(err, store.ErrUserNotFound)
	}
	return row.toDomain(), nil
}

// Delete implements store.UserStore.Delete
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", MapError(err, nil))
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}
