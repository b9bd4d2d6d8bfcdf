// Package database opens the configured storage backend and builds the
// store implementations that belong to it.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/platform/sqlite"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/pressly/goose/v3"
)

// Driver identifies a storage backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// ErrUnsupportedURL is returned for database URLs whose scheme has no backend.
var ErrUnsupportedURL = errors.New("unsupported database URL")

// Target is a parsed database URL.
type Target struct {
	Driver Driver
	// DSN is what the backend's Open expects: the URL itself for PostgreSQL,
	// a file path for SQLite.
	DSN string
}

// Parse resolves the backend for rawURL.
//
//	postgres://... and postgresql://...   PostgreSQL
//	sqlite:///abs/path.db, sqlite://rel.db SQLite file
//	file:path.db                           SQLite file
func Parse(rawURL string) (Target, error) {
	raw := strings.TrimSpace(rawURL)
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return Target{Driver: DriverPostgres, DSN: raw}, nil
	case strings.HasPrefix(raw, "file:"):
		path := strings.TrimPrefix(raw, "file:")
		if path == "" {
			return Target{}, fmt.Errorf("%w: empty sqlite path", ErrUnsupportedURL)
		}
		return Target{Driver: DriverSQLite, DSN: path}, nil
	case strings.HasPrefix(raw, "sqlite://"):
		u, err := url.Parse(raw)
		if err != nil {
			return Target{}, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
		}
		path := u.Host + u.Path
		if path == "" {
			return Target{}, fmt.Errorf("%w: empty sqlite path", ErrUnsupportedURL)
		}
		if u.RawQuery != "" {
			path += "?" + u.RawQuery
		}
		return Target{Driver: DriverSQLite, DSN: path}, nil
	default:
		return Target{}, fmt.Errorf("%w: scheme must be postgres, postgresql, sqlite or file", ErrUnsupportedURL)
	}
}

// DB is an open database together with the stores that operate on it.
type DB struct {
	*sql.DB
	Driver Driver

	Users         store.UserStore
	Tasks         store.TaskStore
	RefreshTokens store.RefreshTokenStore
}

// Open connects to the backend selected by rawURL.
func Open(ctx context.Context, rawURL string) (*DB, error) {
	target, err := Parse(rawURL)
	if err != nil {
		return nil, err
	}

	var sqlDB *sql.DB
	switch target.Driver {
	case DriverPostgres:
		sqlDB, err = postgres.Open(ctx, target.DSN)
	case DriverSQLite:
		sqlDB, err = sqlite.Open(ctx, target.DSN)
	}
	if err != nil {
		return nil, err
	}
	return Wrap(sqlDB, target.Driver), nil
}

// Wrap builds the stores for an already opened database.
func Wrap(sqlDB *sql.DB, driver Driver) *DB {
	db := &DB{DB: sqlDB, Driver: driver}
	switch driver {
	case DriverPostgres:
		db.Users = postgres.NewPostgresUserStore(sqlDB)
		db.Tasks = postgres.NewPostgresTaskStore(sqlDB)
		db.RefreshTokens = postgres.NewPostgresRefreshTokenStore(sqlDB)
	default:
		db.Users = sqlite.NewUserStore(sqlDB)
		db.Tasks = sqlite.NewTaskStore(sqlDB)
		db.RefreshTokens = sqlite.NewRefreshTokenStore(sqlDB)
	}
	return db
}

// MigrationProvider returns the goose provider for the backend's embedded schema.
func (db *DB) MigrationProvider(opts ...goose.ProviderOption) (*goose.Provider, error) {
	if db.Driver == DriverPostgres {
		return postgres.NewMigrationProvider(db.DB, opts...)
	}
	return sqlite.NewMigrationProvider(db.DB, opts...)
}

// Migrate applies all pending migrations.
func (db *DB) Migrate(ctx context.Context) error {
	provider, err := db.MigrationProvider()
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
