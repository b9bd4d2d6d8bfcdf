package postgres_test

import (
	"testing"

	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/phrazzld/todo-api/internal/store/storetest"
	"github.com/phrazzld/todo-api/internal/testdb"
)

// TestPostgresStores runs only when DATABASE_URL points at a PostgreSQL server.
func TestPostgresStores(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	storetest.Run(t, storetest.Backend{
		DB:            db,
		Users:         func(db store.DBTX) store.UserStore { return postgres.NewPostgresUserStore(db) },
		Tasks:         func(db store.DBTX) store.TaskStore { return postgres.NewPostgresTaskStore(db) },
		RefreshTokens: func(db store.DBTX) store.RefreshTokenStore { return postgres.NewPostgresRefreshTokenStore(db) },
	})
}
