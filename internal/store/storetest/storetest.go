// Package storetest holds a behavioural test suite shared by every
// implementation of the store interfaces. Backend packages call Run from
// their own tests with a migrated database.
package storetest

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Backend bundles a migrated database with constructors for its stores.
type Backend struct {
	DB            *sql.DB
	Users         func(store.DBTX) store.UserStore
	Tasks         func(store.DBTX) store.TaskStore
	RefreshTokens func(store.DBTX) store.RefreshTokenStore
}

// Run executes the full suite against b. Subtests use unique usernames and
// token strings so a shared database can be reused across runs.
func Run(t *testing.T, b Backend) {
	t.Run("Users", func(t *testing.T) { testUsers(t, b) })
	t.Run("Tasks", func(t *testing.T) { testTasks(t, b) })
	t.Run("RefreshTokens", func(t *testing.T) { testRefreshTokens(t, b) })
	t.Run("Cascade", func(t *testing.T) { testCascade(t, b) })
	t.Run("Transactions", func(t *testing.T) { testTransactions(t, b) })
}

func uniqueUsername(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func createUser(t *testing.T, b Backend, prefix string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username:       uniqueUsername(prefix),
		HashedPassword: "$2a$04$notarealhashbutlongenoughtobestored",
	}
	require.NoError(t, b.Users(b.DB).Create(context.Background(), user))
	require.NotZero(t, user.ID)
	return user
}

func createTask(t *testing.T, b Backend, ownerID int64, title string) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(ownerID, title, title+" description")
	require.NoError(t, err)
	require.NoError(t, b.Tasks(b.DB).Create(context.Background(), task))
	require.NotZero(t, task.ID)
	return task
}

func testUsers(t *testing.T, b Backend) {
	ctx := context.Background()
	users := b.Users(b.DB)

	t.Run("create and fetch", func(t *testing.T) {
		user := createUser(t, b, "alice")

		byID, err := users.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Username, byID.Username)
		assert.Equal(t, user.HashedPassword, byID.HashedPassword)
		assert.Empty(t, byID.Password)
		assert.WithinDuration(t, user.CreatedAt, byID.CreatedAt, time.Second)

		byName, err := users.GetByUsername(ctx, user.Username)
		require.NoError(t, err)
		assert.Equal(t, user.ID, byName.ID)
	})

	t.Run("duplicate username", func(t *testing.T) {
		user := createUser(t, b, "dup")

		again := &domain.User{Username: user.Username, HashedPassword: "another-hash-value"}
		err := users.Create(ctx, again)
		assert.ErrorIs(t, err, store.ErrUsernameExists)
		assert.True(t, store.IsDuplicateError(err))
	})

	t.Run("missing hash is rejected", func(t *testing.T) {
		err := users.Create(ctx, &domain.User{Username: uniqueUsername("nohash")})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := users.GetByID(ctx, 1<<40)
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		_, err = users.GetByUsername(ctx, uniqueUsername("ghost"))
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		user := createUser(t, b, "gone")

		require.NoError(t, users.Delete(ctx, user.ID))
		_, err := users.GetByID(ctx, user.ID)
		assert.ErrorIs(t, err, store.ErrUserNotFound)

		assert.ErrorIs(t, users.Delete(ctx, user.ID), store.ErrUserNotFound)
	})
}

func testTasks(t *testing.T, b Backend) {
	ctx := context.Background()
	tasks := b.Tasks(b.DB)

	t.Run("create and get", func(t *testing.T) {
		owner := createUser(t, b, "owner")
		task := createTask(t, b, owner.ID, "write report")

		got, err := tasks.GetByID(ctx, owner.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "write report", got.Title)
		assert.Equal(t, "write report description", got.Description)
		assert.False(t, got.IsCompleted)
		assert.Equal(t, owner.ID, got.OwnerID)
	})

	t.Run("unknown owner is rejected", func(t *testing.T) {
		task, err := domain.NewTask(1<<40, "orphan", "no owner")
		require.NoError(t, err)
		assert.ErrorIs(t, tasks.Create(ctx, task), store.ErrInvalidEntity)
	})

	t.Run("foreign tasks are not found", func(t *testing.T) {
		alice := createUser(t, b, "alice")
		bob := createUser(t, b, "bob")
		task := createTask(t, b, alice.ID, "private")

		_, err := tasks.GetByID(ctx, bob.ID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		foreign := *task
		foreign.OwnerID = bob.ID
		foreign.Title = "hijacked"
		assert.ErrorIs(t, tasks.Update(ctx, &foreign), store.ErrTaskNotFound)
		assert.ErrorIs(t, tasks.Delete(ctx, bob.ID, task.ID), store.ErrTaskNotFound)

		got, err := tasks.GetByID(ctx, alice.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "private", got.Title)
	})

	t.Run("list in insertion order with filter", func(t *testing.T) {
		owner := createUser(t, b, "lister")
		other := createUser(t, b, "other")
		first := createTask(t, b, owner.ID, "first")
		second := createTask(t, b, owner.ID, "second")
		third := createTask(t, b, owner.ID, "third")
		createTask(t, b, other.ID, "not mine")

		second.IsCompleted = true
		require.NoError(t, tasks.Update(ctx, second))

		all, err := tasks.ListByOwner(ctx, owner.ID, nil)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []int64{first.ID, second.ID, third.ID}, []int64{all[0].ID, all[1].ID, all[2].ID})

		done := true
		completed, err := tasks.ListByOwner(ctx, owner.ID, &done)
		require.NoError(t, err)
		require.Len(t, completed, 1)
		assert.Equal(t, second.ID, completed[0].ID)

		notDone := false
		open, err := tasks.ListByOwner(ctx, owner.ID, &notDone)
		require.NoError(t, err)
		require.Len(t, open, 2)
		assert.Equal(t, first.ID, open[0].ID)
		assert.Equal(t, third.ID, open[1].ID)

		empty, err := tasks.ListByOwner(ctx, createUser(t, b, "empty").ID, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("update", func(t *testing.T) {
		owner := createUser(t, b, "updater")
		task := createTask(t, b, owner.ID, "draft")
		before := task.UpdatedAt

		task.Title = "final"
		task.Description = "done properly"
		task.IsCompleted = true
		require.NoError(t, tasks.Update(ctx, task))
		assert.False(t, task.UpdatedAt.Before(before))

		got, err := tasks.GetByID(ctx, owner.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "final", got.Title)
		assert.Equal(t, "done properly", got.Description)
		assert.True(t, got.IsCompleted)
	})

	t.Run("invalid update is rejected", func(t *testing.T) {
		owner := createUser(t, b, "blank")
		task := createTask(t, b, owner.ID, "keep")

		task.Title = "  "
		assert.ErrorIs(t, tasks.Update(ctx, task), domain.ErrValidation)

		got, err := tasks.GetByID(ctx, owner.ID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "keep", got.Title)
	})

	t.Run("delete twice", func(t *testing.T) {
		owner := createUser(t, b, "deleter")
		task := createTask(t, b, owner.ID, "temporary")

		require.NoError(t, tasks.Delete(ctx, owner.ID, task.ID))
		_, err := tasks.GetByID(ctx, owner.ID, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
		assert.ErrorIs(t, tasks.Delete(ctx, owner.ID, task.ID), store.ErrTaskNotFound)
	})
}

func testRefreshTokens(t *testing.T, b Backend) {
	ctx := context.Background()
	tokens := b.RefreshTokens(b.DB)
	now := time.Now().UTC()

	t.Run("create and get active", func(t *testing.T) {
		owner := createUser(t, b, "refresher")
		rt, err := domain.NewRefreshToken(owner.ID, uuid.NewString(), now, now.Add(time.Hour))
		require.NoError(t, err)
		require.NoError(t, tokens.Create(ctx, rt))
		assert.NotZero(t, rt.ID)

		got, err := tokens.GetActive(ctx, rt.Token, now)
		require.NoError(t, err)
		assert.Equal(t, rt.ID, got.ID)
		assert.Equal(t, owner.ID, got.OwnerID)
		assert.WithinDuration(t, rt.ExpiresAt, got.ExpiresAt, time.Millisecond)
	})

	t.Run("insert if absent", func(t *testing.T) {
		owner := createUser(t, b, "twice")
		value := uuid.NewString()

		first, err := domain.NewRefreshToken(owner.ID, value, now, now.Add(time.Hour))
		require.NoError(t, err)
		require.NoError(t, tokens.Create(ctx, first))

		second, err := domain.NewRefreshToken(owner.ID, value, now, now.Add(2*time.Hour))
		require.NoError(t, err)
		require.NoError(t, tokens.Create(ctx, second))

		got, err := tokens.GetActive(ctx, value, now)
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
		assert.WithinDuration(t, first.ExpiresAt, got.ExpiresAt, time.Millisecond)
	})

	t.Run("expired rows are not active", func(t *testing.T) {
		owner := createUser(t, b, "expired")
		rt := &domain.RefreshToken{
			OwnerID:   owner.ID,
			Token:     uuid.NewString(),
			CreatedAt: now.Add(-2 * time.Hour),
			ExpiresAt: now.Add(-time.Hour),
		}
		require.NoError(t, tokens.Create(ctx, rt))

		_, err := tokens.GetActive(ctx, rt.Token, now)
		assert.ErrorIs(t, err, store.ErrRefreshTokenNotFound)

		// Exactly at the expiry instant the row is no longer live.
		_, err = tokens.GetActive(ctx, rt.Token, rt.ExpiresAt)
		assert.ErrorIs(t, err, store.ErrRefreshTokenNotFound)

		got, err := tokens.GetActive(ctx, rt.Token, rt.ExpiresAt.Add(-time.Minute))
		require.NoError(t, err)
		assert.Equal(t, rt.ID, got.ID)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		owner := createUser(t, b, "logout")
		rt, err := domain.NewRefreshToken(owner.ID, uuid.NewString(), now, now.Add(time.Hour))
		require.NoError(t, err)
		require.NoError(t, tokens.Create(ctx, rt))

		require.NoError(t, tokens.DeleteByToken(ctx, rt.Token))
		_, err = tokens.GetActive(ctx, rt.Token, now)
		assert.ErrorIs(t, err, store.ErrRefreshTokenNotFound)

		assert.NoError(t, tokens.DeleteByToken(ctx, rt.Token))
		assert.NoError(t, tokens.DeleteByToken(ctx, "never-issued"))
	})

	t.Run("unknown owner is rejected", func(t *testing.T) {
		rt, err := domain.NewRefreshToken(1<<40, uuid.NewString(), now, now.Add(time.Hour))
		require.NoError(t, err)
		assert.ErrorIs(t, tokens.Create(ctx, rt), store.ErrInvalidEntity)
	})
}

func testCascade(t *testing.T, b Backend) {
	ctx := context.Background()
	now := time.Now().UTC()

	owner := createUser(t, b, "cascade")
	task := createTask(t, b, owner.ID, "doomed")
	rt, err := domain.NewRefreshToken(owner.ID, uuid.NewString(), now, now.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, b.RefreshTokens(b.DB).Create(ctx, rt))

	require.NoError(t, b.Users(b.DB).Delete(ctx, owner.ID))

	_, err = b.Tasks(b.DB).GetByID(ctx, owner.ID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	remaining, err := b.Tasks(b.DB).ListByOwner(ctx, owner.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	_, err = b.RefreshTokens(b.DB).GetActive(ctx, rt.Token, now)
	assert.ErrorIs(t, err, store.ErrRefreshTokenNotFound)
}

func testTransactions(t *testing.T, b Backend) {
	ctx := context.Background()
	errBoom := errors.New("boom")

	t.Run("commit", func(t *testing.T) {
		username := uniqueUsername("committed")
		err := store.RunInTransaction(ctx, b.DB, func(ctx context.Context, tx *sql.Tx) error {
			return b.Users(b.DB).WithTx(tx).Create(ctx, &domain.User{
				Username:       username,
				HashedPassword: "hash-value",
			})
		})
		require.NoError(t, err)

		_, err = b.Users(b.DB).GetByUsername(ctx, username)
		assert.NoError(t, err)
	})

	t.Run("rollback on error", func(t *testing.T) {
		username := uniqueUsername("rolledback")
		err := store.RunInTransaction(ctx, b.DB, func(ctx context.Context, tx *sql.Tx) error {
			if err := b.Users(b.DB).WithTx(tx).Create(ctx, &domain.User{
				Username:       username,
				HashedPassword: "hash-value",
			}); err != nil {
				return err
			}
			return errBoom
		})
		require.ErrorIs(t, err, errBoom)

		_, err = b.Users(b.DB).GetByUsername(ctx, username)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("rollback on panic", func(t *testing.T) {
		username := uniqueUsername("panicked")
		assert.PanicsWithValue(t, "kaboom", func() {
			_ = store.RunInTransaction(ctx, b.DB, func(ctx context.Context, tx *sql.Tx) error {
				if err := b.Users(b.DB).WithTx(tx).Create(ctx, &domain.User{
					Username:       username,
					HashedPassword: "hash-value",
				}); err != nil {
					return err
				}
				panic("kaboom")
			})
		})

		_, err := b.Users(b.DB).GetByUsername(ctx, username)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
