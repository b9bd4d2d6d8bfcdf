package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/todo-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// Every read and write is keyed by owner as well as by task ID. A task that
// exists but belongs to another owner is indistinguishable from a missing
// one: both yield ErrTaskNotFound.
type TaskStore interface {
	// Create saves a new task and sets task.ID to the generated identifier.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// ListByOwner returns the owner's tasks in insertion order. A non-nil
	// completed filters to tasks whose completion state equals *completed.
	ListByOwner(ctx context.Context, ownerID int64, completed *bool) ([]*domain.Task, error)

	// GetByID retrieves a task owned by ownerID.
	// Returns ErrTaskNotFound if there is no such task for that owner.
	GetByID(ctx context.Context, ownerID, id int64) (*domain.Task, error)

	// Update writes the mutable fields (title, description, is_completed)
	// of task back to the store and refreshes task.UpdatedAt.
	// Returns ErrTaskNotFound if there is no such task for task.OwnerID.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task owned by ownerID.
	// Returns ErrTaskNotFound if there is no such task for that owner, which
	// makes a repeated delete of the same task fail.
	Delete(ctx context.Context, ownerID, id int64) error

	// WithTx returns a new TaskStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) TaskStore
}
