package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/store"
)

// TaskService provides owner-scoped task operations. A task owned by someone
// else is reported as store.ErrTaskNotFound, never returned.
type TaskService interface {
	// List returns the owner's tasks in insertion order, optionally filtered
	// by completion state.
	List(ctx context.Context, ownerID int64, completed *bool) ([]*domain.Task, error)

	// Create stores a new, not yet completed task.
	Create(ctx context.Context, ownerID int64, title, description string) (*domain.Task, error)

	// Get returns one of the owner's tasks.
	Get(ctx context.Context, ownerID, taskID int64) (*domain.Task, error)

	// Patch changes only the fields present in patch. An empty patch returns
	// the task unchanged.
	Patch(ctx context.Context, ownerID, taskID int64, patch domain.TaskPatch) (*domain.Task, error)

	// Replace overwrites title, description and completion state.
	Replace(ctx context.Context, ownerID, taskID int64, title, description string, isCompleted bool) (*domain.Task, error)

	// Delete removes one of the owner's tasks.
	Delete(ctx context.Context, ownerID, taskID int64) error
}

type taskService struct {
	db     *sql.DB
	tasks  store.TaskStore
	logger *slog.Logger
}

var _ TaskService = (*taskService)(nil)

// NewTaskService creates a TaskService.
func NewTaskService(db *sql.DB, tasks store.TaskStore, logger *slog.Logger) (TaskService, error) {
	if db == nil || tasks == nil {
		return nil, errors.New("task service: db and task store are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &taskService{
		db:     db,
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_service")),
	}, nil
}

func (s *taskService) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// wrap keeps expected failures recognisable and logs the rest.
func (s *taskService) wrap(ctx context.Context, op string, err error, attrs ...any) error {
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, store.ErrTaskNotFound) {
		return err
	}
	s.log(ctx).Error("task operation failed",
		append([]any{slog.String("operation", op), slog.String("error", err.Error())}, attrs...)...)
	return fmt.Errorf("failed to %s task: %w", op, err)
}

// List implements TaskService.
func (s *taskService) List(ctx context.Context, ownerID int64, completed *bool) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		tasks, err = s.tasks.WithTx(tx).ListByOwner(ctx, ownerID, completed)
		return err
	})
	if err != nil {
		return nil, s.wrap(ctx, "list", err, slog.Int64("user_id", ownerID))
	}
	return tasks, nil
}

// Create implements TaskService.
func (s *taskService) Create(ctx context.Context, ownerID int64, title, description string) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, title, description)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.tasks.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		return nil, s.wrap(ctx, "create", err, slog.Int64("user_id", ownerID))
	}

	s.log(ctx).Debug("task created", slog.Int64("task_id", task.ID), slog.Int64("user_id", ownerID))
	return task, nil
}

// Get implements TaskService.
func (s *taskService) Get(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	var task *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		var err error
		task, err = s.tasks.WithTx(tx).GetByID(ctx, ownerID, taskID)
		return err
	})
	if err != nil {
		return nil, s.wrap(ctx, "get", err, slog.Int64("task_id", taskID))
	}
	return task, nil
}

// Patch implements TaskService.
func (s *taskService) Patch(
	ctx context.Context,
	ownerID, taskID int64,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	return s.modify(ctx, "patch", ownerID, taskID, func(task *domain.Task) (bool, error) {
		if patch.IsEmpty() {
			return false, nil
		}
		return true, patch.Apply(task)
	})
}

// Replace implements TaskService.
func (s *taskService) Replace(
	ctx context.Context,
	ownerID, taskID int64,
	title, description string,
	isCompleted bool,
) (*domain.Task, error) {
	return s.modify(ctx, "replace", ownerID, taskID, func(task *domain.Task) (bool, error) {
		return true, task.Replace(title, description, isCompleted)
	})
}

// modify loads, mutates and writes back a task in one transaction. change
// reports whether anything needs to be written.
func (s *taskService) modify(
	ctx context.Context,
	op string,
	ownerID, taskID int64,
	change func(*domain.Task) (bool, error),
) (*domain.Task, error) {
	var task *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		tasks := s.tasks.WithTx(tx)

		var err error
		task, err = tasks.GetByID(ctx, ownerID, taskID)
		if err != nil {
			return err
		}
		write, err := change(task)
		if err != nil || !write {
			return err
		}
		return tasks.Update(ctx, task)
	})
	if err != nil {
		return nil, s.wrap(ctx, op, err, slog.Int64("task_id", taskID))
	}
	return task, nil
}

// Delete implements TaskService.
func (s *taskService) Delete(ctx context.Context, ownerID, taskID int64) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.tasks.WithTx(tx).Delete(ctx, ownerID, taskID)
	})
	if err != nil {
		return s.wrap(ctx, "delete", err, slog.Int64("task_id", taskID))
	}
	s.log(ctx).Debug("task deleted", slog.Int64("task_id", taskID), slog.Int64("user_id", ownerID))
	return nil
}
