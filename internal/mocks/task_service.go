package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service"
)

// MockTaskService is a testify mock of service.TaskService.
type MockTaskService struct {
	mock.Mock
}

var _ service.TaskService = (*MockTaskService)(nil)

func taskResult(args mock.Arguments) (*domain.Task, error) {
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// List is a mock implementation of service.TaskService.List
func (m *MockTaskService) List(ctx context.Context, ownerID int64, completed *bool) ([]*domain.Task, error) {
	args := m.Called(ctx, ownerID, completed)
	if tasks, ok := args.Get(0).([]*domain.Task); ok {
		return tasks, args.Error(1)
	}
	return nil, args.Error(1)
}

// Create is a mock implementation of service.TaskService.Create
func (m *MockTaskService) Create(ctx context.Context, ownerID int64, title, description string) (*domain.Task, error) {
	return taskResult(m.Called(ctx, ownerID, title, description))
}

// Get is a mock implementation of service.TaskService.Get
func (m *MockTaskService) Get(ctx context.Context, ownerID, taskID int64) (*domain.Task, error) {
	return taskResult(m.Called(ctx, ownerID, taskID))
}

// Patch is a mock implementation of service.TaskService.Patch
func (m *MockTaskService) Patch(
	ctx context.Context,
	ownerID, taskID int64,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	return taskResult(m.Called(ctx, ownerID, taskID, patch))
}

// Replace is a mock implementation of service.TaskService.Replace
func (m *MockTaskService) Replace(
	ctx context.Context,
	ownerID, taskID int64,
	title, description string,
	isCompleted bool,
) (*domain.Task, error) {
	return taskResult(m.Called(ctx, ownerID, taskID, title, description, isCompleted))
}

// Delete is a mock implementation of service.TaskService.Delete
func (m *MockTaskService) Delete(ctx context.Context, ownerID, taskID int64) error {
	return m.Called(ctx, ownerID, taskID).Error(0)
}
