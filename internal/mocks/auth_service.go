package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service"
)

// MockAuthService is a testify mock of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

var _ service.AuthService = (*MockAuthService)(nil)

// Register is a mock implementation of service.AuthService.Register
func (m *MockAuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// Login is a mock implementation of service.AuthService.Login
func (m *MockAuthService) Login(ctx context.Context, username, password string) (*service.TokenPair, error) {
	args := m.Called(ctx, username, password)
	if pair, ok := args.Get(0).(*service.TokenPair); ok {
		return pair, args.Error(1)
	}
	return nil, args.Error(1)
}

// Refresh is a mock implementation of service.AuthService.Refresh
func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

// Logout is a mock implementation of service.AuthService.Logout
func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}
