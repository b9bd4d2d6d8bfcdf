package mocks

import (
	"context"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service"
)

// MockIdentityResolver implements service.IdentityResolver for testing.
type MockIdentityResolver struct {
	ResolveFn func(ctx context.Context, bearerToken string) (*domain.User, error)

	// Defaults used when ResolveFn is nil.
	User *domain.User
	Err  error

	// LastToken records the token passed to the most recent Resolve call.
	LastToken string
	Calls     int
}

var _ service.IdentityResolver = (*MockIdentityResolver)(nil)

// Resolve implements service.IdentityResolver.
func (m *MockIdentityResolver) Resolve(ctx context.Context, bearerToken string) (*domain.User, error) {
	m.LastToken = bearerToken
	m.Calls++
	if m.ResolveFn != nil {
		return m.ResolveFn(ctx, bearerToken)
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.User, nil
}
