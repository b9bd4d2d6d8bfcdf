package mocks

import (
	"github.com/phrazzld/todo-api/internal/service/auth"
)

// MockPasswordHasher implements auth.PasswordHasher for testing. By default
// the "digest" is the password prefixed with "hashed:".
type MockPasswordHasher struct {
	HashFn   func(password string) (string, error)
	VerifyFn func(password, digest string) bool

	HashCalls int
}

var _ auth.PasswordHasher = (*MockPasswordHasher)(nil)

// Hash implements auth.PasswordHasher.
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	m.HashCalls++
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Verify implements auth.PasswordHasher.
func (m *MockPasswordHasher) Verify(password, digest string) bool {
	if m.VerifyFn != nil {
		return m.VerifyFn(password, digest)
	}
	return digest == "hashed:"+password
}
