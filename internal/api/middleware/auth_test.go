package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/mocks"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	alice := &domain.User{ID: 11, Username: "alice"}
	unauthenticated := fmt.Errorf("%w: %w", service.ErrUnauthenticated, auth.ErrExpiredToken)

	tests := []struct {
		name         string
		authHeader   string
		resolveErr   error
		wantStatus   int
		wantToken    string
		wantCode     string
		wantNextCall bool
	}{
		{
			name:         "valid token",
			authHeader:   "Bearer valid-token",
			wantStatus:   http.StatusOK,
			wantToken:    "valid-token",
			wantNextCall: true,
		},
		{
			name:         "scheme is case insensitive",
			authHeader:   "bearer valid-token",
			wantStatus:   http.StatusOK,
			wantToken:    "valid-token",
			wantNextCall: true,
		},
		{
			name:       "missing header",
			resolveErr: unauthenticated,
			wantStatus: http.StatusUnauthorized,
			wantCode:   shared.CodeNotAuthenticated,
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			resolveErr: unauthenticated,
			wantStatus: http.StatusUnauthorized,
			wantCode:   shared.CodeNotAuthenticated,
		},
		{
			name:       "expired token",
			authHeader: "Bearer expired-token",
			resolveErr: unauthenticated,
			wantStatus: http.StatusUnauthorized,
			wantToken:  "expired-token",
			wantCode:   shared.CodeNotAuthenticated,
		},
		{
			name:       "store failure",
			authHeader: "Bearer valid-token",
			resolveErr: errors.New("database is locked"),
			wantStatus: http.StatusInternalServerError,
			wantToken:  "valid-token",
			wantCode:   shared.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resolver := &mocks.MockIdentityResolver{User: alice, Err: tt.resolveErr}
			mw := NewAuthMiddleware(resolver)

			var captured *domain.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured, _ = shared.UserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, 1, resolver.Calls, "every request goes through the resolver")
			assert.Equal(t, tt.wantToken, resolver.LastToken)

			if tt.wantNextCall {
				require.NotNil(t, captured)
				assert.Equal(t, alice.ID, captured.ID)
				return
			}
			assert.Nil(t, captured)

			var body shared.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
				assert.Equal(t, "Could not validate credentials", body.Detail)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":                     "",
		"Bearer":               "",
		"Bearer abc.def.ghi":   "abc.def.ghi",
		"  Bearer   padded   ": "padded",
		"Token abc":            "",
	}
	for header, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		assert.Equal(t, want, bearerToken(req), "header %q", header)
	}
}

func TestAuthenticatePassesContextToResolver(t *testing.T) {
	t.Parallel()

	type ctxKey struct{}
	resolver := &mocks.MockIdentityResolver{
		ResolveFn: func(ctx context.Context, _ string) (*domain.User, error) {
			if ctx.Value(ctxKey{}) != "marker" {
				return nil, errors.New("context not propagated")
			}
			return &domain.User{ID: 1}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), ctxKey{}, "marker"))
	req.Header.Set("Authorization", "Bearer t")
	rec := httptest.NewRecorder()

	NewAuthMiddleware(resolver).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
