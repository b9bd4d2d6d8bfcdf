package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

func TestErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "validation",
			err:        fmt.Errorf("create: %w", domain.ErrEmptyTaskTitle),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   shared.CodeValidation,
			wantMsg:    domain.ErrEmptyTaskTitle.Error(),
		},
		{
			name:       "field validation",
			err:        domain.NewValidationError("password", "must be at least 8 characters", nil),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   shared.CodeValidation,
			wantMsg:    "password must be at least 8 characters",
		},
		{
			name:       "bad body",
			err:        fmt.Errorf("%w: unexpected EOF", shared.ErrInvalidBody),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   shared.CodeValidation,
			wantMsg:    "Invalid request body",
		},
		{
			name:       "duplicate username",
			err:        store.ErrUsernameExists,
			wantStatus: http.StatusBadRequest,
			wantCode:   shared.CodeUsernameTaken,
			wantMsg:    "Username already registered",
		},
		{
			name:       "bad credentials",
			err:        auth.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
			wantCode:   shared.CodeInvalidCredentials,
			wantMsg:    "Incorrect username or password",
		},
		{
			name:       "unauthenticated hides cause",
			err:        fmt.Errorf("%w: %w", service.ErrUnauthenticated, auth.ErrExpiredToken),
			wantStatus: http.StatusUnauthorized,
			wantCode:   shared.CodeNotAuthenticated,
			wantMsg:    "Could not validate credentials",
		},
		{
			name:       "expired refresh",
			err:        auth.ErrExpiredToken,
			wantStatus: http.StatusUnauthorized,
			wantCode:   shared.CodeTokenExpired,
		},
		{
			name:       "revoked refresh",
			err:        auth.ErrRevokedToken,
			wantStatus: http.StatusUnauthorized,
			wantCode:   shared.CodeTokenRevoked,
		},
		{
			name:       "wrong token type",
			err:        auth.ErrWrongTokenType,
			wantStatus: http.StatusUnauthorized,
			wantCode:   shared.CodeInvalidToken,
		},
		{
			name:       "task not found",
			err:        fmt.Errorf("failed to get task: %w", store.ErrTaskNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   shared.CodeNotFound,
			wantMsg:    "Task not found",
		},
		{
			name:       "unknown",
			err:        errors.New("pq: relation \"tasks\" does not exist"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   shared.CodeInternal,
			wantMsg:    "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantStatus, MapErrorToStatusCode(tt.err))
			assert.Equal(t, tt.wantCode, ErrorCode(tt.err))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, GetSafeErrorMessage(tt.err))
			}
		})
	}
}

func TestValidationMessageDropsWrappingContext(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("task 12 of user 3 in tx 0xc000: %w", domain.ErrEmptyTaskDescription)
	msg := GetSafeErrorMessage(err)
	assert.Equal(t, domain.ErrEmptyTaskDescription.Error(), msg)
	assert.NotContains(t, msg, "0xc000")
}

func TestHandleAPIErrorFallbackOnlyFor500(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	HandleAPIError(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil), errors.New("boom"), "Failed to list tasks")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"detail":"Failed to list tasks","code":"internal_error"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	HandleAPIError(rec, httptest.NewRequest(http.MethodGet, "/tasks/1", nil), store.ErrTaskNotFound, "Failed to get task")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Task not found","code":"not_found"}`, rec.Body.String())
}
