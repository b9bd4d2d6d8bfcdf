package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/mocks"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRegisterHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		setup      func(m *mocks.MockAuthService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "created",
			body: `{"username":"alice","password":"password123"}`,
			setup: func(m *mocks.MockAuthService) {
				m.On("Register", mock.Anything, "alice", "password123").
					Return(&domain.User{ID: 1, Username: "alice"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "username taken",
			body: `{"username":"alice","password":"password123"}`,
			setup: func(m *mocks.MockAuthService) {
				m.On("Register", mock.Anything, "alice", "password123").Return(nil, store.ErrUsernameExists)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   shared.CodeUsernameTaken,
		},
		{
			name:       "short password rejected before the service",
			body:       `{"username":"alice","password":"short"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   shared.CodeValidation,
		},
		{
			name:       "missing username",
			body:       `{"password":"password123"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   shared.CodeValidation,
		},
		{
			name:       "malformed json",
			body:       `{"username":`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   shared.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := new(mocks.MockAuthService)
			if tt.setup != nil {
				tt.setup(svc)
			}
			h := NewAuthHandler(svc, nil)

			rec := httptest.NewRecorder()
			h.Register(rec, jsonRequest(http.MethodPost, "/auth/register", tt.body))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode == "" {
				assert.JSONEq(t, `{"username":"alice"}`, rec.Body.String())
			} else {
				assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
			}
			svc.AssertExpectations(t)
			if tt.setup == nil {
				svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}

func TestLoginHandler(t *testing.T) {
	t.Parallel()

	t.Run("issues a token pair", func(t *testing.T) {
		t.Parallel()
		svc := new(mocks.MockAuthService)
		svc.On("Login", mock.Anything, "alice", "password123").Return(&service.TokenPair{
			AccessToken:      "access",
			RefreshToken:     "refresh",
			RefreshExpiresAt: time.Now().Add(time.Hour),
		}, nil)

		rec := httptest.NewRecorder()
		NewAuthHandler(svc, nil).Login(rec, formRequest("/token", url.Values{
			"username": {"alice"}, "password": {"password123"},
		}))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t,
			`{"access_token":"access","refresh_token":"refresh","token_type":"bearer"}`,
			rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		t.Parallel()
		svc := new(mocks.MockAuthService)
		svc.On("Login", mock.Anything, "alice", "wrong-password").Return(nil, auth.ErrInvalidCredentials)

		rec := httptest.NewRecorder()
		NewAuthHandler(svc, nil).Login(rec, formRequest("/token", url.Values{
			"username": {"alice"}, "password": {"wrong-password"},
		}))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		assert.Equal(t, shared.CodeInvalidCredentials, decodeError(t, rec).Code)
	})

	t.Run("missing form field", func(t *testing.T) {
		t.Parallel()
		svc := new(mocks.MockAuthService)

		rec := httptest.NewRecorder()
		NewAuthHandler(svc, nil).Login(rec, formRequest("/token", url.Values{"username": {"alice"}}))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("json body is not a form", func(t *testing.T) {
		t.Parallel()
		svc := new(mocks.MockAuthService)

		rec := httptest.NewRecorder()
		NewAuthHandler(svc, nil).Login(rec,
			jsonRequest(http.MethodPost, "/token", `{"username":"alice","password":"password123"}`))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRefreshHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "ok", wantStatus: http.StatusOK},
		{name: "invalid", err: auth.ErrInvalidToken, wantStatus: http.StatusUnauthorized, wantCode: shared.CodeInvalidToken},
		{name: "expired", err: auth.ErrExpiredToken, wantStatus: http.StatusUnauthorized, wantCode: shared.CodeTokenExpired},
		{name: "revoked", err: auth.ErrRevokedToken, wantStatus: http.StatusUnauthorized, wantCode: shared.CodeTokenRevoked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := new(mocks.MockAuthService)
			svc.On("Refresh", mock.Anything, "rt").Return("new-access", tt.err)

			rec := httptest.NewRecorder()
			NewAuthHandler(svc, nil).Refresh(rec, jsonRequest(http.MethodPost, "/auth/refresh", `{"refresh_token":"rt"}`))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.err == nil {
				assert.JSONEq(t, `{"access_token":"new-access","token_type":"bearer"}`, rec.Body.String())
				return
			}
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		svc := new(mocks.MockAuthService)
		rec := httptest.NewRecorder()
		NewAuthHandler(svc, nil).Refresh(rec, jsonRequest(http.MethodPost, "/auth/refresh", `{}`))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		svc.AssertNotCalled(t, "Refresh", mock.Anything, mock.Anything)
	})
}

func TestLogoutHandler(t *testing.T) {
	t.Parallel()

	svc := new(mocks.MockAuthService)
	svc.On("Logout", mock.Anything, "rt").Return(nil).Twice()
	h := NewAuthHandler(svc, nil)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.Logout(rec, jsonRequest(http.MethodPost, "/auth/logout", `{"refresh_token":"rt"}`))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"detail":"Successfully logged out"}`, rec.Body.String())
	}
	svc.AssertExpectations(t)
}
