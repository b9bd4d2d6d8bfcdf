package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AuthService provides registration and the token lifecycle.
type AuthService interface {
	// Register validates the credentials, hashes the password and stores a new user.
	// Returns a domain.ErrValidation error for bad input and
	// store.ErrUsernameExists when the username is taken.
	Register(ctx context.Context, username, password string) (*domain.User, error)

	// Login checks a username/password pair and issues an access token and a
	// persisted refresh token. Returns auth.ErrInvalidCredentials for an
	// unknown user or a wrong password alike.
	Login(ctx context.Context, username, password string) (*TokenPair, error)

	// Refresh exchanges a refresh token for a new access token. Returns
	// auth.ErrInvalidToken, auth.ErrExpiredToken or auth.ErrRevokedToken.
	Refresh(ctx context.Context, refreshToken string) (string, error)

	// Logout revokes a refresh token. Revoking an unknown or already revoked
	// token succeeds.
	Logout(ctx context.Context, refreshToken string) error
}

// AuthOption customises an AuthService.
type AuthOption func(*authService)

// WithAuthClock replaces time.Now for refresh-token liveness checks.
func WithAuthClock(now func() time.Time) AuthOption {
	return func(s *authService) { s.now = now }
}

// WithAuthEvents reports each operation's outcome to r.
func WithAuthEvents(r AuthEventRecorder) AuthOption {
	return func(s *authService) {
		if r != nil {
			s.events = r
		}
	}
}

type authService struct {
	db            *sql.DB
	users         store.UserStore
	refreshTokens store.RefreshTokenStore
	tokens        auth.JWTService
	hasher        auth.PasswordHasher
	logger        *slog.Logger
	events        AuthEventRecorder
	now           func() time.Time
}

var _ AuthService = (*authService)(nil)

// NewAuthService creates an AuthService.
func NewAuthService(
	db *sql.DB,
	users store.UserStore,
	refreshTokens store.RefreshTokenStore,
	tokens auth.JWTService,
	hasher auth.PasswordHasher,
	logger *slog.Logger,
	opts ...AuthOption,
) (AuthService, error) {
	if db == nil || users == nil || refreshTokens == nil || tokens == nil || hasher == nil {
		return nil, errors.New("auth service: all dependencies are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &authService{
		db:            db,
		users:         users,
		refreshTokens: refreshTokens,
		tokens:        tokens,
		hasher:        hasher,
		logger:        logger.With(slog.String("component", "auth_service")),
		events:        noopRecorder{},
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *authService) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}

// Register implements AuthService.
func (s *authService) Register(ctx context.Context, username, password string) (user *domain.User, err error) {
	defer func() { s.events.RecordAuthEvent(EventRegister, outcome(err)) }()
	log := s.log(ctx)

	user, err = domain.NewUser(username, password)
	if err != nil {
		log.Debug("registration rejected", slog.String("reason", err.Error()))
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			log.Debug("username already registered", slog.String("username", user.Username))
			return nil, err
		}
		log.Error("failed to store user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.Info("user registered", slog.Int64("user_id", user.ID))
	return user, nil
}

// Login implements AuthService. The password check runs before any
// transaction is opened; only the refresh-token insert holds a connection.
func (s *authService) Login(ctx context.Context, username, password string) (pair *TokenPair, err error) {
	defer func() { s.events.RecordAuthEvent(EventLogin, outcome(err)) }()
	log := s.log(ctx)

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login rejected: invalid credentials")
			return nil, auth.ErrInvalidCredentials
		}
		log.Error("login failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		log.Debug("login rejected: invalid credentials")
		return nil, auth.ErrInvalidCredentials
	}

	pair, err = s.issueTokens(ctx, user.ID)
	if err != nil {
		log.Error("login failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	log.Info("user logged in", slog.Int64("user_id", user.ID))
	return pair, nil
}

// issueTokens signs an access/refresh pair and persists the refresh token.
func (s *authService) issueTokens(ctx context.Context, userID int64) (*TokenPair, error) {
	access, err := s.tokens.GenerateToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	refresh, expiresAt, err := s.tokens.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	rt, err := domain.NewRefreshToken(userID, refresh, s.now(), expiresAt)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.refreshTokens.WithTx(tx).Create(ctx, rt)
	})
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, RefreshExpiresAt: expiresAt}, nil
}

// Refresh implements AuthService.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (access string, err error) {
	defer func() { s.events.RecordAuthEvent(EventRefresh, outcome(err)) }()
	log := s.log(ctx)

	claims, err := s.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			return "", auth.ErrExpiredToken
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrMissingToken):
			return "", err
		default:
			return "", fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
		}
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		row, err := s.refreshTokens.WithTx(tx).GetActive(ctx, refreshToken, s.now())
		if err != nil {
			if errors.Is(err, store.ErrRefreshTokenNotFound) {
				return auth.ErrRevokedToken
			}
			return err
		}
		if row.OwnerID != claims.UserID {
			return auth.ErrInvalidToken
		}

		access, err = s.tokens.GenerateToken(ctx, claims.UserID)
		return err
	})
	if err != nil {
		if errors.Is(err, auth.ErrRevokedToken) || errors.Is(err, auth.ErrInvalidToken) {
			log.Debug("refresh rejected", slog.String("reason", err.Error()))
			return "", err
		}
		log.Error("refresh failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to refresh token: %w", err)
	}

	log.Debug("access token refreshed", slog.Int64("user_id", claims.UserID))
	return access, nil
}

// Logout implements AuthService.
func (s *authService) Logout(ctx context.Context, refreshToken string) (err error) {
	defer func() { s.events.RecordAuthEvent(EventLogout, outcome(err)) }()

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.refreshTokens.WithTx(tx).DeleteByToken(ctx, refreshToken)
	})
	if err != nil {
		s.log(ctx).Error("logout failed", slog.String("error", err.Error()))
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}
