package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

// IdentityResolver turns a bearer access token into the user it was issued for.
type IdentityResolver interface {
	// Resolve verifies the token and loads its user. Every failure to
	// identify the caller wraps ErrUnauthenticated; only store failures
	// unrelated to the token are returned unwrapped.
	Resolve(ctx context.Context, bearerToken string) (*domain.User, error)
}

type identityResolver struct {
	users  store.UserStore
	tokens auth.JWTService
	events AuthEventRecorder
	logger *slog.Logger
}

var _ IdentityResolver = (*identityResolver)(nil)

// NewIdentityResolver creates an IdentityResolver. A nil recorder disables event reporting.
func NewIdentityResolver(
	users store.UserStore,
	tokens auth.JWTService,
	events AuthEventRecorder,
	logger *slog.Logger,
) IdentityResolver {
	if events == nil {
		events = noopRecorder{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &identityResolver{
		users:  users,
		tokens: tokens,
		events: events,
		logger: logger.With(slog.String("component", "identity_resolver")),
	}
}

// Resolve implements IdentityResolver. It never writes to the store.
func (r *identityResolver) Resolve(ctx context.Context, bearerToken string) (user *domain.User, err error) {
	defer func() { r.events.RecordAuthEvent(EventResolve, outcome(err)) }()
	log := logger.FromContextOrDefault(ctx, r.logger)

	if bearerToken == "" {
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, auth.ErrMissingToken)
	}

	claims, err := r.tokens.ValidateToken(ctx, bearerToken)
	if err != nil {
		log.Debug("bearer token rejected", slog.String("reason", err.Error()))
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	user, err = r.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// A valid signature for a user that no longer exists is reported
			// exactly like a bad token.
			log.Debug("bearer token subject not found", slog.Int64("user_id", claims.UserID))
			return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
		}
		log.Error("failed to load user for bearer token",
			slog.Int64("user_id", claims.UserID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to resolve identity: %w", err)
	}
	return user, nil
}
