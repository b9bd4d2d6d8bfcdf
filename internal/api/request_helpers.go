package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
)

// getPathID extracts a task ID from the URL path. A value that is not an
// integer is a validation error; an integer that names no task is left for
// the store to report.
func getPathID(r *http.Request, paramName string) (int64, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return 0, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(paramName, "must be an integer", domain.ErrInvalidID)
	}
	return id, nil
}

// parseCompletedFilter reads the optional is_completed query parameter.
// A nil result means no filtering.
func parseCompletedFilter(r *http.Request) (*bool, error) {
	raw, present := r.URL.Query()["is_completed"]
	if !present || len(raw) == 0 {
		return nil, nil
	}

	var value bool
	switch strings.ToLower(strings.TrimSpace(raw[0])) {
	case "true", "1", "t", "yes", "on":
		value = true
	case "false", "0", "f", "no", "off":
		value = false
	default:
		return nil, domain.NewValidationError("is_completed", "must be a boolean", domain.ErrValidation)
	}
	return &value, nil
}

// handleUserAndPathID extracts the authenticated user and a path ID. It
// writes an error response and returns false if either is unavailable.
func handleUserAndPathID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (*domain.User, int64, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		log.Warn("authenticated user missing from request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return nil, 0, false
	}

	id, err := getPathID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return nil, 0, false
	}

	return user, id, true
}
