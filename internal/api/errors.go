package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/todo-api/internal/api/shared"
	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/service/auth"
	"github.com/phrazzld/todo-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. Anything
// not recognised is a 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError

	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity

	// Duplicate usernames are a plain 400, not a 409.
	case errors.Is(err, store.ErrUsernameExists):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrRevokedToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case store.IsNotFoundError(err):
		return http.StatusNotFound

	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode returns the reason code for err.
func ErrorCode(err error) string {
	switch {
	case err == nil:
		return shared.CodeInternal
	case errors.Is(err, domain.ErrValidation):
		return shared.CodeValidation
	case errors.Is(err, store.ErrUsernameExists):
		return shared.CodeUsernameTaken
	case errors.Is(err, auth.ErrInvalidCredentials):
		return shared.CodeInvalidCredentials
	// Identity resolution never tells the client why a bearer token failed.
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, domain.ErrUnauthorized):
		return shared.CodeNotAuthenticated
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.CodeTokenExpired
	case errors.Is(err, auth.ErrRevokedToken):
		return shared.CodeTokenRevoked
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return shared.CodeInvalidToken
	case store.IsNotFoundError(err):
		return shared.CodeNotFound
	default:
		return shared.CodeInternal
	}
}

// GetSafeErrorMessage returns a client-facing message for err that never
// includes internal details. Validation errors are the exception: their text
// names the offending field and is built from fixed strings.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var ve *domain.ValidationError
	switch {
	case errors.Is(err, shared.ErrInvalidBody):
		return "Invalid request body"
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, domain.ErrValidation):
		return validationMessage(err)
	case errors.Is(err, store.ErrUsernameExists):
		return "Username already registered"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Incorrect username or password"
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, domain.ErrUnauthorized):
		return "Could not validate credentials"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Refresh token expired"
	case errors.Is(err, auth.ErrRevokedToken):
		return "Refresh token revoked or not found"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid refresh token"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case store.IsNotFoundError(err):
		return "Resource not found"
	default:
		return "An unexpected error occurred"
	}
}

// validationMessage picks the message of the known domain sentinel in err's
// chain so that wrapping context added by lower layers is not exposed.
func validationMessage(err error) string {
	for _, known := range []error{
		domain.ErrEmptyUsername,
		domain.ErrUsernameTooLong,
		domain.ErrPasswordTooShort,
		domain.ErrPasswordTooLong,
		domain.ErrEmptyTaskTitle,
		domain.ErrEmptyTaskDescription,
		domain.ErrInvalidID,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "Invalid input"
}

// HandleAPIError writes the error response for err using the status, code
// and safe message derived from it. A non-empty fallback replaces the
// generic message of a 500.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, ErrorCode(err), message, err, opts...)
}
