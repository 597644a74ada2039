package api

import (
	"errors"
	"net/http"

	"github.com/tenxcards/cardgen-api/internal/api/shared"
	"github.com/tenxcards/cardgen-api/internal/domain"
	"github.com/tenxcards/cardgen-api/internal/review"
	"github.com/tenxcards/cardgen-api/internal/service"
	"github.com/tenxcards/cardgen-api/internal/service/auth"
	"github.com/tenxcards/cardgen-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error kind. This is a static lookup over sentinel errors;
// handlers never inspect concrete error types or names.
func MapErrorToStatusCode(err error) int {
	var batchErr *service.BatchValidationError
	var saveErr *review.SaveValidationError

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.As(err, &batchErr),
		errors.As(err, &saveErr):
		return http.StatusBadRequest

	// Gateway timeout
	case errors.Is(err, service.ErrTimeout):
		return http.StatusGatewayTimeout

	// Default: internal server error (covers ErrAIService and ErrDatabase)
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error kind. Validation errors pass their message through because it
// names the offending fields; everything else is replaced wholesale so
// internal details never leak.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var batchErr *service.BatchValidationError
	var saveErr *review.SaveValidationError

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this resource"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.As(err, &batchErr):
		return batchErr.Error()

	case errors.As(err, &saveErr):
		return saveErr.Error()

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return err.Error()

	case errors.Is(err, service.ErrTimeout):
		return "The AI service timed out, please try again"

	case errors.Is(err, service.ErrAIService):
		return "The AI service failed to generate flashcards"

	case errors.Is(err, service.ErrDatabase):
		return "Failed to save data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an error to its status code and safe message, then
// writes the response and logs the underlying error. When defaultMessage is
// non-empty it overrides the derived safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMessage string) {
	status := MapErrorToStatusCode(err)

	message := GetSafeErrorMessage(err)
	if defaultMessage != "" {
		message = defaultMessage
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
