package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/studyhall/studyhall-api/internal/api/shared"
	"github.com/studyhall/studyhall-api/internal/domain"
	"github.com/studyhall/studyhall-api/internal/generation"
	"github.com/studyhall/studyhall-api/internal/resources"
	"github.com/studyhall/studyhall-api/internal/service/auth"
	"github.com/studyhall/studyhall-api/internal/store"
	"github.com/studyhall/studyhall-api/internal/task"
)

// domainValidationErrors lists the entity validation sentinels that map to
// a 400 response.
var domainValidationErrors = []error{
	domain.ErrValidation,
	domain.ErrInvalidID,
	domain.ErrInvalidEmail,
	domain.ErrInvalidPassword,
	domain.ErrDeckIDEmpty,
	domain.ErrDeckUserIDEmpty,
	domain.ErrDeckNameEmpty,
	domain.ErrDeckNameTooLong,
	domain.ErrCardIDEmpty,
	domain.ErrCardUserIDEmpty,
	domain.ErrCardDeckIDEmpty,
	domain.ErrCardFrontEmpty,
	domain.ErrCardBackEmpty,
	domain.ErrCardInvalidDifficulty,
	domain.ErrCardNegativePosition,
	domain.ErrSessionIDEmpty,
	domain.ErrSessionUserIDEmpty,
	domain.ErrSessionDeckIDEmpty,
	domain.ErrSessionNoCards,
	domain.ErrSessionCountMismatch,
	domain.ErrSessionNegativeCount,
}

func isDomainValidationError(err error) bool {
	for _, sentinel := range domainValidationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, generation.ErrEmptySourceText),
		errors.Is(err, resources.ErrInvalidOption),
		errors.Is(err, resources.ErrWrongLevel),
		isDomainValidationError(err):
		return http.StatusBadRequest

	// Content rejected by the model's safety filters
	case errors.Is(err, generation.ErrContentBlocked):
		return http.StatusUnprocessableEntity

	// Upstream model misbehavior
	case errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusBadGateway

	// Temporarily unavailable
	case errors.Is(err, generation.ErrGenerationDisabled),
		errors.Is(err, generation.ErrTransientFailure),
		errors.Is(err, task.ErrQueueFull),
		errors.Is(err, task.ErrQueueClosed):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for the
// error type.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid refresh token"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, store.ErrSessionNotFound):
		return "Study session not found"

	case store.IsNotFoundError(err):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, generation.ErrGenerationDisabled):
		return "Card generation is not available"

	case errors.Is(err, generation.ErrContentBlocked):
		return "The provided text was rejected by content filters"

	case errors.Is(err, generation.ErrEmptySourceText):
		return "Source text is required"

	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrTransientFailure):
		return "Card generation failed, please try again"

	case errors.Is(err, task.ErrQueueFull),
		errors.Is(err, task.ErrQueueClosed):
		return "Progress recording is temporarily unavailable"

	case errors.Is(err, resources.ErrInvalidOption),
		errors.Is(err, resources.ErrWrongLevel):
		return "Invalid browse selection"

	case isDomainValidationError(err):
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
		}
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an error to its status code and safe message, logs
// the underlying error with redaction, and writes the response. A non-empty
// fallbackMessage overrides the derived message for unexpected errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if fallbackMessage != "" && status == http.StatusInternalServerError {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError converts a go-playground validator error into a
// user-friendly message without echoing submitted values.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'LoginRequest.Email' Error:Field validation for
		// 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, validationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "gte", "gt":
		return "value too small"
	case "lte", "lt":
		return "value too large"
	default:
		return "validation failed"
	}
}
