package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Loekiboy/loek-it-up/internal/api/shared"
	"github.com/Loekiboy/loek-it-up/internal/domain"
	"github.com/Loekiboy/loek-it-up/internal/service"
	"github.com/Loekiboy/loek-it-up/internal/service/auth"
	"github.com/Loekiboy/loek-it-up/internal/store"
	"github.com/Loekiboy/loek-it-up/internal/study"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrWordListNotFound),
		errors.Is(err, store.ErrWordNotFound),
		errors.Is(err, store.ErrSnapshotNotFound),
		errors.Is(err, service.ErrNoActiveSession):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, service.ErrWrongSessionMode),
		errors.Is(err, study.ErrResumeMismatch),
		errors.Is(err, study.ErrSessionComplete),
		errors.Is(err, study.ErrInvalidEvent):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, service.ErrEmptyImport),
		errors.Is(err, study.ErrUnknownWord),
		errors.Is(err, study.ErrEmptySelection),
		errors.Is(err, study.ErrNoStages):
		return http.StatusBadRequest

	// Enrichment needs a configured generator
	case errors.Is(err, service.ErrEnrichmentDisabled):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	// Handle nil error
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return "Invalid token"

	case errors.Is(err, auth.ErrMissingToken):
		return "Authentication required"

	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this list"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrWordListNotFound):
		return "Word list not found"

	case errors.Is(err, store.ErrWordNotFound):
		return "Word not found"

	case errors.Is(err, store.ErrSnapshotNotFound):
		return "No saved session to resume"

	case errors.Is(err, service.ErrNoActiveSession):
		return "No active study session"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, service.ErrWrongSessionMode):
		return "Action not available in the current session mode"

	case errors.Is(err, study.ErrResumeMismatch):
		return "Saved session does not match this list"

	case errors.Is(err, study.ErrSessionComplete):
		return "Session is already complete"

	case errors.Is(err, study.ErrInvalidEvent):
		return "Action not valid for the current question"

	// Bad request errors
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case errors.Is(err, service.ErrEmptyImport):
		return "Import contains no term/definition pairs"

	case errors.Is(err, study.ErrUnknownWord):
		return "Word does not belong to this list"

	case errors.Is(err, study.ErrEmptySelection):
		return "No words selected"

	case errors.Is(err, study.ErrNoStages):
		return "At least one stage must be enabled"

	case errors.Is(err, service.ErrEnrichmentDisabled):
		return "Example sentence generation is not configured"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the standard error response for an internal error:
// the status comes from MapErrorToStatusCode, the body from
// GetSafeErrorMessage, and the raw error only ever reaches the logs. An
// optional fallbackMessage overrides the generic message for unmapped
// errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallbackMessage != "" {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Check if this is likely a validation error message
	if strings.Contains(errMsg, "Field validation") {
		// Extract the field name and validation tag
		// Example format: "Key: 'LoginRequest.Email' Error:Field validation for 'Email' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			// Further split to get just the field validation part
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				// Create a cleaner error message
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
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
	default:
		return "validation failed"
	}
}
