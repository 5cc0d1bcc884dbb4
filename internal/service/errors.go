package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service
// implementations. Callers check for them with errors.Is(); the API
// layer maps them to HTTP status codes.
var (
	// ErrNotOwned indicates a resource is owned by a different user than
	// the one making the request. API layer maps this to 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrNoActiveSession indicates a study event arrived while no
	// session is running. API layer maps this to 404 Not Found.
	ErrNoActiveSession = errors.New("no active study session")

	// ErrWrongSessionMode indicates a mode-specific event was sent to a
	// session running a different mode (e.g. a card flip during an exam).
	ErrWrongSessionMode = errors.New("event does not apply to the active session mode")

	// ErrEnrichmentDisabled indicates the example-sentence generator is
	// not configured (no API key).
	ErrEnrichmentDisabled = errors.New("example sentence generation is not configured")

	// ErrEmptyImport indicates a TSV import contained no usable
	// term/definition lines.
	ErrEmptyImport = errors.New("import contains no words")
)

// ServiceError wraps errors from a service with the failed operation and
// a human-readable message, so consumers can differentiate failures with
// errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g. "start_session").
	Operation string
	// Message is a human-readable description of the error.
	Message string
	// Err is the underlying error that caused the failure.
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError for the given operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
