package errors

import (
	"errors"
	"fmt"
)

// Error kinds shared by the record client, services and handlers.
// Handlers map them to HTTP status codes with errors.Is.

var (
	// ErrNotFound indicates a requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a request failed validation before reaching the backend
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing or invalid credentials or session
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict indicates a uniqueness conflict with existing data
	ErrConflict = errors.New("conflict")

	// ErrBackendUnavailable indicates the data backend failed or could not be reached
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrStorageUnavailable indicates object storage is not configured or failed
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// ConflictError creates a conflict error with context
func ConflictError(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrConflict)
}

// BackendError wraps a driver error as a backend failure, keeping the cause in the chain
func BackendError(operation string, err error) error {
	return fmt.Errorf("%s: %w: %w", operation, ErrBackendUnavailable, err)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
