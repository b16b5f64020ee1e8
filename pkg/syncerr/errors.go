package syncerr

import (
	"fmt"
)

// ValidationError represents malformed caller input (table names, conflict
// columns, catalog entries). Never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AuthError represents a 401/403 from the remote source. Fatal to the run
// during connection validation, fatal to a single mapping otherwise.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("remote source rejected credentials (HTTP %d)", e.Status)
}

// NotFoundError represents a 404 for a source search or a missing table.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// RemoteServerError represents a 5xx from the remote source.
type RemoteServerError struct {
	Status int
}

func (e *RemoteServerError) Error() string {
	return fmt.Sprintf("remote source server error (HTTP %d)", e.Status)
}

// TransportError means no usable response was received at all.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("no response from remote source: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError means the payload could not be parsed into the expected
// page shape, or carried an embedded error field.
type ProtocolError struct {
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("malformed source payload: %s", e.Message)
}

// WriteError wraps a destination store failure with the table and the
// chunk position at which the upsert aborted. Chunks written before the
// failure stay committed.
type WriteError struct {
	Table string
	Chunk int
	Err   error
}

func (e *WriteError) Error() string {
	if e.Chunk > 0 {
		return fmt.Sprintf("write to %s failed at chunk %d: %v", e.Table, e.Chunk, e.Err)
	}
	return fmt.Sprintf("write to %s failed: %v", e.Table, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
