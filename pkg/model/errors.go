package model

import "fmt"

// ErrorCode represents a structured API error code.
type ErrorCode string

const (
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
)

// APIError is a structured error returned by the cpusim API and by input validation.
type APIError struct {
	Code    ErrorCode    `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	first := e.Details[0]
	if len(e.Details) == 1 {
		return fmt.Sprintf("%s: %s (%s: %s)", e.Code, e.Message, first.Field, first.Message)
	}
	return fmt.Sprintf("%s: %s (%s: %s, and %d more)", e.Code, e.Message, first.Field, first.Message, len(e.Details)-1)
}

// FieldError describes a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// NewValidationError creates an APIError with validation details.
func NewValidationError(msg string, details ...FieldError) *APIError {
	return &APIError{Code: ErrValidation, Message: msg, Details: details}
}

// NewNotFoundError creates a NOT_FOUND APIError.
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
	}
}

// NewInternalError creates an INTERNAL_ERROR APIError.
func NewInternalError(msg string) *APIError {
	return &APIError{Code: ErrInternal, Message: msg}
}

// InvariantError reports an engine state that must never occur for valid input.
// It is a programming error: the run is abandoned and no partial trace is returned.
type InvariantError struct {
	Engine  string
	Tick    int
	Process ProcessID
	Detail  string
}

func (e *InvariantError) Error() string {
	if e.Process == NoProcess {
		return fmt.Sprintf("%s invariant violated at tick %d: %s", e.Engine, e.Tick, e.Detail)
	}
	return fmt.Sprintf("%s invariant violated at tick %d (process %d): %s", e.Engine, e.Tick, e.Process, e.Detail)
}
