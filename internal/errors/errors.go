package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrValidation is the root of every ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrConsultantNotFound is returned when an operation targets an unknown id.
	ErrConsultantNotFound = errors.New("consultant not found")
	// ErrInvalidCredentials is returned for unknown and inactive ids alike.
	ErrInvalidCredentials = errors.New("invalid id or inactive user")
	// ErrSessionNotFound is returned when a session was logged out or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrForbidden is returned when the actor lacks permission for a mutation.
	ErrForbidden = errors.New("operation not permitted")
	// ErrInvariant is the root of every tree or bootstrap invariant violation.
	ErrInvariant = errors.New("invariant violation")
	// ErrBootstrapAdmin is returned when an operation would remove or demote the bootstrap admin.
	ErrBootstrapAdmin = fmt.Errorf("%w: bootstrap admin is reserved", ErrInvariant)
	// ErrLastAdmin is returned when an operation would leave the network without an admin.
	ErrLastAdmin = fmt.Errorf("%w: at least one admin must remain", ErrInvariant)
	// ErrCycle is returned when a parent assignment would make a record its own ancestor.
	ErrCycle = fmt.Errorf("%w: recruiter chain would form a cycle", ErrInvariant)
	// ErrIDSpaceExhausted is returned when no free id could be drawn.
	ErrIDSpaceExhausted = fmt.Errorf("%w: could not allocate a free id", ErrInvariant)
	// ErrVersionConflict is returned when the record changed since the caller read it.
	ErrVersionConflict = errors.New("consultant was modified concurrently")
	// ErrRateLimited is returned when too many login attempts come from one client.
	ErrRateLimited = errors.New("too many login attempts")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is a form-level error listing every rejected field.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string       `json:"error"`
	Code   string       `json:"code"`
	Fields []FieldError `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     []FieldError
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		httpErr := NewHTTPError(http.StatusBadRequest, ErrValidation.Error(), "VALIDATION_ERROR")
		httpErr.Fields = verr.Fields
		return httpErr
	case errors.Is(err, ErrConsultantNotFound):
		return NewHTTPError(http.StatusNotFound, ErrConsultantNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrSessionNotFound):
		return NewHTTPError(http.StatusUnauthorized, ErrSessionNotFound.Error(), "SESSION_EXPIRED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrVersionConflict):
		return NewHTTPError(http.StatusConflict, ErrVersionConflict.Error(), "VERSION_CONFLICT")
	case errors.Is(err, ErrInvariant):
		return NewHTTPError(http.StatusConflict, err.Error(), "INVARIANT_VIOLATION")
	case errors.Is(err, ErrRateLimited):
		return NewHTTPError(http.StatusTooManyRequests, ErrRateLimited.Error(), "RATE_LIMITED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
