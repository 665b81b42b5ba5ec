package errors

import (
	"fmt"
	"net/http"
)

// Common application errors
var (
	ErrNotFound      = NewNotFoundError("resource", "resource not found")
	ErrAlreadyExists = NewAlreadyExistsError("resource", "resource already exists")
	ErrUnauthorized  = NewUnauthorizedError("unauthorized")
	ErrForbidden     = NewForbiddenError("forbidden")
	ErrInternal      = NewInternalError("internal server error", nil)
)

// HTTPStatuser is implemented by errors that map to an HTTP status code.
type HTTPStatuser interface {
	HTTPStatus() int
}

// PublicMessager is implemented by errors whose message is safe to return to clients.
type PublicMessager interface {
	PublicMessage() string
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// HTTPStatus returns the HTTP status for this error
func (e *ValidationError) HTTPStatus() int { return http.StatusBadRequest }

// PublicMessage returns the violation message as written
func (e *ValidationError) PublicMessage() string { return e.Message }

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns the HTTP status for this error
func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }

// PublicMessage returns the client-facing message
func (e *NotFoundError) PublicMessage() string { return e.Error() }

// AlreadyExistsError represents a resource already exists error
type AlreadyExistsError struct {
	Resource string
	Message  string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *AlreadyExistsError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// HTTPStatus returns the HTTP status for this error
func (e *AlreadyExistsError) HTTPStatus() int { return http.StatusConflict }

// PublicMessage returns the client-facing message
func (e *AlreadyExistsError) PublicMessage() string { return e.Error() }

// UnauthorizedError represents missing or invalid credentials
type UnauthorizedError struct {
	Message string
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// Error implements the error interface
func (e *UnauthorizedError) Error() string { return e.Message }

// HTTPStatus returns the HTTP status for this error
func (e *UnauthorizedError) HTTPStatus() int { return http.StatusUnauthorized }

// PublicMessage returns the client-facing message
func (e *UnauthorizedError) PublicMessage() string { return e.Message }

// ForbiddenError represents an authenticated caller lacking the required role,
// or an anonymous caller on a role-gated action.
type ForbiddenError struct {
	Message string
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// Error implements the error interface
func (e *ForbiddenError) Error() string { return e.Message }

// HTTPStatus returns the HTTP status for this error
func (e *ForbiddenError) HTTPStatus() int { return http.StatusForbidden }

// PublicMessage returns the client-facing message
func (e *ForbiddenError) PublicMessage() string { return e.Message }

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status for this error
func (e *InternalError) HTTPStatus() int { return http.StatusInternalServerError }
