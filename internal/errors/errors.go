package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrEmailRequired is returned when creating a user without an email.
	ErrEmailRequired = errors.New("user must have an email address")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("a user with that email already exists")
	// ErrInvalidCredentials is returned for any failed authentication attempt.
	// It deliberately does not distinguish unknown email from wrong password.
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	// ErrUnauthenticated is returned when a bearer token is missing or invalid.
	ErrUnauthenticated = errors.New("authentication credentials were not provided or are invalid")
	// ErrPermissionDenied is returned when the caller lacks staff or superuser rights.
	ErrPermissionDenied = errors.New("you do not have permission to perform this action")
	// ErrUserNotFound is returned when a user lookup misses.
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError reports a constraint violation on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-level validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Field      string
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
		Error: e.Message,
		Code:  e.Code,
		Field: e.Field,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		he := NewHTTPError(http.StatusBadRequest, ve.Message, "VALIDATION_ERROR")
		he.Field = ve.Field
		return he
	}

	switch {
	case errors.Is(err, ErrEmailRequired):
		he := NewHTTPError(http.StatusBadRequest, err.Error(), "EMAIL_REQUIRED")
		he.Field = "email"
		return he
	case errors.Is(err, ErrEmailTaken):
		he := NewHTTPError(http.StatusBadRequest, err.Error(), "EMAIL_TAKEN")
		he.Field = "email"
		return he
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrPermissionDenied):
		return NewHTTPError(http.StatusForbidden, err.Error(), "PERMISSION_DENIED")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
