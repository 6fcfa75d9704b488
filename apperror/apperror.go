// Package apperror defines a centralized system for application-specific errors.
// Every failure a handler can surface to a client is expressed as an AppError
// with one of the types below; the transport layer maps each type to an HTTP
// status and a consistent JSON body, so services never deal with HTTP codes
// directly.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is an enumeration (using `iota`) for the categories of
// application errors this service can produce.
type ErrorType int

const (
	// UnknownError is for unspecified errors.
	UnknownError ErrorType = iota
	// InvalidSessionError represents a bearer token that is malformed,
	// tampered with, expired, or otherwise unverifiable. It is raised during
	// token verification, independent of whether the operation needs auth.
	InvalidSessionError
	// UnauthenticatedError represents an operation that requires a signed-in
	// caller when none is present. A missing token by itself is not an error;
	// this only fires when an operation demands identity.
	UnauthenticatedError
	// ForbiddenError represents a caller that is present but is not the owner
	// of the resource it is trying to mutate.
	ForbiddenError
	// AuthenticationFailedError represents a sign-in credential mismatch.
	// Unknown user and wrong password intentionally share this type and a
	// single message so the response does not leak which one it was.
	AuthenticationFailedError
	// CreationFailedError represents a sign-up persistence failure, for
	// example a duplicate username or email. The message stays generic.
	CreationFailedError
	// NotFoundError represents a resource not found error.
	NotFoundError
	// ValidationError represents an input validation error.
	ValidationError
	// DatabaseError represents an error originating from the database.
	DatabaseError
	// InternalError represents a generic internal server error.
	InternalError
)

// AppError is the custom error type for the application. It wraps an
// underlying error (`Err`) for debugging while exposing only `Message` to
// clients.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error // Underlying error
}

// Error returns the string representation of the error, satisfying the
// standard `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error following the Go 1.13+ wrapping
// convention, so `errors.Is` and `errors.As` can inspect the chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case InvalidSessionError, UnauthenticatedError, AuthenticationFailedError:
		// All three are authentication problems: no valid identity.
		return http.StatusUnauthorized
	case ForbiddenError:
		// Valid identity, insufficient rights over the resource.
		return http.StatusForbidden
	case CreationFailedError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError:
		return http.StatusBadRequest
	case DatabaseError, InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError. Generic constructor; the typed
// constructors below are preferred at call sites.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewInvalidSessionError creates an InvalidSessionError.
func NewInvalidSessionError(message string, underlyingError error) *AppError {
	return NewAppError(InvalidSessionError, message, underlyingError)
}

// NewUnauthenticatedError creates an UnauthenticatedError.
func NewUnauthenticatedError(message string, underlyingError error) *AppError {
	return NewAppError(UnauthenticatedError, message, underlyingError)
}

// NewForbiddenError creates a ForbiddenError.
func NewForbiddenError(message string, underlyingError error) *AppError {
	return NewAppError(ForbiddenError, message, underlyingError)
}

// NewAuthenticationFailedError creates an AuthenticationFailedError.
func NewAuthenticationFailedError(message string, underlyingError error) *AppError {
	return NewAppError(AuthenticationFailedError, message, underlyingError)
}

// NewCreationFailedError creates a CreationFailedError.
func NewCreationFailedError(message string, underlyingError error) *AppError {
	return NewAppError(CreationFailedError, message, underlyingError)
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewValidationError creates a ValidationError.
func NewValidationError(message string, underlyingError error) *AppError {
	return NewAppError(ValidationError, message, underlyingError)
}

// NewDatabaseError creates a DatabaseError.
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewInternalError creates an InternalError.
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// ErrorResponse represents a generic error response payload for API clients.
type ErrorResponse struct {
	Error string `json:"error" example:"A description of the error"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for API
// responses. Only the user-facing `Message` is included, never the
// underlying `Err` details.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// FromError attempts to convert a generic error to an *AppError.
// It returns the *AppError and true if successful, otherwise nil and false.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Helper predicates. These use `errors.As`, which is more robust than a
// direct type assertion when errors might be wrapped.

// IsInvalidSession checks if an error is an InvalidSessionError.
func IsInvalidSession(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == InvalidSessionError
}

// IsUnauthenticated checks if an error is an UnauthenticatedError.
func IsUnauthenticated(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == UnauthenticatedError
}

// IsForbidden checks if an error is a ForbiddenError.
func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ForbiddenError
}

// IsAuthenticationFailed checks if an error is an AuthenticationFailedError.
func IsAuthenticationFailed(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthenticationFailedError
}

// IsCreationFailed checks if an error is a CreationFailedError.
func IsCreationFailed(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == CreationFailedError
}

// IsNotFound checks if an error is a NotFoundError.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}
