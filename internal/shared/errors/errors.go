package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error types for different domains
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "VALIDATION_ERROR"
	ErrorTypeAuthentication ErrorType = "AUTHENTICATION_ERROR"
	ErrorTypeAuthorization  ErrorType = "AUTHORIZATION_ERROR"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND_ERROR"
	ErrorTypeConflict       ErrorType = "CONFLICT_ERROR"
	ErrorTypeUnavailable    ErrorType = "UNAVAILABLE_ERROR"
	ErrorTypeDelivery       ErrorType = "DELIVERY_ERROR"
	ErrorTypeInternal       ErrorType = "INTERNAL_ERROR"
)

// Common application errors
var (
	// ErrInvalidCredentials covers both unknown username and wrong password.
	// Callers must not be able to tell which one occurred.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateUser signals a registration against an already-taken
	// username or email.
	ErrDuplicateUser = errors.New("username or email already registered")

	// ErrUserNotFound is an internal store result, mapped to
	// ErrInvalidCredentials before it ever reaches a client.
	ErrUserNotFound = errors.New("user not found")

	// ErrSessionNotFound covers absent, revoked, expired and forged session
	// tokens alike.
	ErrSessionNotFound = errors.New("session not found")

	// ErrStoreUnavailable is a transient infrastructure failure. The driver
	// error is carried as the cause for logging, never for the client.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrDeliveryFailed means the reset mail could not be sent after the
	// password was already rotated. Operators reconcile these from logs.
	ErrDeliveryFailed = errors.New("notification delivery failed")

	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// AppError represents a custom application error with context
type AppError struct {
	Type      ErrorType              `json:"type"`
	Message   string                 `json:"message"`
	Code      string                 `json:"code,omitempty"`
	HTTPCode  int                    `json:"-"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Cause     error                  `json:"-"`
	Component string                 `json:"component,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new application error
func NewAppError(errorType ErrorType, message string, httpCode int) *AppError {
	return &AppError{
		Type:     errorType,
		Message:  message,
		HTTPCode: httpCode,
		Details:  make(map[string]interface{}),
	}
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause adds the underlying cause
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithComponent adds the component name
func (e *AppError) WithComponent(component string) *AppError {
	e.Component = component
	return e
}

// WithDetail adds a detail field
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Common error constructors

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return NewAppError(ErrorTypeValidation, message, http.StatusBadRequest)
}

// NewAuthenticationError creates an authentication error
func NewAuthenticationError(message string) *AppError {
	return NewAppError(ErrorTypeAuthentication, message, http.StatusBadRequest)
}

// NewAuthorizationError creates an authorization error
func NewAuthorizationError(message string) *AppError {
	return NewAppError(ErrorTypeAuthorization, message, http.StatusForbidden)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *AppError {
	return NewAppError(ErrorTypeNotFound, message, http.StatusNotFound)
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return NewAppError(ErrorTypeConflict, message, http.StatusBadRequest)
}

// NewUnavailableError creates a transient infrastructure error
func NewUnavailableError(message string) *AppError {
	return NewAppError(ErrorTypeUnavailable, message, http.StatusServiceUnavailable)
}

// NewDeliveryError creates an outbound delivery error
func NewDeliveryError(message string) *AppError {
	return NewAppError(ErrorTypeDelivery, message, http.StatusBadGateway)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return NewAppError(ErrorTypeInternal, message, http.StatusInternalServerError)
}

// Error classification helpers

// IsInvalidCredentials checks if an error is an invalid-credentials error
func IsInvalidCredentials(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ErrorTypeAuthentication
	}
	return errors.Is(err, ErrInvalidCredentials)
}

// IsDuplicate checks if an error is a duplicate-registration error
func IsDuplicate(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ErrorTypeConflict
	}
	return errors.Is(err, ErrDuplicateUser)
}

// IsNotFound checks if an error is a not-found error
func IsNotFound(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ErrorTypeNotFound
	}
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrSessionNotFound)
}

// IsUnavailable checks if an error is a transient store failure
func IsUnavailable(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ErrorTypeUnavailable
	}
	return errors.Is(err, ErrStoreUnavailable)
}

// IsDeliveryFailure checks if an error is an outbound delivery failure
func IsDeliveryFailure(err error) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == ErrorTypeDelivery
	}
	return errors.Is(err, ErrDeliveryFailed)
}
