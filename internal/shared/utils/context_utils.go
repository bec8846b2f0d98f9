package utils

import (
	"context"
	"errors"

	"zest/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrUserIDNotFound    = errors.New("userID not found in context")
	ErrUserIDNotInt      = errors.New("userID in context is not an int64")
	ErrRequestIDNotFound = errors.New("requestID not found in context")
	ErrRequestIDNotStr   = errors.New("requestID in context is not a string")
)

// GetUserIDFromContext retrieves the authenticated user id from the context.
// It returns an error if the user id is absent or has the wrong type.
func GetUserIDFromContext(ctx context.Context) (int64, error) {
	val := ctx.Value(contextkeys.UserIDKey)
	if val == nil {
		return 0, ErrUserIDNotFound
	}
	userID, ok := val.(int64)
	if !ok {
		return 0, ErrUserIDNotInt
	}
	return userID, nil
}

// GetRequestIDFromContext retrieves the request id from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RequestIDKey)
	if val == nil {
		return "", ErrRequestIDNotFound
	}
	requestID, ok := val.(string)
	if !ok {
		return "", ErrRequestIDNotStr
	}
	return requestID, nil
}

// Context builder functions

// WithUserID adds the authenticated user id to the context.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, contextkeys.UserIDKey, userID)
}

// WithRequestID adds the request id to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithComponent adds the component name to the context.
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, contextkeys.ComponentKey, component)
}

// WithOperation adds the operation name to the context.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}

// HasUserID reports whether an authenticated user id is present in the context.
func HasUserID(ctx context.Context) bool {
	_, err := GetUserIDFromContext(ctx)
	return err == nil
}
