package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "zest context key " + string(c)
}

// UserIDKey is the key for the authenticated user id in context.Context.
const UserIDKey = contextKey("userID")

// RequestIDKey is the key for the request id in context.Context.
const RequestIDKey = contextKey("requestID")

// ComponentKey is the key for the component name in context.Context.
const ComponentKey = contextKey("component")

// OperationKey is the key for the operation name in context.Context.
const OperationKey = contextKey("operation")
