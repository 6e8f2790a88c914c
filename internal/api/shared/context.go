package shared

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey is the type used for request context values.
type ContextKey string

// Context keys for various values
const (
	// CurrentUserContextKey is the context key for the authenticated user.
	CurrentUserContextKey ContextKey = "currentUser"

	// TraceIDKey is the key for the trace ID in the request context.
	TraceIDKey ContextKey = "traceID"
)

// CurrentUser is the identity the auth middleware resolves from the
// session cookie and injects into the request context.
type CurrentUser struct {
	ID       int64
	Username string
}

// WithCurrentUser returns a context carrying the authenticated user.
func WithCurrentUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, CurrentUserContextKey, user)
}

// UserFromContext retrieves the authenticated user from the context.
// The second return value reports whether a user was present.
func UserFromContext(ctx context.Context) (CurrentUser, bool) {
	user, ok := ctx.Value(CurrentUserContextKey).(CurrentUser)
	return user, ok
}

// SetTraceID adds a fresh trace ID to the context.
// This is useful for correlating logs and error responses.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, uuid.NewString())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
