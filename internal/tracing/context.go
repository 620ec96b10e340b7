package tracing

import "context"

type contextKey string

const sessionIDKey contextKey = "session_id"

// SessionIDFromContext returns the menu session stored in ctx, or "".
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithSessionID tags ctx with a menu session. Surface spans started
// from ctx carry it as an attribute. An empty id returns ctx unchanged.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, sessionIDKey, id)
}
