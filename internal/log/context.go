package log

import (
	"context"

	"github.com/rs/zerolog"
)

// Field names shared by every log line.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldUserID    = "user_id"
	FieldEvent     = "event"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	userIDKey
)

// ContextWithRequestID records the request ID for downstream loggers.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID, or "" outside a request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ContextWithUserID records the authenticated user. When a request logger is
// already attached it is replaced by a child tagged with user_id.
func ContextWithUserID(ctx context.Context, id uint) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id)
	if l := attached(ctx); l != nil {
		child := l.With().Uint(FieldUserID, id).Logger()
		ctx = child.WithContext(ctx)
	}
	return ctx
}

// WithContext tags l with the request and user IDs found in ctx.
func WithContext(ctx context.Context, l zerolog.Logger) zerolog.Logger {
	c := l.With()
	if id := RequestIDFromContext(ctx); id != "" {
		c = c.Str(FieldRequestID, id)
	}
	if uid, _ := ctx.Value(userIDKey).(uint); uid != 0 {
		c = c.Uint(FieldUserID, uid)
	}
	return c.Logger()
}

// FromContext returns the request logger attached by the HTTP middleware,
// or the root logger tagged from ctx for work outside a request.
func FromContext(ctx context.Context) *zerolog.Logger {
	if l := attached(ctx); l != nil {
		return l
	}
	l := WithContext(ctx, Root())
	return &l
}

func attached(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l == nil || l.GetLevel() == zerolog.Disabled {
		return nil
	}
	return l
}
