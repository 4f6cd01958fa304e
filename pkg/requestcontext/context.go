// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them; handlers and services only
// read, so neither side needs net/http to agree on the keys.
package requestcontext

import "context"

type (
	requestIDKey  struct{}
	operatorIDKey struct{}
)

// WithRequestID attaches the correlation id for this request.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the correlation id, or "" outside a request.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithOperatorID attaches the calling operator's id.
func WithOperatorID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, operatorIDKey{}, id)
}

// OperatorID returns the calling operator's id, or "".
func OperatorID(ctx context.Context) string {
	if id, ok := ctx.Value(operatorIDKey{}).(string); ok {
		return id
	}
	return ""
}
