package observability

import "context"

// contextKey is unexported so no other package can collide with the span key.
type contextKey struct{}

var spanContextKey = contextKey{}

// SpanFromContext returns the span carried by ctx, or nil when none is
// attached. Callers nil-check the result before recording events, which
// keeps instrumentation optional at every layer.
func SpanFromContext(ctx context.Context) Span {
	if ctx == nil {
		return nil
	}
	span, _ := ctx.Value(spanContextKey).(Span)
	return span
}

// ContextWithSpan attaches span to ctx so lower layers, the HTTP helpers
// included, can report events against the active span without it being
// plumbed through every signature.
func ContextWithSpan(ctx context.Context, span Span) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, spanContextKey, span)
}
