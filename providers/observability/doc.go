// Package observability defines the interfaces used for tracing, metrics,
// and structured logging throughout wikireact.
//
// The central entry point is [Provider], which composes [Tracer], [Metrics],
// and [Logger] into a single injectable dependency. An active [Span] travels
// through a [context.Context] via [ContextWithSpan] and is retrieved with
// [SpanFromContext], so lower layers (HTTP plumbing, memory stores, the
// Wikipedia client) can record events without holding a reference to the
// observer themselves.
//
// The semconv.go file holds the attribute-key and span-name constants used
// when recording observations, keeping naming consistent across packages.
package observability
