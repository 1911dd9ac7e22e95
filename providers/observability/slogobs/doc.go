// Package slogobs implements [observability.Provider] on top of the standard
// library's log/slog. Spans are logged as start/end event pairs with the
// elapsed duration, metrics are kept in an in-memory store and reported at
// debug level, and log methods map one-to-one onto slog levels. It is the
// default observer used by the wikireact CLI and examples.
package slogobs
