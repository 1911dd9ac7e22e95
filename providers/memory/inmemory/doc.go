// Package inmemory provides a mutex-guarded, slice-backed implementation of
// [memory.Provider]. It records append and clear events on any observability
// span found in the context.
package inmemory
