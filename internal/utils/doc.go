// Package utils contains small internal helpers shared across wikireact:
// generic synchronous HTTP calls with observability events, and string
// truncation for log-safe previews of large payloads.
package utils
