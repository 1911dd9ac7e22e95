// Package memory defines the Provider interface for conversation history
// management. Implementations store and retrieve [ai.Message] values across a
// chat session. The interface is intentionally minimal: it covers exactly the
// operations the conversation driver needs for turn-based conversations.
// Read methods return errors so that database-backed implementations can
// surface failures instead of silently swallowing them.
// The bundled reference implementation lives in the sibling package
// [github.com/tugaep/wikireact/providers/memory/inmemory].
package memory
