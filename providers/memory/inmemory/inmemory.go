package inmemory

import (
	"context"
	"sync"

	"github.com/tugaep/wikireact/providers/ai"
	"github.com/tugaep/wikireact/providers/memory"
	"github.com/tugaep/wikireact/providers/observability"
)

// ArrayMemory is a simple, concurrency-safe in-memory message store.
// It uses RWMutex to guard access and is efficient for read-heavy workloads.
type ArrayMemory struct {
	mu       sync.RWMutex
	messages []ai.Message
}

// New returns a new, empty [ArrayMemory] ready for immediate use.
func New() *ArrayMemory {
	return &ArrayMemory{
		messages: []ai.Message{},
	}
}

// Ensure ArrayMemory implements memory.Provider at compile time.
var _ memory.Provider = (*ArrayMemory)(nil)

// AppendMessage stores a copy of message at the end of the history.
// It is a no-op when message is nil.
// When an observability span is present in ctx, an event is recorded with the
// message role and content length, and the running total message count is set
// as a span attribute so history growth shows up in traces.
func (m *ArrayMemory) AppendMessage(ctx context.Context, message *ai.Message) {
	if message == nil {
		return
	}

	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventMemoryAppend,
			observability.String(observability.AttrMemoryMessageRole, string(message.Role)),
			observability.Int(observability.AttrMemoryMessageLength, len(message.Content)),
		)
	}

	m.mu.Lock()
	m.messages = append(m.messages, *message)
	totalMessages := len(m.messages)
	m.mu.Unlock()

	if span != nil {
		span.SetAttributes(
			observability.Int(observability.AttrMemoryTotalMessages, totalMessages),
		)
	}
}

// AllMessages returns a copy of all messages to avoid external mutation of
// internal state. The returned error is always nil for the in-memory store.
func (m *ArrayMemory) AllMessages(_ context.Context) ([]ai.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.messages) == 0 {
		return []ai.Message{}, nil
	}
	out := make([]ai.Message, len(m.messages))
	copy(out, m.messages)
	return out, nil
}

// LastMessages returns up to the last n messages as a new, independent slice.
// Returns an empty, non-nil slice when n is zero or negative, or when the
// store is empty. The returned error is always nil for the in-memory store.
func (m *ArrayMemory) LastMessages(_ context.Context, n int) ([]ai.Message, error) {
	if n <= 0 {
		return []ai.Message{}, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.messages) == 0 {
		return []ai.Message{}, nil
	}
	if n > len(m.messages) {
		n = len(m.messages)
	}
	out := make([]ai.Message, n)
	copy(out, m.messages[len(m.messages)-n:])
	return out, nil
}

// Count returns the number of messages stored. The returned error is always
// nil for the in-memory store.
func (m *ArrayMemory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages), nil
}

// ClearMessages removes all messages while retaining the underlying slice
// capacity, so subsequent appends do not immediately reallocate.
// When an observability span is present in ctx, a clear event is recorded.
func (m *ArrayMemory) ClearMessages(ctx context.Context) {
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventMemoryClear)
	}

	m.mu.Lock()
	m.messages = m.messages[:0]
	m.mu.Unlock()
}
