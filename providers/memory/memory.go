package memory

import (
	"context"

	"github.com/tugaep/wikireact/providers/ai"
)

// Provider stores the ordered message history of one conversation.
type Provider interface {
	// AppendMessage stores message at the end of the history.
	AppendMessage(ctx context.Context, message *ai.Message)

	// AllMessages returns a copy of the full history in order.
	AllMessages(ctx context.Context) ([]ai.Message, error)

	// LastMessages returns up to the last n messages.
	LastMessages(ctx context.Context, n int) ([]ai.Message, error)

	// Count returns the number of stored messages.
	Count(ctx context.Context) (int, error)

	// ClearMessages removes all messages.
	ClearMessages(ctx context.Context)
}
