package wiki

import "context"

// Page is the full content of a single article.
type Page struct {
	Title    string // Canonical title after redirect resolution
	URL      string // Canonical page URL, recorded as the source identifier
	FullText string // Complete article text, used by the lookup tool
}

// Source is the external knowledge-source boundary.
type Source interface {
	// Summary returns a short natural-language excerpt for topic.
	// Returns *NotFoundError or *DisambiguationError for the two
	// recoverable failure modes.
	Summary(ctx context.Context, topic string) (string, error)

	// Page returns the full page for topic, including its URL and text.
	// Error conditions match Summary.
	Page(ctx context.Context, topic string) (Page, error)

	// Search returns candidate page titles for topic, best match first.
	// An empty slice with a nil error means the source knows nothing
	// similar.
	Search(ctx context.Context, topic string) ([]string, error)
}
