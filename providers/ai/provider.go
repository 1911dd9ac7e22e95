package ai

import (
	"context"
	"net/http"
)

// Provider is the interface that every LLM backend implementation must
// satisfy. It covers authentication, endpoint configuration, and message
// dispatch for a single synchronous round trip.
type Provider interface {
	// SendMessage sends a chat request to the provider and returns the
	// completed response, truncated at the first stop sequence the model
	// emitted. Returns an error if the call fails, the context is
	// cancelled, or the response cannot be decoded.
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)

	// WithAPIKey sets the API key used for authenticating requests.
	WithAPIKey(apiKey string) Provider

	// WithBaseURL overrides the default base URL for API requests.
	WithBaseURL(baseURL string) Provider

	// WithHttpClient sets the HTTP client used for outbound requests.
	WithHttpClient(httpClient *http.Client) Provider
}
