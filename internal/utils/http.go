package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tugaep/wikireact/providers/observability"
)

// DoPostSync performs a synchronous HTTP POST with a JSON body and decodes the
// JSON response into OutputStruct. It records observability events on any span
// found in ctx, sets a bearer Authorization header when apiKey is non-empty,
// and always closes the response body, logging close errors without overriding
// the primary error.
//
// Error handling strategy:
//   - context errors (timeout, cancellation) propagate immediately
//   - HTTP transport failures and non-2xx statuses return an error
//   - JSON decode errors include a response preview for debugging
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, url string, apiKey string, body any) (*http.Response, *OutputStruct, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("error marshaling body: %w", err)
	}

	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventHTTPRequestPrepared,
			observability.String(observability.AttrHTTPMethod, http.MethodPost),
			observability.String(observability.AttrHTTPURL, url),
			observability.Int(observability.AttrHTTPRequestBodySize, len(jsonBody)),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	return doSync[OutputStruct](ctx, client, req)
}

// DoGetSync performs a synchronous HTTP GET and decodes the JSON response into
// OutputStruct. The userAgent is set when non-empty; some public APIs (the
// Wikimedia ones included) ask clients to identify themselves.
func DoGetSync[OutputStruct any](ctx context.Context, client *http.Client, url string, userAgent string) (*http.Response, *OutputStruct, error) {
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventHTTPRequestPrepared,
			observability.String(observability.AttrHTTPMethod, http.MethodGet),
			observability.String(observability.AttrHTTPURL, url),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	return doSync[OutputStruct](ctx, client, req)
}

func doSync[OutputStruct any](ctx context.Context, client *http.Client, req *http.Request) (*http.Response, *OutputStruct, error) {
	span := observability.SpanFromContext(ctx)

	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	requestStart := time.Now()
	res, err := httpClient.Do(req)
	requestDuration := time.Since(requestStart)

	if err != nil {
		if span != nil {
			span.AddEvent(observability.EventHTTPRequestError,
				observability.Error(err),
				observability.Duration(observability.AttrHTTPDuration, requestDuration),
			)
		}
		return res, nil, fmt.Errorf("error sending request: %w", err)
	}
	defer func(body io.ReadCloser) {
		if closeErr := body.Close(); closeErr != nil {
			// Log the close error, but don't override the main error.
			slog.Warn("failed to close response body", "error", closeErr.Error(), "url", req.URL.String())
		}
	}(res.Body)

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("error reading response body: %w", err)
	}

	if span != nil {
		span.AddEvent(observability.EventHTTPResponse,
			observability.Int(observability.AttrHTTPStatusCode, res.StatusCode),
			observability.Int(observability.AttrHTTPResponseBodySize, len(respBody)),
			observability.Duration(observability.AttrHTTPDuration, requestDuration),
		)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, nil, fmt.Errorf("non-2xx status %d: %s", res.StatusCode, TruncateStringDefault(string(respBody)))
	}

	var resStruct OutputStruct
	if err = json.Unmarshal(respBody, &resStruct); err != nil {
		return res, nil, fmt.Errorf("error unmarshaling response body (status %d): %w\nResponse preview: %s", res.StatusCode, err, TruncateString(string(respBody), 500))
	}

	return res, &resStruct, nil
}
