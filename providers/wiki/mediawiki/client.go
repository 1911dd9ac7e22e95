package mediawiki

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/tugaep/wikireact/internal/utils"
	"github.com/tugaep/wikireact/providers/wiki"
)

const (
	// DefaultUserAgent identifies the client to the Wikimedia API, as their
	// etiquette guidelines request.
	DefaultUserAgent = "wikireact-mediawiki/1.0"
	// DefaultSummarySentences caps how many sentences Summary returns.
	DefaultSummarySentences = 5
	// searchLimit caps candidate titles returned by Search.
	searchLimit = 10
)

// Client talks to a MediaWiki Action API endpoint.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	userAgent        string
	summarySentences int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a specific api.php endpoint. It overrides
// WithLanguage.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithLanguage selects a Wikipedia language edition, e.g. "de" or "fr".
func WithLanguage(lang string) Option {
	return func(c *Client) {
		c.baseURL = fmt.Sprintf("https://%s.wikipedia.org/w/api.php", lang)
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) { c.userAgent = userAgent }
}

// WithSummarySentences caps the sentence count of Summary output.
// Zero or negative means the full intro extract.
func WithSummarySentences(n int) Option {
	return func(c *Client) { c.summarySentences = n }
}

// NewClient creates a client for English Wikipedia unless configured
// otherwise.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:          "https://en.wikipedia.org/w/api.php",
		httpClient:       &http.Client{},
		userAgent:        DefaultUserAgent,
		summarySentences: DefaultSummarySentences,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ensure Client implements wiki.Source at compile time.
var _ wiki.Source = (*Client)(nil)

// Search returns candidate page titles for topic, best match first.
func (c *Client) Search(ctx context.Context, topic string) ([]string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", topic)
	params.Set("srlimit", fmt.Sprintf("%d", searchLimit))

	resp, err := c.query(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", topic, err)
	}

	if resp.Query == nil {
		return []string{}, nil
	}
	titles := make([]string, 0, len(resp.Query.Search))
	for _, result := range resp.Query.Search {
		titles = append(titles, result.Title)
	}
	return titles, nil
}

// Summary returns the intro extract of the page for topic, clipped to the
// configured sentence count. Missing pages yield *wiki.NotFoundError with
// search suggestions; disambiguation pages yield *wiki.DisambiguationError
// listing the candidate articles.
func (c *Client) Summary(ctx context.Context, topic string) (string, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts|pageprops")
	params.Set("ppprop", "disambiguation")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("titles", topic)

	page, err := c.queryPage(ctx, topic, params)
	if err != nil {
		return "", err
	}

	return clipSentences(strings.TrimSpace(page.Extract), c.summarySentences), nil
}

// Page returns the full page for topic. The article body is requested as an
// HTML extract and converted to Markdown, which keeps section headings and
// links readable for phrase lookup.
func (c *Client) Page(ctx context.Context, topic string) (wiki.Page, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("prop", "extracts|pageprops|info")
	params.Set("ppprop", "disambiguation")
	params.Set("inprop", "url")
	params.Set("redirects", "1")
	params.Set("titles", topic)

	page, err := c.queryPage(ctx, topic, params)
	if err != nil {
		return wiki.Page{}, err
	}

	markdown, err := htmltomarkdown.ConvertString(page.Extract)
	if err != nil {
		return wiki.Page{}, fmt.Errorf("converting page %q to markdown: %w", page.Title, err)
	}

	return wiki.Page{
		Title:    page.Title,
		URL:      page.FullURL,
		FullText: markdown,
	}, nil
}

// queryPage runs a titles query and classifies the single resulting page.
func (c *Client) queryPage(ctx context.Context, topic string, params url.Values) (pageResult, error) {
	resp, err := c.query(ctx, params)
	if err != nil {
		return pageResult{}, fmt.Errorf("fetching page %q: %w", topic, err)
	}

	if resp.Query == nil || len(resp.Query.Pages) == 0 {
		return pageResult{}, c.notFound(ctx, topic)
	}

	page := resp.Query.Pages[0]
	if page.Missing {
		return pageResult{}, c.notFound(ctx, topic)
	}
	if page.isDisambiguation() {
		options, _ := c.Search(ctx, topic)
		options = dropTitle(options, page.Title)
		return pageResult{}, &wiki.DisambiguationError{Topic: topic, Options: options}
	}
	return page, nil
}

// notFound builds a NotFoundError enriched with search suggestions.
// Suggestion lookup failures are deliberately swallowed: the not-found
// condition is the primary signal.
func (c *Client) notFound(ctx context.Context, topic string) error {
	suggestions, _ := c.Search(ctx, topic)
	return &wiki.NotFoundError{Topic: topic, Suggestions: suggestions}
}

func (c *Client) query(ctx context.Context, params url.Values) (*queryResponse, error) {
	params.Set("format", "json")
	params.Set("formatversion", "2")

	fullURL := c.baseURL + "?" + params.Encode()
	_, resp, err := utils.DoGetSync[queryResponse](ctx, c.httpClient, fullURL, c.userAgent)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// dropTitle removes the disambiguation page itself from its option list.
func dropTitle(titles []string, title string) []string {
	out := titles[:0]
	for _, t := range titles {
		if t != title {
			out = append(out, t)
		}
	}
	return out
}

// clipSentences returns at most n sentences of text. Sentence boundaries are
// approximated as ". " followed by an upper-case letter, which is good enough
// for encyclopedia prose.
func clipSentences(text string, n int) string {
	if n <= 0 {
		return text
	}
	count := 0
	for i := 0; i+1 < len(text); i++ {
		if text[i] != '.' {
			continue
		}
		next := text[i+1]
		if next == ' ' || next == '\n' {
			count++
			if count >= n {
				return strings.TrimSpace(text[:i+1])
			}
		}
	}
	return text
}
