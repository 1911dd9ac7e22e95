package mediawiki

// Wire types for the MediaWiki Action API with formatversion=2.

type queryResponse struct {
	BatchComplete bool       `json:"batchcomplete"`
	Query         *queryBody `json:"query,omitempty"`
}

type queryBody struct {
	Search []searchResult `json:"search,omitempty"`
	Pages  []pageResult   `json:"pages,omitempty"`
}

type searchResult struct {
	PageID int    `json:"pageid"`
	Title  string `json:"title"`
}

type pageResult struct {
	PageID    int        `json:"pageid"`
	Title     string     `json:"title"`
	Missing   bool       `json:"missing,omitempty"`
	Extract   string     `json:"extract,omitempty"`
	FullURL   string     `json:"fullurl,omitempty"`
	PageProps *pageProps `json:"pageprops,omitempty"`
}

// pageProps carries the subset of page properties the client inspects.
// The disambiguation property is present (with an empty value) exactly when
// the page is a disambiguation page.
type pageProps struct {
	Disambiguation *string `json:"disambiguation,omitempty"`
}

func (p pageResult) isDisambiguation() bool {
	return p.PageProps != nil && p.PageProps.Disambiguation != nil
}
