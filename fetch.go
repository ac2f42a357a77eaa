package eventscrape

import (
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// UserAgent identifies the scraper to the sites it visits.
	UserAgent = "Mozilla/5.0 (compatible; eventscrape/1.0)"

	// DefaultFetchTimeout bounds a single page fetch.
	DefaultFetchTimeout = 15 * time.Second
)

// Fetcher performs single best-effort page fetches. There is no retry and
// no backoff: a page either comes back parsed or it doesn't.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// NewFetcher creates a fetcher with the given per-request timeout. A zero
// or negative timeout falls back to DefaultFetchTimeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: UserAgent,
	}
}

// FetchHTML fetches the URL and parses the response body. Transport errors,
// timeouts, and non-OK statuses all come back as errors; pipeline callers
// treat every one of them the same way, as "no page".
func (f *Fetcher) FetchHTML(url string) (*goquery.Document, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}
