package helpdoc

import "context"

// Fetcher retrieves raw HTML for a URL.
type Fetcher interface {
	// Fetch issues a single GET for the absolute URL and returns the body.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}
