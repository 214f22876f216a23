// Package crawl provides help-center crawling orchestration.
// It coordinates fetching, content extraction, boilerplate filtering,
// chunking and recursive link following up to a fixed depth.
package crawl

import (
	"context"
	"fmt"

	"github.com/fwojciec/helpdoc"
)

// DefaultMaxDepth is the default hop limit from the start URL.
const DefaultMaxDepth = 1

// Crawler orchestrates a depth-limited, depth-first crawl.
// Pages are fetched one at a time in document order of their links.
type Crawler struct {
	Fetcher   helpdoc.Fetcher
	Extractor helpdoc.ContentExtractor
	Links     helpdoc.LinkSelector

	// Boilerplate lists substrings whose fragments are dropped.
	// Nil selects helpdoc.DefaultBoilerplate.
	Boilerplate []string

	// MaxDepth is the deepest hop count that is still fetched; the start
	// URL is depth 0.
	MaxDepth int

	// MaxChunkLength bounds chunk size in characters.
	// Non-positive selects helpdoc.DefaultMaxChunkLength.
	MaxChunkLength int

	// FailFast aborts the crawl on the first page error instead of
	// skipping the page.
	FailFast bool
}

// Result holds the outcome of a crawl.
type Result struct {
	Visited int
	Failed  int
	Chunks  int
	Bytes   int
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type   ProgressType
	URL    string
	Depth  int
	Chunks []string
	Error  error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	// ProgressVisited is sent after a page's chunks are stored.
	ProgressVisited ProgressType = iota
	// ProgressFailed is sent when a page cannot be fetched or processed.
	ProgressFailed
	// ProgressFinished is sent once when the crawl ends.
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// walk holds the transient state of one Crawl call.
type walk struct {
	c        *Crawler
	content  *helpdoc.ContentMap
	visited  *VisitedSet
	result   Result
	progress ProgressFunc
}

// Crawl visits startURL at depth 0 and recursively follows admitted links
// up to MaxDepth. Each URL is fetched at most once.
//
// The returned ContentMap holds one entry per successfully processed page,
// in visit order, including pages that produced no chunks. A start page
// that cannot be fetched or extracted is an error even without FailFast.
// On error the content gathered so far is returned alongside it.
func (c *Crawler) Crawl(ctx context.Context, startURL string, progress ProgressFunc) (*helpdoc.ContentMap, *Result, error) {
	if startURL == "" {
		return nil, nil, helpdoc.Errorf(helpdoc.EINVALID, "start URL required")
	}

	w := &walk{
		c:        c,
		content:  helpdoc.NewContentMap(),
		visited:  NewVisitedSet(visitedExpectedURLs, visitedFalsePositiveRate),
		progress: progress,
	}

	err := w.visit(ctx, startURL, 0)
	w.emit(ProgressEvent{Type: ProgressFinished})

	return w.content, &w.result, err
}

func (w *walk) visit(ctx context.Context, url string, depth int) error {
	if depth > w.c.MaxDepth {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !w.visited.Visit(url) {
		return nil
	}

	html, chunks, err := w.c.processPage(ctx, url)
	if err != nil {
		return w.fail(ctx, url, depth, err)
	}

	w.content.Set(url, chunks)
	w.result.Visited++
	w.result.Chunks += len(chunks)
	w.result.Bytes += len(html)
	w.emit(ProgressEvent{Type: ProgressVisited, URL: url, Depth: depth, Chunks: chunks})

	// Children past the depth limit would be skipped unfetched anyway.
	if depth >= w.c.MaxDepth {
		return nil
	}

	links, err := w.c.Links.SelectLinks(html)
	if err != nil {
		return w.fail(ctx, url, depth, fmt.Errorf("selecting links: %w", err))
	}
	for _, link := range links {
		if err := w.visit(ctx, link, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// fail records a page error. The crawl continues unless FailFast is set,
// the context is done, or the start page itself could not be processed.
func (w *walk) fail(ctx context.Context, url string, depth int, err error) error {
	w.result.Failed++
	w.emit(ProgressEvent{Type: ProgressFailed, URL: url, Depth: depth, Error: err})

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if depth == 0 && w.result.Visited == 0 {
		return fmt.Errorf("crawling start page %s: %w", url, err)
	}
	if w.c.FailFast {
		return fmt.Errorf("crawling %s: %w", url, err)
	}
	return nil
}

func (w *walk) emit(event ProgressEvent) {
	if w.progress != nil {
		w.progress(event)
	}
}

// processPage fetches a page and turns it into filtered, bounded chunks.
func (c *Crawler) processPage(ctx context.Context, url string) (html string, chunks []string, err error) {
	html, err = c.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", nil, err
	}

	fragments, err := c.Extractor.ExtractFragments(html)
	if err != nil {
		return "", nil, fmt.Errorf("extracting content: %w", err)
	}

	denylist := c.Boilerplate
	if denylist == nil {
		denylist = helpdoc.DefaultBoilerplate
	}
	fragments = helpdoc.FilterBoilerplate(fragments, denylist)

	return html, helpdoc.CombineFragments(fragments, c.MaxChunkLength), nil
}
