package crawl_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/helpdoc"
	"github.com/fwojciec/helpdoc/crawl"
	"github.com/fwojciec/helpdoc/goquery"
	"github.com/fwojciec/helpdoc/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://www.notion.so"

// site serves canned pages and counts fetches per URL.
type site struct {
	pages   map[string]string
	fetches map[string]int
	order   []string
}

func newSite(pages map[string]string) *site {
	return &site{pages: pages, fetches: make(map[string]int)}
}

func (s *site) fetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			s.fetches[url]++
			s.order = append(s.order, url)
			html, ok := s.pages[url]
			if !ok {
				return "", helpdoc.Errorf(helpdoc.ENOTFOUND, "HTTP 404 for %s", url)
			}
			return html, nil
		},
	}
}

func page(body string) string {
	return "<!DOCTYPE html><html><body>" + body + "</body></html>"
}

func newCrawler(s *site, maxDepth int) *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher:   s.fetcher(),
		Extractor: goquery.NewExtractor(),
		Links:     goquery.NewLinkSelector(helpdoc.DefaultLinkPolicy()),
		MaxDepth:  maxDepth,
	}
}

func TestCrawler_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("stores start page and one admissible link", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			base + "/help":       page(`<p>Hello world</p><a href="/help/start">Start</a>`),
			base + "/help/start": page(`<h1>Getting started</h1>`),
		})

		content, result, err := newCrawler(s, 1).Crawl(context.Background(), base+"/help", nil)

		require.NoError(t, err)
		assert.Equal(t, 2, content.Len())
		chunks, ok := content.Get(base + "/help")
		require.True(t, ok)
		require.NotEmpty(t, chunks)
		assert.Equal(t, "Hello world", chunks[0])
		assert.Equal(t, []string{base + "/help", base + "/help/start"}, content.URLs())
		assert.Equal(t, 2, result.Visited)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, 2, result.Chunks)
	})

	t.Run("never visits pages reachable only through two hops", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			base + "/help":       page(`<p>root</p><a href="/help/one">1</a>`),
			base + "/help/one":   page(`<p>one</p><a href="/help/two">2</a>`),
			base + "/help/two":   page(`<p>two</p><a href="/help/three">3</a>`),
			base + "/help/three": page(`<p>three</p>`),
		})

		content, _, err := newCrawler(s, 1).Crawl(context.Background(), base+"/help", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{base + "/help", base + "/help/one"}, content.URLs())
		assert.Zero(t, s.fetches[base+"/help/two"])
		assert.Zero(t, s.fetches[base+"/help/three"])
	})

	t.Run("max depth zero fetches only the start page", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			base + "/help":     page(`<p>root</p><a href="/help/one">1</a>`),
			base + "/help/one": page(`<p>one</p>`),
		})

		content, _, err := newCrawler(s, 0).Crawl(context.Background(), base+"/help", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{base + "/help"}, content.URLs())
		assert.Equal(t, []string{base + "/help"}, s.order)
	})

	t.Run("fetches each URL at most once", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			base + "/help": page(`<p>root</p>
<a href="/help/a">a</a><a href="/help/b">b</a><a href="/help/a">a again</a><a href="/help">self</a>`),
			base + "/help/a": page(`<p>a</p><a href="/help/b">b</a><a href="/help">root</a>`),
			base + "/help/b": page(`<p>b</p><a href="/help/a">a</a>`),
		})

		_, _, err := newCrawler(s, 3).Crawl(context.Background(), base+"/help", nil)

		require.NoError(t, err)
		for url, n := range s.fetches {
			assert.Equal(t, 1, n, "fetches of %s", url)
		}
		assert.Equal(t, []string{base + "/help", base + "/help/a", base + "/help/b"}, s.order)
	})

	t.Run("recurses depth-first in link order", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			base + "/help":     page(`<p>r</p><a href="/help/a">a</a><a href="/help/b">b</a>`),
			base + "/help/a":   page(`<p>a</p><a href="/help/a/x">x</a>`),
			base + "/help/a/x": page(`<p>x</p>`),
			base + "/help/b":   page(`<p>b</p>`),
		})

		content, _, err := newCrawler(s, 2).Crawl(context.Background(), base+"/help", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{base + "/help", base + "/help/a", base + "/help/a/x", base + "/help/b"}, content.URLs())
	})

	t.Run("stores pages that produce no chunks and does not refetch them", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			base + "/help":        page(`<p>root</p><a href="/help/chrome">c</a><a href="/help/other">o</a>`),
			base + "/help/chrome": page(`<div>Help Center</div><a href="/help/chrome">c</a>`),
			base + "/help/other":  page(`<p>other</p><a href="/help/chrome">c</a>`),
		})

		content, _, err := newCrawler(s, 2).Crawl(context.Background(), base+"/help", nil)

		require.NoError(t, err)
		chunks, ok := content.Get(base + "/help/chrome")
		require.True(t, ok)
		assert.Empty(t, chunks)
		assert.Equal(t, 1, s.fetches[base+"/help/chrome"])
	})

	t.Run("filters boilerplate before chunking", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			base + "/help": page(`<p>Keep me</p><p>Help Center</p><p>And me</p>`),
		})

		content, _, err := newCrawler(s, 0).Crawl(context.Background(), base+"/help", nil)

		require.NoError(t, err)
		chunks, _ := content.Get(base + "/help")
		assert.Equal(t, []string{"Keep me And me"}, chunks)
	})

	t.Run("uses custom boilerplate and chunk length", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			base + "/help": page(`<p>aaaa</p><p>drop this</p><p>bbbb</p>`),
		})
		c := newCrawler(s, 0)
		c.Boilerplate = []string{"drop"}
		c.MaxChunkLength = 6

		content, _, err := c.Crawl(context.Background(), base+"/help", nil)

		require.NoError(t, err)
		chunks, _ := content.Get(base + "/help")
		assert.Equal(t, []string{"aaaa", "bbbb"}, chunks)
	})

	t.Run("skips failing pages and continues", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			base + "/help":    page(`<p>root</p><a href="/help/gone">g</a><a href="/help/ok">o</a>`),
			base + "/help/ok": page(`<p>ok</p>`),
		})

		var failed []string
		progress := func(event crawl.ProgressEvent) {
			if event.Type == crawl.ProgressFailed {
				failed = append(failed, event.URL)
			}
		}

		content, result, err := newCrawler(s, 1).Crawl(context.Background(), base+"/help", progress)

		require.NoError(t, err)
		assert.Equal(t, []string{base + "/help", base + "/help/ok"}, content.URLs())
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, []string{base + "/help/gone"}, failed)
	})

	t.Run("aborts on first failure with fail fast and keeps partial content", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			base + "/help":    page(`<p>root</p><a href="/help/gone">g</a><a href="/help/ok">o</a>`),
			base + "/help/ok": page(`<p>ok</p>`),
		})
		c := newCrawler(s, 1)
		c.FailFast = true

		content, result, err := c.Crawl(context.Background(), base+"/help", nil)

		require.Error(t, err)
		assert.Equal(t, helpdoc.ENOTFOUND, helpdoc.ErrorCode(err))
		assert.Contains(t, err.Error(), base+"/help/gone")
		assert.Equal(t, []string{base + "/help"}, content.URLs())
		assert.Equal(t, 1, result.Failed)
		assert.Zero(t, s.fetches[base+"/help/ok"])
	})

	t.Run("reports extraction errors as page failures", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) { return url, nil },
			},
			Extractor: &mock.ContentExtractor{
				ExtractFragmentsFn: func(html string) ([]string, error) {
					if html == base+"/help/broken" {
						return nil, errors.New("parse failure")
					}
					return []string{"ok"}, nil
				},
			},
			Links: &mock.LinkSelector{
				SelectLinksFn: func(string) ([]string, error) { return []string{base + "/help/broken"}, nil },
			},
			MaxDepth: 1,
		}

		content, result, err := c.Crawl(context.Background(), base+"/help", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{base + "/help"}, content.URLs())
		assert.Equal(t, 1, result.Failed)
	})

	t.Run("fails when the start page cannot be fetched", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{})
		var events []crawl.ProgressEvent

		content, result, err := newCrawler(s, 1).Crawl(context.Background(), base+"/help", func(e crawl.ProgressEvent) {
			events = append(events, e)
		})

		require.Error(t, err)
		assert.Equal(t, helpdoc.ENOTFOUND, helpdoc.ErrorCode(err))
		assert.Contains(t, err.Error(), "start page")
		assert.Equal(t, 0, content.Len())
		assert.Equal(t, 0, result.Visited)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, events, 2)
		assert.Equal(t, crawl.ProgressFailed, events[0].Type)
		assert.Equal(t, crawl.ProgressFinished, events[1].Type)
	})

	t.Run("fails when the start page cannot be extracted", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) { return "<p>x</p>", nil },
			},
			Extractor: &mock.ContentExtractor{
				ExtractFragmentsFn: func(string) ([]string, error) { return nil, errors.New("parse failure") },
			},
			Links: &mock.LinkSelector{},
		}

		content, _, err := c.Crawl(context.Background(), base+"/help", nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse failure")
		assert.Equal(t, 0, content.Len())
	})

	t.Run("keeps page content when link selection fails", func(t *testing.T) {
		t.Parallel()

		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) { return "<p>x</p>", nil },
			},
			Extractor: &mock.ContentExtractor{
				ExtractFragmentsFn: func(string) ([]string, error) { return []string{"x"}, nil },
			},
			Links: &mock.LinkSelector{
				SelectLinksFn: func(string) ([]string, error) { return nil, errors.New("bad anchors") },
			},
			MaxDepth: 1,
		}

		content, result, err := c.Crawl(context.Background(), base+"/help", nil)

		require.NoError(t, err)
		chunks, ok := content.Get(base + "/help")
		require.True(t, ok)
		assert.Equal(t, []string{"x"}, chunks)
		assert.Equal(t, 1, result.Visited)
		assert.Equal(t, 1, result.Failed)
	})

	t.Run("stops when the context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		var fetched []string
		c := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(_ context.Context, url string) (string, error) {
					fetched = append(fetched, url)
					cancel()
					return "", context.Canceled
				},
			},
			Extractor: goquery.NewExtractor(),
			Links:     goquery.NewLinkSelector(helpdoc.DefaultLinkPolicy()),
			MaxDepth:  1,
		}

		_, _, err := c.Crawl(ctx, base+"/help", nil)

		require.ErrorIs(t, err, context.Canceled)
		assert.Len(t, fetched, 1)
	})

	t.Run("reports visited pages with their chunks", func(t *testing.T) {
		t.Parallel()

		s := newSite(map[string]string{
			base + "/help": page(`<p>Hello world</p>`),
		})

		var events []crawl.ProgressEvent
		_, _, err := newCrawler(s, 1).Crawl(context.Background(), base+"/help", func(e crawl.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, crawl.ProgressVisited, events[0].Type)
		assert.Equal(t, []string{"Hello world"}, events[0].Chunks)
		assert.Equal(t, 0, events[0].Depth)
		assert.Equal(t, crawl.ProgressFinished, events[1].Type)
	})

	t.Run("rejects empty start URL", func(t *testing.T) {
		t.Parallel()

		_, _, err := (&crawl.Crawler{}).Crawl(context.Background(), "", nil)

		require.Error(t, err)
		assert.Equal(t, helpdoc.EINVALID, helpdoc.ErrorCode(err))
	})

	t.Run("handles wide fan-out at depth one", func(t *testing.T) {
		t.Parallel()

		pages := map[string]string{}
		var anchors strings.Builder
		for i := 0; i < 50; i++ {
			path := fmt.Sprintf("/help/article-%d", i)
			fmt.Fprintf(&anchors, `<a href="%s">%d</a>`, path, i)
			pages[base+path] = page(fmt.Sprintf("<p>article %d</p>", i))
		}
		pages[base+"/help"] = page("<p>index</p>" + anchors.String())
		s := newSite(pages)

		content, result, err := newCrawler(s, 1).Crawl(context.Background(), base+"/help", nil)

		require.NoError(t, err)
		assert.Equal(t, 51, content.Len())
		assert.Equal(t, 51, result.Visited)
	})
}
