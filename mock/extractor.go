package mock

import "github.com/fwojciec/helpdoc"

var _ helpdoc.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of helpdoc.ContentExtractor.
type ContentExtractor struct {
	ExtractFragmentsFn func(html string) ([]string, error)
}

func (e *ContentExtractor) ExtractFragments(html string) ([]string, error) {
	return e.ExtractFragmentsFn(html)
}
