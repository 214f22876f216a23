package mock

import "github.com/fwojciec/helpdoc"

var _ helpdoc.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of helpdoc.LinkSelector.
type LinkSelector struct {
	SelectLinksFn func(html string) ([]string, error)
}

func (s *LinkSelector) SelectLinks(html string) ([]string, error) {
	return s.SelectLinksFn(html)
}
