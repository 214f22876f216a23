package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/helpdoc"
)

// Ensure LinkSelector implements helpdoc.LinkSelector at compile time.
var _ helpdoc.LinkSelector = (*LinkSelector)(nil)

// LinkSelector returns the anchors of a page admitted by a LinkPolicy.
type LinkSelector struct {
	policy helpdoc.LinkPolicy
}

// NewLinkSelector creates a new LinkSelector.
func NewLinkSelector(policy helpdoc.LinkPolicy) *LinkSelector {
	return &LinkSelector{policy: policy}
}

// SelectLinks returns the absolute URLs of admitted anchors in document order.
func (s *LinkSelector) SelectLinks(rawHTML string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, helpdoc.Errorf(helpdoc.EINVALID, "failed to parse HTML: %v", err)
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if link, ok := s.policy.Admit(href); ok {
			links = append(links, link)
		}
	})
	return links, nil
}
