// Package goquery implements page content and link extraction on top of
// github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/helpdoc"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Extractor implements helpdoc.ContentExtractor at compile time.
var _ helpdoc.ContentExtractor = (*Extractor)(nil)

// DefaultTags are the elements whose text is extracted: headings,
// paragraphs, lists and generic containers.
var DefaultTags = []atom.Atom{
	atom.H1, atom.H2, atom.H3,
	atom.P,
	atom.Ul, atom.Ol,
	atom.Div, atom.Span,
}

// ignoredText holds elements whose text never counts as page content.
var ignoredText = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

// Extractor produces text fragments from the allowlisted elements of a page.
type Extractor struct {
	selector string
}

// NewExtractor creates an Extractor for the given tags.
// With no tags, DefaultTags are used.
func NewExtractor(tags ...atom.Atom) *Extractor {
	if len(tags) == 0 {
		tags = DefaultTags
	}
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.String()
	}
	return &Extractor{selector: strings.Join(names, ", ")}
}

// ExtractFragments returns one fragment per matching element in document order.
//
// A list (ul, ol) yields the texts of all its li descendants joined by ",".
// Any other element yields its stripped text, unless it is empty or equal
// to the fragment emitted just before it. Nested matches repeat text.
func (e *Extractor) ExtractFragments(rawHTML string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, helpdoc.Errorf(helpdoc.EINVALID, "failed to parse HTML: %v", err)
	}

	var fragments []string
	doc.Find(e.selector).Each(func(_ int, sel *goquery.Selection) {
		if sel.Is("ul, ol") {
			if list, ok := listText(sel); ok {
				fragments = append(fragments, list)
			}
			return
		}

		text := strippedText(sel.Nodes[0])
		if text == "" {
			return
		}
		if n := len(fragments); n > 0 && fragments[n-1] == text {
			return
		}
		fragments = append(fragments, text)
	})

	return fragments, nil
}

// listText joins the stripped texts of every li below a list element.
// It reports false when no item has text.
func listText(list *goquery.Selection) (string, bool) {
	var hasText bool
	items := list.Find("li").Map(func(_ int, li *goquery.Selection) string {
		text := strippedText(li.Nodes[0])
		if text != "" {
			hasText = true
		}
		return text
	})
	if !hasText {
		return "", false
	}
	return strings.Join(items, ","), true
}

// strippedText concatenates every descendant text node of n, each trimmed
// of surrounding whitespace, with no separator.
func strippedText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(strings.TrimSpace(n.Data))
			return
		case html.ElementNode:
			if ignoredText[n.DataAtom] {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
