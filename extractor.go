package helpdoc

// ContentExtractor turns a page into an ordered sequence of text fragments.
type ContentExtractor interface {
	// ExtractFragments parses HTML and returns one fragment per matching
	// node in document order.
	ExtractFragments(html string) ([]string, error)
}
