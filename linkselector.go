package helpdoc

import "strings"

// Default crawl scope for the Notion help center.
const (
	DefaultBaseURL  = "https://www.notion.so"
	DefaultStartURL = "https://www.notion.so/help"
	DefaultRequired = "help"
	DefaultExcluded = "academy"
)

// LinkSelector returns the crawlable links of a page.
type LinkSelector interface {
	// SelectLinks parses HTML and returns the absolute URLs of all admitted
	// anchor targets in document order. Duplicates are not removed.
	SelectLinks(html string) ([]string, error)
}

// LinkPolicy decides which anchor targets are followed during a crawl.
type LinkPolicy struct {
	// BaseURL is the site origin prefixed to admitted relative targets.
	BaseURL string

	// Required must appear somewhere in the target.
	Required string

	// Excluded targets containing any of these are rejected.
	Excluded []string
}

// DefaultLinkPolicy returns the policy for the Notion help center.
func DefaultLinkPolicy() LinkPolicy {
	return LinkPolicy{
		BaseURL:  DefaultBaseURL,
		Required: DefaultRequired,
		Excluded: []string{DefaultExcluded},
	}
}

// Admit reports whether href should be followed and returns its absolute URL.
// Only site-root relative targets are admitted; protocol-relative ("//host")
// and fragment-bearing targets are rejected.
func (p LinkPolicy) Admit(href string) (string, bool) {
	if !strings.HasPrefix(href, "/") || strings.HasPrefix(href, "//") {
		return "", false
	}
	if !strings.Contains(href, p.Required) {
		return "", false
	}
	if strings.Contains(href, "#") {
		return "", false
	}
	for _, excluded := range p.Excluded {
		if excluded != "" && strings.Contains(href, excluded) {
			return "", false
		}
	}
	return strings.TrimSuffix(p.BaseURL, "/") + href, true
}
