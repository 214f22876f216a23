package helpdoc

import "strings"

// DefaultBoilerplate lists navigation and header text repeated across the
// Notion help center. Fragments containing any of these are dropped.
var DefaultBoilerplate = []string{
	"ProductAIIntegrated AI assistantDocsSimple &",
	"AIIntegrated AI assistantDocsSimple",
	"TemplatesSetups",
	"ProductAIDocsWikisProjectsCalendarSitesTemplatesTeamsIndividualsDownloadPricingRequest",
	"Help Center",
}

// FilterBoilerplate returns the fragments that contain none of the denylisted
// substrings, preserving order.
func FilterBoilerplate(fragments []string, denylist []string) []string {
	kept := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if !containsAny(fragment, denylist) {
			kept = append(kept, fragment)
		}
	}
	return kept
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
