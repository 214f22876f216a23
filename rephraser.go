package helpdoc

import (
	"context"
	"regexp"
	"strings"
)

// DefaultInstruction is appended after a page's chunks in every rephrasing request.
const DefaultInstruction = "For all of the above content, comprehend the text and rephrase in plain english their content. do not exceed 750 characters for each line."

// Rephraser sends page chunks to a chat-completion model.
type Rephraser interface {
	// Rephrase submits one message per chunk, in order, followed by the
	// instruction message, as a single request. It returns the text of
	// every candidate completion the model produced.
	Rephrase(ctx context.Context, chunks []string, instruction string) ([]string, error)
}

// sectionBreak matches the start of a numbered list line ("\n12. ").
var sectionBreak = regexp.MustCompile(`\n\d+\.\s`)

// SplitSections splits a completion on numbered list line starts and
// returns the trimmed, non-empty sections in order.
func SplitSections(text string) []string {
	var sections []string
	for _, section := range sectionBreak.Split(text, -1) {
		if section = strings.TrimSpace(section); section != "" {
			sections = append(sections, section)
		}
	}
	return sections
}
