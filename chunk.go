package helpdoc

import "strings"

// DefaultMaxChunkLength is the maximum chunk length in characters.
const DefaultMaxChunkLength = 750

// CombineFragments packs fragments, in order, into chunks of at most
// maxLength characters joined by single spaces. Packing is greedy: a
// fragment goes into the current chunk if it fits, otherwise it starts a
// new one. Fragments longer than maxLength are truncated first.
// A non-positive maxLength selects DefaultMaxChunkLength.
func CombineFragments(fragments []string, maxLength int) []string {
	if maxLength <= 0 {
		maxLength = DefaultMaxChunkLength
	}

	var chunks []string
	var current []rune

	flush := func() {
		if chunk := strings.TrimSpace(string(current)); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	for _, fragment := range fragments {
		r := []rune(fragment)
		if len(r) > maxLength {
			r = r[:maxLength]
		}

		if len(current)+len(r)+1 > maxLength {
			flush()
			current = append([]rune(nil), r...)
			continue
		}
		current = append(current, ' ')
		current = append(current, r...)
	}
	flush()

	return chunks
}
