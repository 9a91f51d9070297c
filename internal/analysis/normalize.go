// Package analysis provides the text primitives behind duplicate detection:
// normalization, content fingerprints and similarity scoring.
package analysis

import (
	"regexp"
	"strings"
)

// courtesyPattern matches filler words that carry no meaning for matching.
// Word boundaries are spelled out with Unicode classes because \b only knows
// ASCII word characters. "thank you" comes before "thanks?" so the whole
// phrase is removed.
var courtesyPattern = regexp.MustCompile(`(^|[^\p{L}\p{N}_])(please|thank you|thanks?|hi|hello|dear|regards?)($|[^\p{L}\p{N}_])`)

// NormalizeText lowercases text, collapses whitespace and strips courtesy words.
// It is total: empty input yields an empty string.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	text = collapseSpaces(strings.ToLower(text))
	return collapseSpaces(stripCourtesy(text))
}

// stripCourtesy repeats the replacement until nothing matches, since a
// boundary character consumed by one match cannot start the next one.
func stripCourtesy(text string) string {
	for {
		next := courtesyPattern.ReplaceAllString(text, "${1} ${3}")
		if next == text {
			return text
		}
		text = next
	}
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
