package respond

import (
	"strings"

	"github.com/barkuni-voice/barkuni/internal/persona"
)

// matchCategory finds the first category whose keyword set intersects the
// input tokens. Categories are checked in declaration order and the first
// match wins; randomness in the caller only picks within the returned
// bucket, never across buckets. No match (including empty input) yields the
// default bucket.
func matchCategory(table persona.CannedTable, input string) (string, []string) {
	tokens := tokenize(input)

	for _, cat := range table.Categories {
		for _, keyword := range cat.Keywords {
			if tokens[keyword] {
				return cat.Name, cat.Replies
			}
		}
	}
	return "", table.Default
}

// tokenize lowercases the input, splits on whitespace and strips common
// trailing punctuation from each token.
func tokenize(input string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(input)) {
		word = strings.Trim(word, ".,!?")
		if word != "" {
			tokens[word] = true
		}
	}
	return tokens
}
