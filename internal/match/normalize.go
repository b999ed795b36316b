package match

import (
	"strings"
	"unicode"
)

// Normalize lowercases, strips punctuation, and collapses whitespace so that
// cosmetic differences between a stored message and a template prompt do not
// defeat comparison
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true // suppress leading whitespace
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			/* punctuation acts as a token boundary, not a character */
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}

// Tokens splits a normalized string into its word set
func Tokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

// tokenSet builds a set from a token slice
func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
