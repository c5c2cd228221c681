// Package text provides the tokenization primitives shared by the scoring
// engine: word splitting, counting and phrase containment.
package text

import (
	"strings"
	"unicode"
)

// Normalize casefolds s, drops punctuation and collapses runs of whitespace
// to single spaces. The result is suitable for substring phrase matching.
func Normalize(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'':
			if space && len(out) > 0 {
				out = append(out, ' ')
			}
			space = false
			out = append(out, unicode.ToLower(r))
		default:
			space = true
		}
	}
	return string(out)
}

// Tokenize splits s into lowercase word tokens.
func Tokenize(s string) []string {
	normalized := Normalize(s)
	if normalized == "" {
		return nil
	}
	return strings.Split(normalized, " ")
}

// WordCount returns the number of word tokens in s.
func WordCount(s string) int {
	return len(Tokenize(s))
}

// TokenSet builds a membership set over the tokens of s.
func TokenSet(s string) map[string]struct{} {
	tokens := Tokenize(s)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// ContainsPhrase reports whether phrase occurs in s, compared on the
// normalized forms with word-boundary alignment. Single-word phrases match
// whole tokens only.
func ContainsPhrase(s, phrase string) bool {
	haystack := Normalize(s)
	needle := Normalize(phrase)
	if needle == "" || haystack == "" {
		return false
	}
	// Pad both sides so matches align on word boundaries.
	return strings.Contains(" "+haystack+" ", " "+needle+" ")
}
