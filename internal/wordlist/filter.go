// Package wordlist provides word list filtering helpers.
package wordlist

import "strings"

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

var invalidAbbreviations = map[string]struct{}{
	"st": {}, "nd": {}, "rd": {}, "th": {}, "pm": {}, "am": {}, "uk": {}, "us": {},
}

// sensitiveWords is intentionally empty; entries are dropped from every pool.
var sensitiveWords = map[string]struct{}{}

// KeepWord applies the pool filters to an already normalized word.
func KeepWord(word string) bool {
	if word == "" {
		return false
	}
	if len([]rune(word)) == 1 && word != "i" && word != "a" {
		return false
	}
	if _, ok := sensitiveWords[word]; ok {
		return false
	}
	if _, ok := invalidAbbreviations[word]; ok {
		return false
	}
	return true
}

// Normalize lowercases and trims a raw token.
func Normalize(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// Filter normalizes words and keeps those accepted by keep.
func Filter(words []string, keep FilterFunc) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = Normalize(w)
		if keep(w) {
			out = append(out, w)
		}
	}
	return out
}
