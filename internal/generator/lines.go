package generator

import (
	"strings"
	"unicode/utf8"
)

// DefaultCharsPerLine is the wrap width used for the two-line view.
const DefaultCharsPerLine = 60

// SplitIntoLines greedily wraps text and returns the first two lines,
// padding with empty strings when fewer are produced.
func SplitIntoLines(text string, charsPerLine int) [2]string {
	var lines []string
	current := ""
	for _, word := range strings.Split(text, " ") {
		if utf8.RuneCountInString(current)+utf8.RuneCountInString(word)+1 <= charsPerLine {
			if current != "" {
				current += " "
			}
			current += word
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}

	var out [2]string
	copy(out[:], lines)
	return out
}
