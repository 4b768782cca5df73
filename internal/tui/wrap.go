package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/pbardea/monkeydo/internal/session"
)

const wrongSpace = '•'

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes styles each text position from its keystroke record.
// Records at or after the cursor were rewound by backspace and render as
// pending. A negative cursorIndex hides the cursor.
func buildStyledRunes(text []rune, keys *session.Log, cursorIndex int) []styledRune {
	wordStart, wordEnd := currentWord(text, cursorIndex)
	typedUpTo := cursorIndex
	if typedUpTo < 0 {
		typedUpTo = len(text)
	}

	out := make([]styledRune, 0, len(text))
	for i, target := range text {
		displayed := target
		style := pendingStyle
		if rec, ok := keys.At(i); ok && i < typedUpTo {
			switch {
			case rec.Corrected:
				style = correctedStyle
			case rec.Skipped:
				style = skippedStyle
			case rec.Correct:
				style = correctStyle
			case target == ' ':
				displayed = wrongSpace
				style = incorrectStyle
			default:
				style = incorrectStyle
			}
		} else if i >= typedUpTo && i >= wordStart && i < wordEnd {
			style = currentWordStyle
		}
		if i == cursorIndex {
			style = style.Underline(true)
		}
		out = append(out, styledRune{
			s:       style.Render(string(displayed)),
			width:   runewidth.RuneWidth(displayed),
			isSpace: target == ' ',
		})
	}
	return out
}

// currentWord returns the bounds of the word being typed at cursor: the word
// under it, the next one when it rests on a space, or the last word once
// the cursor has passed every word.
func currentWord(text []rune, cursor int) (start, end int) {
	i := max(cursor, 0)
	for i < len(text) && text[i] == ' ' {
		i++
	}
	if i >= len(text) {
		i = len(text)
		for i > 0 && text[i-1] == ' ' {
			i--
		}
		if i == 0 {
			return 0, 0
		}
		i--
	}
	start, end = i, i
	for start > 0 && text[start-1] != ' ' {
		start--
	}
	for end < len(text) && text[end] != ' ' {
		end++
	}
	return start, end
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes lays words out greedily within width. A space that would
// overflow a line is dropped at the break; a word wider than the line is
// split.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var lines []string
	var line strings.Builder
	used := 0
	breakLine := func() {
		lines = append(lines, line.String())
		line.Reset()
		used = 0
	}

	for pos := 0; pos < len(runes); {
		end := pos
		for end < len(runes) && !runes[end].isSpace {
			end++
		}
		word := runes[pos:end]
		if used > 0 && used+widthOf(word) > width {
			breakLine()
		}
		for _, item := range word {
			if used > 0 && used+item.width > width {
				breakLine()
			}
			line.WriteString(item.s)
			used += item.width
		}
		if end < len(runes) {
			if used+runes[end].width > width {
				breakLine()
			} else {
				line.WriteString(runes[end].s)
				used += runes[end].width
			}
			end++
		}
		pos = end
	}
	lines = append(lines, line.String())
	return strings.Join(lines, "\n")
}

func widthOf(runes []styledRune) int {
	total := 0
	for _, item := range runes {
		total += item.width
	}
	return total
}
