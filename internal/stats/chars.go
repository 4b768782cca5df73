package stats

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/pbardea/monkeydo/internal/model"
)

// CharStat aggregates the outcome of every attempt at one expected character.
type CharStat struct {
	Char      rune
	Correct   int
	Incorrect int
	Skipped   int
}

// Accuracy returns the correct share in [0,1]. Untyped characters count as
// fully accurate.
func (c CharStat) Accuracy() float64 {
	total := c.Correct + c.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(c.Correct) / float64(total)
}

// Breakdown groups recorded positions by the character the text expected
// there. at looks up the record for a rune index.
func Breakdown(text string, at func(i int) (model.Keystroke, bool)) []CharStat {
	byChar := map[rune]*CharStat{}
	var order []rune
	for i, expected := range []rune(text) {
		k, ok := at(i)
		if !ok {
			continue
		}
		cs, seen := byChar[expected]
		if !seen {
			cs = &CharStat{Char: expected}
			byChar[expected] = cs
			order = append(order, expected)
		}
		switch {
		case k.Correct:
			cs.Correct++
		case k.Skipped:
			cs.Skipped++
			cs.Incorrect++
		default:
			cs.Incorrect++
		}
	}
	out := make([]CharStat, 0, len(order))
	for _, r := range order {
		out = append(out, *byChar[r])
	}
	return out
}

// WeakChars returns up to top characters with at least one miss, lowest
// accuracy first.
func WeakChars(chars []CharStat, top int) []CharStat {
	candidates := make([]CharStat, 0, len(chars))
	for _, c := range chars {
		if c.Incorrect > 0 {
			candidates = append(candidates, c)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai := candidates[i].Accuracy()
		aj := candidates[j].Accuracy()
		if ai == aj {
			return candidates[i].Char < candidates[j].Char
		}
		return ai < aj
	})
	if top > 0 && top < len(candidates) {
		candidates = candidates[:top]
	}
	return candidates
}

// RenderCharTable prints per-character results as an aligned table.
func RenderCharTable(w io.Writer, chars []CharStat) error {
	if len(chars) == 0 {
		_, err := fmt.Fprintln(w, "No missed characters.")
		return err
	}
	cols := []column{
		{header: "Char"},
		{header: "Accuracy", right: true},
		{header: "Correct", right: true},
		{header: "Missed", right: true},
		{header: "Skipped", right: true},
	}
	rows := make([][]string, 0, len(chars))
	for _, c := range chars {
		rows = append(rows, []string{
			charLabel(c.Char),
			fmt.Sprintf("%.2f%%", c.Accuracy()*100),
			strconv.Itoa(c.Correct),
			strconv.Itoa(c.Incorrect),
			strconv.Itoa(c.Skipped),
		})
	}
	return writeTable(w, cols, rows)
}

func charLabel(r rune) string {
	if r == ' ' {
		return "<space>"
	}
	return string(r)
}
