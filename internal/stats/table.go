package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

type column struct {
	header string
	right  bool
}

// writeTable prints a header line and rows, padding each cell to the widest
// entry of its column by terminal display width.
func writeTable(w io.Writer, cols []column, rows [][]string) error {
	widths := make([]int, len(cols))
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.header
		widths[i] = displayWidth(c.header)
	}
	for _, row := range rows {
		for i := 0; i < len(cols) && i < len(row); i++ {
			widths[i] = max(widths[i], displayWidth(row[i]))
		}
	}

	for _, row := range append([][]string{header}, rows...) {
		cells := make([]string, len(cols))
		for i, c := range cols {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			if c.right {
				cells[i] = runewidth.FillLeft(cell, widths[i])
			} else {
				cells[i] = runewidth.FillRight(cell, widths[i])
			}
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, " ")); err != nil {
			return err
		}
	}
	return nil
}

func displayWidth(value string) int {
	return runewidth.StringWidth(value)
}
