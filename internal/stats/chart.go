package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"github.com/pbardea/monkeydo/internal/model"
)

const (
	defaultChartHeight  = 6
	minPlotWidth        = 10
	axisLabelWidth      = 4
	axisSeparator       = " │ "
	axisCorner          = " └─"
	axisRule            = "─"
	terminalWidthBackup = 80
)

// RenderChart draws the WPM samples as a braille line chart. The y axis is
// labeled with the minimum and maximum WPM and the x axis with the elapsed
// seconds. A non-positive width fits the chart to the terminal.
func RenderChart(w io.Writer, samples []model.WpmSample, width, height int) error {
	if len(samples) == 0 {
		_, err := fmt.Fprintln(w, "Not enough data for a chart.")
		return err
	}
	if height <= 0 {
		height = defaultChartHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	if width < minPlotWidth {
		width = minPlotWidth
	}

	minWPM, maxWPM := samples[0].WPM, samples[0].WPM
	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = float64(s.WPM)
		minWPM = min(minWPM, s.WPM)
		maxWPM = max(maxWPM, s.WPM)
	}
	lo, hi := float64(minWPM), float64(maxWPM)
	if hi == lo {
		lo--
		hi++
	}

	// Each cell holds two dot columns, so the series is fitted to 2*width points.
	canvas := newBrailleCanvas(width, height)
	dots := height * 4
	prevY := 0
	for x, v := range fitSeries(values, width*2) {
		y := int(math.Round((hi - v) / (hi - lo) * float64(dots-1)))
		y = min(max(y, 0), dots-1)
		if x == 0 {
			canvas.dot(x, y)
		} else {
			canvas.line(x-1, prevY, x, y)
		}
		prevY = y
	}

	for y := 0; y < height; y++ {
		var label string
		switch y {
		case 0:
			label = strconv.Itoa(maxWPM)
		case height - 1:
			label = strconv.Itoa(minWPM)
		}
		if _, err := fmt.Fprintf(w, "%*s%s%s\n", axisLabelWidth, label, axisSeparator, canvas.row(y)); err != nil {
			return err
		}
	}

	pad := strings.Repeat(" ", axisLabelWidth)
	if _, err := fmt.Fprintln(w, pad+axisCorner+strings.Repeat(axisRule, width)); err != nil {
		return err
	}
	left := "0s"
	right := formatSeconds(samples[len(samples)-1].Time) + "s"
	gap := max(width-len(left)-len(right), 1)
	_, err := fmt.Fprintln(w, pad+strings.Repeat(" ", displayWidth(axisSeparator))+left+strings.Repeat(" ", gap)+right)
	return err
}

// PlotWidthFor computes a plot width that fits within the total available width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - axisLabelWidth - displayWidth(axisSeparator)
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

// fitSeries stretches or squeezes values to exactly n points. Longer
// series are averaged per bucket; shorter ones are linearly interpolated.
func fitSeries(values []float64, n int) []float64 {
	if len(values) == 0 || n <= 0 {
		return nil
	}
	out := make([]float64, n)
	for i := range out {
		switch {
		case len(values) >= n:
			from := i * len(values) / n
			to := max((i+1)*len(values)/n, from+1)
			var sum float64
			for _, v := range values[from:to] {
				sum += v
			}
			out[i] = sum / float64(to-from)
		case len(values) == 1 || n == 1:
			out[i] = values[0]
		default:
			pos := float64(i) * float64(len(values)-1) / float64(n-1)
			j := min(int(pos), len(values)-2)
			out[i] = values[j] + (values[j+1]-values[j])*(pos-float64(j))
		}
	}
	return out
}

const blankBraille = '\u2800'

// brailleDots maps a dot's row and column inside a cell to its bit.
var brailleDots = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// brailleCanvas is a grid of braille cells addressed in dots, 2 wide and 4
// tall per cell.
type brailleCanvas struct {
	width, height int
	cells         []uint8
}

func newBrailleCanvas(width, height int) *brailleCanvas {
	return &brailleCanvas{width: width, height: height, cells: make([]uint8, width*height)}
}

func (c *brailleCanvas) dot(x, y int) {
	if x < 0 || y < 0 || x >= c.width*2 || y >= c.height*4 {
		return
	}
	c.cells[(y/4)*c.width+x/2] |= brailleDots[y%4][x%2]
}

// line sets every dot on the segment between two dots, endpoints included.
func (c *brailleCanvas) line(x0, y0, x1, y1 int) {
	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		c.dot(x0, y0)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x0 + int(math.Round(t*float64(x1-x0)))
		y := y0 + int(math.Round(t*float64(y1-y0)))
		c.dot(x, y)
	}
}

func (c *brailleCanvas) row(y int) string {
	var b strings.Builder
	for _, mask := range c.cells[y*c.width : (y+1)*c.width] {
		b.WriteRune(blankBraille + rune(mask))
	}
	return b.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
