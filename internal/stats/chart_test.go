package stats

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/pbardea/monkeydo/internal/model"
)

func TestRenderChartLayout(t *testing.T) {
	var buf bytes.Buffer
	samples := []model.WpmSample{{Time: 1, WPM: 30}, {Time: 2, WPM: 55}, {Time: 3, WPM: 42}}
	if err := RenderChart(&buf, samples, 20, 4); err != nil {
		t.Fatalf("RenderChart failed: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 4 rows plus 2 axis lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "  55") {
		t.Fatalf("expected max label on top row, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[3], "  30") {
		t.Fatalf("expected min label on bottom row, got %q", lines[3])
	}
	for i := 0; i < 4; i++ {
		if got := utf8.RuneCountInString(lines[i]); got != axisLabelWidth+3+20 {
			t.Fatalf("row %d has width %d", i, got)
		}
	}
	if !strings.HasSuffix(lines[5], "3s") || !strings.Contains(lines[5], "0s") {
		t.Fatalf("unexpected x axis labels %q", lines[5])
	}
}

func TestRenderChartDrawsDots(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderChart(&buf, []model.WpmSample{{Time: 1, WPM: 10}}, 10, 2); err != nil {
		t.Fatalf("RenderChart failed: %v", err)
	}
	blank := string(blankBraille)
	lines := strings.Split(buf.String(), "\n")
	plotted := false
	for _, line := range lines[:2] {
		if strings.Trim(line[strings.Index(line, axisSeparator)+len(axisSeparator):], blank) != "" {
			plotted = true
		}
	}
	if !plotted {
		t.Fatalf("expected a flat line to be drawn:\n%s", buf.String())
	}
}

func TestRenderChartEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderChart(&buf, nil, 20, 4); err != nil {
		t.Fatalf("RenderChart failed: %v", err)
	}
	if buf.String() != "Not enough data for a chart.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	if got := PlotWidthFor(80); got != 80-axisLabelWidth-3 {
		t.Fatalf("expected width %d, got %d", 80-axisLabelWidth-3, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(12); got != minPlotWidth {
		t.Fatalf("expected min width %d, got %d", minPlotWidth, got)
	}
}

func TestCanvasLineSetsEndpoints(t *testing.T) {
	c := newBrailleCanvas(3, 1)
	c.line(0, 3, 4, 0)
	if c.cells[0]&brailleDots[3][0] == 0 {
		t.Fatalf("expected start dot set, cells %v", c.cells)
	}
	if c.cells[2]&brailleDots[0][0] == 0 {
		t.Fatalf("expected end dot set, cells %v", c.cells)
	}
	if c.row(0) == strings.Repeat(string(blankBraille), 3) {
		t.Fatalf("expected a drawn row")
	}
}

func TestFitSeries(t *testing.T) {
	up := fitSeries([]float64{0, 10}, 3)
	if up[0] != 0 || up[1] != 5 || up[2] != 10 {
		t.Fatalf("unexpected interpolation %v", up)
	}
	down := fitSeries([]float64{1, 3, 5, 7}, 2)
	if down[0] != 2 || down[1] != 6 {
		t.Fatalf("unexpected averaging %v", down)
	}
	if fitSeries(nil, 4) != nil {
		t.Fatalf("expected nil for empty input")
	}
}
