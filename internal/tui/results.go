package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pbardea/monkeydo/internal/session"
	"github.com/pbardea/monkeydo/internal/stats"
)

const (
	chartHeight  = 6
	weakCharsTop = 5
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	cardStyle  = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	mutedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

func (m *Model) renderResults(st session.State) string {
	records := st.Keystrokes.Records()
	summary := stats.Calculate(records, st.StartTime, st.EndTime)
	samples := stats.WPMOverTime(records, st.StartTime, stats.DefaultInterval)
	width := m.contentWidth()

	title := "Test complete"
	if st.TimedOut {
		title = "Time's up"
	}
	cards := []string{
		metricCard("WPM", fmt.Sprintf("%d", summary.WPM)),
		metricCard("Raw WPM", fmt.Sprintf("%d", summary.RawWPM)),
		metricCard("Accuracy", fmt.Sprintf("%.2f%%", summary.Accuracy)),
		metricCard("Chars", fmt.Sprintf("%d/%d/%d", summary.CorrectChars, summary.IncorrectChars, summary.TotalChars)),
		metricCard("Time", fmt.Sprintf("%.2fs", summary.TimeElapsed)),
	}
	var cardBlock string
	if width < 80 {
		cardBlock = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2]),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4]),
		)
	} else {
		cardBlock = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}

	var chart bytes.Buffer
	if err := stats.RenderChart(&chart, samples, stats.PlotWidthFor(width), chartHeight); err != nil {
		chart.Reset()
		fmt.Fprintf(&chart, "Failed to render chart: %v", err)
	}

	var weak bytes.Buffer
	missed := stats.WeakChars(stats.Breakdown(st.Text, st.Keystrokes.At), weakCharsTop)
	if err := stats.RenderCharTable(&weak, missed); err != nil {
		weak.Reset()
		fmt.Fprintf(&weak, "Failed to render characters: %v", err)
	}

	sections := []string{
		titleStyle.Render(title),
		cardBlock,
		mutedStyle.Render("WPM over time"),
		strings.TrimRight(chart.String(), "\n"),
		mutedStyle.Render("Most missed"),
		strings.TrimRight(weak.String(), "\n"),
	}
	return strings.Join(sections, "\n\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}
