package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pbardea/monkeydo/internal/model"
	"github.com/pbardea/monkeydo/internal/session"
)

var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	entryStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

var (
	wordCountOptions = []int{10, 25, 50, 100}
	timeLimitOptions = []int{15, 30, 60, 120}
)

type paletteEntry struct {
	label  string
	apply  func(model.Config) model.Config
	active func(model.Config) bool
}

func paletteEntries() []paletteEntry {
	var out []paletteEntry
	for _, n := range wordCountOptions {
		out = append(out, paletteEntry{
			label: fmt.Sprintf("words %d", n),
			apply: func(c model.Config) model.Config {
				c.LengthMode = model.LengthWords
				c.WordCount = n
				return c
			},
			active: func(c model.Config) bool {
				return c.LengthMode == model.LengthWords && c.WordCount == n
			},
		})
	}
	for _, n := range timeLimitOptions {
		out = append(out, paletteEntry{
			label: fmt.Sprintf("time %ds", n),
			apply: func(c model.Config) model.Config {
				c.LengthMode = model.LengthTime
				c.TimeLimit = n
				return c
			},
			active: func(c model.Config) bool {
				return c.LengthMode == model.LengthTime && c.TimeLimit == n
			},
		})
	}
	for _, mode := range []model.TextMode{model.TextWords, model.TextQuotes} {
		out = append(out, paletteEntry{
			label: fmt.Sprintf("text %s", mode),
			apply: func(c model.Config) model.Config {
				c.TextMode = mode
				return c
			},
			active: func(c model.Config) bool { return c.TextMode == mode },
		})
	}
	out = append(out,
		toggleEntry("numbers", func(c *model.Config) *bool { return &c.IncludeNumbers }),
		toggleEntry("punctuation", func(c *model.Config) *bool { return &c.IncludePunctuation }),
		toggleEntry("capitals", func(c *model.Config) *bool { return &c.IncludeCapitals }),
		toggleEntry("remove proper nouns", func(c *model.Config) *bool { return &c.RemoveProperNouns }),
		toggleEntry("expanded word list", func(c *model.Config) *bool { return &c.ExpandedWordList }),
	)
	return out
}

func toggleEntry(label string, field func(*model.Config) *bool) paletteEntry {
	return paletteEntry{
		label: label,
		apply: func(c model.Config) model.Config {
			f := field(&c)
			*f = !*f
			return c
		},
		active: func(c model.Config) bool { return *field(&c) },
	}
}

type palette struct {
	input    textinput.Model
	entries  []paletteEntry
	filtered []int
	selected int
}

func newPalette() palette {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "search settings"
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	p := palette{input: input, entries: paletteEntries()}
	p.refilter()
	return p
}

func (p *palette) open() tea.Cmd {
	p.input.SetValue("")
	p.refilter()
	return p.input.Focus()
}

func (p *palette) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	p.refilter()
	return cmd
}

// refilter keeps entries whose label contains every search term.
func (p *palette) refilter() {
	terms := strings.Fields(strings.ToLower(p.input.Value()))
	p.filtered = p.filtered[:0]
	for i, e := range p.entries {
		match := true
		for _, term := range terms {
			if !strings.Contains(e.label, term) {
				match = false
				break
			}
		}
		if match {
			p.filtered = append(p.filtered, i)
		}
	}
	if p.selected >= len(p.filtered) {
		p.selected = len(p.filtered) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

func (p *palette) move(delta int) {
	if len(p.filtered) == 0 {
		return
	}
	p.selected = (p.selected + delta + len(p.filtered)) % len(p.filtered)
}

func (p palette) current() (paletteEntry, bool) {
	if len(p.filtered) == 0 {
		return paletteEntry{}, false
	}
	return p.entries[p.filtered[p.selected]], true
}

func (p palette) view(cfg model.Config) string {
	lines := []string{cardValueStyle.Render("Settings"), p.input.View(), ""}
	if len(p.filtered) == 0 {
		lines = append(lines, footerStyle.Render("No matching settings."))
	}
	for i, idx := range p.filtered {
		e := p.entries[idx]
		mark := "  "
		if e.active(cfg) {
			mark = "✓ "
		}
		if i == p.selected {
			lines = append(lines, selectedStyle.Render("› "+mark+e.label))
			continue
		}
		lines = append(lines, entryStyle.Render("  "+mark+e.label))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPalette(st session.State) string {
	body := []string{m.palette.view(m.sess.Config()), ""}
	if st.Lines[0] != "" {
		body = append(body, mutedStyle.Render(st.Lines[0]))
		if st.Lines[1] != "" {
			body = append(body, mutedStyle.Render(st.Lines[1]))
		}
		body = append(body, "")
	}
	body = append(body, m.help.View(paletteHelp{keys: m.keys}))
	box := modalStyle.Width(modalWidth(m.width)).Render(strings.Join(body, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
