// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/pbardea/monkeydo/internal/model"
	"github.com/pbardea/monkeydo/internal/session"
	"github.com/pbardea/monkeydo/internal/stats"
)

const (
	poolLoadTimeout = 15 * time.Second
	saveTimeout     = 5 * time.Second
	tickInterval    = time.Second
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	skippedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Faint(true)
	correctedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E2B714"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// WordSource supplies the word pool for a slot.
type WordSource interface {
	Words(ctx context.Context, expanded bool) []string
}

// SettingsSaver persists the practice configuration.
type SettingsSaver interface {
	SaveConfig(ctx context.Context, cfg model.Config) error
}

// Options configures a Model.
type Options struct {
	Config   model.Config
	Words    WordSource
	Gen      session.TextGenerator
	Settings SettingsSaver
	Log      *zap.Logger
	// SessionOptions are applied after the model's own session options.
	SessionOptions []session.Option
}

// ConfigReloadedMsg carries practice settings re-read from the config file.
type ConfigReloadedMsg struct {
	Practice model.PartialConfig
}

type poolLoadedMsg struct {
	expanded bool
	words    []string
}

type completeMsg struct {
	result session.Result
}

type tickMsg time.Time

type settingsSavedMsg struct {
	err error
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	sess     *session.Session
	words    WordSource
	settings SettingsSaver
	log      *zap.Logger

	keys    keyMap
	help    help.Model
	palette palette

	paletteOpen bool
	loading     bool
	// pending holds a reloaded config that arrived mid-test.
	pending *model.Config

	completions chan session.Result
	lastStats   *model.TypingStats

	width  int
	height int
}

// NewModel constructs a typing TUI model.
func NewModel(opts Options) *Model {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		words:       opts.Words,
		settings:    opts.Settings,
		log:         log,
		keys:        newKeyMap(),
		help:        help.New(),
		palette:     newPalette(),
		completions: make(chan session.Result, 8),
	}
	sessOpts := []session.Option{
		session.WithLogger(log.Named("session")),
		session.WithOnComplete(m.enqueueResult),
	}
	sessOpts = append(sessOpts, opts.SessionOptions...)
	m.sess = session.New(opts.Config, nil, opts.Gen, sessOpts...)
	m.loading = opts.Words != nil && opts.Config.TextMode == model.TextWords
	return m
}

// Session exposes the underlying typing session.
func (m *Model) Session() *session.Session {
	return m.sess
}

// enqueueResult runs on the session's goroutine, which may be the Bubble
// Tea event loop itself, so it must never block.
func (m *Model) enqueueResult(res session.Result) {
	select {
	case m.completions <- res:
	default:
		m.log.Warn("dropped completion", zap.String("id", res.ID))
	}
}

func (m *Model) waitForCompletion() tea.Cmd {
	ch := m.completions
	return func() tea.Msg {
		return completeMsg{result: <-ch}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) loadPool(expanded bool) tea.Cmd {
	if m.words == nil {
		return nil
	}
	words := m.words
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), poolLoadTimeout)
		defer cancel()
		return poolLoadedMsg{expanded: expanded, words: words.Words(ctx, expanded)}
	}
}

func (m *Model) saveSettings(cfg model.Config) tea.Cmd {
	if m.settings == nil {
		return nil
	}
	saver := m.settings
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		return settingsSavedMsg{err: saver.SaveConfig(ctx, cfg)}
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadPool(m.sess.Config().ExpandedWordList),
		m.waitForCompletion(),
		tick(),
	)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case poolLoadedMsg:
		if msg.expanded != m.sess.Config().ExpandedWordList {
			return m, nil
		}
		m.loading = false
		m.sess.SetPool(msg.words)
		return m, nil
	case completeMsg:
		res := stats.Calculate(msg.result.Keystrokes, msg.result.StartTime, msg.result.EndTime)
		m.lastStats = &res
		return m, m.waitForCompletion()
	case tickMsg:
		return m, tick()
	case settingsSavedMsg:
		if msg.err != nil {
			m.log.Warn("failed to save settings", zap.Error(msg.err))
		}
		return m, nil
	case ConfigReloadedMsg:
		return m, m.handleReload(msg)
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.paletteOpen {
			return m, m.updatePalette(msg)
		}
		st := m.sess.State()
		if st.IsComplete {
			return m, m.updateResults(msg)
		}
		return m, m.updateTyping(msg, st)
	default:
		return m, nil
	}
}

func (m *Model) updateTyping(msg tea.KeyMsg, st session.State) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Restart):
		return m.restart()
	case key.Matches(msg, m.keys.Settings):
		if st.IsStarted {
			return nil
		}
		m.paletteOpen = true
		return m.palette.open()
	case key.Matches(msg, m.keys.DeleteWord):
		m.sess.BackspaceWord()
		return nil
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		m.sess.Backspace()
	case tea.KeySpace:
		m.sess.Type(' ')
	case tea.KeyRunes:
		if msg.Alt {
			return nil
		}
		for _, r := range msg.Runes {
			m.sess.Type(r)
		}
	}
	return nil
}

func (m *Model) updateResults(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyEnter, key.Matches(msg, m.keys.Restart):
		return m.restart()
	case key.Matches(msg, m.keys.DeleteWord):
		m.sess.BackspaceWord()
	case key.Matches(msg, m.keys.Reopen):
		m.sess.Backspace()
	}
	return nil
}

func (m *Model) updatePalette(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.paletteOpen = false
		return nil
	case key.Matches(msg, m.keys.Up):
		m.palette.move(-1)
		return nil
	case key.Matches(msg, m.keys.Down):
		m.palette.move(1)
		return nil
	case key.Matches(msg, m.keys.Select):
		entry, ok := m.palette.current()
		if !ok {
			return nil
		}
		m.paletteOpen = false
		return m.applyConfig(entry.apply(m.sess.Config()), true)
	}
	return m.palette.update(msg)
}

// restart starts a new test, applying any config reload that arrived
// while typing.
func (m *Model) restart() tea.Cmd {
	if m.pending != nil {
		cfg := *m.pending
		m.pending = nil
		m.sess.Reset()
		return m.applyConfig(cfg, false)
	}
	m.sess.Reset()
	return nil
}

func (m *Model) applyConfig(cfg model.Config, persist bool) tea.Cmd {
	if err := cfg.Validate(); err != nil {
		m.log.Warn("ignoring invalid config", zap.Error(err))
		return nil
	}
	prev := m.sess.Config()
	m.sess.SetConfig(cfg)
	m.log.Info("config applied",
		zap.String("length_mode", string(cfg.LengthMode)),
		zap.String("text_mode", string(cfg.TextMode)),
	)
	var cmds []tea.Cmd
	if cfg.ExpandedWordList != prev.ExpandedWordList {
		m.loading = m.words != nil
		cmds = append(cmds, m.loadPool(cfg.ExpandedWordList))
	}
	if persist {
		cmds = append(cmds, m.saveSettings(cfg))
	}
	return tea.Batch(cmds...)
}

// handleReload applies reloaded settings and refreshes the pool, which the
// sender may have invalidated.
func (m *Model) handleReload(msg ConfigReloadedMsg) tea.Cmd {
	cfg := msg.Practice.Apply(m.sess.Config())
	refresh := m.loadPool(m.sess.Config().ExpandedWordList)
	if m.sess.State().IsStarted || m.paletteOpen {
		m.pending = &cfg
		return refresh
	}
	prev := m.sess.Config()
	cmd := m.applyConfig(cfg, false)
	if m.sess.Config().ExpandedWordList != prev.ExpandedWordList {
		return cmd
	}
	return tea.Batch(cmd, refresh)
}

// View implements tea.Model.
func (m *Model) View() string {
	st := m.sess.State()
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(buildStyledRunes([]rune(st.Text), st.Keystrokes, cursorFor(st)))
	}
	switch {
	case m.paletteOpen:
		return m.renderPalette(st)
	case st.IsComplete:
		return m.layout(m.renderResults(st), m.help.View(resultsHelp{keys: m.keys, reopen: !st.TimedOut}))
	default:
		return m.layout(m.renderTyping(st), m.renderFooter(st))
	}
}

func (m *Model) contentWidth() int {
	w := int(float64(m.width) * 0.70)
	if w < 1 {
		w = 1
	}
	return w
}

func (m *Model) layout(content, footer string) string {
	content = lipgloss.NewStyle().Width(m.contentWidth()).Render(content)
	footerHeight := lipgloss.Height(footer)
	if footer == "" || m.height < footerHeight+2 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-footerHeight, lipgloss.Center, lipgloss.Center, content)
	footerLines := lipgloss.Place(m.width, footerHeight, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLines
}

func cursorFor(st session.State) int {
	if st.IsComplete {
		return -1
	}
	return st.CurrentIndex
}

func (m *Model) renderTyping(st session.State) string {
	if st.Text == "" {
		if m.loading {
			return footerStyle.Render("Loading words...")
		}
		return footerStyle.Render("No words available.")
	}
	styled := buildStyledRunes([]rune(st.Text), st.Keystrokes, cursorFor(st))
	return wrapStyledRunes(styled, m.contentWidth())
}

func (m *Model) renderFooter(st session.State) string {
	cfg := m.sess.Config()
	var segments []string
	if rem, ok := m.sess.Remaining(); ok {
		segments = append(segments, fmt.Sprintf("Time %ds", int(math.Ceil(rem.Seconds()))))
	} else {
		progress := 0
		if n := len([]rune(st.Text)); n > 0 {
			progress = int(float64(st.CurrentIndex) / float64(n) * 100)
		}
		segments = append(segments, fmt.Sprintf("Progress %d%%", progress))
	}
	segments = append(segments, describeConfig(cfg))
	if m.lastStats != nil {
		segments = append(segments, fmt.Sprintf("Last %d WPM · %.2f%%", m.lastStats.WPM, m.lastStats.Accuracy))
	}
	line := footerStyle.Render(strings.Join(segments, "  "))
	helpView := m.help.View(typingHelp{keys: m.keys, settings: !st.IsStarted})
	return line + "\n" + helpView
}

func describeConfig(cfg model.Config) string {
	var parts []string
	switch {
	case cfg.TextMode == model.TextQuotes:
		parts = append(parts, "quotes")
	case cfg.Timed():
		parts = append(parts, fmt.Sprintf("time %ds", cfg.TimeLimit))
	default:
		parts = append(parts, fmt.Sprintf("words %d", cfg.WordCount))
	}
	if cfg.TextMode == model.TextWords {
		if cfg.IncludeNumbers {
			parts = append(parts, "numbers")
		}
		if cfg.IncludePunctuation {
			parts = append(parts, "punctuation")
		}
		if cfg.IncludeCapitals {
			parts = append(parts, "capitals")
		}
		if cfg.RemoveProperNouns {
			parts = append(parts, "no proper nouns")
		}
		if cfg.ExpandedWordList {
			parts = append(parts, "expanded")
		}
	}
	return strings.Join(parts, " · ")
}
