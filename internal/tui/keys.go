package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Restart    key.Binding
	Settings   key.Binding
	DeleteWord key.Binding
	Reopen     key.Binding
	Quit       key.Binding

	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Close  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Restart: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "restart"),
		),
		Settings: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "settings"),
		),
		DeleteWord: key.NewBinding(
			key.WithKeys("ctrl+w", "alt+backspace"),
			key.WithHelp("ctrl+w", "delete word"),
		),
		Reopen: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("backspace", "back to test"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "tab"),
			key.WithHelp("esc", "close"),
		),
	}
}

// typingHelp lists the bindings shown under the text.
type typingHelp struct {
	keys     keyMap
	settings bool
}

func (h typingHelp) ShortHelp() []key.Binding {
	out := []key.Binding{h.keys.Restart}
	if h.settings {
		out = append(out, h.keys.Settings)
	}
	return append(out, h.keys.DeleteWord, h.keys.Quit)
}

func (h typingHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

type resultsHelp struct {
	keys   keyMap
	reopen bool
}

func (h resultsHelp) ShortHelp() []key.Binding {
	restart := key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "next test"))
	out := []key.Binding{restart}
	if h.reopen {
		out = append(out, h.keys.Reopen)
	}
	return append(out, h.keys.Quit)
}

func (h resultsHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}

type paletteHelp struct {
	keys keyMap
}

func (h paletteHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.keys.Up, h.keys.Down, h.keys.Select, h.keys.Close}
}

func (h paletteHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{h.ShortHelp()}
}
