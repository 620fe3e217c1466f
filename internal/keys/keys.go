// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the pager keybindings.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding

	// Files
	NextFile key.Binding
	PrevFile key.Binding

	// Search
	SearchForward key.Binding
	SearchReverse key.Binding
	Next          key.Binding
	Prev          key.Binding

	// General
	Help key.Binding
	Logs key.Binding
	Quit key.Binding
}

// SearchKeyMap is active while a search pattern is being typed.
type SearchKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "line up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "line down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "scroll left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "scroll right"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+b"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+f", " "),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g/home", "first line"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G/end", "last line"),
		),

		NextFile: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next file"),
		),
		PrevFile: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous file"),
		),

		SearchForward: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search forward"),
		),
		SearchReverse: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "search backward"),
		),
		Next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next match"),
		),
		Prev: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "previous match"),
		),

		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "debug log"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SearchForward, k.Next, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.NextFile, k.PrevFile},
		{k.SearchForward, k.SearchReverse, k.Next, k.Prev},
		{k.Help, k.Logs, k.Quit},
	}
}

// DefaultSearchKeyMap returns the keys handled while typing a pattern.
func DefaultSearchKeyMap() SearchKeyMap {
	return SearchKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "jump to match"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel search"),
		),
	}
}
