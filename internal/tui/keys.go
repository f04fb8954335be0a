package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the explorer key bindings
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Enter    key.Binding
	Back     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	ScrollUp key.Binding
	ScrollDn key.Binding

	// Actions
	Quit            key.Binding
	Help            key.Binding
	Escape          key.Binding
	Filter          key.Binding
	Favorite        key.Binding
	Refresh         key.Binding
	ToggleInspector key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter/l", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("h", "left", "backspace"),
			key.WithHelp("h/←", "back"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("n", "pgdown"),
			key.WithHelp("n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "pgup"),
			key.WithHelp("p", "prev page"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "scroll info up"),
		),
		ScrollDn: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "scroll info down"),
		),

		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel/clear"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "toggle favorite"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload page"),
		),
		ToggleInspector: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle inspector"),
		),
	}
}

// ShortHelp returns the bindings shown in the footer
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns the bindings shown on the help screen
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back, k.NextPage, k.PrevPage},
		{k.Filter, k.Escape, k.Favorite, k.Refresh},
		{k.ToggleInspector, k.ScrollUp, k.ScrollDn, k.Help, k.Quit},
	}
}

// Keys is the global key bindings instance
var Keys = DefaultKeyMap()
