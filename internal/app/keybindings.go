package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application-wide key bindings. Pane keys live with
// their panes.
type KeyMap struct {
	// Global keys
	Quit  key.Binding
	Help  key.Binding
	Theme key.Binding

	// Layout
	ShrinkCollections key.Binding
	WidenCollections  key.Binding

	// Navigation
	FocusNext key.Binding
	FocusPrev key.Binding

	// Actions
	Command key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "ctrl+c"),
			key.WithHelp("^Q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+h"),
			key.WithHelp("^H", "help"),
		),
		Theme: key.NewBinding(
			key.WithKeys("alt+t"),
			key.WithHelp("Alt+T", "theme"),
		),

		ShrinkCollections: key.NewBinding(
			key.WithKeys("alt+["),
			key.WithHelp("Alt+[", "narrow tree"),
		),
		WidenCollections: key.NewBinding(
			key.WithKeys("alt+]"),
			key.WithHelp("Alt+]", "widen tree"),
		),

		FocusNext: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next"),
		),
		FocusPrev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "prev"),
		),

		Command: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("^P", "command"),
		),
	}
}

// ShortHelp returns the bindings shown in the instructions footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Command, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.FocusNext, k.FocusPrev, k.Command},
		{k.ShrinkCollections, k.WidenCollections, k.Theme},
		{k.Help, k.Quit},
	}
}
