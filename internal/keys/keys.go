// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings of the demo editor. Keys not bound here
// are inserted into the buffer.
type KeyMap struct {
	// Cursor movement
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding

	// Editing
	Newline   key.Binding
	Backspace key.Binding

	// Completion menu
	Show   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Accept key.Binding
	Close  key.Binding

	// Menu layout
	ToggleBorder key.Binding
	SaveLayout   key.Binding

	// General
	Help key.Binding
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Cursor movement
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "line up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "line down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "char left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "char right"),
		),

		// Editing
		Newline: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "new line"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("bksp", "delete char"),
		),

		// Completion menu
		Show: key.NewBinding(
			key.WithKeys("ctrl+@"),
			key.WithHelp("ctrl+space", "show completions"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "ctrl+n"),
			key.WithHelp("tab/ctrl+n", "next completion"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "ctrl+p"),
			key.WithHelp("s-tab/ctrl+p", "previous completion"),
		),
		Accept: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "accept completion"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "ctrl+e"),
			key.WithHelp("esc", "close menu"),
		),

		// Menu layout
		ToggleBorder: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "toggle border"),
		),
		SaveLayout: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save menu layout"),
		),

		// General
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Show, k.Next, k.Accept, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Newline, k.Backspace}, // Editing
		{k.Show, k.Next, k.Prev, k.Accept, k.Close},             // Completion
		{k.ToggleBorder, k.SaveLayout},                          // Layout
		{k.Help, k.Quit},                                        // General
	}
}

// MenuBindings returns the bindings that only apply while the menu is
// visible. The editor handles them before falling back to text input.
func (k KeyMap) MenuBindings() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Accept, k.Close}
}
