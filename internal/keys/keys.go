package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application. Plain
// letters are left to the text fields, so global actions use modifiers.
type KeyMap struct {
	// Tabs
	NextTab key.Binding
	PrevTab key.Binding

	// Field focus within a tab
	NextField key.Binding
	PrevField key.Binding

	// Navigation in lists
	Down key.Binding
	Up   key.Binding

	// Selection
	Toggle key.Binding
	Submit key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Overlays
	Command key.Binding
	Help    key.Binding
	Profile key.Binding

	// Actions
	Search   key.Binding
	Generate key.Binding
	Refine   key.Binding
	Copy     key.Binding
	Import   key.Binding
	Fetch    key.Binding
	Clear    key.Binding
	ToneNext key.Binding
	TonePrev key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		NextTab: key.NewBinding(
			key.WithKeys("ctrl+n", "ctrl+right"),
			key.WithHelp("ctrl+n", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("ctrl+p", "ctrl+left"),
			key.WithHelp("ctrl+p", "previous tab"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "select"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Command: key.NewBinding(
			key.WithKeys("ctrl+k"),
			key.WithHelp("ctrl+k", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
		Profile: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "edit profile"),
		),
		Search: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "search"),
		),
		Generate: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "generate email"),
		),
		Refine: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "refine draft"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy to clipboard"),
		),
		Import: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "load from file"),
		),
		Fetch: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "fetch from mailbox"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "clear"),
		),
		ToneNext: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next tone"),
		),
		TonePrev: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "previous tone"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.NextTab, k.PrevTab, k.Generate, k.Help, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextTab, k.PrevTab, k.NextField, k.PrevField, k.Quit},
		{k.Up, k.Down, k.Toggle, k.Back},
		{k.Search, k.Generate, k.Refine, k.Copy, k.ToneNext, k.TonePrev},
		{k.Import, k.Fetch, k.Clear, k.Submit},
		{k.Command, k.Help, k.Profile},
	}
}
