package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/prospector/internal/keys"
	"github.com/nhle/prospector/internal/theme"
	"github.com/nhle/prospector/internal/ui/command"
)

// Section is a titled group of bindings shown in the overlay.
type Section struct {
	Title    string
	Where    string
	Bindings []key.Binding
}

// Sections groups the key map by where each binding applies.
func Sections(k *keys.KeyMap) []Section {
	return []Section{
		{Title: "Navigation", Where: "everywhere", Bindings: []key.Binding{k.NextTab, k.PrevTab, k.NextField, k.PrevField, k.Quit}},
		{Title: "Overlays", Where: "everywhere", Bindings: []key.Binding{k.Help, k.Command, k.Profile, k.Back}},
		{Title: "Research", Where: "Approach, Case Studies", Bindings: []key.Binding{k.Search, k.Up, k.Down, k.Toggle, k.Clear}},
		{Title: "Context", Where: "Emails, Documents", Bindings: []key.Binding{k.Import, k.Fetch, k.Clear}},
		{Title: "Drafting", Where: "Generated Email", Bindings: []key.Binding{k.Generate, k.TonePrev, k.ToneNext, k.Refine, k.Submit, k.Copy}},
		{Title: "History", Where: "History", Bindings: []key.Binding{k.Up, k.Down, k.Copy, k.Back}},
	}
}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	lines := []string{theme.TitleStyle.Render("Keyboard Shortcuts")}

	for _, s := range Sections(m.keys) {
		lines = append(lines,
			"",
			theme.LabelStyle.Render(s.Title)+" "+theme.HelpStyle.Render("("+s.Where+")"),
			m.help.ShortHelpView(s.Bindings),
		)
	}

	names := make([]string, 0, len(command.Names()))
	for _, n := range command.Names() {
		names = append(names, string(n))
	}
	lines = append(lines,
		"",
		theme.LabelStyle.Render("Commands")+" "+theme.HelpStyle.Render("("+m.keys.Command.Help().Key+")"),
		theme.HelpStyle.Render(strings.Join(names, "  ")),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
