package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/prospector/internal/theme"
)

// Name identifies a palette command.
type Name string

const (
	Generate    Name = "generate"
	Approaches  Name = "approaches"
	CaseStudies Name = "case-studies"
	Profile     Name = "profile"
	Logout      Name = "logout"
	Clear       Name = "clear"
	History     Name = "history"
	Help        Name = "help"
	Quit        Name = "quit"
)

// aliases maps accepted spellings to commands.
var aliases = map[string]Name{
	"generate":     Generate,
	"gen":          Generate,
	"approaches":   Approaches,
	"approach":     Approaches,
	"case-studies": CaseStudies,
	"cases":        CaseStudies,
	"profile":      Profile,
	"logout":       Logout,
	"clear":        Clear,
	"new":          Clear,
	"history":      History,
	"help":         Help,
	"quit":         Quit,
	"q":            Quit,
}

// Names lists the canonical commands in palette order.
func Names() []Name {
	return []Name{Generate, Approaches, CaseStudies, Profile, History, Clear, Logout, Help, Quit}
}

// CommandMsg is emitted when the user executes a known command.
type CommandMsg Name

// UnknownMsg is emitted for input that matches no command.
type UnknownMsg string

// Parse resolves input to a command.
func Parse(input string) (Name, bool) {
	n, ok := aliases[strings.ToLower(strings.TrimSpace(input))]
	return n, ok
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// New creates a new command palette model.
func New(width, height int) Model {
	suggestions := make([]string, 0, len(Names()))
	for _, n := range Names() {
		suggestions = append(suggestions, string(n))
	}

	ti := textinput.New()
	ti.Placeholder = "generate, approaches, case-studies, profile, clear, quit..."
	ti.Prompt = ": "
	ti.ShowSuggestions = true
	ti.SetSuggestions(suggestions)
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			raw := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if raw == "" {
				return m, nil
			}
			if n, ok := Parse(raw); ok {
				return m, func() tea.Msg { return CommandMsg(n) }
			}
			return m, func() tea.Msg { return UnknownMsg(raw) }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Command Palette")
	input := m.input.View()
	hint := theme.HelpStyle.Render("tab completes · enter runs · esc closes")

	content := lipgloss.JoinVertical(lipgloss.Left, title, input, "", hint)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	return m.input.Focus()
}
