package compose

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/prospector/internal/keys"
	"github.com/nhle/prospector/internal/theme"
)

const (
	fieldGoal = iota
	fieldRecipientName
	fieldRecipientCompany
	fieldCount
)

// Model is the Client & Goal tab: what the email should achieve and who
// receives it.
type Model struct {
	goal    textarea.Model
	name    textinput.Model
	company textinput.Model
	focus   int
	keys    *keys.KeyMap
	width   int
	height  int
}

// New creates the tab with the goal field focused.
func New(k *keys.KeyMap, width, height int) Model {
	ta := textarea.New()
	ta.Placeholder = "Describe the client and what you want this email to achieve..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.Focus()

	name := textinput.New()
	name.Placeholder = "e.g. Sam Lee"
	name.Prompt = ""
	name.CharLimit = 120

	company := textinput.New()
	company.Placeholder = "e.g. Acme Retail"
	company.Prompt = ""
	company.CharLimit = 120

	m := Model{goal: ta, name: name, company: company, keys: k}
	m.SetSize(width, height)
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages for the tab.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.NextField):
			return m, m.setFocus((m.focus + 1) % fieldCount)
		case key.Matches(msg, m.keys.PrevField):
			return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldGoal:
		m.goal, cmd = m.goal.Update(msg)
	case fieldRecipientName:
		m.name, cmd = m.name.Update(msg)
	case fieldRecipientCompany:
		m.company, cmd = m.company.Update(msg)
	}
	return m, cmd
}

func (m *Model) setFocus(field int) tea.Cmd {
	m.focus = field
	m.goal.Blur()
	m.name.Blur()
	m.company.Blur()

	switch field {
	case fieldRecipientName:
		return m.name.Focus()
	case fieldRecipientCompany:
		return m.company.Focus()
	default:
		return m.goal.Focus()
	}
}

// Focus gives keyboard focus to the current field.
func (m *Model) Focus() tea.Cmd {
	return m.setFocus(m.focus)
}

// View renders the tab.
func (m Model) View() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.TitleStyle.Render("Client & Goal"),
		theme.LabelStyle.Render("Goal"),
		m.goal.View(),
		"",
		theme.LabelStyle.Render("Recipient name (optional)"),
		m.name.View(),
		"",
		theme.LabelStyle.Render("Recipient company (optional)"),
		m.company.View(),
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the tab dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	inner := width - 10
	if inner < 20 {
		inner = 20
	}
	m.goal.SetWidth(inner)
	goalHeight := height - 14
	if goalHeight < 3 {
		goalHeight = 3
	}
	m.goal.SetHeight(goalHeight)
	m.name.Width = inner
	m.company.Width = inner
}

// Goal returns the trimmed goal text.
func (m Model) Goal() string { return strings.TrimSpace(m.goal.Value()) }

// RecipientName returns the trimmed recipient name.
func (m Model) RecipientName() string { return strings.TrimSpace(m.name.Value()) }

// RecipientCompany returns the trimmed recipient company.
func (m Model) RecipientCompany() string { return strings.TrimSpace(m.company.Value()) }

// SetGoal replaces the goal text.
func (m *Model) SetGoal(s string) { m.goal.SetValue(s) }

// SetRecipient replaces the recipient fields.
func (m *Model) SetRecipient(name, company string) {
	m.name.SetValue(name)
	m.company.SetValue(company)
}
