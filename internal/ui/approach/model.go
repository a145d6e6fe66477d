package approach

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/prospector/internal/keys"
	"github.com/nhle/prospector/internal/model"
	"github.com/nhle/prospector/internal/theme"
)

// SearchRequestMsg asks the parent to run the approach search.
type SearchRequestMsg struct{}

// ResultMsg carries the approach search result back to the tab.
type ResultMsg struct {
	Result *model.ApproachSearchResult
	Err    error
}

// Model is the Approach tab. At most one marketing angle and one
// company-news angle can be selected at a time.
type Model struct {
	result    model.ApproachSearchResult
	cursor    int
	marketing int
	company   int
	loading   bool
	searched  bool
	err       error
	keys      *keys.KeyMap
	width     int
	height    int
}

// New creates the tab with nothing selected.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{marketing: -1, company: -1, keys: k, width: width, height: height}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the tab.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ResultMsg:
		m.loading = false
		m.searched = true
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.SetResult(*msg.Result)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Search):
			if m.loading {
				return m, nil
			}
			return m, func() tea.Msg { return SearchRequestMsg{} }
		case key.Matches(msg, m.keys.Down):
			if m.cursor < m.total()-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Toggle):
			m.Toggle(m.cursor)
		}
	}

	return m, nil
}

// SetLoading marks a search as in flight.
func (m *Model) SetLoading(v bool) {
	m.loading = v
	if v {
		m.err = nil
	}
}

// Loading reports whether a search is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// SetResult replaces the candidates and clears the selection.
func (m *Model) SetResult(r model.ApproachSearchResult) {
	m.result = r
	m.cursor = 0
	m.marketing = -1
	m.company = -1
}

func (m Model) total() int {
	return len(m.result.Marketing) + len(m.result.Company)
}

// Toggle selects or deselects the item at index i of the combined list
// (marketing items first). Selecting an item replaces any other
// selection in the same category.
func (m *Model) Toggle(i int) {
	if i < 0 || i >= m.total() {
		return
	}
	if i < len(m.result.Marketing) {
		if m.marketing == i {
			m.marketing = -1
		} else {
			m.marketing = i
		}
		return
	}

	j := i - len(m.result.Marketing)
	if m.company == j {
		m.company = -1
	} else {
		m.company = j
	}
}

// Selected returns the chosen marketing angle and company news, either
// of which may be empty.
func (m Model) Selected() (marketing, company string) {
	if m.marketing >= 0 && m.marketing < len(m.result.Marketing) {
		marketing = m.result.Marketing[m.marketing]
	}
	if m.company >= 0 && m.company < len(m.result.Company) {
		company = m.result.Company[m.company]
	}
	return marketing, company
}

// View renders the tab.
func (m Model) View() string {
	sections := []string{theme.TitleStyle.Render("Approach")}

	switch {
	case m.loading:
		sections = append(sections, theme.SpinnerStyle.Render("Searching the web for angles..."))
	case m.err != nil:
		sections = append(sections, theme.ErrorStyle.Render(m.err.Error()))
	case !m.searched:
		sections = append(sections, theme.HelpStyle.Render("Press ctrl+f to find marketing trends and company news for your goal."))
	case m.result.IsEmpty():
		sections = append(sections, theme.HelpStyle.Render("No approaches found. Try refining your goal."))
	}

	if m.total() > 0 {
		sections = append(sections, "", theme.LabelStyle.Render("Marketing news"))
		sections = append(sections, m.renderGroup(m.result.Marketing, 0, m.marketing)...)

		sections = append(sections, "", theme.LabelStyle.Render("Company news"))
		if len(m.result.Company) == 0 {
			sections = append(sections, theme.HelpStyle.Render("  none"))
		}
		sections = append(sections, m.renderGroup(m.result.Company, len(m.result.Marketing), m.company)...)
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderGroup(items []string, offset, selected int) []string {
	lines := make([]string, 0, len(items))
	width := m.width - 16
	if width < 20 {
		width = 20
	}

	for i, item := range items {
		mark := "[ ]"
		if i == selected {
			mark = theme.CheckedStyle.Render("[x]")
		}
		text := fmt.Sprintf("%s %s", mark, wrap(item, width))

		if offset+i == m.cursor {
			lines = append(lines, theme.SelectedItemStyle.Render(text))
		} else {
			lines = append(lines, theme.ListItemStyle.Render(text))
		}
	}
	return lines
}

func wrap(s string, width int) string {
	return strings.TrimSpace(lipgloss.NewStyle().Width(width).Render(s))
}

// SetSize updates the tab dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
