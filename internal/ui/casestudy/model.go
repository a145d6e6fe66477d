package casestudy

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

// SearchRequestMsg asks the parent to run the case-study search.
type SearchRequestMsg struct{}

// ResultMsg carries the case-study search result back to the tab.
type ResultMsg struct {
	Studies []model.CaseStudy
	Err     error
}

// Model is the Case Studies tab. Any number of results can be selected;
// selection is keyed by title.
type Model struct {
	studies  []model.CaseStudy
	selected model.CaseStudySelection
	cursor   int
	loading  bool
	searched bool
	err      error
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates the tab with nothing selected.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		selected: model.NewCaseStudySelection(),
		keys:     k,
		width:    width,
		height:   height,
	}
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
		m.SetStudies(msg.Studies)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Search):
			if m.loading {
				return m, nil
			}
			return m, func() tea.Msg { return SearchRequestMsg{} }
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.studies)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Toggle):
			if m.cursor < len(m.studies) {
				m.selected.Toggle(m.studies[m.cursor])
			}
		case key.Matches(msg, m.keys.Clear):
			m.selected.Clear()
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

// SetStudies replaces the results. Selections are kept, since they are
// keyed by title and remain meaningful across searches.
func (m *Model) SetStudies(studies []model.CaseStudy) {
	m.studies = studies
	m.cursor = 0
}

// Selected returns the chosen case studies in selection order.
func (m Model) Selected() []model.CaseStudy {
	return m.selected.List()
}

// View renders the tab.
func (m Model) View() string {
	sections := []string{theme.TitleStyle.Render("Case Studies")}

	switch {
	case m.loading:
		sections = append(sections, theme.SpinnerStyle.Render("Searching the case-study library..."))
	case m.err != nil:
		sections = append(sections, theme.ErrorStyle.Render(m.err.Error()))
	case !m.searched:
		sections = append(sections, theme.HelpStyle.Render("Press ctrl+f to search for case studies relevant to your goal."))
	case len(m.studies) == 0:
		sections = append(sections, theme.HelpStyle.Render("No relevant case studies found."))
	}

	width := m.width - 16
	if width < 20 {
		width = 20
	}
	wrap := lipgloss.NewStyle().Width(width)

	for i, cs := range m.studies {
		mark := "[ ]"
		if m.selected.Contains(cs) {
			mark = theme.CheckedStyle.Render("[x]")
		}
		text := fmt.Sprintf("%s %s\n    %s", mark, cs.Title,
			strings.ReplaceAll(wrap.Render(cs.Summary), "\n", "\n    "))

		if i == m.cursor {
			sections = append(sections, theme.SelectedItemStyle.Render(text))
		} else {
			sections = append(sections, theme.ListItemStyle.Render(text))
		}
	}

	if n := m.selected.Len(); n > 0 {
		sections = append(sections, "", theme.NoticeStyle.Render(fmt.Sprintf("%d selected", n)))
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SetSize updates the tab dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
