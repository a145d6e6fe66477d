package history

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/nhle/prospector/internal/keys"
	"github.com/nhle/prospector/internal/model"
	"github.com/nhle/prospector/internal/theme"
)

// CopyRequestMsg asks the parent to copy a past draft to the clipboard.
type CopyRequestMsg struct {
	Item model.HistoryItem
}

// Item wraps a HistoryItem for the list component.
type Item struct {
	model.HistoryItem
}

// FilterValue implements list.Item.
func (i Item) FilterValue() string { return i.Email }

// Title returns the first non-empty line of the draft.
func (i Item) Title() string {
	for _, line := range strings.Split(i.Email, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return "(empty draft)"
}

// ItemDelegate draws one history entry per line.
type ItemDelegate struct {
	now func() time.Time
}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages.
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render draws a single history line.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	when := humanize.RelTime(it.Timestamp, d.now(), "ago", "from now")
	line := fmt.Sprintf("%-12s %s  %s",
		theme.ToneStyle.Render(it.Tone),
		theme.HelpStyle.Render(when),
		it.Title(),
	)
	if mw := m.Width() - 2; mw > 0 {
		line = ansi.Truncate(line, mw, "…")
	}

	if index == m.Index() {
		fmt.Fprint(w, theme.SelectedItemStyle.Render(line))
		return
	}
	fmt.Fprint(w, theme.ListItemStyle.Render(line))
}

// Model is the History tab: a newest-first list with a detail pane.
type Model struct {
	list     list.Model
	viewport viewport.Model
	detail   bool
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates an empty history tab.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{now: time.Now}, width, height-2)
	l.Title = "History"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.TitleStyle

	m := Model{
		list:     l,
		viewport: viewport.New(width-8, height-6),
		keys:     k,
	}
	m.SetSize(width, height)
	return m
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetItems replaces the entries. items must already be newest first.
func (m *Model) SetItems(items []model.HistoryItem) {
	li := make([]list.Item, len(items))
	for i, it := range items {
		li[i] = Item{HistoryItem: it}
	}
	m.list.SetItems(li)
	m.list.Select(0)
	m.detail = false
}

// Selected returns the highlighted entry.
func (m Model) Selected() (model.HistoryItem, bool) {
	it, ok := m.list.SelectedItem().(Item)
	if !ok {
		return model.HistoryItem{}, false
	}
	return it.HistoryItem, true
}

// Viewing reports whether the detail pane is open.
func (m Model) Viewing() bool {
	return m.detail
}

// Update handles messages for the tab.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Copy):
			it, ok := m.Selected()
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg { return CopyRequestMsg{Item: it} }

		case m.detail && key.Matches(msg, m.keys.Back):
			m.detail = false
			return m, nil

		case !m.detail && msg.String() == "enter":
			it, ok := m.Selected()
			if !ok {
				return m, nil
			}
			m.detail = true
			m.viewport.SetContent(renderDetail(it, m.viewport.Width))
			m.viewport.GotoTop()
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.detail {
		m.viewport, cmd = m.viewport.Update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func renderDetail(it model.HistoryItem, width int) string {
	header := fmt.Sprintf("%s · %s",
		theme.ToneStyle.Render(it.Tone),
		it.Timestamp.Local().Format("Jan 2 15:04"))

	lines := []string{header, "", lipgloss.NewStyle().Width(width).Render(it.Email)}
	if len(it.Sources) > 0 {
		lines = append(lines, "", theme.LabelStyle.Render("Sources"))
		for i, s := range it.Sources {
			lines = append(lines, fmt.Sprintf("%d. %s  %s", i+1, s.Title, theme.LinkStyle.Render(s.URI)))
		}
	}
	return strings.Join(lines, "\n")
}

// View renders the tab.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No emails generated yet.\n\nDrafts from this session appear here, newest first.")
	}

	if m.detail {
		hint := theme.HelpStyle.Render("esc back · ctrl+y copy")
		return theme.PanelStyle.
			Width(m.width - 4).
			Render(lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), "", hint))
	}

	return m.list.View()
}

// SetSize updates the tab dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)

	vw, vh := width-8, height-6
	if vw < 20 {
		vw = 20
	}
	if vh < 4 {
		vh = 4
	}
	m.viewport.Width = vw
	m.viewport.Height = vh
}
