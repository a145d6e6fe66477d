package output

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/prospector/internal/keys"
	"github.com/nhle/prospector/internal/model"
	"github.com/nhle/prospector/internal/theme"
)

// GenerateRequestMsg asks the parent to draft an email with Tone.
type GenerateRequestMsg struct {
	Tone string
}

// RefineRequestMsg asks the parent to rewrite Draft per Instructions.
type RefineRequestMsg struct {
	Tone         string
	Draft        string
	Instructions string
}

// ResultMsg carries a generated draft back to the tab.
type ResultMsg struct {
	Result *model.GenerationResult
	Err    error
}

// ToneChangedMsg reports a new tone selection so it can be remembered.
type ToneChangedMsg struct {
	Tone string
}

// CopiedMsg reports the outcome of a clipboard copy.
type CopiedMsg struct {
	Err error
}

// CopyCmd writes text to the system clipboard.
func CopyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return CopiedMsg{Err: clipboard.WriteAll(text)}
	}
}

// Model is the Generated Email tab.
type Model struct {
	tones    []model.ToneOption
	tone     int
	result   *model.GenerationResult
	viewport viewport.Model
	refine   textarea.Model
	refining bool
	loading  bool
	notice   string
	err      error
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates the tab with the first tone selected.
func New(tones []model.ToneOption, k *keys.KeyMap, width, height int) Model {
	if len(tones) == 0 {
		tones = model.DefaultTones()
	}

	ta := textarea.New()
	ta.Placeholder = "How should the draft change? e.g. make it shorter and mention the Berlin launch"
	ta.ShowLineNumbers = false
	ta.SetHeight(3)

	m := Model{
		tones:    tones,
		viewport: viewport.New(width-8, 10),
		refine:   ta,
		keys:     k,
	}
	m.SetSize(width, height)
	return m
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
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.notice = ""
		m.SetResult(msg.Result)
		return m, nil

	case CopiedMsg:
		if msg.Err != nil {
			m.err = fmt.Errorf("copying to clipboard: %w", msg.Err)
		} else {
			m.notice = "Copied to clipboard"
		}
		return m, nil

	case tea.KeyMsg:
		if m.refining {
			return m.updateRefine(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Generate):
			if m.loading {
				return m, nil
			}
			tone := m.Tone()
			return m, func() tea.Msg { return GenerateRequestMsg{Tone: tone} }

		case key.Matches(msg, m.keys.ToneNext):
			m.tone = (m.tone + 1) % len(m.tones)
			return m, m.toneChanged()

		case key.Matches(msg, m.keys.TonePrev):
			m.tone = (m.tone + len(m.tones) - 1) % len(m.tones)
			return m, m.toneChanged()

		case key.Matches(msg, m.keys.Refine):
			if m.result == nil || m.loading {
				return m, nil
			}
			m.refining = true
			m.refine.Reset()
			return m, m.refine.Focus()

		case key.Matches(msg, m.keys.Copy):
			if m.result == nil {
				return m, nil
			}
			return m, CopyCmd(m.result.Text)
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) updateRefine(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.refining = false
		m.refine.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		instructions := strings.TrimSpace(m.refine.Value())
		if instructions == "" || m.result == nil {
			return m, nil
		}
		m.refining = false
		m.refine.Blur()
		req := RefineRequestMsg{
			Tone:         m.Tone(),
			Draft:        m.result.Text,
			Instructions: instructions,
		}
		return m, func() tea.Msg { return req }
	}

	var cmd tea.Cmd
	m.refine, cmd = m.refine.Update(msg)
	return m, cmd
}

func (m Model) toneChanged() tea.Cmd {
	tone := m.Tone()
	return func() tea.Msg { return ToneChangedMsg{Tone: tone} }
}

// SetLoading marks a generation as in flight.
func (m *Model) SetLoading(v bool) {
	m.loading = v
	if v {
		m.err = nil
		m.notice = ""
	}
}

// Loading reports whether a generation is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// Refining reports whether the refinement box has focus.
func (m Model) Refining() bool {
	return m.refining
}

// SetResult shows r as the current draft.
func (m *Model) SetResult(r *model.GenerationResult) {
	m.result = r
	m.viewport.SetContent(m.renderResult())
	m.viewport.GotoTop()
}

// Result returns the current draft, or nil.
func (m Model) Result() *model.GenerationResult {
	return m.result
}

// Tone returns the selected tone label.
func (m Model) Tone() string {
	return m.tones[m.tone].Tone
}

// SetTone selects tone when it is in the table.
func (m *Model) SetTone(tone string) {
	for i, t := range m.tones {
		if strings.EqualFold(t.Tone, tone) {
			m.tone = i
			return
		}
	}
}

func (m Model) renderResult() string {
	if m.result == nil {
		return ""
	}

	width := m.viewport.Width
	if width < 20 {
		width = 20
	}
	body := lipgloss.NewStyle().Width(width).Render(m.result.Text)

	if len(m.result.Sources) == 0 {
		return body
	}

	lines := []string{body, "", theme.LabelStyle.Render("Sources")}
	for i, s := range m.result.Sources {
		lines = append(lines, fmt.Sprintf("%d. %s\n   %s", i+1, s.Title, theme.LinkStyle.Render(s.URI)))
	}
	return strings.Join(lines, "\n")
}

// View renders the tab.
func (m Model) View() string {
	opt := m.tones[m.tone]
	toneLine := theme.LabelStyle.Render("Tone: ") + theme.ToneStyle.Render("‹ "+opt.Tone+" ›")
	if opt.Description != "" {
		toneLine += "  " + theme.HelpStyle.Render(opt.Description)
	}

	sections := []string{
		theme.TitleStyle.Render("Generated Email"),
		toneLine,
		"",
	}

	switch {
	case m.loading:
		sections = append(sections, theme.SpinnerStyle.Render("Writing your email..."))
	case m.err != nil:
		sections = append(sections, theme.ErrorStyle.Render(m.err.Error()))
	case m.notice != "":
		sections = append(sections, theme.NoticeStyle.Render(m.notice))
	}

	if m.result == nil && !m.loading {
		sections = append(sections, theme.HelpStyle.Render("Press ctrl+g to generate a draft from everything you have entered."))
	} else if m.result != nil {
		sections = append(sections, m.viewport.View())
	}

	if m.refining {
		sections = append(sections, "",
			theme.LabelStyle.Render("Refine (ctrl+s to submit, esc to cancel)"),
			m.refine.View())
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SetSize updates the tab dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	inner := width - 10
	if inner < 20 {
		inner = 20
	}
	m.viewport.Width = inner
	vh := height - 14
	if vh < 4 {
		vh = 4
	}
	m.viewport.Height = vh
	m.refine.SetWidth(inner)
	if m.result != nil {
		m.viewport.SetContent(m.renderResult())
	}
}
