package thread

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/prospector/internal/keys"
	"github.com/nhle/prospector/internal/theme"
)

// LoadFunc reads a thread from a file path.
type LoadFunc func(path string) (string, error)

// FetchFunc fetches the conversation with a correspondent from the
// mailbox.
type FetchFunc func(ctx context.Context, correspondent string) (string, error)

// ImportedMsg carries the result of a file import or mailbox fetch.
type ImportedMsg struct {
	Text   string
	Origin string
	Err    error
}

type promptKind int

const (
	promptNone promptKind = iota
	promptPath
	promptCorrespondent
)

// Model is the Supporting Emails tab: a pasted or imported thread that
// the draft should continue.
type Model struct {
	body    textarea.Model
	input   textinput.Model
	prompt  promptKind
	load    LoadFunc
	fetch   FetchFunc
	loading bool
	status  string
	err     error
	keys    *keys.KeyMap
	width   int
	height  int
}

// New creates the tab. fetch may be nil when no mailbox is configured.
func New(load LoadFunc, fetch FetchFunc, k *keys.KeyMap, width, height int) Model {
	ta := textarea.New()
	ta.Placeholder = "Paste the previous email conversation here (optional)..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	ti := textinput.New()
	ti.Prompt = "> "

	m := Model{body: ta, input: ti, load: load, fetch: fetch, keys: k}
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
	case ImportedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			m.status = ""
			return m, nil
		}
		m.err = nil
		if strings.TrimSpace(msg.Text) == "" {
			m.status = "Nothing found in " + msg.Origin
			return m, nil
		}
		m.body.SetValue(msg.Text)
		m.status = "Loaded thread from " + msg.Origin
		return m, nil

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Import):
			if m.load == nil || m.loading {
				return m, nil
			}
			return m, m.openPrompt(promptPath, "path to .eml or .txt file")
		case key.Matches(msg, m.keys.Fetch):
			if m.fetch == nil {
				m.err = fmt.Errorf("no mailbox configured; set mail.host and mail.username in the config file")
				return m, nil
			}
			if m.loading {
				return m, nil
			}
			return m, m.openPrompt(promptCorrespondent, "correspondent email address")
		case key.Matches(msg, m.keys.Clear):
			m.body.Reset()
			m.status, m.err = "", nil
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.body, cmd = m.body.Update(msg)
	return m, cmd
}

func (m *Model) openPrompt(kind promptKind, placeholder string) tea.Cmd {
	m.prompt = kind
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.body.Blur()
	return m.input.Focus()
}

func (m Model) updatePrompt(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt = promptNone
		m.input.Blur()
		return m, m.body.Focus()

	case "enter":
		value := strings.TrimSpace(m.input.Value())
		kind := m.prompt
		m.prompt = promptNone
		m.input.Blur()
		if value == "" {
			return m, m.body.Focus()
		}

		m.loading = true
		m.err = nil
		m.status = "Loading..."
		if kind == promptPath {
			return m, tea.Batch(m.body.Focus(), loadCmd(m.load, value))
		}
		return m, tea.Batch(m.body.Focus(), fetchCmd(m.fetch, value))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func loadCmd(load LoadFunc, path string) tea.Cmd {
	return func() tea.Msg {
		text, err := load(path)
		return ImportedMsg{Text: text, Origin: path, Err: err}
	}
}

func fetchCmd(fetch FetchFunc, correspondent string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		text, err := fetch(ctx, correspondent)
		return ImportedMsg{Text: text, Origin: "mailbox (" + correspondent + ")", Err: err}
	}
}

// View renders the tab.
func (m Model) View() string {
	sections := []string{
		theme.TitleStyle.Render("Supporting Emails"),
		m.body.View(),
	}

	if m.prompt != promptNone {
		sections = append(sections, "", m.input.View())
	}
	if m.err != nil {
		sections = append(sections, "", theme.ErrorStyle.Render(m.err.Error()))
	} else if m.status != "" {
		sections = append(sections, "", theme.NoticeStyle.Render(m.status))
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
	m.body.SetWidth(inner)
	h := height - 10
	if h < 3 {
		h = 3
	}
	m.body.SetHeight(h)
	m.input.Width = inner - 2
}

// Focus gives keyboard focus to the thread text.
func (m *Model) Focus() tea.Cmd {
	return m.body.Focus()
}

// Value returns the thread text.
func (m Model) Value() string {
	return m.body.Value()
}

// SetValue replaces the thread text.
func (m *Model) SetValue(s string) {
	m.body.SetValue(s)
}

// Editing reports whether a prompt is capturing keystrokes.
func (m Model) Editing() bool {
	return m.prompt != promptNone
}
