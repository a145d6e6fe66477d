package documents

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nhle/prospector/internal/keys"
	"github.com/nhle/prospector/internal/model"
	"github.com/nhle/prospector/internal/theme"
)

// ReadFunc loads an attachment from a path.
type ReadFunc func(path string) (*model.Attachment, error)

// LoadedMsg carries the result of reading an attachment.
type LoadedMsg struct {
	Attachment *model.Attachment
	Err        error
}

// Model is the Supporting Documents tab: at most one file sent to the
// model alongside the prompt.
type Model struct {
	path       textinput.Model
	read       ReadFunc
	extensions []string
	attachment *model.Attachment
	size       int
	loading    bool
	err        error
	keys       *keys.KeyMap
	width      int
	height     int
}

// New creates the tab. extensions lists the accepted file types.
func New(read ReadFunc, extensions []string, k *keys.KeyMap, width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "path to a file (" + strings.Join(extensions, " ") + ")"
	ti.Prompt = "> "

	m := Model{path: ti, read: read, extensions: extensions, keys: k}
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
	case LoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.attachment = msg.Attachment
		m.size = decodedSize(msg.Attachment.Data)
		m.path.Reset()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Clear):
			m.attachment = nil
			m.err = nil
			return m, nil
		case msg.String() == "enter":
			p := strings.TrimSpace(m.path.Value())
			if p == "" || m.loading {
				return m, nil
			}
			m.loading = true
			read := m.read
			return m, func() tea.Msg {
				att, err := read(p)
				return LoadedMsg{Attachment: att, Err: err}
			}
		}
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return m, cmd
}

// decodedSize approximates the file size from base64 length.
func decodedSize(b64 string) int {
	n := len(b64) / 4 * 3
	switch {
	case strings.HasSuffix(b64, "=="):
		n -= 2
	case strings.HasSuffix(b64, "="):
		n--
	}
	return n
}

// View renders the tab.
func (m Model) View() string {
	sections := []string{
		theme.TitleStyle.Render("Supporting Documents"),
		theme.HelpStyle.Render("Attach a brief, deck or report for the model to read. Press enter to load, ctrl+x to remove."),
		"",
		m.path.View(),
		"",
	}

	switch {
	case m.loading:
		sections = append(sections, theme.SpinnerStyle.Render("Reading file..."))
	case m.err != nil:
		sections = append(sections, theme.ErrorStyle.Render(m.err.Error()))
	}

	if m.attachment != nil {
		sections = append(sections,
			theme.LabelStyle.Render("Attached"),
			fmt.Sprintf("%s  %s  %s",
				m.attachment.Name,
				theme.HelpStyle.Render(m.attachment.MIMEType),
				humanize.Bytes(uint64(m.size)),
			),
		)
	} else {
		sections = append(sections, theme.HelpStyle.Render("No document attached."))
	}

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// SetSize updates the tab dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	w := width - 12
	if w < 20 {
		w = 20
	}
	m.path.Width = w
}

// Focus gives keyboard focus to the path input.
func (m *Model) Focus() tea.Cmd {
	return m.path.Focus()
}

// Attachment returns the loaded attachment, or nil.
func (m Model) Attachment() *model.Attachment {
	return m.attachment
}
