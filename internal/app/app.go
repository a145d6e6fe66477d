package app

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/prospector/internal/attachment"
	"github.com/nhle/prospector/internal/keys"
	"github.com/nhle/prospector/internal/model"
	"github.com/nhle/prospector/internal/session"
	"github.com/nhle/prospector/internal/store"
	"github.com/nhle/prospector/internal/ui"
	"github.com/nhle/prospector/internal/ui/approach"
	"github.com/nhle/prospector/internal/ui/casestudy"
	"github.com/nhle/prospector/internal/ui/command"
	"github.com/nhle/prospector/internal/ui/compose"
	"github.com/nhle/prospector/internal/ui/documents"
	helpview "github.com/nhle/prospector/internal/ui/help"
	historyview "github.com/nhle/prospector/internal/ui/history"
	"github.com/nhle/prospector/internal/ui/output"
	profileview "github.com/nhle/prospector/internal/ui/profile"
	threadview "github.com/nhle/prospector/internal/ui/thread"
)

// Generator is the generation service the TUI drives.
type Generator interface {
	FindApproaches(ctx context.Context, goal, recipientCompany string) (*model.ApproachSearchResult, error)
	SearchCaseStudies(ctx context.Context, goal string) ([]model.CaseStudy, error)
	GenerateEmail(ctx context.Context, c model.DraftContext) (*model.GenerationResult, error)
	Refine(ctx context.Context, c model.DraftContext, previousDraft, instructions string) (*model.GenerationResult, error)
	Tones() []model.ToneOption
}

// Tab identifies one of the input and output tabs.
type Tab int

const (
	TabCompose Tab = iota
	TabThread
	TabDocuments
	TabApproach
	TabCaseStudies
	TabOutput
	TabHistory
	tabCount
)

var tabLabels = []string{
	"Client & Goal",
	"Supporting Emails",
	"Supporting Documents",
	"Approach",
	"Case Studies",
	"Generated Email",
	"History",
}

// String returns the tab label.
func (t Tab) String() string {
	if t < 0 || t >= tabCount {
		return ""
	}
	return tabLabels[t]
}

// Overlay is a view drawn over the tabs.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayHelp
	OverlayCommand
	OverlayProfile
)

// Options configures the root model.
type Options struct {
	Generator Generator

	// Store persists the profile and tone. Nil keeps them in memory.
	Store store.Store

	// History defaults to a fresh session history.
	History *session.History

	LoadThread     threadview.LoadFunc
	FetchThread    threadview.FetchFunc
	ReadAttachment documents.ReadFunc

	Logger *slog.Logger
}

// Model is the root Bubble Tea model that routes between tabs and
// overlays and runs generation requests.
type Model struct {
	gen     Generator
	store   store.Store
	history *session.History
	logger  *slog.Logger
	opts    Options

	activeTab Tab
	overlay   Overlay
	layout    ui.Layout
	keys      *keys.KeyMap
	profile   *model.Profile
	tone      string
	flash     string
	ready     bool

	compose     compose.Model
	thread      threadview.Model
	documents   documents.Model
	approach    approach.Model
	caseStudy   casestudy.Model
	output      output.Model
	historyView historyview.Model
	helpView    helpview.Model
	commandView command.Model
	profileView profileview.Model
}

// New creates the root application model.
func New(opts Options) Model {
	if opts.History == nil {
		opts.History = session.NewHistory(session.DefaultMaxItems)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.ReadAttachment == nil {
		opts.ReadAttachment = attachment.Read
	}

	k := keys.DefaultKeyMap()
	m := Model{
		gen:         opts.Generator,
		store:       opts.Store,
		history:     opts.History,
		logger:      opts.Logger,
		opts:        opts,
		keys:        k,
		historyView: historyview.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		profileView: profileview.New(opts.Store, k, 80, 24),
	}
	m.resetDraft()
	m.historyView.SetItems(m.history.Items())
	return m
}

// resetDraft recreates every input tab, keeping the tone selection.
func (m *Model) resetDraft() {
	w, h := 80, 24
	if m.ready {
		w, h = m.layout.ContentWidth(), m.layout.ContentHeight()
	}

	m.compose = compose.New(m.keys, w, h)
	m.thread = threadview.New(m.opts.LoadThread, m.opts.FetchThread, m.keys, w, h)
	m.documents = documents.New(m.opts.ReadAttachment, attachment.Extensions(), m.keys, w, h)
	m.approach = approach.New(m.keys, w, h)
	m.caseStudy = casestudy.New(m.keys, w, h)
	m.output = output.New(m.gen.Tones(), m.keys, w, h)
	if m.tone != "" {
		m.output.SetTone(m.tone)
	}
}

// Init loads the saved profile and focuses the first tab.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.compose.Focus(), m.loadSession())
}

// ActiveTab returns the visible tab.
func (m Model) ActiveTab() Tab {
	return m.activeTab
}

// ActiveOverlay returns the overlay drawn over the tabs, if any.
func (m Model) ActiveOverlay() Overlay {
	return m.overlay
}

// Profile returns the signed-in profile, or nil.
func (m Model) Profile() *model.Profile {
	return m.profile
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.compose.SetSize(w, h)
		m.thread.SetSize(w, h)
		m.documents.SetSize(w, h)
		m.approach.SetSize(w, h)
		m.caseStudy.SetSize(w, h)
		m.output.SetSize(w, h)
		m.historyView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.profileView.SetSize(w, h)
		// Forward so huh forms can calculate their layout.
		if m.overlay == OverlayProfile {
			var cmd tea.Cmd
			m.profileView, cmd = m.profileView.Update(msg)
			return m, cmd
		}
		return m, nil

	case sessionLoadedMsg:
		return m.handleSessionLoaded(msg)

	case toneSavedMsg:
		if msg.err != nil {
			m.logger.Warn("saving tone", "err", msg.err)
		}
		return m, nil

	case profileview.SavedMsg:
		p := msg.Profile
		m.profile = &p
		m.overlay = OverlayNone
		m.flash = "Profile saved"
		m.logger.Info("profile saved", "name", p.Name)
		return m, m.focusActive()

	case profileview.CancelMsg:
		m.overlay = OverlayNone
		return m, m.focusActive()

	case profileClearedMsg:
		if msg.err != nil {
			m.flash = msg.err.Error()
			return m, nil
		}
		m.profile = nil
		m.overlay = OverlayProfile
		return m, m.profileView.Start(nil)

	case command.CommandMsg:
		m.overlay = OverlayNone
		return m.executeCommand(command.Name(msg))

	case command.UnknownMsg:
		m.overlay = OverlayNone
		m.flash = "Unknown command: " + string(msg)
		return m, nil

	case approach.SearchRequestMsg:
		return m.findApproaches()

	case approach.ResultMsg:
		m.approach, _ = m.approach.Update(msg)
		return m, nil

	case casestudy.SearchRequestMsg:
		return m.searchCaseStudies()

	case casestudy.ResultMsg:
		m.caseStudy, _ = m.caseStudy.Update(msg)
		return m, nil

	case output.GenerateRequestMsg:
		return m.generate(msg.Tone)

	case output.RefineRequestMsg:
		return m.refine(msg)

	case generatedMsg:
		return m.handleGenerated(msg)

	case output.ToneChangedMsg:
		m.tone = msg.Tone
		return m, m.saveTone(msg.Tone)

	case output.CopiedMsg:
		if msg.Err != nil {
			m.flash = "Copy failed: " + msg.Err.Error()
		} else {
			m.flash = "Copied to clipboard"
		}
		m.output, _ = m.output.Update(msg)
		return m, nil

	case historyview.CopyRequestMsg:
		return m, output.CopyCmd(msg.Item.Email)

	case threadview.ImportedMsg:
		var cmd tea.Cmd
		m.thread, cmd = m.thread.Update(msg)
		return m, cmd

	case documents.LoadedMsg:
		var cmd tea.Cmd
		m.documents, cmd = m.documents.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work regardless of the active tab.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit, true
	}

	switch m.overlay {
	case OverlayProfile:
		return m, nil, false

	case OverlayHelp:
		if key.Matches(msg, m.keys.Help, m.keys.Back) {
			m.overlay = OverlayNone
			return m, nil, true
		}
		return m, nil, false

	case OverlayCommand:
		if key.Matches(msg, m.keys.Command, m.keys.Back) {
			m.overlay = OverlayNone
			return m, m.focusActive(), true
		}
		return m, nil, false
	}

	m.flash = ""

	switch {
	case key.Matches(msg, m.keys.Help):
		m.overlay = OverlayHelp
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.overlay = OverlayCommand
		return m, m.commandView.Focus(), true

	case key.Matches(msg, m.keys.Profile):
		m.overlay = OverlayProfile
		return m, m.profileView.Start(m.profile), true

	case key.Matches(msg, m.keys.NextTab):
		return m, m.switchTab((m.activeTab + 1) % tabCount), true

	case key.Matches(msg, m.keys.PrevTab):
		return m, m.switchTab((m.activeTab + tabCount - 1) % tabCount), true
	}

	return m, nil, false
}

// switchTab activates t and gives it keyboard focus.
func (m *Model) switchTab(t Tab) tea.Cmd {
	m.activeTab = t
	return m.focusActive()
}

func (m *Model) focusActive() tea.Cmd {
	switch m.activeTab {
	case TabCompose:
		return m.compose.Focus()
	case TabThread:
		return m.thread.Focus()
	case TabDocuments:
		return m.documents.Focus()
	}
	return nil
}

// updateActiveView dispatches the message to the current overlay or tab.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.overlay {
	case OverlayHelp:
		m.helpView, cmd = m.helpView.Update(msg)
		return m, cmd
	case OverlayCommand:
		m.commandView, cmd = m.commandView.Update(msg)
		return m, cmd
	case OverlayProfile:
		m.profileView, cmd = m.profileView.Update(msg)
		return m, cmd
	}

	switch m.activeTab {
	case TabCompose:
		m.compose, cmd = m.compose.Update(msg)
	case TabThread:
		m.thread, cmd = m.thread.Update(msg)
	case TabDocuments:
		m.documents, cmd = m.documents.Update(msg)
	case TabApproach:
		m.approach, cmd = m.approach.Update(msg)
	case TabCaseStudies:
		m.caseStudy, cmd = m.caseStudy.Update(msg)
	case TabOutput:
		m.output, cmd = m.output.Update(msg)
	case TabHistory:
		m.historyView, cmd = m.historyView.Update(msg)
	}

	return m, cmd
}

// executeCommand runs a command palette entry.
func (m Model) executeCommand(name command.Name) (tea.Model, tea.Cmd) {
	switch name {
	case command.Generate:
		m.activeTab = TabOutput
		return m.generate(m.output.Tone())
	case command.Approaches:
		m.activeTab = TabApproach
		return m.findApproaches()
	case command.CaseStudies:
		m.activeTab = TabCaseStudies
		return m.searchCaseStudies()
	case command.Profile:
		m.overlay = OverlayProfile
		return m, m.profileView.Start(m.profile)
	case command.Logout:
		return m, m.clearProfile()
	case command.History:
		m.activeTab = TabHistory
		return m, nil
	case command.Clear:
		m.resetDraft()
		m.activeTab = TabCompose
		m.flash = "Started a new email"
		return m, m.focusActive()
	case command.Help:
		m.overlay = OverlayHelp
		return m, nil
	case command.Quit:
		return m, tea.Quit
	}
	return m, nil
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Prospector", m.senderStatus())
	tabs := m.layout.RenderTabs(tabLabels, int(m.activeTab))
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, tabs, content, statusBar)
}

// renderContent returns the rendered string for the current view.
func (m Model) renderContent() string {
	switch m.overlay {
	case OverlayHelp:
		return m.helpView.View()
	case OverlayCommand:
		return m.commandView.View()
	case OverlayProfile:
		return m.profileView.View()
	}

	switch m.activeTab {
	case TabCompose:
		return m.compose.View()
	case TabThread:
		return m.thread.View()
	case TabDocuments:
		return m.documents.View()
	case TabApproach:
		return m.approach.View()
	case TabCaseStudies:
		return m.caseStudy.View()
	case TabOutput:
		return m.output.View()
	case TabHistory:
		return m.historyView.View()
	default:
		return ""
	}
}

// senderStatus describes who drafts are sent as.
func (m Model) senderStatus() string {
	if m.profile == nil || m.profile.Name == "" {
		return "no profile · ctrl+e to set up"
	}
	if m.profile.Company != "" {
		return m.profile.Name + " · " + m.profile.Company
	}
	return m.profile.Name
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.flash != "" {
		return m.flash
	}

	switch m.overlay {
	case OverlayHelp:
		return "f1 close help | esc back"
	case OverlayCommand:
		return "enter execute | esc close"
	case OverlayProfile:
		return "enter next | shift+tab back | esc cancel"
	}

	const nav = "ctrl+n/p tabs | ctrl+k commands | f1 help"
	switch m.activeTab {
	case TabCompose:
		return "tab next field | " + nav
	case TabThread:
		return "ctrl+o import file | ctrl+t fetch mailbox | ctrl+x clear | " + nav
	case TabDocuments:
		return "enter attach | ctrl+x remove | " + nav
	case TabApproach:
		return "ctrl+f find | space select | " + nav
	case TabCaseStudies:
		return "ctrl+f search | space toggle | ctrl+x clear | " + nav
	case TabOutput:
		return "ctrl+g generate | ←/→ tone | ctrl+r refine | ctrl+y copy | " + nav
	case TabHistory:
		return "enter view | ctrl+y copy | " + nav
	}
	return nav
}
