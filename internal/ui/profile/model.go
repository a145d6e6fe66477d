package profile

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/prospector/internal/credential"
	"github.com/nhle/prospector/internal/keys"
	"github.com/nhle/prospector/internal/model"
	"github.com/nhle/prospector/internal/store"
	"github.com/nhle/prospector/internal/theme"
)

// SavedMsg signals the profile was persisted and the form should close.
type SavedMsg struct {
	Profile model.Profile
}

// CancelMsg signals the form was dismissed without saving.
type CancelMsg struct{}

// savedInternalMsg is sent after the store write completes.
type savedInternalMsg struct {
	profile model.Profile
	err     error
}

// SecretSetter stores a secret by item name.
type SecretSetter func(item, value string) error

// fields holds the values huh binds to. It lives on the heap so copies
// of Model share one set of bindings with the form.
type fields struct {
	name               string
	jobTitle           string
	company            string
	email              string
	companyDescription string
	apiKey             string
}

// Model is the sender profile form.
type Model struct {
	store     store.Store
	setSecret SecretSetter
	form      *huh.Form
	values    *fields
	saving    bool
	err       error
	keys      *keys.KeyMap
	width     int
	height    int
}

// New creates the profile form. s may be nil, in which case the profile
// lives only for the session.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	return Model{
		store:     s,
		setSecret: credential.Set,
		values:    &fields{},
		keys:      k,
		width:     width,
		height:    height,
	}
}

// WithSecretSetter replaces the keyring writer used for the API key.
func (m Model) WithSecretSetter(fn SecretSetter) Model {
	m.setSecret = fn
	return m
}

// Start opens the form prefilled from p, which may be nil.
func (m *Model) Start(p *model.Profile) tea.Cmd {
	m.values = &fields{}
	if p != nil {
		m.values.name = p.Name
		m.values.jobTitle = p.JobTitle
		m.values.company = p.Company
		m.values.email = p.Email
		m.values.companyDescription = p.CompanyDescription
	}
	m.err = nil
	m.saving = false
	m.form = m.buildForm()
	return m.form.Init()
}

func (m *Model) buildForm() *huh.Form {
	v := m.values
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Description("Used to sign your emails").
				Placeholder("Alex Morgan").
				Value(&v.name).
				Validate(validateRequired("Name")),
			huh.NewInput().
				Title("Job Title").
				Placeholder("Account Executive").
				Value(&v.jobTitle),
			huh.NewInput().
				Title("Company").
				Placeholder("Acme Analytics").
				Value(&v.company),
			huh.NewInput().
				Title("Email").
				Placeholder("alex@acme.example").
				Value(&v.email).
				Validate(validateEmail),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Company Description").
				Description("What your company does, in a sentence or two").
				Lines(4).
				Value(&v.companyDescription),
			huh.NewInput().
				Title("Gemini API Key").
				Description("Saved to the system keyring. Leave blank to keep the current key.").
				EchoMode(huh.EchoModePassword).
				Value(&v.apiKey),
		),
	).WithWidth(m.formWidth()).WithShowHelp(true)
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedInternalMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		p := msg.profile
		return m, func() tea.Msg { return SavedMsg{Profile: p} }

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Back) && !m.saving {
			return m, func() tea.Msg { return CancelMsg{} }
		}
	}

	if m.form == nil || m.saving {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.saving = true
		return m, m.save()
	case huh.StateAborted:
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// Profile returns the profile described by the current field values.
func (m Model) Profile() model.Profile {
	return model.Profile{
		Name:               strings.TrimSpace(m.values.name),
		JobTitle:           strings.TrimSpace(m.values.jobTitle),
		Company:            strings.TrimSpace(m.values.company),
		Email:              strings.TrimSpace(m.values.email),
		CompanyDescription: strings.TrimSpace(m.values.companyDescription),
	}
}

func (m Model) save() tea.Cmd {
	p := m.Profile()
	apiKey := strings.TrimSpace(m.values.apiKey)
	s := m.store
	setSecret := m.setSecret
	return func() tea.Msg {
		if apiKey != "" && setSecret != nil {
			if err := setSecret(credential.APIKeyItem, apiKey); err != nil {
				return savedInternalMsg{err: fmt.Errorf("saving API key: %w", err)}
			}
		}
		if s != nil {
			if err := s.SaveProfile(context.Background(), p); err != nil {
				return savedInternalMsg{err: fmt.Errorf("saving profile: %w", err)}
			}
		}
		return savedInternalMsg{profile: p}
	}
}

// View renders the form.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(theme.TitleStyle.Render("Your Profile"))
	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("Your details are used to write and sign every email."))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(theme.ErrorStyle.Render(m.err.Error()))
		b.WriteString("\n\n")
	}

	if m.saving {
		b.WriteString(theme.SpinnerStyle.Render("Saving..."))
	} else if m.form != nil {
		b.WriteString(m.form.View())
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(b.String())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth())
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateEmail(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}
