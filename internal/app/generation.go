package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/prospector/internal/ai"
	"github.com/nhle/prospector/internal/model"
	"github.com/nhle/prospector/internal/ui/approach"
	"github.com/nhle/prospector/internal/ui/casestudy"
	"github.com/nhle/prospector/internal/ui/output"
)

// requestTimeout bounds a single model call.
const requestTimeout = 2 * time.Minute

// generatedMsg carries a finished generation or refinement.
type generatedMsg struct {
	tone   string
	result *model.GenerationResult
	err    error
}

// buildDraft assembles a DraftContext from the tabs and the profile.
func (m Model) buildDraft(tone string) model.DraftContext {
	marketing, company := m.approach.Selected()

	var sender model.Sender
	if m.profile != nil {
		sender = m.profile.Sender()
	}

	return model.DraftContext{
		Goal:              m.compose.Goal(),
		EmailThread:       m.thread.Value(),
		Attachment:        m.documents.Attachment(),
		Tone:              tone,
		RecipientName:     m.compose.RecipientName(),
		RecipientCompany:  m.compose.RecipientCompany(),
		Sender:            sender,
		MarketingApproach: marketing,
		CompanyNews:       company,
		CaseStudies:       m.caseStudy.Selected(),
	}
}

func (m Model) findApproaches() (tea.Model, tea.Cmd) {
	if m.approach.Loading() {
		return m, nil
	}

	goal := m.compose.Goal()
	if err := ai.ValidateGoal(goal, "find approaches"); err != nil {
		m.approach, _ = m.approach.Update(approach.ResultMsg{Err: err})
		return m, nil
	}

	m.approach.SetLoading(true)
	gen := m.gen
	company := m.compose.RecipientCompany()
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		res, err := gen.FindApproaches(ctx, goal, company)
		return approach.ResultMsg{Result: res, Err: err}
	}
}

func (m Model) searchCaseStudies() (tea.Model, tea.Cmd) {
	if m.caseStudy.Loading() {
		return m, nil
	}

	goal := m.compose.Goal()
	if err := ai.ValidateGoal(goal, "search case studies"); err != nil {
		m.caseStudy, _ = m.caseStudy.Update(casestudy.ResultMsg{Err: err})
		return m, nil
	}

	m.caseStudy.SetLoading(true)
	gen := m.gen
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		studies, err := gen.SearchCaseStudies(ctx, goal)
		return casestudy.ResultMsg{Studies: studies, Err: err}
	}
}

func (m Model) generate(tone string) (tea.Model, tea.Cmd) {
	if m.output.Loading() {
		return m, nil
	}

	draft := m.buildDraft(tone)
	if err := ai.ValidateGoal(draft.Goal, "generate an email"); err != nil {
		m.output, _ = m.output.Update(output.ResultMsg{Err: err})
		return m, nil
	}

	m.output.SetLoading(true)
	gen := m.gen
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		res, err := gen.GenerateEmail(ctx, draft)
		return generatedMsg{tone: tone, result: res, err: err}
	}
}

// refine does not require a goal: the previous draft carries the context.
func (m Model) refine(req output.RefineRequestMsg) (tea.Model, tea.Cmd) {
	if m.output.Loading() {
		return m, nil
	}

	draft := m.buildDraft(req.Tone)
	m.output.SetLoading(true)
	gen := m.gen
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		res, err := gen.Refine(ctx, draft, req.Draft, req.Instructions)
		return generatedMsg{tone: req.Tone, result: res, err: err}
	}
}

// handleGenerated records a successful draft in the session history and
// shows it in the Generated Email tab.
func (m Model) handleGenerated(msg generatedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.output, _ = m.output.Update(output.ResultMsg{Err: msg.err})
		return m, nil
	}

	item := m.history.Add(*msg.result, msg.tone)
	m.historyView.SetItems(m.history.Items())
	m.logger.Info("draft added to history", "id", item.ID, "tone", item.Tone)

	m.output, _ = m.output.Update(output.ResultMsg{Result: msg.result})
	return m, nil
}
