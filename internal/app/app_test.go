package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/prospector/internal/ai"
	"github.com/nhle/prospector/internal/model"
	"github.com/nhle/prospector/internal/store"
	"github.com/nhle/prospector/internal/ui/approach"
	"github.com/nhle/prospector/internal/ui/command"
	"github.com/nhle/prospector/internal/ui/output"
	"github.com/nhle/prospector/tests/testutil"
)

type fakeGenerator struct {
	mu         sync.Mutex
	drafts     []model.DraftContext
	refined    string
	approaches *model.ApproachSearchResult
	err        error
}

func (f *fakeGenerator) FindApproaches(_ context.Context, goal, company string) (*model.ApproachSearchResult, error) {
	if f.approaches != nil {
		return f.approaches, nil
	}
	return &model.ApproachSearchResult{Marketing: []string{"m1"}, Company: []string{"c1"}}, nil
}

func (f *fakeGenerator) SearchCaseStudies(context.Context, string) ([]model.CaseStudy, error) {
	return []model.CaseStudy{{Title: "Acme", Summary: "grew"}}, nil
}

func (f *fakeGenerator) GenerateEmail(_ context.Context, c model.DraftContext) (*model.GenerationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts = append(f.drafts, c)
	if f.err != nil {
		return nil, f.err
	}
	return &model.GenerationResult{Text: "Hi " + c.RecipientName, Sources: []model.Source{}}, nil
}

func (f *fakeGenerator) Refine(ctx context.Context, c model.DraftContext, prev, instr string) (*model.GenerationResult, error) {
	f.refined = prev
	c.PreviousDraft = prev
	c.RefinementInstructions = instr
	return f.GenerateEmail(ctx, c)
}

func (f *fakeGenerator) Tones() []model.ToneOption {
	return model.DefaultTones()
}

func newTestModel(t *testing.T, s store.Store) (Model, *fakeGenerator) {
	t.Helper()
	gen := &fakeGenerator{}
	m := New(Options{Generator: gen, Store: s})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), gen
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestTabNavigationWraps(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlP})
	if m.ActiveTab() != TabHistory {
		t.Errorf("prev from first tab = %v", m.ActiveTab())
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.ActiveTab() != TabCompose {
		t.Errorf("next from last tab = %v", m.ActiveTab())
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.ActiveTab() != TabThread {
		t.Errorf("next = %v", m.ActiveTab())
	}
	if TabOutput.String() != "Generated Email" {
		t.Errorf("TabOutput label = %q", TabOutput.String())
	}
}

func TestGenerateRequiresGoal(t *testing.T) {
	m, gen := newTestModel(t, nil)

	m, cmd := update(t, m, output.GenerateRequestMsg{Tone: "Direct"})
	if cmd != nil {
		t.Fatal("generation started without a goal")
	}
	if m.output.Loading() {
		t.Error("output left loading")
	}
	if len(gen.drafts) != 0 {
		t.Error("generator called")
	}
}

func TestGenerateBuildsDraftAndRecordsHistory(t *testing.T) {
	m, gen := newTestModel(t, nil)
	m.profile = &model.Profile{Name: "Alex", JobTitle: "AE", Company: "Acme"}
	m.compose.SetGoal("Pitch analytics to Initech")
	m.compose.SetRecipient("Sam", "Initech")

	m, cmd := update(t, m, output.GenerateRequestMsg{Tone: "Direct"})
	if cmd == nil {
		t.Fatal("no generation command")
	}
	if !m.output.Loading() {
		t.Error("output not marked loading")
	}

	// A second request while in flight is dropped.
	if _, again := update(t, m, output.GenerateRequestMsg{Tone: "Direct"}); again != nil {
		t.Error("re-entrant generation started")
	}

	m, _ = update(t, m, cmd())
	if len(gen.drafts) != 1 {
		t.Fatalf("generator called %d times", len(gen.drafts))
	}
	d := gen.drafts[0]
	if d.Goal != "Pitch analytics to Initech" || d.RecipientCompany != "Initech" || d.Tone != "Direct" {
		t.Errorf("draft = %+v", d)
	}
	if d.Sender.Name != "Alex" || d.Sender.Company != "Acme" {
		t.Errorf("sender = %+v", d.Sender)
	}

	if m.history.Len() != 1 {
		t.Fatalf("history len = %d", m.history.Len())
	}
	latest, _ := m.history.Latest()
	if latest.Email != "Hi Sam" || latest.Tone != "Direct" {
		t.Errorf("history item = %+v", latest)
	}
	if m.output.Result() == nil || m.output.Result().Text != "Hi Sam" {
		t.Error("output tab does not show the draft")
	}
}

func TestGenerateErrorNotRecorded(t *testing.T) {
	m, gen := newTestModel(t, nil)
	gen.err = ai.ErrCommunication
	m.compose.SetGoal("goal")

	m, cmd := update(t, m, output.GenerateRequestMsg{Tone: "Direct"})
	m, _ = update(t, m, cmd())
	if m.history.Len() != 0 {
		t.Error("failed draft added to history")
	}
	if m.output.Loading() {
		t.Error("output left loading")
	}
}

func TestGenerateErrorNotLoggedByApp(t *testing.T) {
	var logs bytes.Buffer
	gen := &fakeGenerator{err: ai.ErrCommunication}
	m := New(Options{Generator: gen, Logger: slog.New(slog.NewTextHandler(&logs, nil))})
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m.compose.SetGoal("goal")

	m, cmd := update(t, m, output.GenerateRequestMsg{Tone: "Direct"})
	update(t, m, cmd())

	if strings.Contains(logs.String(), "level=ERROR") {
		t.Errorf("app logged a failure the service already logs: %s", logs.String())
	}
}

func TestRefineSkipsGoalValidation(t *testing.T) {
	m, gen := newTestModel(t, nil)

	m, cmd := update(t, m, output.RefineRequestMsg{Tone: "Friendly", Draft: "old", Instructions: "shorter"})
	if cmd == nil {
		t.Fatal("no refine command")
	}
	m, _ = update(t, m, cmd())
	if gen.refined != "old" {
		t.Errorf("refined draft = %q", gen.refined)
	}
	if gen.drafts[0].RefinementInstructions != "shorter" {
		t.Errorf("instructions = %q", gen.drafts[0].RefinementInstructions)
	}
	if m.history.Len() != 1 {
		t.Error("refined draft not in history")
	}
}

func TestFindApproachesFlow(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.compose.SetGoal("goal")

	m, cmd := update(t, m, approach.SearchRequestMsg{})
	if !m.approach.Loading() {
		t.Fatal("approach tab not loading")
	}
	m, _ = update(t, m, cmd())
	if m.approach.Loading() {
		t.Error("approach tab still loading")
	}

	m.approach.Toggle(0)
	marketing, _ := m.approach.Selected()
	if marketing != "m1" {
		t.Errorf("selected marketing = %q", marketing)
	}
	if d := m.buildDraft("Direct"); d.MarketingApproach != "m1" {
		t.Errorf("draft marketing = %q", d.MarketingApproach)
	}
}

func TestSessionLoadOpensProfileWhenMissing(t *testing.T) {
	s := testutil.NewTestStore(t)
	m, _ := newTestModel(t, s)

	m, _ = update(t, m, m.loadSession()())
	if m.ActiveOverlay() != OverlayProfile {
		t.Errorf("overlay = %v, want profile form", m.ActiveOverlay())
	}
}

func TestSessionLoadRestoresProfileAndTone(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	if err := s.SaveProfile(ctx, model.Profile{Name: "Alex"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, store.ToneKey, "Friendly"); err != nil {
		t.Fatal(err)
	}

	m, _ := newTestModel(t, s)
	m, _ = update(t, m, m.loadSession()())
	if m.ActiveOverlay() != OverlayNone {
		t.Errorf("overlay = %v", m.ActiveOverlay())
	}
	if m.Profile() == nil || m.Profile().Name != "Alex" {
		t.Errorf("profile = %+v", m.Profile())
	}
	if m.output.Tone() != "Friendly" {
		t.Errorf("tone = %q", m.output.Tone())
	}

	m, cmd := update(t, m, output.ToneChangedMsg{Tone: "Direct"})
	update(t, m, cmd())
	if got, _ := s.Get(ctx, store.ToneKey); got != "Direct" {
		t.Errorf("stored tone = %q", got)
	}
}

func TestLogoutClearsProfile(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	if err := s.SaveProfile(ctx, model.Profile{Name: "Alex"}); err != nil {
		t.Fatal(err)
	}

	m, _ := newTestModel(t, s)
	m, _ = update(t, m, m.loadSession()())

	m, cmd := update(t, m, command.CommandMsg(command.Logout))
	m, _ = update(t, m, cmd())
	if m.Profile() != nil {
		t.Error("profile still set")
	}
	if m.ActiveOverlay() != OverlayProfile {
		t.Error("profile form not opened")
	}
	if _, err := s.LoadProfile(ctx); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("LoadProfile after logout = %v", err)
	}
}

func TestClearCommandResetsDraft(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m.compose.SetGoal("goal")
	m.thread.SetValue("thread")
	m.activeTab = TabOutput
	m, _ = update(t, m, output.ToneChangedMsg{Tone: "Friendly"})
	m.output.SetTone("Friendly")

	m, _ = update(t, m, command.CommandMsg(command.Clear))
	if m.compose.Goal() != "" || m.thread.Value() != "" {
		t.Error("draft inputs not cleared")
	}
	if m.ActiveTab() != TabCompose {
		t.Errorf("tab = %v", m.ActiveTab())
	}
	if m.output.Tone() != "Friendly" {
		t.Errorf("tone not kept: %q", m.output.Tone())
	}
}

func TestOverlayToggles(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyF1})
	if m.ActiveOverlay() != OverlayHelp {
		t.Fatalf("overlay = %v", m.ActiveOverlay())
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.ActiveOverlay() != OverlayNone {
		t.Errorf("esc left overlay %v", m.ActiveOverlay())
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	if m.ActiveOverlay() != OverlayCommand {
		t.Fatalf("overlay = %v", m.ActiveOverlay())
	}
	m, _ = update(t, m, command.UnknownMsg("nope"))
	if m.ActiveOverlay() != OverlayNone || m.flash == "" {
		t.Error("unknown command not reported")
	}
}
