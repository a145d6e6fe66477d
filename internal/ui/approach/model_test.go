package approach

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/prospector/internal/keys"
	"github.com/nhle/prospector/internal/model"
)

func newLoaded() Model {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetResult(model.ApproachSearchResult{
		Marketing: []string{"M0", "M1"},
		Company:   []string{"C0", "C1"},
	})
	return m
}

func TestToggle_OnePerCategory(t *testing.T) {
	m := newLoaded()

	m.Toggle(0)
	m.Toggle(1)
	m.Toggle(3)

	marketing, company := m.Selected()
	if marketing != "M1" || company != "C1" {
		t.Errorf("Selected = %q, %q; want M1, C1", marketing, company)
	}

	m.Toggle(1)
	if marketing, _ := m.Selected(); marketing != "" {
		t.Errorf("toggling the selected item should clear it, got %q", marketing)
	}
}

func TestSetResult_ClearsSelection(t *testing.T) {
	m := newLoaded()
	m.Toggle(0)
	m.Toggle(2)

	m.SetResult(model.ApproachSearchResult{Marketing: []string{"new"}})
	if marketing, company := m.Selected(); marketing != "" || company != "" {
		t.Errorf("selection survived new results: %q, %q", marketing, company)
	}
}

func TestSearchKeyIgnoredWhileLoading(t *testing.T) {
	m := newLoaded()
	m.SetLoading(true)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	if cmd != nil {
		t.Error("search requested while a search is in flight")
	}

	m.SetLoading(false)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	if cmd == nil {
		t.Fatal("no search request")
	}
	if _, ok := cmd().(SearchRequestMsg); !ok {
		t.Error("expected SearchRequestMsg")
	}
}

func TestResultMsgError(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetLoading(true)

	m, _ = m.Update(ResultMsg{Err: errTest})
	if m.Loading() {
		t.Error("still loading after result")
	}
	if m.err == nil {
		t.Error("error not recorded")
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("boom")
