package history

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/prospector/internal/keys"
	"github.com/nhle/prospector/internal/model"
)

func TestItemTitle(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"\n\n  Hi Sam,\nBody", "Hi Sam,"},
		{"Subject: Launch", "Subject: Launch"},
		{"   \n", "(empty draft)"},
	}
	for _, tt := range tests {
		it := Item{HistoryItem: model.HistoryItem{Email: tt.email}}
		if got := it.Title(); got != tt.want {
			t.Errorf("Title(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestSelectCopyAndDetail(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 100, 30)
	if _, ok := m.Selected(); ok {
		t.Fatal("empty history reported a selection")
	}
	if !strings.Contains(m.View(), "No emails generated yet") {
		t.Error("empty state not shown")
	}

	now := time.Now()
	m.SetItems([]model.HistoryItem{
		{ID: "2", Timestamp: now, Email: "Newest", Tone: "Direct"},
		{ID: "1", Timestamp: now.Add(-time.Hour), Email: "Older", Tone: "Friendly"},
	})

	it, ok := m.Selected()
	if !ok || it.ID != "2" {
		t.Fatalf("Selected() = %+v, %v", it, ok)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	req, ok := cmd().(CopyRequestMsg)
	if !ok || req.Item.ID != "2" {
		t.Errorf("copy produced %#v", req)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.Viewing() {
		t.Fatal("enter did not open the detail pane")
	}
	if !strings.Contains(m.View(), "Newest") {
		t.Error("detail pane does not show the draft")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.Viewing() {
		t.Error("esc did not close the detail pane")
	}
}
