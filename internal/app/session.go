package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/prospector/internal/model"
	"github.com/nhle/prospector/internal/store"
)

// sessionLoadedMsg carries the saved profile and tone.
type sessionLoadedMsg struct {
	profile *model.Profile
	tone    string
	err     error
}

// toneSavedMsg is sent after the tone selection is persisted.
type toneSavedMsg struct {
	err error
}

// profileClearedMsg is sent after the saved profile is removed.
type profileClearedMsg struct {
	err error
}

// loadSession reads the profile and last tone from the store.
func (m Model) loadSession() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		if s == nil {
			return sessionLoadedMsg{}
		}
		ctx := context.Background()

		p, err := s.LoadProfile(ctx)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return sessionLoadedMsg{err: fmt.Errorf("loading profile: %w", err)}
		}

		tone, err := s.Get(ctx, store.ToneKey)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return sessionLoadedMsg{profile: p, err: fmt.Errorf("loading tone: %w", err)}
		}

		return sessionLoadedMsg{profile: p, tone: tone}
	}
}

// handleSessionLoaded applies the saved session, opening the profile
// form when no profile exists yet.
func (m Model) handleSessionLoaded(msg sessionLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.logger.Warn("restoring session", "err", msg.err)
		m.flash = msg.err.Error()
	}
	if msg.tone != "" {
		m.tone = msg.tone
		m.output.SetTone(msg.tone)
	}

	m.profile = msg.profile
	if m.profile == nil {
		m.overlay = OverlayProfile
		return m, m.profileView.Start(nil)
	}
	return m, nil
}

func (m Model) saveTone(tone string) tea.Cmd {
	s := m.store
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		return toneSavedMsg{err: s.Set(context.Background(), store.ToneKey, tone)}
	}
}

// clearProfile signs the user out by deleting the saved profile.
func (m Model) clearProfile() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		if s == nil {
			return profileClearedMsg{}
		}
		if err := s.ClearProfile(context.Background()); err != nil {
			return profileClearedMsg{err: fmt.Errorf("clearing profile: %w", err)}
		}
		return profileClearedMsg{}
	}
}
