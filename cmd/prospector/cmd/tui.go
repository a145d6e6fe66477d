package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/prospector/internal/app"
	"github.com/nhle/prospector/internal/attachment"
	"github.com/nhle/prospector/internal/session"
	"github.com/nhle/prospector/internal/thread"
)

// runTUI starts the terminal UI. Logs go to a file since the terminal
// belongs to bubbletea.
func runTUI(cmd *cobra.Command) error {
	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()

	l := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	m := app.New(app.Options{
		Generator:      newService(l),
		Store:          s,
		History:        session.NewHistory(session.DefaultMaxItems),
		LoadThread:     thread.LoadFile,
		FetchThread:    threadFetcher(l),
		ReadAttachment: attachment.Read,
		Logger:         l,
	})

	l.Info("starting tui", "model", cfg.AI.Model)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
