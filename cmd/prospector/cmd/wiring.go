package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nhle/prospector/internal/ai"
	"github.com/nhle/prospector/internal/credential"
	"github.com/nhle/prospector/internal/knowledge"
	"github.com/nhle/prospector/internal/store"
	"github.com/nhle/prospector/internal/thread"
)

var errNoIMAPPassword = errors.New("no IMAP password stored; run `prospector key set --imap`")

// newModel builds the generative model. Tests replace it.
var newModel = func() ai.Model {
	return ai.NewGeminiModel(ai.GeminiConfig{
		APIKey:          credential.LoadAPIKey,
		Model:           cfg.AI.Model,
		FileSearchStore: cfg.AI.FileSearchStore,
	})
}

// newService wires the generation service from the loaded config.
func newService(l *slog.Logger) *ai.Service {
	opts := []ai.Option{
		ai.WithTones(cfg.Tones),
		ai.WithLogger(l),
	}
	if cfg.Knowledge.BaseURL != "" {
		client := &http.Client{Timeout: 15 * time.Second}
		opts = append(opts, ai.WithKnowledge(
			knowledge.NewFetcher(cfg.Knowledge.BaseURL, cfg.Knowledge.Index, client, l),
		))
	}
	return ai.NewService(newModel(), opts...)
}

func openStore() (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(cfg.Data.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return s, nil
}

// threadFetcher returns a function importing a thread from the configured
// mailbox, or nil when no mailbox is configured.
func threadFetcher(l *slog.Logger) func(ctx context.Context, correspondent string) (string, error) {
	if !cfg.Mail.Enabled() {
		return nil
	}
	mc := cfg.Mail

	return func(ctx context.Context, correspondent string) (string, error) {
		password, err := credential.LoadIMAPPassword()
		if errors.Is(err, credential.ErrNotFound) || (err == nil && password == "") {
			return "", errNoIMAPPassword
		}
		if err != nil {
			return "", err
		}

		client := thread.NewIMAPClient(thread.IMAPConfig{
			Host:     mc.Host,
			Port:     mc.Port,
			Username: mc.Username,
			Password: password,
			TLS:      mc.TLS,
			Mailbox:  mc.Mailbox,
		})
		msgs, err := client.FetchThread(ctx, correspondent, mc.Limit)
		if err != nil {
			return "", err
		}
		l.Info("imported thread", "correspondent", correspondent, "messages", len(msgs))
		return thread.Render(msgs), nil
	}
}
