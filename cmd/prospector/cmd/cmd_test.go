package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nhle/prospector/internal/ai"
	"github.com/nhle/prospector/internal/credential"
	"github.com/nhle/prospector/internal/model"
	"github.com/nhle/prospector/internal/store"
)

type stubModel struct {
	requests []ai.ModelRequest
	text     string
}

func (s *stubModel) Generate(_ context.Context, req ai.ModelRequest) (*ai.ModelResponse, error) {
	s.requests = append(s.requests, req)
	return &ai.ModelResponse{
		Text:      s.text,
		Citations: []ai.Citation{{URI: "https://news.example/initech", Title: "Initech expands"}},
	}, nil
}

// setupTest points config at a temp dir, silences logs and swaps in an
// in-memory keyring and a stub model.
func setupTest(t *testing.T, text string) *stubModel {
	t.Helper()
	dir := t.TempDir()

	origCfg, origLogger, origModel, origOpener := cfg, logger, newModel, credential.Opener
	t.Cleanup(func() {
		cfg, logger, newModel, credential.Opener = origCfg, origLogger, origModel, origOpener
	})

	cfg = model.DefaultAppConfig()
	cfg.Data.DBPath = filepath.Join(dir, "prospector.db")
	cfg.Log.File = filepath.Join(dir, "prospector.log")
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))

	ring := keyring.NewArrayKeyring(nil)
	credential.Opener = func() (keyring.Keyring, error) { return ring, nil }

	stub := &stubModel{text: text}
	newModel = func() ai.Model { return stub }
	return stub
}

// testCmd declares src's flags afresh on a new command with a
// background context and captured output, so tests never mutate the
// package-level commands.
func testCmd(src *cobra.Command, out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	src.Flags().VisitAll(func(f *pflag.Flag) {
		switch f.Value.Type() {
		case "bool":
			cmd.Flags().Bool(f.Name, f.DefValue == "true", f.Usage)
		case "stringArray":
			cmd.Flags().StringArray(f.Name, nil, f.Usage)
		default:
			cmd.Flags().String(f.Name, f.DefValue, f.Usage)
		}
	})
	cmd.SetContext(context.Background())
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	return cmd
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"", slog.LevelInfo, false},
		{"WARN", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		got, err := parseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestParseCaseStudies(t *testing.T) {
	got, err := parseCaseStudies([]string{"Acme=Cut churn 20%", " Globex ", "Acme=duplicate"})
	if err != nil {
		t.Fatalf("parseCaseStudies: %v", err)
	}
	want := []model.CaseStudy{
		{Title: "Acme", Summary: "Cut churn 20%"},
		{Title: "Globex"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("study %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if _, err := parseCaseStudies([]string{"=no title"}); err == nil {
		t.Error("untitled case study accepted")
	}
}

func TestGenerate_UsesSavedProfile(t *testing.T) {
	stub := setupTest(t, "Hi Sam,\n\nShort note.")

	s, err := store.NewSQLiteStore(cfg.Data.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveProfile(context.Background(), model.Profile{Name: "Alex", Company: "Acme"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	var out bytes.Buffer
	cmd := testCmd(generateCmd, &out)
	cmd.Flags().Set("goal", "Pitch analytics to Initech")
	cmd.Flags().Set("recipient-name", "Sam")
	cmd.Flags().Set("recipient-company", "Initech")

	if err := generateCmd.RunE(cmd, nil); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(stub.requests) != 1 {
		t.Fatalf("model called %d times", len(stub.requests))
	}
	prompt := stub.requests[0].Prompt
	if !strings.Contains(prompt, "Alex") || !strings.Contains(prompt, "Initech") {
		t.Errorf("prompt missing sender or recipient:\n%s", prompt)
	}
	if !strings.Contains(out.String(), "Hi Sam,") || !strings.Contains(out.String(), "https://news.example/initech") {
		t.Errorf("output = %q", out.String())
	}
}

func TestGenerate_RequiresGoal(t *testing.T) {
	stub := setupTest(t, "")

	var out bytes.Buffer
	cmd := testCmd(generateCmd, &out)
	err := generateCmd.RunE(cmd, nil)
	if !ai.IsValidation(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if len(stub.requests) != 0 {
		t.Error("model called without a goal")
	}
}

func TestApproaches_JSON(t *testing.T) {
	setupTest(t, "MARKETING_NEWS\n- Lead with ROI\n")

	var out bytes.Buffer
	cmd := testCmd(approachesCmd, &out)
	cmd.Flags().Set("goal", "Pitch analytics")
	cmd.Flags().Set("json", "true")

	if err := approachesCmd.RunE(cmd, nil); err != nil {
		t.Fatalf("approaches: %v", err)
	}
	if !strings.Contains(out.String(), `"Lead with ROI"`) {
		t.Errorf("output = %s", out.String())
	}
}

func TestKeySetAndDelete(t *testing.T) {
	setupTest(t, "")

	var out bytes.Buffer
	cmd := testCmd(keySetCmd, &out)
	cmd.SetIn(strings.NewReader("  sk-test \n"))
	if err := keySetCmd.RunE(cmd, nil); err != nil {
		t.Fatalf("key set: %v", err)
	}

	got, err := credential.Get(credential.APIKeyItem)
	if err != nil || got != "sk-test" {
		t.Fatalf("stored key = %q, %v", got, err)
	}

	cmd = testCmd(keyDeleteCmd, &out)
	if err := keyDeleteCmd.RunE(cmd, nil); err != nil {
		t.Fatalf("key delete: %v", err)
	}
	if _, err := credential.Get(credential.APIKeyItem); err == nil {
		t.Error("key still stored")
	}

	// Deleting again is reported, not an error.
	out.Reset()
	if err := keyDeleteCmd.RunE(testCmd(keyDeleteCmd, &out), nil); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	if !strings.Contains(out.String(), "No API key stored") {
		t.Errorf("output = %q", out.String())
	}
}

func TestKeySet_IMAP(t *testing.T) {
	setupTest(t, "")

	var out bytes.Buffer
	cmd := testCmd(keySetCmd, &out)
	cmd.Flags().Set("imap", "true")
	cmd.SetIn(strings.NewReader("hunter2\n"))
	if err := keySetCmd.RunE(cmd, nil); err != nil {
		t.Fatalf("key set --imap: %v", err)
	}
	if got, _ := credential.LoadIMAPPassword(); got != "hunter2" {
		t.Errorf("IMAP password = %q", got)
	}
}
