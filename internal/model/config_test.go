package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AI.Model != defaultModel {
		t.Errorf("AI.Model = %q, want %q", cfg.AI.Model, defaultModel)
	}
	if cfg.Knowledge.Index != "index.json" {
		t.Errorf("Knowledge.Index = %q, want index.json", cfg.Knowledge.Index)
	}
	if len(cfg.Tones) != len(DefaultTones()) {
		t.Errorf("len(Tones) = %d, want %d", len(cfg.Tones), len(DefaultTones()))
	}
}

func TestLoadConfig_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
ai:
  model: gemini-2.5-pro
  file_search_store: fileSearchStores/case-studies
knowledge:
  base_url: http://localhost:8080/knowledge
tones:
  - tone: Bold
    description: Confident and punchy.
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AI.Model != "gemini-2.5-pro" {
		t.Errorf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.AI.FileSearchStore != "fileSearchStores/case-studies" {
		t.Errorf("AI.FileSearchStore = %q", cfg.AI.FileSearchStore)
	}
	if cfg.Knowledge.BaseURL != "http://localhost:8080/knowledge" {
		t.Errorf("Knowledge.BaseURL = %q", cfg.Knowledge.BaseURL)
	}
	if cfg.Knowledge.Index != "index.json" {
		t.Errorf("Knowledge.Index = %q, want default", cfg.Knowledge.Index)
	}
	if len(cfg.Tones) != 1 || cfg.Tones[0].Tone != "Bold" {
		t.Errorf("Tones = %+v, want single Bold entry", cfg.Tones)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("PROSPECTOR_AI_MODEL", "gemini-env")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AI.Model != "gemini-env" {
		t.Errorf("AI.Model = %q, want gemini-env", cfg.AI.Model)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultAppConfig()
	cfg.AI.Model = "gemini-saved"
	cfg.Mail.Host = "imap.example.com"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.AI.Model != "gemini-saved" {
		t.Errorf("AI.Model = %q", got.AI.Model)
	}
	if got.Mail.Host != "imap.example.com" {
		t.Errorf("Mail.Host = %q", got.Mail.Host)
	}
}
