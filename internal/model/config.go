package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const defaultModel = "gemini-2.5-flash"

// AIConfig holds settings for the generative model integration.
type AIConfig struct {
	// Model is the Gemini model identifier.
	Model string `mapstructure:"model" yaml:"model"`

	// FileSearchStore names the pre-indexed document store used for
	// case-study search (e.g. "fileSearchStores/case-studies").
	FileSearchStore string `mapstructure:"file_search_store" yaml:"file_search_store"`
}

// KnowledgeConfig locates the static knowledge-base collaborator.
type KnowledgeConfig struct {
	// BaseURL is the root URL that serves the index and documents.
	// Empty disables the knowledge base.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Index is the filename of the JSON index listing documents.
	Index string `mapstructure:"index" yaml:"index"`
}

// MailConfig holds IMAP settings for importing email threads.
// The password is kept in the system keyring, never in this file.
type MailConfig struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	TLS      bool   `mapstructure:"tls" yaml:"tls"`
	Mailbox  string `mapstructure:"mailbox" yaml:"mailbox"`
	Limit    int    `mapstructure:"limit" yaml:"limit"`
}

// Enabled reports whether enough is configured to attempt a connection.
func (m MailConfig) Enabled() bool {
	return m.Host != "" && m.Username != ""
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`

	// KnowledgeDir, when set, is served at /knowledge/.
	KnowledgeDir string `mapstructure:"knowledge_dir" yaml:"knowledge_dir"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`

	// File receives TUI logs, since stdout belongs to the terminal UI.
	File string `mapstructure:"file" yaml:"file"`
}

// DataConfig controls local persistence.
type DataConfig struct {
	DBPath string `mapstructure:"db_path" yaml:"db_path"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	AI        AIConfig        `mapstructure:"ai" yaml:"ai"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge" yaml:"knowledge"`
	Tones     []ToneOption    `mapstructure:"tones" yaml:"tones"`
	Mail      MailConfig      `mapstructure:"mail" yaml:"mail"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Data      DataConfig      `mapstructure:"data" yaml:"data"`
}

// ConfigDir returns ~/.config/prospector, or "." when the home
// directory cannot be determined.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "prospector")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/prospector/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	dir := ConfigDir()
	return &AppConfig{
		AI: AIConfig{
			Model: defaultModel,
		},
		Knowledge: KnowledgeConfig{
			Index: "index.json",
		},
		Tones: DefaultTones(),
		Mail: MailConfig{
			Port:    "993",
			TLS:     true,
			Mailbox: "INBOX",
			Limit:   20,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(dir, "prospector.log"),
		},
		Data: DataConfig{
			DBPath: filepath.Join(dir, "prospector.db"),
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
// PROSPECTOR_* environment variables override file values
// (e.g. PROSPECTOR_AI_MODEL for ai.model).
func LoadConfig(path string) (*AppConfig, error) {
	defaults := DefaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("prospector")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values and so
	// AutomaticEnv can see every key.
	v.SetDefault("ai.model", defaults.AI.Model)
	v.SetDefault("ai.file_search_store", "")
	v.SetDefault("knowledge.base_url", "")
	v.SetDefault("knowledge.index", defaults.Knowledge.Index)
	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", defaults.Mail.Port)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.tls", defaults.Mail.TLS)
	v.SetDefault("mail.mailbox", defaults.Mail.Mailbox)
	v.SetDefault("mail.limit", defaults.Mail.Limit)
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.knowledge_dir", "")
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("data.db_path", defaults.Data.DBPath)

	// A missing file is not an error: defaults and environment apply.
	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if len(cfg.Tones) == 0 {
		cfg.Tones = DefaultTones()
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = defaultModel
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("ai", cfg.AI)
	v.Set("knowledge", cfg.Knowledge)
	v.Set("tones", cfg.Tones)
	v.Set("mail", cfg.Mail)
	v.Set("server", cfg.Server)
	v.Set("log", cfg.Log)
	v.Set("data", cfg.Data)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
