// Package credential stores secrets in the operating system keyring.
package credential

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/99designs/keyring"
)

const serviceName = "prospector"

// Keyring item names.
const (
	APIKeyItem       = "gemini-api-key"
	IMAPPasswordItem = "imap-password"
)

// ErrNotFound is returned when a credential has not been stored.
var ErrNotFound = keyring.ErrKeyNotFound

// Opener opens the keyring. Tests replace it with an in-memory ring.
var Opener = openKeyring

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir(),
		FilePasswordFunc:         keyring.FixedStringPrompt("prospector-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

func fileDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.config/prospector/credentials"
	}
	return filepath.Join(home, ".config", "prospector", "credentials")
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := Opener()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := Opener()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:   key,
		Data:  []byte(value),
		Label: "prospector " + key,
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring. It
// returns ErrNotFound when nothing is stored under key.
func Delete(key string) error {
	ring, err := Opener()
	if err != nil {
		return err
	}

	if _, err := ring.Get(key); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	err = ring.Remove(key)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// LoadAPIKey returns the model API key from GEMINI_API_KEY, then
// API_KEY, then the keyring. It returns "" with no error when none is
// set anywhere.
func LoadAPIKey() (string, error) {
	for _, env := range []string{"GEMINI_API_KEY", "API_KEY"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v, nil
		}
	}

	key, err := Get(APIKeyItem)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(key), nil
}

// LoadIMAPPassword returns the stored IMAP password.
func LoadIMAPPassword() (string, error) {
	return Get(IMAPPasswordItem)
}
