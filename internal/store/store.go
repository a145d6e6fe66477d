// Package store persists the small amount of state that survives a
// restart: the sender profile and a few UI preferences. Generated
// drafts are never written here.
package store

import (
	"context"
	"errors"

	"github.com/nhle/prospector/internal/model"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("not found")

// Fixed keys.
const (
	ProfileKey = "user"
	ToneKey    = "tone"
)

// Store is a string key-value store with typed helpers for the profile.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error

	// LoadProfile returns ErrNotFound when no profile is saved.
	LoadProfile(ctx context.Context) (*model.Profile, error)
	SaveProfile(ctx context.Context, p model.Profile) error
	ClearProfile(ctx context.Context) error

	Close() error
}
