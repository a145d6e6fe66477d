// Package session keeps the drafts generated during one run of the
// application. Nothing here is persisted.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/prospector/internal/model"
)

// DefaultMaxItems bounds the history when no limit is given.
const DefaultMaxItems = 50

// History is an ordered list of generated drafts, newest first. The
// oldest entries are dropped once the limit is reached.
type History struct {
	mu       sync.Mutex
	items    []model.HistoryItem
	maxItems int
	now      func() time.Time
}

// NewHistory creates a history holding at most maxItems drafts. A
// non-positive maxItems uses DefaultMaxItems.
func NewHistory(maxItems int) *History {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &History{
		items:    make([]model.HistoryItem, 0, 8),
		maxItems: maxItems,
		now:      time.Now,
	}
}

// Add records a generated draft and returns the stored item.
func (h *History) Add(result model.GenerationResult, tone string) model.HistoryItem {
	h.mu.Lock()
	defer h.mu.Unlock()

	sources := make([]model.Source, len(result.Sources))
	copy(sources, result.Sources)

	item := model.HistoryItem{
		ID:        uuid.NewString(),
		Timestamp: h.now(),
		Email:     result.Text,
		Sources:   sources,
		Tone:      tone,
	}

	h.items = append([]model.HistoryItem{item}, h.items...)
	if len(h.items) > h.maxItems {
		h.items = h.items[:h.maxItems]
	}
	return item
}

// Items returns a copy of the history, newest first.
func (h *History) Items() []model.HistoryItem {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]model.HistoryItem, len(h.items))
	copy(result, h.items)
	return result
}

// Latest returns the most recent draft.
func (h *History) Latest() (model.HistoryItem, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.items) == 0 {
		return model.HistoryItem{}, false
	}
	return h.items[0], true
}

// Reset clears the history.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = h.items[:0]
}

// Len returns the number of drafts in the history.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.items)
}
