package model

import "time"

// UntitledSource is the title given to citations without one.
const UntitledSource = "Untitled Source"

// Source is a web citation returned alongside a generated draft.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// GenerationResult is the output of a single draft generation. Sources
// never contains an entry with an empty URI.
type GenerationResult struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// ApproachSearchResult holds the candidate angles for a draft. Either
// list may be empty; Company is empty when no recipient company is known.
type ApproachSearchResult struct {
	Marketing []string `json:"marketing"`
	Company   []string `json:"company"`
}

// IsEmpty reports whether no angles were found at all.
func (r ApproachSearchResult) IsEmpty() bool {
	return len(r.Marketing) == 0 && len(r.Company) == 0
}

// HistoryItem is one generated draft kept for the current session.
type HistoryItem struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Email     string    `json:"email"`
	Sources   []Source  `json:"sources"`
	Tone      string    `json:"tone"`
}
