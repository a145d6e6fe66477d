package prompt

import "github.com/nhle/prospector/internal/model"

// Mode is the prompt variant chosen for a draft context.
type Mode int

const (
	// ModeCold writes a first-touch email with no prior conversation.
	ModeCold Mode = iota
	// ModeThread continues a pasted or imported email thread.
	ModeThread
	// ModeRefine rewrites a previous draft per the user's instructions.
	ModeRefine
)

func (m Mode) String() string {
	switch m {
	case ModeRefine:
		return "refine"
	case ModeThread:
		return "thread"
	default:
		return "cold"
	}
}

// SelectMode picks the variant for c. Refinement wins over a thread,
// and a thread wins over cold outreach.
func SelectMode(c model.DraftContext) Mode {
	switch {
	case c.IsRefinement():
		return ModeRefine
	case c.HasThread():
		return ModeThread
	default:
		return ModeCold
	}
}
