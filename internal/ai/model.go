package ai

import (
	"context"

	"github.com/nhle/prospector/internal/model"
)

// SearchMode selects the grounding tool attached to a model request.
type SearchMode int

const (
	// SearchWeb grounds the answer in a live web search.
	SearchWeb SearchMode = iota
	// SearchDocuments grounds the answer in the pre-indexed document store.
	SearchDocuments
)

func (m SearchMode) String() string {
	if m == SearchDocuments {
		return "documents"
	}
	return "web"
}

// Citation is a grounding reference attached to a model response.
// Either field may be empty.
type Citation struct {
	URI   string
	Title string
}

// ModelRequest is a single prompt sent to the model.
type ModelRequest struct {
	Prompt     string
	Attachment *model.Attachment
	Search     SearchMode
}

// ModelResponse is the text answer and any grounding citations.
type ModelResponse struct {
	Text      string
	Citations []Citation
}

// Model is a text-generation backend.
type Model interface {
	Generate(ctx context.Context, req ModelRequest) (*ModelResponse, error)
}

// KnowledgeSource supplies reference text for draft generation. It
// returns "" when nothing is available.
type KnowledgeSource interface {
	Fetch(ctx context.Context) string
}
