package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrNoDocumentStore is returned for a document search when no file
// search store is configured.
var ErrNoDocumentStore = errors.New("no file search store configured (set ai.file_search_store)")

// GeminiConfig configures a GeminiModel.
type GeminiConfig struct {
	// APIKey returns the key on first use. It may return "" to signal
	// that no key is configured.
	APIKey func() (string, error)

	Model string

	// FileSearchStore is the store name searched by SearchDocuments.
	FileSearchStore string

	// BaseURL overrides the API endpoint. Used by tests.
	BaseURL string

	HTTPClient *http.Client
}

// GeminiModel implements Model on the Gemini API. The underlying
// client is created on the first call.
type GeminiModel struct {
	cfg GeminiConfig

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiModel returns a model that connects lazily using cfg.
func NewGeminiModel(cfg GeminiConfig) *GeminiModel {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &GeminiModel{cfg: cfg}
}

// Name returns the configured model identifier.
func (g *GeminiModel) Name() string {
	return g.cfg.Model
}

func (g *GeminiModel) getClient(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	var key string
	if g.cfg.APIKey != nil {
		k, err := g.cfg.APIKey()
		if err != nil {
			return nil, fmt.Errorf("loading API key: %w", err)
		}
		key = strings.TrimSpace(k)
	}
	if key == "" {
		return nil, ErrMissingAPIKey
	}

	cc := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.cfg.HTTPClient,
	}
	if g.cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}
	g.client = client
	return client, nil
}

// Generate sends req as a single user turn with the grounding tool its
// search mode selects.
func (g *GeminiModel) Generate(ctx context.Context, req ModelRequest) (*ModelResponse, error) {
	client, err := g.getClient(ctx)
	if err != nil {
		return nil, err
	}

	parts := []*genai.Part{genai.NewPartFromText(req.Prompt)}
	if req.Attachment != nil {
		data, err := base64.StdEncoding.DecodeString(req.Attachment.Data)
		if err != nil {
			return nil, fmt.Errorf("decoding attachment %s: %w", req.Attachment.Name, err)
		}
		parts = append(parts, genai.NewPartFromBytes(data, req.Attachment.MIMEType))
	}

	tool, err := g.tool(req.Search)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	config := &genai.GenerateContentConfig{Tools: []*genai.Tool{tool}}

	resp, err := client.Models.GenerateContent(ctx, g.cfg.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("calling Gemini API: %w", err)
	}

	return &ModelResponse{
		Text:      resp.Text(),
		Citations: citations(resp),
	}, nil
}

func (g *GeminiModel) tool(mode SearchMode) (*genai.Tool, error) {
	if mode == SearchDocuments {
		if g.cfg.FileSearchStore == "" {
			return nil, ErrNoDocumentStore
		}
		return &genai.Tool{FileSearch: &genai.FileSearch{
			FileSearchStoreNames: []string{g.cfg.FileSearchStore},
		}}, nil
	}
	return &genai.Tool{GoogleSearch: &genai.GoogleSearch{}}, nil
}

// citations extracts web grounding chunks from the first candidate.
// Any level of the metadata may be absent.
func citations(resp *genai.GenerateContentResponse) []Citation {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return nil
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return nil
	}

	var out []Citation
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		out = append(out, Citation{URI: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return out
}
