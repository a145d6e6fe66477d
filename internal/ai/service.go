// Package ai is the generation service: it turns a draft context into
// prompts, calls the model, and parses the answers into typed results.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nhle/prospector/internal/model"
	"github.com/nhle/prospector/internal/parse"
	"github.com/nhle/prospector/internal/prompt"
)

// Service exposes the three generation operations. It holds no
// per-call state and is safe for concurrent use.
type Service struct {
	model     Model
	knowledge KnowledgeSource
	tones     []model.ToneOption
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithKnowledge sets the knowledge-base source consulted before each
// draft.
func WithKnowledge(k KnowledgeSource) Option {
	return func(s *Service) { s.knowledge = k }
}

// WithTones sets the tone table used to describe the selected tone.
func WithTones(tones []model.ToneOption) Option {
	return func(s *Service) {
		if len(tones) > 0 {
			s.tones = tones
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService returns a Service backed by m.
func NewService(m Model, opts ...Option) *Service {
	s := &Service{
		model:  m,
		tones:  model.DefaultTones(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tones returns the tone table in use.
func (s *Service) Tones() []model.ToneOption {
	out := make([]model.ToneOption, len(s.tones))
	copy(out, s.tones)
	return out
}

// FindApproaches asks the model for marketing angles and, when
// recipientCompany is set, recent company news. A blank goal returns an
// empty result without calling the model.
func (s *Service) FindApproaches(ctx context.Context, goal, recipientCompany string) (*model.ApproachSearchResult, error) {
	empty := &model.ApproachSearchResult{Marketing: []string{}, Company: []string{}}
	if strings.TrimSpace(goal) == "" {
		return empty, nil
	}

	resp, err := s.model.Generate(ctx, ModelRequest{
		Prompt: prompt.Approaches(goal, recipientCompany),
		Search: SearchWeb,
	})
	if err != nil {
		s.logger.Error("finding approaches", "error", err)
		return nil, wrap(ErrFindApproaches, err)
	}

	sections := parse.Sections(resp.Text, prompt.MarketingHeader, prompt.CompanyHeader)
	result := &model.ApproachSearchResult{
		Marketing: sections[prompt.MarketingHeader],
		Company:   sections[prompt.CompanyHeader],
	}
	if strings.TrimSpace(recipientCompany) == "" {
		result.Company = []string{}
	}

	s.logger.Debug("found approaches",
		"marketing", len(result.Marketing), "company", len(result.Company))
	return result, nil
}

// SearchCaseStudies searches the indexed case-study library. A blank
// goal returns an empty list without calling the model. An answer that
// is not a JSON array of case studies yields an empty list.
func (s *Service) SearchCaseStudies(ctx context.Context, goal string) ([]model.CaseStudy, error) {
	if strings.TrimSpace(goal) == "" {
		return []model.CaseStudy{}, nil
	}

	resp, err := s.model.Generate(ctx, ModelRequest{
		Prompt: prompt.CaseStudySearch(goal),
		Search: SearchDocuments,
	})
	if err != nil {
		s.logger.Error("searching case studies", "error", err)
		return nil, wrap(ErrCaseStudySearch, err)
	}

	studies, perr := parse.CaseStudies(resp.Text)
	if perr != nil {
		s.logger.Warn("case study answer was not a JSON array", "error", perr)
	}
	return studies, nil
}

// GenerateEmail drafts an email for c. The knowledge base is fetched
// before the prompt is built. Citations without a URI are dropped and
// untitled ones get a placeholder title.
func (s *Service) GenerateEmail(ctx context.Context, c model.DraftContext) (*model.GenerationResult, error) {
	if s.knowledge != nil {
		c.KnowledgeBase = s.knowledge.Fetch(ctx)
	}

	mode := prompt.SelectMode(c)
	resp, err := s.model.Generate(ctx, ModelRequest{
		Prompt:     prompt.BuildWithTones(c, s.tones),
		Attachment: c.Attachment,
		Search:     SearchWeb,
	})
	if err != nil {
		s.logger.Error("generating email", "mode", mode, "error", err)
		return nil, wrap(ErrCommunication, err)
	}

	result := &model.GenerationResult{
		Text:    resp.Text,
		Sources: sources(resp.Citations),
	}
	s.logger.Info("generated email", "mode", mode, "sources", len(result.Sources))
	return result, nil
}

// Refine rewrites previousDraft according to instructions, keeping the
// rest of c as context.
func (s *Service) Refine(ctx context.Context, c model.DraftContext, previousDraft, instructions string) (*model.GenerationResult, error) {
	c.PreviousDraft = previousDraft
	c.RefinementInstructions = instructions
	return s.GenerateEmail(ctx, c)
}

func sources(cits []Citation) []model.Source {
	out := make([]model.Source, 0, len(cits))
	for _, c := range cits {
		if c.URI == "" {
			continue
		}
		title := c.Title
		if title == "" {
			title = model.UntitledSource
		}
		out = append(out, model.Source{URI: c.URI, Title: title})
	}
	return out
}

// wrap joins the operation sentinel with the cause. Both stay visible
// to errors.Is.
func wrap(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}
