package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nhle/prospector/internal/ai"
	"github.com/nhle/prospector/internal/model"
	"github.com/nhle/prospector/internal/store"
)

type approachesRequest struct {
	Goal             string `json:"goal"`
	RecipientCompany string `json:"recipientCompany"`
}

type caseStudiesRequest struct {
	Goal string `json:"goal"`
}

func (s *Server) handleApproaches(c *gin.Context) {
	var req approachesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := ai.ValidateGoal(req.Goal, "find approaches"); err != nil {
		s.writeError(c, err)
		return
	}

	result, err := s.gen.FindApproaches(c.Request.Context(), req.Goal, req.RecipientCompany)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleCaseStudies(c *gin.Context) {
	var req caseStudiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := ai.ValidateGoal(req.Goal, "search for case studies"); err != nil {
		s.writeError(c, err)
		return
	}

	studies, err := s.gen.SearchCaseStudies(c.Request.Context(), req.Goal)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, studies)
}

func (s *Server) handleEmail(c *gin.Context) {
	var draft model.DraftContext
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if !draft.IsRefinement() {
		if err := ai.ValidateGoal(draft.Goal, "generate an email"); err != nil {
			s.writeError(c, err)
			return
		}
	}

	result, err := s.gen.GenerateEmail(c.Request.Context(), draft)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleTones(c *gin.Context) {
	c.JSON(http.StatusOK, s.gen.Tones())
}

func (s *Server) handleGetProfile(c *gin.Context) {
	p, err := s.store.LoadProfile(c.Request.Context())
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no profile saved"})
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (s *Server) handlePutProfile(c *gin.Context) {
	var p model.Profile
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.store.SaveProfile(c.Request.Context(), p); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

func (s *Server) handleDeleteProfile(c *gin.Context) {
	if err := s.store.ClearProfile(c.Request.Context()); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// writeError maps err to a status code and a JSON error body.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case ai.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, ai.ErrMissingAPIKey):
		status = http.StatusInternalServerError
	case errors.Is(err, ai.ErrCommunication),
		errors.Is(err, ai.ErrFindApproaches),
		errors.Is(err, ai.ErrCaseStudySearch):
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", c.Request.URL.Path, "status", status, "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
