// Package server exposes the generation service over HTTP for a
// browser front end.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nhle/prospector/internal/model"
	"github.com/nhle/prospector/internal/store"
)

// Generator is the subset of the generation service the API serves.
type Generator interface {
	FindApproaches(ctx context.Context, goal, recipientCompany string) (*model.ApproachSearchResult, error)
	SearchCaseStudies(ctx context.Context, goal string) ([]model.CaseStudy, error)
	GenerateEmail(ctx context.Context, c model.DraftContext) (*model.GenerationResult, error)
	Tones() []model.ToneOption
}

// Config controls optional routes.
type Config struct {
	// KnowledgeDir, when set, is served at /knowledge/.
	KnowledgeDir string
}

// Server holds the handlers' dependencies.
type Server struct {
	gen    Generator
	store  store.Store
	cfg    Config
	logger *slog.Logger
}

// New creates a server. s may be nil, which disables the profile routes.
func New(gen Generator, s store.Store, cfg Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{gen: gen, store: s, cfg: cfg, logger: logger}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/approaches", s.handleApproaches)
		api.POST("/case-studies", s.handleCaseStudies)
		api.POST("/emails", s.handleEmail)
		api.GET("/tones", s.handleTones)

		if s.store != nil {
			api.GET("/profile", s.handleGetProfile)
			api.PUT("/profile", s.handlePutProfile)
			api.DELETE("/profile", s.handleDeleteProfile)
		}
	}

	if s.cfg.KnowledgeDir != "" {
		r.Static("/knowledge", s.cfg.KnowledgeDir)
	}

	return r
}

// ListenAndServe serves the router on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
