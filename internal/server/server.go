// Package server provides the REST API over sessions and the query
// workflow, with lifecycle management.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/reeltalk/reeltalk/internal/llm"
	"github.com/reeltalk/reeltalk/internal/metrics"
	"github.com/reeltalk/reeltalk/internal/session"
)

// Runner processes one query through the workflow. Implemented by
// workflow.Workflow; stubbed in tests.
type Runner interface {
	Run(ctx context.Context, query string, history []llm.Message) (string, error)
}

// Server wraps the HTTP API with its dependencies.
type Server struct {
	addr    string
	engine  *gin.Engine
	store   *session.Store
	runner  Runner
	metrics *metrics.Collector
	logger  *slog.Logger
}

// New creates the API server and registers all routes.
func New(addr string, store *session.Store, runner Runner, collector *metrics.Collector, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(LoggingMiddleware(logger))

	s := &Server{
		addr:    addr,
		engine:  engine,
		store:   store,
		runner:  runner,
		metrics: collector,
		logger:  logger,
	}
	s.registerRoutes()
	return s
}

// Handler exposes the route tree, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.addr,
		Handler:     s.engine,
		ReadTimeout: 5 * time.Second,
		// Long write timeout: answers wait on LLM inference.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
