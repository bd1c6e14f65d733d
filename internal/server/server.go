// Package server implements the mindmap HTTP API.
//
// Routes:
//
//	GET  /health              liveness and version
//	POST /v1/extract          recover a category map from model output
//	POST /v1/layout           lay out a category map
//	POST /v1/render           render a category map or a layout
//	POST /v1/generate         ask a model for a map, lay it out and render it
//	GET  /v1/maps             list saved maps
//	GET  /v1/maps/{central}   fetch a saved map
//
// Request bodies are JSON, validated against the schemas embedded from
// schemas/. Failures are answered with {"code", "message"} and a status
// derived from the error code.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mindmap/pkg/pipeline"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// shutdownTimeout bounds graceful shutdown in Run.
const shutdownTimeout = 10 * time.Second

// Server serves the HTTP API on top of a pipeline runner. The runner's LLM
// and Store are optional: without them /v1/generate and /v1/maps answer
// UNSUPPORTED.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	schemas schemas
	router  chi.Router
}

// New creates a server. It fails only if the embedded schemas do not compile.
func New(runner *pipeline.Runner, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.Default()
	}
	sc, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	s := &Server{runner: runner, logger: logger, schemas: sc}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/extract", s.handleExtract)
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
		r.Post("/generate", s.handleGenerate)
		r.Get("/maps", s.handleListMaps)
		r.Get("/maps/{central}", s.handleGetMap)
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
