// Package server exposes the pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/ppiankov/piitier/internal/logger"
	"github.com/ppiankov/piitier/internal/model"
	"github.com/ppiankov/piitier/internal/pipeline"
	"go.uber.org/zap"
)

// Server serves the analyze, batch and catalog endpoints
type Server struct {
	config    model.ServerConfig
	workers   int
	processor *pipeline.Processor
	logger    *logger.Logger
	router    *mux.Router
	server    *http.Server
}

// New creates a server around an already built processor
func New(cfg *model.Config, processor *pipeline.Processor, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		config:    cfg.Server,
		workers:   cfg.Concurrency.Workers,
		processor: processor,
		logger:    log.WithComponent("server"),
		router:    mux.NewRouter(),
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           s.router,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeout) * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.loggingMiddleware)
	api.Use(s.bodyLimitMiddleware)
	api.HandleFunc("/entities", s.handleEntities).Methods(http.MethodGet)
	api.HandleFunc("/analyze", s.handleAnalyze).Methods(http.MethodPost)
	api.HandleFunc("/batch", s.handleBatch).Methods(http.MethodPost)
}

// Handler returns the routed handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start serves until Stop is called
func (s *Server) Start() error {
	s.logger.Info("Starting piitier server",
		zap.String("addr", s.server.Addr),
		zap.Bool("analyzer_ready", s.processor.Ready()),
		zap.Bool("llm_enabled", s.processor.LLMEnabled()),
	)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Stop gracefully drains in-flight requests
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping piitier server")
	return s.server.Shutdown(ctx)
}
