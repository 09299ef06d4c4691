// Package server exposes the simulator over a JSON REST API with SSE replay.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/me/cpusim/internal/config"
	"github.com/me/cpusim/internal/runner"
	"github.com/me/cpusim/internal/store"
)

// Server is the cpusim REST API server.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	config    config.ServerConfig
	defaults  config.SimulationConfig
	startTime time.Time
	store     store.Store
	runner    *runner.Runner
}

// Option configures optional Server dependencies.
type Option func(*Server)

// WithSimulationDefaults sets the values applied to scenarios that omit them.
func WithSimulationDefaults(cfg config.SimulationConfig) Option {
	return func(s *Server) {
		s.defaults = cfg
	}
}

// New creates a new Server with all routes registered.
func New(cfg config.ServerConfig, st store.Store, run *runner.Runner, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "server"),
		config:    cfg,
		defaults:  config.DefaultSimulationConfig(),
		startTime: time.Now(),
		store:     st,
		runner:    run,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := s.router

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.handleDiscovery)
		r.Get("/health", s.handleHealth)

		r.Route("/simulations", func(r chi.Router) {
			r.Get("/", s.handleListSimulations)
			r.Post("/", s.handleCreateSimulation)
			r.Post("/compare", s.handleCompare)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSimulation)
				r.Delete("/", s.handleDeleteSimulation)
			})
		})

		// SSE replay of a stored run
		r.Route("/sse", func(r chi.Router) {
			r.Get("/simulations/{id}", s.handleSSESimulation)
		})
	})
}
