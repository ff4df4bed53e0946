// Package api serves the HTTP endpoints used by the browser console: health,
// scene listing, command relay, access requests and colour utilities.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/saaga0h/lux-platform/internal/relay"
	"github.com/saaga0h/lux-platform/internal/scenes"
	"github.com/saaga0h/lux-platform/pkg/config"
	"github.com/saaga0h/lux-platform/pkg/health"
)

// Server is the Lux HTTP API
type Server struct {
	cfg        *config.Config
	store      relay.Store
	dispatcher Dispatcher
	rooms      RoomSource
	catalog    *scenes.Catalog
	checker    *health.Checker
	limiter    *RateLimiter
	logger     *slog.Logger
	now        func() time.Time

	srv *http.Server
}

// NewServer creates the API server. dispatcher and rooms may be nil, in which
// case commands are only relayed and /api/rooms reports no rooms.
func NewServer(cfg *config.Config, store relay.Store, dispatcher Dispatcher, rooms RoomSource, catalog *scenes.Catalog, checker *health.Checker, logger *slog.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		store:      store,
		dispatcher: dispatcher,
		rooms:      rooms,
		catalog:    catalog,
		checker:    checker,
		limiter:    NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow()),
		logger:     logger,
		now:        time.Now,
	}

	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.APIPort),
		Handler:      s.Handler(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler returns the routed handler wrapped with CORS
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/health", s.checker.HandlerFunc())
	mux.HandleFunc("/api/health/detailed", s.checker.DetailedHandlerFunc())
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scenes/circadian", s.handleCircadian)
	mux.HandleFunc("/api/scenes/", s.handleScene)
	mux.HandleFunc("/api/command", s.withRateLimit(s.handleCommand))
	mux.HandleFunc("/api/request", s.withRateLimit(s.handleRequest))
	mux.HandleFunc("/api/color", s.handleColor)
	mux.HandleFunc("/api/power", s.handlePower)
	mux.HandleFunc("/api/rooms", s.handleRooms)

	return s.withCORS(mux)
}

// Start begins serving on the configured API port. It returns once the
// listener fails or the server is shut down.
func (s *Server) Start() error {
	s.logger.Info("Starting API server", "port", s.cfg.APIPort)

	if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("API server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping API server")
	return s.srv.Shutdown(ctx)
}
