package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/AnupriyaSaxena28/Verify-AI/internal/app"
	"github.com/AnupriyaSaxena28/Verify-AI/internal/common"
)

// Server manages the HTTP server and routes
type Server struct {
	app    *app.App
	router *http.ServeMux
	server *http.Server
}

// New creates a new HTTP server with the given app
func New(application *app.App) *Server {
	s := &Server{
		app: application,
	}

	s.router = s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", application.Config.Server.Host, application.Config.Server.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.withMiddleware(s.router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout(application.Config),
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// writeTimeout covers the longest URL pipeline: page fetch, search and model call
func writeTimeout(cfg *common.Config) time.Duration {
	return common.Duration(cfg.Verification.FetchTimeout, 15*time.Second) +
		common.Duration(cfg.Verification.SearchTimeout, 10*time.Second) +
		common.Duration(cfg.Verification.ModelTimeout, 60*time.Second) +
		15*time.Second
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := s.server.Addr

	s.app.Logger.Info().
		Str("address", addr).
		Msg("HTTP server starting")

	s.app.Logger.Info().
		Str("url", fmt.Sprintf("http://%s/functions/v1/verify-text", addr)).
		Msg("Verification API available")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.app.Logger.Info().Msg("Shutting down HTTP server...")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.app.Logger.Info().Msg("HTTP server stopped")
	return nil
}
