// Package api exposes fee calculation and passage recording over HTTP.
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goodtune/tollfee/internal/holiday"
	"github.com/goodtune/tollfee/internal/ledger"
	"github.com/rs/zerolog"
)

// Config holds the API server configuration.
type Config struct {
	ListenAddr string
}

// Deps holds dependencies needed for API routes.
type Deps struct {
	Ledger   *ledger.Ledger
	Calendar *holiday.Calendar
	Auth     *AuthService
	Logger   zerolog.Logger
}

// Server represents the API HTTP server.
type Server struct {
	config   Config
	server   *http.Server
	router   *gin.Engine
	listener net.Listener // Optional pre-created listener (for systemd socket activation)
	logger   zerolog.Logger
}

// NewServer creates a new API server.
func NewServer(cfg Config, deps *Deps) *Server {
	if deps.Logger.GetLevel() == zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	deps.Logger = deps.Logger.With().Str("component", "api").Logger()

	// Create Gin router without default middleware (we use custom JSON logging)
	router := gin.New()
	router.Use(gin.Recovery())

	SetupRoutes(router, deps)

	return &Server{
		config: cfg,
		router: router,
		server: &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: deps.Logger,
	}
}

// SetListener sets a pre-created listener for systemd socket activation
func (s *Server) SetListener(ln net.Listener) {
	s.listener = ln
}

// Handler returns the router serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the API server.
func (s *Server) Start() error {
	go func() {
		var err error
		if s.listener != nil {
			s.logger.Info().Str("addr", s.listener.Addr().String()).Msg("Starting API server on systemd socket")
			err = s.server.Serve(s.listener)
		} else {
			s.logger.Info().Str("addr", s.config.ListenAddr).Msg("Starting API server")
			err = s.server.ListenAndServe()
		}
		if err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("API server failed")
		}
	}()
	return nil
}

// Stop gracefully stops the API server.
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info().Msg("Stopping API server")
	return s.server.Shutdown(ctx)
}
