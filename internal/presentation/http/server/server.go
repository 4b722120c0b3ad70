// Package server provides HTTP server initialization and management.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/moodayhq/mooday-go/internal/application/container"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
	"github.com/moodayhq/mooday-go/internal/presentation/http/routes"
	"github.com/moodayhq/mooday-go/pkg/config"
)

// Server wraps the HTTP server for the Mooday API with its configured
// timeouts and wired routes.
type Server struct {
	httpServer *http.Server
	logger     *logging.ChanneledLogger
}

// New builds the server around the container's routes. config.Initialize
// must have run first so the timeout values are resolved.
func New(port string, container *container.Container) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + port,
			Handler:      routes.SetupRoutes(container),
			ReadTimeout:  config.ServerReadTimeout,
			WriteTimeout: config.ServerWriteTimeout,
			IdleTimeout:  config.ServerIdleTimeout,
		},
		logger: container.Logger,
	}
}

// Start begins listening for HTTP requests and blocks until the server
// stops. A regular shutdown is not reported as an error.
func (s *Server) Start() error {
	s.logger.System().Info("HTTP server listening", "address", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server, letting in-flight requests
// finish within the context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Shutdown().Info("Draining HTTP server")
	return s.httpServer.Shutdown(ctx)
}
