// Package server wires and runs the application's HTTP transport, including
// startup, signal handling and graceful shutdown.
package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/opsbase/itvault/internal/config"
	"github.com/opsbase/itvault/internal/logger"
)

// Server is the lifecycle contract of the transport layer. RunServer blocks
// until shutdown is requested; Shutdown releases resources gracefully.
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}

type server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

// NewServer constructs the HTTP server around the given router.
func NewServer(router http.Handler, cfg config.Server, log *logger.Logger) (Server, error) {
	log.Info().Str("address", cfg.HTTPAddress).Msg("creating new server...")

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress,
		Handler:      router,
		ReadTimeout:  cfg.RequestTimeout,
		WriteTimeout: cfg.RequestTimeout,
	}

	return &server{
		httpServer: httpServer,
		logger:     log,
	}, nil
}

func (s *server) RunServer() {
	idleConnectionsClosed := make(chan struct{})
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	// listen for stop signals
	go func() {
		<-ctx.Done()
		s.Shutdown()
		close(idleConnectionsClosed)
	}()

	s.logger.Info().Msg("Launching HTTP server")
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Msgf("HTTP server ListenAndServe: %v", err)
		}
	}()

	<-idleConnectionsClosed
	s.logger.Info().Msg("server Shutdown gracefully")
}

func (s *server) Shutdown() {
	s.logger.Info().Msg("HTTP server Shutdown")
	if err := s.httpServer.Shutdown(context.Background()); err != nil {
		s.logger.Error().Msgf("HTTP server Shutdown: %v", err)
	}
}
