package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmhernandez2525/patent-intelligence/internal/config"
	"github.com/dmhernandez2525/patent-intelligence/internal/infrastructure/monitoring/logging"
)

// Server wraps http.Server with the configured timeouts and a clean
// shutdown path.
type Server struct {
	srv *http.Server
	log logging.Logger
}

// NewServer builds the server around the given handler.
func NewServer(cfg config.ServerConfig, handler http.Handler, log logging.Logger) *Server {
	if log == nil {
		log = logging.Default()
	}
	return &Server{
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		log: log.Named("http"),
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.srv.Addr }

// Start serves until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info("http server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("http server shutting down")
	return s.srv.Shutdown(ctx)
}
