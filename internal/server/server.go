// Package server exposes the sheet generator over HTTP.
//
// The form fields and the download name match the original web form, so
// existing front ends can post to it unchanged:
//
//	POST /generate-pdf   multipart or urlencoded form → application/pdf attachment
//	POST /preview        same form → inline image/png
//	GET  /sizes          supported sheet sizes as JSON
//	GET  /healthz        liveness probe
//	GET  /               minimal HTML form
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/handbook/internal/config"
	"github.com/matzehuels/handbook/pkg/pipeline"
)

// readHeaderTimeout bounds slow clients before the body is read.
const readHeaderTimeout = 5 * time.Second

// Server serves handbook sheets over HTTP.
type Server struct {
	cfg    config.Config
	runner *pipeline.Runner
	logger *log.Logger
	http   *http.Server
}

// New creates a server for cfg. If logger is nil, log.Default() is used.
func New(cfg config.Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		runner: pipeline.NewRunner(logger),
		logger: logger,
	}
	s.http = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadTimeout:       cfg.Server.ReadTimeout(),
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout(),
		IdleTimeout:       cfg.Server.IdleTimeout(),
	}
	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.http.Addr }

// Serve accepts connections on ln until ctx is canceled, then shuts down
// gracefully, waiting up to the idle timeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.http.Serve(ln)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.IdleTimeout())
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errc
	return nil
}

// ListenAndServe listens on the configured address and serves until ctx
// is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("listening", "addr", ln.Addr().String())
	return s.Serve(ctx, ln)
}
