// Package server exposes PDF to Markdown conversion over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tsawler/tabmark/config"
	"github.com/tsawler/tabmark/logging"
)

var logger = logging.GetLogger("server")

const shutdownTimeout = 10 * time.Second

// NewRouter configures the Gin engine with all routes and middleware.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()

	r.Use(Recovery())
	r.Use(RequestID())
	r.Use(Logger())

	r.GET("/healthz", h.Health)

	v1 := r.Group("/v1")
	v1.POST("/convert", h.Convert)

	return r
}

// Server is the conversion HTTP server.
type Server struct {
	srv *http.Server
}

// New creates a server for cfg that converts with the tabmark Extractor.
func New(cfg *config.Config) *Server {
	h := NewHandler(NewPDFConverter(cfg), cfg)
	return &Server{
		srv: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      NewRouter(h),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
