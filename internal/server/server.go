// Package server exposes the ranking engine over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abatilo/taskrank/internal/config"
	"github.com/abatilo/taskrank/internal/scoring"
)

// Server serves the analyze and suggest endpoints.
type Server struct {
	engine       *scoring.Engine
	logger       *zap.Logger
	cfg          config.ServerConfig
	suggestLimit int
	router       *gin.Engine
}

// New builds a Server and its routes. cfg supplies the listener settings and
// the default suggestion count.
func New(engine *scoring.Engine, cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		engine:       engine,
		logger:       logger,
		cfg:          cfg.Server,
		suggestLimit: cfg.Analysis.SuggestLimit,
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, for embedding or tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(recovery(s.logger), requestID(), accessLog(s.logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/tasks")
	api.Any("/analyze/", s.analyze)
	api.GET("/suggest/", s.suggestPlaceholder)
	api.POST("/suggest/", s.suggest)

	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, errorBody("Method not allowed"))
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody("Not found"))
	})
	return r
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
