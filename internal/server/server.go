// Package server exposes the solver over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/operator-framework/subsetsum/internal/config"
	"github.com/operator-framework/subsetsum/internal/solver"
	"github.com/operator-framework/subsetsum/pkg/subsetsum"
	publicsolver "github.com/operator-framework/subsetsum/pkg/subsetsum/solver"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	addr   string
	router *gin.Engine
	logger *log.Logger
}

// New builds the router for cfg. Metrics are kept in a registry owned
// by the server.
func New(cfg config.Config, logger *log.Logger) (*Server, error) {
	registry := prometheus.NewRegistry()
	tracer := subsetsum.Tracers(newMetrics(registry), solver.LoggingTracer{Logger: logger})

	options := []publicsolver.Option{
		publicsolver.WithTracer(tracer),
		publicsolver.WithLogger(logger),
		publicsolver.WithDPMode(subsetsum.DPMode(cfg.DPMode)),
	}
	if cfg.Workers > 0 {
		options = append(options, publicsolver.WithWorkers(cfg.Workers))
	}
	s, err := publicsolver.New(options...)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	RegisterRoutes(router.Group("/v1"), &Handlers{
		solver:     s,
		logger:     logger,
		scale:      cfg.Scale,
		maxNumbers: cfg.Server.MaxNumbers,
		algorithm:  cfg.Algorithm,
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	return &Server{
		addr:   cfg.Server.Listen,
		router: router,
		logger: logger,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}
