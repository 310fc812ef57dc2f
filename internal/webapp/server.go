// Package webapp hosts the built dashboard: assets under the layout's public
// path and the entry document for every client-side route.
package webapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OrlandoBitencourt/parkinsights/internal/layout"
	"github.com/OrlandoBitencourt/parkinsights/internal/routes"
)

const shutdownTimeout = 5 * time.Second

// Server serves the dashboard build output.
type Server struct {
	engine *gin.Engine
	layout layout.Layout
	routes *routes.Table
	logger *slog.Logger
}

// New builds the HTTP handler tree for l and table.
func New(l layout.Layout, table *routes.Table, logger *slog.Logger) (*Server, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if l.PublicPath == "/" {
		return nil, fmt.Errorf("publicPath %q would shadow the dashboard routes", l.PublicPath)
	}
	if table == nil {
		table = routes.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine: engine,
		layout: l,
		routes: table,
		logger: logger,
	}

	engine.Use(s.requestLogger())
	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	s.engine.Static(strings.TrimSuffix(s.layout.PublicPath, "/"), s.layout.OutputDir)

	for _, r := range s.routes.Routes() {
		s.engine.GET(r.Path, s.serveIndex(r))
		s.engine.HEAD(r.Path, s.serveIndex(r))
	}

	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "path": c.Request.URL.Path})
	})
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard host listening",
			slog.String("addr", addr),
			slog.String("public_path", s.layout.PublicPath),
			slog.String("output_dir", s.layout.OutputDir),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("dashboard host shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().Format(time.RFC3339),
		"publicPath": s.layout.PublicPath,
		"devtools":   s.layout.Devtools,
	}

	if _, err := os.Stat(s.layout.IndexPath); err != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["error"] = "index document missing"
	}

	c.JSON(status, body)
}

func (s *Server) serveIndex(route routes.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := os.Stat(s.layout.IndexPath); err != nil {
			s.logger.Warn("index document unavailable",
				slog.String("path", s.layout.IndexPath),
				slog.Any("error", err),
			)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dashboard build not found"})
			return
		}

		c.Header("Cache-Control", "no-cache")
		c.Header("X-Dashboard-View", string(route.View))
		c.File(s.layout.IndexPath)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Debug("request served",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
		)
	}
}
