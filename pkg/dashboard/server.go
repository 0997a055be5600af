// Package dashboard serves the web dashboard API over HTTP.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dirscope/dirscope/pkg/dirscope/bookmarks"
	"github.com/dirscope/dirscope/pkg/dirscope/cache"
	"github.com/dirscope/dirscope/pkg/dirscope/config"
	"github.com/dirscope/dirscope/pkg/dirscope/logging"
)

// Server is the dashboard HTTP server.
type Server struct {
	cfg        config.DashboardConfig
	router     *gin.Engine
	handlers   *Handlers
	httpServer *http.Server
	log        *logging.Logger
}

// New creates a server around an already-populated cache.
func New(cfg config.DashboardConfig, c *cache.DirectoryCache, marks *bookmarks.Store) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		cfg:      cfg,
		router:   gin.New(),
		handlers: NewHandlers(c, marks, cfg.UseTrash, cfg.AutoRescan),
		log:      logging.Get("dashboard"),
	}

	s.router.Use(gin.Recovery())
	s.router.Use(s.requestLogger())
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handlers.HealthCheck)

	api := s.router.Group("/api")
	{
		api.GET("/folder", s.handlers.GetFolder)
		api.GET("/stats", s.handlers.GetStats)
		api.GET("/extensions", s.handlers.GetExtensions)
		api.GET("/largest", s.handlers.GetLargest)
		api.GET("/duplicates", s.handlers.GetDuplicates)
		api.GET("/search", s.handlers.Search)

		api.POST("/rescan", s.handlers.Rescan)
		api.POST("/delete", s.handlers.Delete)

		api.GET("/bookmarks", s.handlers.ListBookmarks)
		api.GET("/bookmarks/:index", s.handlers.GetBookmark)
		api.POST("/bookmarks", s.handlers.AddBookmark)
		api.DELETE("/bookmarks/:index", s.handlers.RemoveBookmark)
	}
}

// requestLogger logs each request through the component logger instead of
// gin's default stdout writer.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
}

// Run starts the server and blocks until the context is cancelled or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("dashboard listening", "addr", s.Addr())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// Router returns the gin router, for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
