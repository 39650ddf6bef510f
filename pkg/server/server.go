// Package server wires the HTTP routes onto the ingestion pipeline.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/grafity"
	"github.com/soundprediction/grafity/pkg/config"
	"github.com/soundprediction/grafity/pkg/server/handlers"
)

// Server represents the HTTP server.
type Server struct {
	config  *config.Config
	router  *gin.Engine
	grafity grafity.Grafity
	logger  *slog.Logger
	server  *http.Server
}

// New creates a new server instance.
func New(cfg *config.Config, grafityClient grafity.Grafity, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		config:  cfg,
		grafity: grafityClient,
		logger:  logger,
	}
}

// Setup sets up the server routes and middleware.
func (s *Server) Setup() {
	gin.SetMode(s.config.Server.Mode)

	s.router = gin.New()
	s.router.Use(gin.Logger())
	s.router.Use(gin.Recovery())
	s.router.Use(corsMiddleware())

	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
}

// Router exposes the gin engine, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRoutes sets up all the routes.
func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler()
	episodesHandler := handlers.NewEpisodesHandler(s.grafity, s.logger)
	searchHandler := handlers.NewSearchHandler(s.grafity, s.logger)

	s.router.GET("/health", healthHandler.HealthCheck)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/episodes", episodesHandler.AddEpisodes)
		v1.POST("/episode", episodesHandler.AddEpisode)
		v1.POST("/search", searchHandler.Search)
		v1.POST("/clear", episodesHandler.Clear)
	}

	// Legacy top-level routes for compatibility with the Python server
	s.router.POST("/episodes", episodesHandler.AddEpisodes)
	s.router.POST("/episode", episodesHandler.AddEpisode)
	s.router.POST("/search", searchHandler.Search)
	s.router.POST("/clear", episodesHandler.Clear)
}

// Start starts the server.
func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop stops the server gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping server")
	return s.server.Shutdown(ctx)
}

// corsMiddleware adds CORS headers.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
