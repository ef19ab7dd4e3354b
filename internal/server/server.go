// Package server exposes the dashboard pipeline over HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mosaic/internal/catalog"
	"mosaic/internal/logging"
	"mosaic/internal/pipeline"
	"mosaic/pkg/types"
)

// Config controls listener and middleware behavior.
type Config struct {
	Host  string
	Port  int
	Debug bool
}

// APIResponse is the uniform envelope for all JSON endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// DashboardRequest is the body of POST /api/dashboard.
type DashboardRequest struct {
	Patterns      []types.Pattern      `json:"patterns"`
	Persona       types.PersonaProfile `json:"persona"`
	MaxComponents int                  `json:"max_components"`
}

// DashboardResponse carries the generated component set.
type DashboardResponse struct {
	Components []catalog.Component `json:"components"`
	Reasoning  string              `json:"reasoning"`
}

// Server wraps the gin engine and the pipeline it serves.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	generator  *pipeline.Generator
	logger     logging.Logger
	startTime  time.Time
}

// New builds the HTTP server around a generator.
func New(generator *pipeline.Generator, cfg Config, logger logging.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	s := &Server{
		engine:    engine,
		generator: generator,
		logger:    logging.OrNop(logger),
		startTime: time.Now(),
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler: engine,
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.handleHealth)
	api.POST("/dashboard", s.handleDashboard)

	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Handler exposes the router for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

// Start blocks serving HTTP until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.logger.Info("dashboard server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Stop drains in-flight requests and shuts the listener down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down dashboard server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: gin.H{
			"status": "ok",
			"uptime": time.Since(s.startTime).Round(time.Second).String(),
		},
	})
}

func (s *Server) handleDashboard(c *gin.Context) {
	var req DashboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{Success: false, Error: fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	set, err := s.generator.Generate(c.Request.Context(), req.Patterns, req.Persona, req.MaxComponents)
	if err != nil {
		s.logger.Error("dashboard generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, APIResponse{Success: false, Error: "generation failed"})
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data: DashboardResponse{
			Components: set.Components,
			Reasoning:  set.Reasoning,
		},
	})
}
