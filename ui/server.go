package ui

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"coursedash/app"
	"coursedash/internal"
	"coursedash/internal/config"

	"github.com/gin-gonic/gin"
)

// Server represents the web server for the course dashboard
type Server struct {
	router     *gin.Engine
	dashboard  *app.DashboardService
	templates  *template.Template
	config     config.ServerConfig
	logger     *internal.Logger
	httpServer *http.Server
}

// NewServer creates a server with templates parsed and routes registered
func NewServer(dashboard *app.DashboardService, cfg config.ServerConfig, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		dashboard: dashboard,
		templates: templates,
		config:    cfg,
		logger:    logger.Named("Server"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupRoutes registers all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/catalog", s.handleCatalog)
		api.POST("/catalog/refresh", s.handleRefresh)
		api.GET("/departments", s.handleDepartments)
		api.GET("/dashboard", s.handleDashboard)
		api.GET("/courses", s.handleCourses)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves HTTP on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting course dashboard on http://%s", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
