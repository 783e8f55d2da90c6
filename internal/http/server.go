// Package http provides the API server: waitlist routes, operational
// endpoints, and the frontend catch-all.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/lavoo/waitlist/internal/brevo"
	"github.com/lavoo/waitlist/internal/health"
	"github.com/lavoo/waitlist/internal/httputil"
	"github.com/lavoo/waitlist/internal/metrics"
	waitlistHTTP "github.com/lavoo/waitlist/internal/waitlist/http"
)

// metricsNamespace prefixes the HTTP metric names.
const metricsNamespace = "waitlist"

// HealthChecker aggregates dependency probes into a health report.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

// BrevoStatusClient is the slice of the Brevo client the status endpoint uses.
type BrevoStatusClient interface {
	CheckConnection(ctx context.Context) brevo.ConnectionStatus
	ListID() int64
}

// Config holds the API server settings.
type Config struct {
	Host             string
	Port             int
	CORSAllowOrigins string
	StaticDir        string
}

// Handlers groups the route dependencies mounted on the API server.
type Handlers struct {
	Waitlist *waitlistHTTP.WaitlistHandler
	Health   HealthChecker
	Brevo    BrevoStatusClient
}

// Server represents the API HTTP server.
type Server struct {
	server    *http.Server
	router    *gin.Engine
	logger    *slog.Logger
	health    HealthChecker
	brevo     BrevoStatusClient
	staticDir string
}

// NewServer creates the API server and registers all routes. meterProvider
// may be nil, in which case HTTP metrics are not recorded.
func NewServer(
	cfg Config,
	handlers Handlers,
	meterProvider metric.MeterProvider,
	logger *slog.Logger,
) *Server {
	s := &Server{
		logger:    logger,
		health:    handlers.Health,
		brevo:     handlers.Brevo,
		staticDir: cfg.StaticDir,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))
	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, metricsNamespace))
	}
	if corsMiddleware := createCORSMiddleware(cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	api := router.Group("/api")
	api.POST("/waitlist", handlers.Waitlist.SignupHandler)
	api.GET("/waitlist/count", handlers.Waitlist.CountHandler)
	api.GET("/health", s.healthHandler)
	api.GET("/brevo/status", s.brevoStatusHandler)

	// Everything outside /api belongs to the frontend.
	router.NoRoute(s.frontendHandler)

	s.router = router
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

// healthHandler reports aggregate dependency health.
// GET /api/health
// Always answers 200 so callers can read per-dependency details; the Status
// field carries healthy or degraded.
func (s *Server) healthHandler(c *gin.Context) {
	report := s.health.Check(c.Request.Context())
	c.JSON(http.StatusOK, report)
}

// brevoStatusResponse is the payload of the Brevo status endpoint.
type brevoStatusResponse struct {
	Timestamp time.Time              `json:"timestamp"`
	Brevo     brevo.ConnectionStatus `json:"brevo"`
	ListID    int64                  `json:"list_id"`
}

// brevoStatusHandler reports Brevo connectivity, for monitoring and debugging.
// GET /api/brevo/status
func (s *Server) brevoStatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, brevoStatusResponse{
		Timestamp: time.Now().UTC(),
		Brevo:     s.brevo.CheckConnection(c.Request.Context()),
		ListID:    s.brevo.ListID(),
	})
}

// frontendHandler serves the built frontend for any route the API does not
// own, falling back to index.html so client-side routing works on deep links.
func (s *Server) frontendHandler(c *gin.Context) {
	requestPath := c.Request.URL.Path

	// Unmatched /api routes are JSON 404s, never index.html.
	if requestPath == "/api" || strings.HasPrefix(requestPath, "/api/") {
		c.JSON(http.StatusNotFound, httputil.ErrorResponse{
			Error:   "not_found",
			Message: "API route not found",
		})
		return
	}

	// filepath.Clean on the rooted path keeps traversal inside staticDir.
	candidate := filepath.Join(s.staticDir, filepath.Clean("/"+requestPath))
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		c.File(candidate)
		return
	}

	index := filepath.Join(s.staticDir, "index.html")
	if _, err := os.Stat(index); err == nil {
		c.File(index)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Frontend not built. Run 'npm run build'"})
}
