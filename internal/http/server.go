// Package http provides HTTP server implementation and request handlers.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apikeyHTTP "github.com/allisson/jobtracker/internal/apikey/http"
	apikeyService "github.com/allisson/jobtracker/internal/apikey/service"
	apikeyUseCase "github.com/allisson/jobtracker/internal/apikey/usecase"
	applicationHTTP "github.com/allisson/jobtracker/internal/application/http"
	"github.com/allisson/jobtracker/internal/config"
	"github.com/allisson/jobtracker/internal/database"
	"github.com/allisson/jobtracker/internal/metrics"
	"github.com/allisson/jobtracker/internal/ratelimit"
	userHTTP "github.com/allisson/jobtracker/internal/user/http"
)

const dbPingTimeout = 2 * time.Second

// Server represents the API HTTP server.
type Server struct {
	db      *sql.DB
	server  *http.Server
	logger  *slog.Logger
	router  *gin.Engine
	version string
}

// NewServer creates a new HTTP server. SetupRouter must be called before Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetVersion sets the version reported by the root banner.
func (s *Server) SetVersion(version string) {
	s.version = version
}

// SetupRouter configures the Gin router with all routes and middleware.
//
// Public routes handle registration and key management. Everything under /api runs
// APIKeyAuthMiddleware, SignatureMiddleware and RateLimitMiddleware in that order.
func (s *Server) SetupRouter(
	cfg *config.Config,
	userHandler *userHTTP.UserHandler,
	apiKeyHandler *apikeyHTTP.APIKeyHandler,
	applicationHandler *applicationHTTP.ApplicationHandler,
	authenticator apikeyUseCase.Authenticator,
	signatureVerifier apikeyService.SignatureVerifier,
	limiter ratelimit.Limiter,
	metricsProvider *metrics.Provider,
	businessMetrics metrics.BusinessMetrics,
) {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/", s.rootHandler)
	router.GET("/healthz", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	router.POST("/users", userHandler.CreateHandler)

	apiKeys := router.Group("/api-keys")
	{
		apiKeys.POST("", apiKeyHandler.CreateHandler)
		apiKeys.GET("/:user_id", apiKeyHandler.ListByUserHandler)
		apiKeys.DELETE("/:key_id", apiKeyHandler.RevokeHandler)
	}

	api := router.Group("/api")
	api.Use(apikeyHTTP.APIKeyAuthMiddleware(authenticator, s.logger))
	api.Use(apikeyHTTP.SignatureMiddleware(signatureVerifier, businessMetrics, s.logger))
	api.Use(apikeyHTTP.RateLimitMiddleware(limiter, s.logger))
	{
		api.POST("/applications", applicationHandler.CreateHandler)
		api.GET("/applications", applicationHandler.ListHandler)
	}

	s.router = router
}

// Handler returns the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured, call SetupRouter first")
	}
	s.server.Handler = s.router

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

func (s *Server) rootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "jobtracker API",
		"version": s.version,
	})
}

// healthHandler always answers 200; a failing database only degrades the status.
func (s *Server) healthHandler(c *gin.Context) {
	if err := s.pingDB(c.Request.Context()); err != nil {
		c.JSON(http.StatusOK, gin.H{
			"status": "degraded",
			"db":     "error: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"db":     "ok",
	})
}

func (s *Server) readinessHandler(c *gin.Context) {
	if err := s.pingDB(c.Request.Context()); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"components": gin.H{
				"database": "unhealthy",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (s *Server) pingDB(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not configured")
	}
	return database.Ping(ctx, s.db, dbPingTimeout)
}
