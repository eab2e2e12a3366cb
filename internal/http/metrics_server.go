package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/jobtracker/internal/metrics"
)

// MetricsPath is where the Prometheus exporter is mounted on the metrics port.
const MetricsPath = "/metrics"

// MetricsServer serves jobtracker's Prometheus scrape endpoint on its own port so that
// it is never reachable through the public API router.
type MetricsServer struct {
	server    *http.Server
	logger    *slog.Logger
	namespace string
}

// NewMetricsServer mounts provider's exporter at MetricsPath. namespace is the
// METRICS_NAMESPACE the meters were created with and tags every log line.
func NewMetricsServer(
	host string,
	port int,
	namespace string,
	logger *slog.Logger,
	provider *metrics.Provider,
) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery())

	if provider != nil {
		router.GET(MetricsPath, gin.WrapH(provider.Handler()))
	}

	return &MetricsServer{
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      10 * time.Second,
		},
		logger:    logger.With(slog.String("component", "metrics"), slog.String("namespace", namespace)),
		namespace: namespace,
	}
}

// Handler returns the metrics router, mainly for tests.
func (s *MetricsServer) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until Shutdown is called.
func (s *MetricsServer) Start(ctx context.Context) error {
	s.logger.Info("serving metrics", slog.String("url", "http://"+s.server.Addr+MetricsPath))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("metrics server on %s: %w", s.server.Addr, err)
	}
	return nil
}

// Shutdown stops accepting scrapes and waits for in-flight ones.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("stopping metrics server")
	return s.server.Shutdown(ctx)
}
