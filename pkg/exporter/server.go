package exporter

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danpilch/ifstat/pkg/output"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// ServerConfig configures the HTTP exporter.
type ServerConfig struct {
	Address     string
	MetricsPath string
}

// Handlers serves snapshots over HTTP.
type Handlers struct {
	Source Snapshotter
	Host   output.HostInfo
}

// GetInterfaces answers with a fresh snapshot, or 503 when interfaces
// cannot be enumerated.
func (h *Handlers) GetInterfaces(c *gin.Context) {
	snapshot, err := h.Source.Collect()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, output.NewDocument(h.Host, snapshot))
}

// Healthz reports liveness.
func (h *Handlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RegisterRoutes mounts the API and a metrics handler for reg on router.
func RegisterRoutes(router *gin.Engine, handlers *Handlers, reg *prometheus.Registry, metricsPath string) {
	router.GET(metricsPath, gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	router.GET("/api/interfaces", handlers.GetInterfaces)
	router.GET("/healthz", handlers.Healthz)
}

// NewRouter builds a gin engine exporting source.
func NewRouter(source Snapshotter, cfg ServerConfig, logger logrus.FieldLogger) (*gin.Engine, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(source, logger)); err != nil {
		return nil, fmt.Errorf("cannot register collector: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))
	RegisterRoutes(router, &Handlers{Source: source, Host: output.CurrentHost()}, reg, cfg.MetricsPath)
	return router, nil
}

// StartServer serves handler on cfg.Address until ctx is done.
func StartServer(ctx context.Context, cfg ServerConfig, handler http.Handler) error {
	srv := &http.Server{
		Addr:    cfg.Address,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("exporter server: %w", err)
	}
	return nil
}

func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		}).Debug("Request served")
	}
}
