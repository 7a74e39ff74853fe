package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/danpilch/ifstat/pkg/debug"
	"github.com/danpilch/ifstat/pkg/exporter"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var pprofAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve Prometheus metrics and a JSON API, polling interfaces on every request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.runServe(ctx, pprofAddr)
		},
	}
	f := cmd.Flags()
	f.String("listen", ":9100", "address to listen on")
	f.String("metrics-path", "/metrics", "path serving Prometheus metrics")
	f.StringVar(&pprofAddr, "pprof", "", "also serve pprof on this address")
	return cmd
}

func (a *app) runServe(ctx context.Context, pprofAddr string) error {
	if pprofAddr != "" {
		stopPprof, err := debug.StartPprofServer(pprofAddr, a.logger)
		if err != nil {
			return &exitError{code: exitFatal, err: err}
		}
		defer stopPprof()
	}

	collector, err := a.newCollector()
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	cfg := exporter.ServerConfig{
		Address:     a.cfg.Serve.Address,
		MetricsPath: a.cfg.Serve.MetricsPath,
	}
	router, err := exporter.NewRouter(collector, cfg, a.logger)
	if err != nil {
		return &exitError{code: exitFatal, err: err}
	}

	a.logger.WithFields(logrus.Fields{
		"address":      cfg.Address,
		"metrics_path": cfg.MetricsPath,
	}).Info("Starting exporter")
	if err := exporter.StartServer(ctx, cfg, router); err != nil {
		return &exitError{code: exitFatal, err: err}
	}
	a.logger.Info("Exporter stopped")
	return nil
}
