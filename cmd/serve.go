package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MehrXloop/calsync/internal/config"
	"github.com/MehrXloop/calsync/internal/engine"
	"github.com/MehrXloop/calsync/internal/graph"
	"github.com/MehrXloop/calsync/internal/instrumentation"
	"github.com/MehrXloop/calsync/internal/msauth"
	"github.com/MehrXloop/calsync/internal/server"
)

func newServeCmd() *cobra.Command {
	var (
		addr           string
		metricsAddr    string
		metricsEnabled bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the snapshot HTTP server",
		Long: `Start the HTTP server exposing the materialized calendar window and the
mutation endpoints.

Endpoints:
  GET   /v1/events              Current window snapshot
  POST  /v1/navigate            Fetch and materialize a new window
  POST  /v1/events              Create an event
  PATCH /v1/events/{id}         Replace an event's fields
  POST  /v1/events/{id}/cancel  Cancel an event
  /healthz, /readyz             Kubernetes probes

Prometheus metrics are served on a dedicated port.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr, metricsAddr, metricsEnabled)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Server listen address (default from config, :8080)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Metrics server address (default from config, :9090)")
	cmd.Flags().BoolVar(&metricsEnabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port")

	return cmd
}

func runServe(addr, metricsAddr string, metricsEnabled bool) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logger := newLogger()

	if addr == "" {
		addr = cfg.Addr
	}
	if metricsAddr == "" {
		metricsAddr = cfg.MetricsAddr
	}

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Error("Error during instrumentation shutdown", "error", err)
		}
	}()

	clientOpts := []graph.Option{
		graph.WithTimeout(cfg.HTTPTimeout),
		graph.WithLogger(logger),
		graph.WithMetrics(provider.Metrics()),
	}
	if cfg.GraphBaseURL != "" {
		clientOpts = append(clientOpts, graph.WithBaseURL(cfg.GraphBaseURL))
	}

	client, err := graph.NewClient(msauth.NewFileProvider(), clientOpts...)
	if err != nil {
		return fmt.Errorf("failed to create Graph client: %w", err)
	}

	eng := engine.New(client, graph.NewNormalizer(loc),
		engine.WithStrategy(engine.ReconciliationStrategy(cfg.Reconciliation)),
		engine.WithLogger(logger),
		engine.WithMetrics(provider.Metrics()),
		engine.WithAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging)),
	)

	// Materialize the current month on start when a credential is cached.
	if eng.IsAuthenticated() {
		go func() {
			if _, err := eng.NavigateMonth(shutdownCtx, time.Now().In(loc)); err != nil {
				logger.Warn("Initial window fetch failed", "error", err)
			}
		}()
	}

	serverContext := server.NewServerContext(shutdownCtx, eng)
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("Error during server context shutdown", "error", err)
		}
	}()

	// Start metrics server if enabled
	var metricsServer *server.MetricsServer
	if metricsEnabled && provider.Enabled() {
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    metricsAddr,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}

		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server stopped with error", "error", err)
			}
		}()
	}

	mux := http.NewServeMux()
	server.NewAPI(serverContext, logger, provider.Metrics()).Register(mux)

	healthChecker := server.NewHealthChecker(serverContext)
	healthChecker.RegisterHealthEndpoints(mux)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverDone <- err
		}
	}()

	logger.Info("Snapshot server started", "addr", addr)
	if metricsServer != nil {
		logger.Info("Metrics endpoint available", "addr", metricsServer.Addr()+"/metrics")
	}

	select {
	case <-shutdownCtx.Done():
		logger.Info("Shutdown signal received, stopping HTTP server")
		healthChecker.SetReady(false)

		timeoutCtx, cancelTimeout := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancelTimeout()

		if err := httpServer.Shutdown(timeoutCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(timeoutCtx); err != nil {
				logger.Error("Error during metrics server shutdown", "error", err)
			}
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}
