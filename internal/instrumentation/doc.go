// Package instrumentation provides OpenTelemetry instrumentation for
// the calsync calendar synchronization engine.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, Graph API calls, window
//     fetches, and calendar mutations
//   - Distributed tracing for fetch and mutation flows
//   - Prometheus metrics export via /metrics endpoint on dedicated port
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Graph API Metrics:
//   - graph_api_operations_total: Counter of Graph operations by operation, status
//   - graph_api_operation_duration_seconds: Histogram of Graph operation durations
//   - graph_fetch_pages_total: Counter of calendar-view pages walked
//
// Sync Engine Metrics:
//   - window_fetches_total: Counter of window fetches by outcome (applied, stale, error)
//   - calendar_mutations_total: Counter of mutation attempts by kind and status
//   - store_events: Gauge of events currently materialized in the local store
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - Graph API calls (graph.<operation>)
//   - Calendar mutations (mutation.<kind>)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: calsync)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "calsync",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordGraphOperation(ctx, "fetch_window", "success", time.Since(start))
//	recorder.RecordWindowFetch(ctx, "applied")
package instrumentation
