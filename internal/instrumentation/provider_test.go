package instrumentation

import (
	"context"
	"testing"
	"time"
)

func TestNewProvider_Prometheus(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	provider := newTestProvider(t, ctx)

	if !provider.Enabled() {
		t.Error("expected provider to be enabled")
	}
	if provider.Metrics() == nil {
		t.Error("expected metrics recorder")
	}
	if provider.PrometheusHandler() == nil {
		t.Error("expected prometheus handler when prometheus exporter is configured")
	}
	if provider.Tracer("test") == nil {
		t.Error("expected tracer")
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to be disabled")
	}
	if provider.Metrics() == nil {
		t.Error("disabled provider must still return a no-op recorder")
	}
	if provider.PrometheusHandler() != nil {
		t.Error("disabled provider must not expose a prometheus handler")
	}
	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("shutdown of disabled provider: %v", err)
	}
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	ctx := context.Background()

	_, err := NewProvider(ctx, Config{
		Enabled:         true,
		MetricsExporter: "statsd",
		TracingExporter: ExporterNone,
	})
	if err == nil {
		t.Fatal("expected error for unsupported metrics exporter")
	}
}
