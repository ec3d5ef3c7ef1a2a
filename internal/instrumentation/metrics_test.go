package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, ctx context.Context) *Provider {
	t.Helper()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	return provider
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "GET", "/v1/events", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "/v1/navigate", 502, 50*time.Millisecond)
}

func TestMetrics_RecordGraphOperation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordGraphOperation(ctx, OpFetchWindow, StatusSuccess, 200*time.Millisecond)
	metrics.RecordGraphOperation(ctx, OpCreateEvent, StatusError, 500*time.Millisecond)
	metrics.RecordFetchPages(ctx, 3)
}

func TestMetrics_RecordWindowFetch(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordWindowFetch(ctx, FetchResultApplied)
	metrics.RecordWindowFetch(ctx, FetchResultStale)
	metrics.RecordWindowFetch(ctx, FetchResultError)
}

func TestMetrics_RecordMutation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newTestProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordMutation(ctx, MutationCreate, StatusSuccess)
	metrics.RecordMutation(ctx, MutationCancel, StatusError)
	metrics.RecordMutationWithDomain(ctx, MutationUpdate, StatusSuccess, "example.com")
	metrics.SetStoreEvents(ctx, 42)
}

func TestMetrics_NilReceiver(t *testing.T) {
	ctx := context.Background()

	var metrics *Metrics

	// Every recorder must be callable before instrumentation is wired.
	metrics.RecordHTTPRequest(ctx, "GET", "/", 200, time.Millisecond)
	metrics.RecordGraphOperation(ctx, OpFetchWindow, StatusSuccess, time.Millisecond)
	metrics.RecordFetchPages(ctx, 1)
	metrics.RecordWindowFetch(ctx, FetchResultApplied)
	metrics.RecordMutation(ctx, MutationCreate, StatusSuccess)
	metrics.RecordMutationWithDomain(ctx, MutationCreate, StatusSuccess, "example.com")
	metrics.SetStoreEvents(ctx, 1)
}

func TestMetrics_Disabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("failed to create disabled provider: %v", err)
	}

	if provider.Enabled() {
		t.Error("expected provider to report disabled")
	}

	// No-op recorder, should not panic
	provider.Metrics().RecordGraphOperation(ctx, OpFetchWindow, StatusSuccess, time.Millisecond)
}
