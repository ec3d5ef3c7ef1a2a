package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrResult    = "result"
	attrKind      = "kind"
	attrDomain    = "domain"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics (snapshot server)
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Graph API metrics
	graphOperationsTotal   metric.Int64Counter
	graphOperationDuration metric.Float64Histogram
	fetchPagesTotal        metric.Int64Counter

	// Sync engine metrics
	windowFetchesTotal metric.Int64Counter
	mutationsTotal     metric.Int64Counter
	storeEvents        metric.Int64Gauge

	// Configuration
	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	// Graph API Metrics
	m.graphOperationsTotal, err = meter.Int64Counter(
		"graph_api_operations_total",
		metric.WithDescription("Total number of Microsoft Graph API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph_api_operations_total counter: %w", err)
	}

	m.graphOperationDuration, err = meter.Float64Histogram(
		"graph_api_operation_duration_seconds",
		metric.WithDescription("Microsoft Graph API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph_api_operation_duration_seconds histogram: %w", err)
	}

	m.fetchPagesTotal, err = meter.Int64Counter(
		"graph_fetch_pages_total",
		metric.WithDescription("Total number of calendar-view pages fetched"),
		metric.WithUnit("{page}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph_fetch_pages_total counter: %w", err)
	}

	// Sync Engine Metrics
	m.windowFetchesTotal, err = meter.Int64Counter(
		"window_fetches_total",
		metric.WithDescription("Total number of window fetch attempts by outcome"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create window_fetches_total counter: %w", err)
	}

	m.mutationsTotal, err = meter.Int64Counter(
		"calendar_mutations_total",
		metric.WithDescription("Total number of calendar mutation attempts"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar_mutations_total counter: %w", err)
	}

	m.storeEvents, err = meter.Int64Gauge(
		"store_events",
		metric.WithDescription("Number of events currently materialized in the local store"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create store_events gauge: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordGraphOperation records one Microsoft Graph API operation.
//
// Parameters:
//   - operation: Operation name (fetch_window, create_event, update_event, cancel_event)
//   - status: Result status ("success" or "error")
//   - duration: Time taken for the operation
func (m *Metrics) RecordGraphOperation(ctx context.Context, operation, status string, duration time.Duration) {
	if m == nil || m.graphOperationsTotal == nil || m.graphOperationDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.graphOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.graphOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordFetchPages adds the number of pages a window fetch walked.
func (m *Metrics) RecordFetchPages(ctx context.Context, pages int64) {
	if m == nil || m.fetchPagesTotal == nil {
		return // Instrumentation not initialized
	}

	m.fetchPagesTotal.Add(ctx, pages)
}

// RecordWindowFetch records the outcome of a window fetch as seen by the
// sync engine. Result should be one of: "applied", "stale", "error".
func (m *Metrics) RecordWindowFetch(ctx context.Context, result string) {
	if m == nil || m.windowFetchesTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrResult, result),
	}

	m.windowFetchesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordMutation records a create/update/cancel attempt.
//
// Parameters:
//   - kind: Mutation kind ("create", "update", "cancel")
//   - status: Result status ("success" or "error")
func (m *Metrics) RecordMutation(ctx context.Context, kind, status string) {
	if m == nil || m.mutationsTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrKind, kind),
		attribute.String(attrStatus, status),
	}

	m.mutationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// SetStoreEvents records the current size of the local event store.
func (m *Metrics) SetStoreEvents(ctx context.Context, count int64) {
	if m == nil || m.storeEvents == nil {
		return // Instrumentation not initialized
	}

	m.storeEvents.Record(ctx, count)
}

// RecordMutationWithDomain records a mutation attempt including the
// organizer's email domain. The domain label is only attached when
// detailedLabels is enabled; see cardinality.go.
func (m *Metrics) RecordMutationWithDomain(ctx context.Context, kind, status, domain string) {
	if m == nil || m.mutationsTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrKind, kind),
		attribute.String(attrStatus, status),
	}

	// Only add high-cardinality labels if explicitly enabled
	if m.detailedLabels && domain != "" {
		attrs = append(attrs, attribute.String(attrDomain, domain))
	}

	m.mutationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
