package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/MehrXloop/calsync/internal/calendar"
	"github.com/MehrXloop/calsync/internal/graph"
	"github.com/MehrXloop/calsync/internal/instrumentation"
	"github.com/MehrXloop/calsync/internal/store"
)

// ReconciliationStrategy decides whose data becomes the local truth
// after a successful update.
type ReconciliationStrategy string

const (
	// TrustRequest upserts the record recomputed from the submitted
	// draft. This is the default: the update response shape does not
	// always match the normalized form, so the pipeline trusts its own
	// input.
	TrustRequest ReconciliationStrategy = "trust-request"

	// TrustResponse normalizes the server's response instead, falling
	// back to the request when the response cannot be normalized.
	TrustResponse ReconciliationStrategy = "trust-response"
)

// Valid reports whether s names a known strategy.
func (s ReconciliationStrategy) Valid() bool {
	return s == TrustRequest || s == TrustResponse
}

// Engine coordinates window fetches and mutations against the local
// event store.
type Engine struct {
	client   *graph.Client
	norm     *graph.Normalizer
	store    *store.Store
	strategy ReconciliationStrategy
	logger   *slog.Logger
	metrics  *instrumentation.Metrics
	audit    *instrumentation.AuditLogger

	// mu guards the generation counter and the requested window, and
	// makes the stale-check-then-replace step atomic.
	mu         sync.Mutex
	generation uint64
	requested  calendar.Window
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrategy selects the update reconciliation strategy.
func WithStrategy(s ReconciliationStrategy) Option {
	return func(e *Engine) {
		e.strategy = s
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics enables engine metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithAuditLogger enables mutation audit logging.
func WithAuditLogger(a *instrumentation.AuditLogger) Option {
	return func(e *Engine) {
		e.audit = a
	}
}

// New creates an engine with an empty store.
func New(client *graph.Client, norm *graph.Normalizer, opts ...Option) *Engine {
	e := &Engine{
		client:   client,
		norm:     norm,
		store:    store.New(),
		strategy: TrustRequest,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot returns the current store content, ordered for display.
func (e *Engine) Snapshot() []calendar.EventRecord {
	return e.store.Snapshot()
}

// Get returns one materialized event.
func (e *Engine) Get(id string) (calendar.EventRecord, bool) {
	return e.store.Get(id)
}

// Window returns the window the store currently materializes.
func (e *Engine) Window() calendar.Window {
	return e.store.Window()
}

// Location returns the display timezone.
func (e *Engine) Location() *time.Location {
	return e.norm.Location()
}

// IsAuthenticated reports whether the underlying client has a credential.
func (e *Engine) IsAuthenticated() bool {
	return e.client.IsAuthenticated()
}

// SignOut clears the store. The credential itself is removed by the
// auth layer; the engine only drops the materialized data.
func (e *Engine) SignOut() {
	e.store.Clear()
	e.logger.Info("Cleared event store on sign-out")
}
