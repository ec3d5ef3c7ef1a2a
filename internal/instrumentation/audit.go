package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// MutationRecord captures one calendar mutation attempt for audit
// logging. Every create, update, and cancel submission gets a record,
// successful or not, so the audit trail answers "who changed what when".
//
// # Privacy Considerations
//
// The OrganizerEmail field contains PII. When logging, consider:
//   - Using OrganizerDomain() for metrics-compatible general logs
//   - Only logging the full email in audit-specific log streams
//   - Ensuring audit logs have appropriate access controls
type MutationRecord struct {
	// Mutation kind: create, update, or cancel
	Kind string

	// EventID is the target event. Empty for a create until the server
	// assigns one.
	EventID string

	// OrganizerEmail is the acting user's address (from OAuth).
	OrganizerEmail string

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// NewMutationRecord creates a record with timing started.
// Call Complete() when the mutation finishes.
func NewMutationRecord(kind string) *MutationRecord {
	return &MutationRecord{
		Kind:      kind,
		StartTime: time.Now(),
	}
}

// WithEvent sets the target event identity.
func (mr *MutationRecord) WithEvent(eventID string) *MutationRecord {
	mr.EventID = eventID
	return mr
}

// WithOrganizer sets the acting user's address.
func (mr *MutationRecord) WithOrganizer(email string) *MutationRecord {
	mr.OrganizerEmail = email
	return mr
}

// WithSpanContext extracts trace context from the current span.
func (mr *MutationRecord) WithSpanContext(ctx context.Context) *MutationRecord {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		mr.TraceID = span.SpanContext().TraceID().String()
		mr.SpanID = span.SpanContext().SpanID().String()
	}
	return mr
}

// Complete marks the mutation as finished and calculates duration.
func (mr *MutationRecord) Complete(success bool, err error) *MutationRecord {
	mr.Duration = time.Since(mr.StartTime)
	mr.Success = success
	if err != nil {
		mr.Error = err.Error()
	}
	return mr
}

// OrganizerDomain returns the domain portion of the organizer's email
// for lower-cardinality logging.
func (mr *MutationRecord) OrganizerDomain() string {
	return ExtractUserDomain(mr.OrganizerEmail)
}

// Status returns "success" or "error" based on the Success field.
func (mr *MutationRecord) Status() string {
	if mr.Success {
		return StatusSuccess
	}
	return StatusError
}

// LogAttrs returns slog attributes with cardinality-controlled values
// (organizer domain, not address). For full audit logging use
// LogAuditAttrs.
func (mr *MutationRecord) LogAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("kind", mr.Kind),
		slog.String("organizer_domain", mr.OrganizerDomain()),
		slog.Duration("duration", mr.Duration),
		slog.Bool("success", mr.Success),
	}

	if mr.EventID != "" {
		attrs = append(attrs, slog.String("event_id", mr.EventID))
	}
	if mr.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", mr.TraceID))
	}
	if mr.Error != "" {
		attrs = append(attrs, slog.String("error", mr.Error))
	}

	return attrs
}

// LogAuditAttrs returns slog attributes for full audit logging,
// including the organizer's complete email address.
//
// # Security Warning
//
// This method includes PII. Ensure audit logs are stored securely,
// not exposed to general dashboards, and retained per compliance
// requirements.
func (mr *MutationRecord) LogAuditAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("kind", mr.Kind),
		slog.String("organizer", mr.OrganizerEmail),
		slog.Duration("duration", mr.Duration),
		slog.Bool("success", mr.Success),
	}

	if mr.EventID != "" {
		attrs = append(attrs, slog.String("event_id", mr.EventID))
	}
	if mr.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", mr.TraceID))
	}
	if mr.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", mr.SpanID))
	}
	if mr.Error != "" {
		attrs = append(attrs, slog.String("error", mr.Error))
	}

	return attrs
}

// AuditLogger provides structured audit logging for calendar mutations.
type AuditLogger struct {
	logger     *slog.Logger
	includePII bool
	enabled    bool
}

// NewAuditLogger creates an AuditLogger. By default PII is not included;
// only the organizer's domain is logged.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: false,
		enabled:    true,
	}
}

// NewAuditLoggerWithConfig creates an AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:     logger,
		includePII: config.IncludePII,
		enabled:    config.Enabled,
	}
}

// SetIncludePII sets whether to include full email addresses in audit logs.
func (al *AuditLogger) SetIncludePII(include bool) {
	al.includePII = include
}

// SetEnabled sets whether audit logging is enabled.
func (al *AuditLogger) SetEnabled(enabled bool) {
	al.enabled = enabled
}

// LogMutation logs a completed mutation attempt. With IncludePII the
// full organizer address is logged; otherwise only the domain.
func (al *AuditLogger) LogMutation(mr *MutationRecord) {
	if al == nil || !al.enabled {
		return
	}

	var attrs []slog.Attr
	if al.includePII {
		attrs = mr.LogAuditAttrs()
	} else {
		attrs = mr.LogAttrs()
	}

	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	if mr.Success {
		al.logger.Info("mutation_applied", args...)
	} else {
		al.logger.Warn("mutation_failed", args...)
	}
}
