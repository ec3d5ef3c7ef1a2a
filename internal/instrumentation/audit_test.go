package instrumentation

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestMutationRecord_Complete(t *testing.T) {
	mr := NewMutationRecord(MutationCreate).
		WithEvent("evt-1").
		WithOrganizer("jane@example.com")

	time.Sleep(time.Millisecond)
	mr.Complete(true, nil)

	if mr.Duration <= 0 {
		t.Error("expected positive duration")
	}
	if mr.Status() != StatusSuccess {
		t.Errorf("expected success status, got %q", mr.Status())
	}
	if mr.OrganizerDomain() != "example.com" {
		t.Errorf("expected example.com domain, got %q", mr.OrganizerDomain())
	}
}

func TestMutationRecord_CompleteWithError(t *testing.T) {
	mr := NewMutationRecord(MutationCancel).Complete(false, errors.New("rejected"))

	if mr.Status() != StatusError {
		t.Errorf("expected error status, got %q", mr.Status())
	}
	if mr.Error != "rejected" {
		t.Errorf("expected error message recorded, got %q", mr.Error)
	}
}

func TestAuditLogger_AnonymizedByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLogger(logger)
	mr := NewMutationRecord(MutationUpdate).
		WithEvent("evt-2").
		WithOrganizer("jane@example.com").
		Complete(true, nil)

	al.LogMutation(mr)

	out := buf.String()
	if strings.Contains(out, "jane@example.com") {
		t.Error("full email must not appear without IncludePII")
	}
	if !strings.Contains(out, "example.com") {
		t.Error("expected organizer domain in log output")
	}
	if !strings.Contains(out, "mutation_applied") {
		t.Error("expected mutation_applied message")
	}
}

func TestAuditLogger_IncludePII(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true, IncludePII: true})
	mr := NewMutationRecord(MutationCancel).
		WithOrganizer("jane@example.com").
		Complete(false, errors.New("409 conflict"))

	al.LogMutation(mr)

	out := buf.String()
	if !strings.Contains(out, "jane@example.com") {
		t.Error("expected full email with IncludePII enabled")
	}
	if !strings.Contains(out, "mutation_failed") {
		t.Error("expected mutation_failed message for failed mutation")
	}
}

func TestAuditLogger_Disabled(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	al := NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: false})
	al.LogMutation(NewMutationRecord(MutationCreate).Complete(true, nil))

	if buf.Len() != 0 {
		t.Errorf("expected no output when disabled, got %q", buf.String())
	}
}
