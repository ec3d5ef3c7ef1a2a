package graph

import "fmt"

// AuthError indicates a missing, expired, or rejected credential. The
// caller should surface it as "must re-authenticate"; the client never
// retries with a stale token.
type AuthError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("graph %s: credential rejected (status %d)", e.Op, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("graph %s: not authenticated: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("graph %s: not authenticated", e.Op)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// TransportError indicates a network failure or a non-success status
// without a recoverable meaning. A window fetch that hits one is
// abandoned whole; partial pages are never surfaced.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("graph %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("graph %s: unexpected status %d", e.Op, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MalformedRecordError indicates a server event payload missing a
// structurally required field. Optional fields never trigger it.
type MalformedRecordError struct {
	EventID string
	Field   string
}

func (e *MalformedRecordError) Error() string {
	if e.EventID == "" {
		return fmt.Sprintf("malformed event record: missing %s", e.Field)
	}
	return fmt.Sprintf("malformed event record %s: missing %s", e.EventID, e.Field)
}

// MutationKind identifies which mutation a MutationError belongs to.
type MutationKind string

const (
	MutationCreate MutationKind = "create"
	MutationUpdate MutationKind = "update"
	MutationCancel MutationKind = "cancel"
)

// MutationError indicates a rejected create, update, or cancel request.
// Hint carries the leading bytes of the server's response body so the
// caller can show something more useful than a bare status code. The
// store is never touched when a mutation fails.
type MutationError struct {
	Kind       MutationKind
	StatusCode int
	Hint       string
}

func (e *MutationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("graph %s rejected (status %d): %s", e.Kind, e.StatusCode, e.Hint)
	}
	return fmt.Sprintf("graph %s rejected (status %d)", e.Kind, e.StatusCode)
}
