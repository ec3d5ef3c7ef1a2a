package calendar

import (
	"time"
)

// AttendeeRole describes whether attendance is expected or merely invited.
type AttendeeRole string

const (
	RoleRequired AttendeeRole = "required"
	RoleOptional AttendeeRole = "optional"
)

// ResponseStatus is an attendee's reply to the invitation.
type ResponseStatus string

const (
	ResponseAccepted  ResponseStatus = "accepted"
	ResponseDeclined  ResponseStatus = "declined"
	ResponseTentative ResponseStatus = "tentative"
	ResponseNone      ResponseStatus = "none"
)

// Identity is a display name plus email address pair.
type Identity struct {
	Name    string
	Address string
}

// Attendee is one invitee of an event. Order within an event's attendee
// list is preserved for display; addresses are not required to be unique.
type Attendee struct {
	Name     string
	Address  string
	Role     AttendeeRole
	Response ResponseStatus
}

// EventRecord is the normalized representation of one calendar entry.
// ID is the identity assigned by the remote calendar and is stable across
// fetches; it keys the local store.
type EventRecord struct {
	ID           string
	OccurrenceID string // set only for a single occurrence of a recurring series
	Title        string
	Start        time.Time
	End          time.Time
	IsOrganizer  bool
	Organizer    Identity
	Attendees    []Attendee
	// OnlineMeetingURL is empty for events without a virtual meeting.
	// Absence is a normal state, not an error.
	OnlineMeetingURL string
	BodyPreview      string
}

// Duration returns the event length. Records produced by the normalizer
// always have End after Start.
func (e EventRecord) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// IsOnlineMeeting reports whether the event carries a join link.
func (e EventRecord) IsOnlineMeeting() bool {
	return e.OnlineMeetingURL != ""
}
