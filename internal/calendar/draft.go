package calendar

import (
	"errors"
	"time"
)

// ErrEndNotAfterStart is returned by Draft.Validate when the draft's end
// does not come strictly after its start. Validation happens before any
// request is built, so an invalid draft never reaches the network.
var ErrEndNotAfterStart = errors.New("event end must be after start")

// ErrMissingTimes is returned when a draft lacks a start or end instant.
var ErrMissingTimes = errors.New("event start and end are required")

// Draft carries the fields of a create or update submission. An update
// always sends the full field set, so Draft doubles as the complete
// replacement state for an existing event.
type Draft struct {
	Subject        string
	Start          time.Time
	End            time.Time
	OnlineMeeting  bool
	MeetingAddress string // physical address, used when OnlineMeeting is false
	Body           string
	Attendees      []Attendee
}

// Validate checks the client-side preconditions. The server re-validates,
// but an invalid draft is rejected before dispatch.
func (d Draft) Validate() error {
	if d.Start.IsZero() || d.End.IsZero() {
		return ErrMissingTimes
	}
	if !d.End.After(d.Start) {
		return ErrEndNotAfterStart
	}
	return nil
}

// ComposedBody returns the body content to submit. On-premise meetings
// get the meeting address appended so attendees see it in the invitation.
func (d Draft) ComposedBody() string {
	if !d.OnlineMeeting && d.MeetingAddress != "" {
		return d.Body + "<br>Meeting Address: " + d.MeetingAddress
	}
	return d.Body
}
