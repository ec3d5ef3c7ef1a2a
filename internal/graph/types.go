package graph

// Wire types for the Microsoft Graph calendar endpoints. Structurally
// required fields (id, subject, start, end) use pointers so the
// normalizer can tell "absent" from "empty".

// RawEvent is one calendar entry as returned by Graph.
type RawEvent struct {
	ID             *string        `json:"id"`
	Subject        *string        `json:"subject"`
	Start          *rawDateTime   `json:"start"`
	End            *rawDateTime   `json:"end"`
	Type           string         `json:"type,omitempty"`
	SeriesMasterID string         `json:"seriesMasterId,omitempty"`
	IsOrganizer    bool           `json:"isOrganizer,omitempty"`
	Organizer      *rawRecipient  `json:"organizer,omitempty"`
	Attendees      []rawAttendee  `json:"attendees,omitempty"`
	OnlineMeeting  *OnlineMeeting `json:"onlineMeeting,omitempty"`
	BodyPreview    string         `json:"bodyPreview,omitempty"`
}

// OnlineMeeting carries the join link of a virtual meeting. Absent for
// plain events; that is a normal state, not an error.
type OnlineMeeting struct {
	JoinURL string `json:"joinUrl,omitempty"`
}

type rawDateTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

type rawEmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

type rawRecipient struct {
	EmailAddress rawEmailAddress `json:"emailAddress"`
}

type rawAttendee struct {
	EmailAddress rawEmailAddress `json:"emailAddress"`
	Type         string          `json:"type,omitempty"`
	Status       *rawStatus      `json:"status,omitempty"`
}

type rawStatus struct {
	Response string `json:"response,omitempty"`
}

// eventsPage is one page of a calendar-view response. A non-empty
// NextLink fully replaces the request URL for the following page.
type eventsPage struct {
	Value    []RawEvent `json:"value"`
	NextLink string     `json:"@odata.nextLink,omitempty"`
}

// eventPayload is the request body for event create and update.
type eventPayload struct {
	Subject               string        `json:"subject"`
	Body                  *itemBody     `json:"body,omitempty"`
	Start                 rawDateTime   `json:"start"`
	End                   rawDateTime   `json:"end"`
	Attendees             []rawAttendee `json:"attendees"`
	IsOnlineMeeting       bool          `json:"isOnlineMeeting"`
	OnlineMeetingProvider string        `json:"onlineMeetingProvider,omitempty"`
}

type itemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type cancelPayload struct {
	Comment string `json:"comment"`
}

// CreateResult is the subset of the create response the caller needs:
// the server-assigned identity and, for online meetings, the join link
// Graph provisioned.
type CreateResult struct {
	ID      string
	JoinURL string
}
