package graph

import (
	"time"

	"github.com/MehrXloop/calsync/internal/calendar"
)

// Normalizer maps raw Graph events into calendar.EventRecord, converting
// every timestamp into the configured display timezone. The zone is
// fixed per process, never the host's local zone, so two machines
// looking at the same calendar render the same times.
type Normalizer struct {
	loc *time.Location
}

// NewNormalizer creates a normalizer for the given display timezone.
func NewNormalizer(loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Normalizer{loc: loc}
}

// Location returns the display timezone the normalizer converts into.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Normalize converts one raw event. Optional fields (occurrence id,
// online meeting, attendees) may be absent without error; a missing
// required field fails with MalformedRecordError.
func (n *Normalizer) Normalize(raw RawEvent) (calendar.EventRecord, error) {
	id := ""
	if raw.ID != nil {
		id = *raw.ID
	}
	if id == "" {
		return calendar.EventRecord{}, &MalformedRecordError{Field: "id"}
	}
	if raw.Subject == nil {
		return calendar.EventRecord{}, &MalformedRecordError{EventID: id, Field: "subject"}
	}
	if raw.Start == nil || raw.Start.DateTime == "" {
		return calendar.EventRecord{}, &MalformedRecordError{EventID: id, Field: "start"}
	}
	if raw.End == nil || raw.End.DateTime == "" {
		return calendar.EventRecord{}, &MalformedRecordError{EventID: id, Field: "end"}
	}

	start, err := parseGraphTime(raw.Start.DateTime)
	if err != nil {
		return calendar.EventRecord{}, &MalformedRecordError{EventID: id, Field: "start"}
	}
	end, err := parseGraphTime(raw.End.DateTime)
	if err != nil {
		return calendar.EventRecord{}, &MalformedRecordError{EventID: id, Field: "end"}
	}

	rec := calendar.EventRecord{
		ID:          id,
		Title:       *raw.Subject,
		Start:       start.In(n.loc),
		End:         end.In(n.loc),
		IsOrganizer: raw.IsOrganizer,
		BodyPreview: raw.BodyPreview,
	}

	// A recurring-series occurrence keeps its own id as the store key and
	// records it separately so callers can tell it apart from the series.
	if raw.Type == "occurrence" || raw.Type == "exception" {
		rec.OccurrenceID = id
	}

	if raw.Organizer != nil {
		rec.Organizer = calendar.Identity{
			Name:    raw.Organizer.EmailAddress.Name,
			Address: raw.Organizer.EmailAddress.Address,
		}
	}
	if raw.OnlineMeeting != nil {
		rec.OnlineMeetingURL = raw.OnlineMeeting.JoinURL
	}

	for _, a := range raw.Attendees {
		rec.Attendees = append(rec.Attendees, calendar.Attendee{
			Name:     a.EmailAddress.Name,
			Address:  a.EmailAddress.Address,
			Role:     attendeeRole(a.Type),
			Response: responseStatus(a.Status),
		})
	}

	return rec, nil
}

// NormalizeAll converts a fetched page set with the skip-and-continue
// policy: a malformed record is dropped and counted, the rest of the
// window still materializes.
func (n *Normalizer) NormalizeAll(raws []RawEvent) ([]calendar.EventRecord, int) {
	records := make([]calendar.EventRecord, 0, len(raws))
	skipped := 0

	for _, raw := range raws {
		rec, err := n.Normalize(raw)
		if err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped
}

// RecordFromDraft builds the store record for a submitted draft. Used by
// trust-request reconciliation, where the submitted fields, not the
// server's response, become the new local truth.
func (n *Normalizer) RecordFromDraft(id string, draft calendar.Draft, joinURL string) calendar.EventRecord {
	rec := calendar.EventRecord{
		ID:               id,
		Title:            draft.Subject,
		Start:            draft.Start.In(n.loc),
		End:              draft.End.In(n.loc),
		IsOrganizer:      true,
		OnlineMeetingURL: joinURL,
		BodyPreview:      draft.ComposedBody(),
	}

	for _, a := range draft.Attendees {
		att := a
		if att.Response == "" {
			att.Response = calendar.ResponseNone
		}
		if att.Role == "" {
			att.Role = calendar.RoleRequired
		}
		rec.Attendees = append(rec.Attendees, att)
	}

	return rec
}

func attendeeRole(kind string) calendar.AttendeeRole {
	if kind == "optional" {
		return calendar.RoleOptional
	}
	return calendar.RoleRequired
}

func responseStatus(status *rawStatus) calendar.ResponseStatus {
	if status == nil {
		return calendar.ResponseNone
	}
	switch status.Response {
	case "accepted", "organizer":
		return calendar.ResponseAccepted
	case "declined":
		return calendar.ResponseDeclined
	case "tentativelyAccepted", "tentative":
		return calendar.ResponseTentative
	default:
		return calendar.ResponseNone
	}
}
