package graph

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/MehrXloop/calsync/internal/calendar"
	"github.com/MehrXloop/calsync/internal/logging"
)

// CreateEvent submits a new event. The draft must already be validated;
// the request is sent exactly once and never retried, since a duplicate
// create would produce a duplicate meeting.
func (c *Client) CreateEvent(ctx context.Context, draft calendar.Draft) (*CreateResult, error) {
	const op = "create_event"

	token, err := c.bearer(ctx, op)
	if err != nil {
		c.metrics.RecordMutation(ctx, string(MutationCreate), logging.StatusError)
		return nil, err
	}

	body, err := marshalBody(payloadFromDraft(draft))
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/me/events", body, token)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.metrics.RecordMutation(ctx, string(MutationCreate), logging.StatusError)
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RecordMutation(ctx, string(MutationCreate), logging.StatusError)
		return nil, c.mutationError(MutationCreate, resp)
	}

	var created RawEvent
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		c.metrics.RecordMutation(ctx, string(MutationCreate), logging.StatusError)
		return nil, &TransportError{Op: op, Err: err}
	}

	result := &CreateResult{}
	if created.ID != nil {
		result.ID = *created.ID
	}
	if created.OnlineMeeting != nil {
		result.JoinURL = created.OnlineMeeting.JoinURL
	}

	c.metrics.RecordMutation(ctx, string(MutationCreate), logging.StatusSuccess)
	c.logger.Info("Created event",
		logging.Operation(op),
		logging.EventID(result.ID))

	return result, nil
}

// UpdateEvent patches an existing event with the complete recomputed
// field set. Sending every field, not a diff, avoids partial-field
// drift when the local copy and the server disagree. The returned raw
// event is the server's rendition when it could be decoded, nil
// otherwise; callers on the trust-request path ignore it.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, draft calendar.Draft) (*RawEvent, error) {
	const op = "update_event"

	token, err := c.bearer(ctx, op)
	if err != nil {
		c.metrics.RecordMutation(ctx, string(MutationUpdate), logging.StatusError)
		return nil, err
	}

	body, err := marshalBody(payloadFromDraft(draft))
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPatch, c.eventURL(eventID), body, token)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.metrics.RecordMutation(ctx, string(MutationUpdate), logging.StatusError)
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RecordMutation(ctx, string(MutationUpdate), logging.StatusError)
		return nil, c.mutationError(MutationUpdate, resp)
	}

	c.metrics.RecordMutation(ctx, string(MutationUpdate), logging.StatusSuccess)
	c.logger.Info("Updated event",
		logging.Operation(op),
		logging.EventID(eventID))

	var updated RawEvent
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, nil
	}
	return &updated, nil
}

// CancelEvent cancels an event as its organizer, sending the optional
// note to attendees. Cancellation is terminal; there is no undo.
func (c *Client) CancelEvent(ctx context.Context, eventID, comment string) error {
	const op = "cancel_event"

	token, err := c.bearer(ctx, op)
	if err != nil {
		c.metrics.RecordMutation(ctx, string(MutationCancel), logging.StatusError)
		return err
	}

	body, err := marshalBody(cancelPayload{Comment: comment})
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.eventURL(eventID)+"/cancel", body, token)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		c.metrics.RecordMutation(ctx, string(MutationCancel), logging.StatusError)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RecordMutation(ctx, string(MutationCancel), logging.StatusError)
		return c.mutationError(MutationCancel, resp)
	}

	c.metrics.RecordMutation(ctx, string(MutationCancel), logging.StatusSuccess)
	c.logger.Info("Cancelled event",
		logging.Operation(op),
		logging.EventID(eventID))

	return nil
}

func (c *Client) eventURL(eventID string) string {
	return c.baseURL + "/me/events/" + url.PathEscape(eventID)
}

// mutationError turns a rejection response into the typed error,
// keeping a 401 distinguishable as an auth failure.
func (c *Client) mutationError(kind MutationKind, resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{Op: string(kind) + "_event", StatusCode: resp.StatusCode}
	}
	return &MutationError{
		Kind:       kind,
		StatusCode: resp.StatusCode,
		Hint:       readHint(resp.Body),
	}
}

// payloadFromDraft renders a draft as the Graph event body. Times are
// submitted in UTC regardless of the display timezone.
func payloadFromDraft(draft calendar.Draft) eventPayload {
	p := eventPayload{
		Subject: draft.Subject,
		Body: &itemBody{
			ContentType: "HTML",
			Content:     draft.ComposedBody(),
		},
		Start:           rawDateTime{DateTime: formatGraphTime(draft.Start), TimeZone: "UTC"},
		End:             rawDateTime{DateTime: formatGraphTime(draft.End), TimeZone: "UTC"},
		Attendees:       []rawAttendee{},
		IsOnlineMeeting: draft.OnlineMeeting,
	}

	if draft.OnlineMeeting {
		p.OnlineMeetingProvider = "teamsForBusiness"
	}

	for _, a := range draft.Attendees {
		kind := "required"
		if a.Role == calendar.RoleOptional {
			kind = "optional"
		}
		p.Attendees = append(p.Attendees, rawAttendee{
			EmailAddress: rawEmailAddress{
				Name:    a.Name,
				Address: strings.TrimSpace(a.Address),
			},
			Type: kind,
		})
	}

	return p
}
