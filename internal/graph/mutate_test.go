package graph

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MehrXloop/calsync/internal/calendar"
)

func testDraft() calendar.Draft {
	return calendar.Draft{
		Subject:       "Planning",
		Start:         time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		End:           time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		OnlineMeeting: true,
		Body:          "Agenda",
		Attendees: []calendar.Attendee{
			{Name: "Jane", Address: "jane@example.com", Role: calendar.RoleRequired},
			{Name: "Omar", Address: "omar@example.com", Role: calendar.RoleOptional},
		},
	}
}

func TestCreateEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/me/events", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "Planning", payload["subject"])
		assert.Equal(t, true, payload["isOnlineMeeting"])
		assert.Equal(t, "teamsForBusiness", payload["onlineMeetingProvider"])
		assert.Len(t, payload["attendees"], 2)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"new-1","subject":"Planning","onlineMeeting":{"joinUrl":"https://teams.example/j/1"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	result, err := c.CreateEvent(context.Background(), testDraft())
	require.NoError(t, err)
	assert.Equal(t, "new-1", result.ID)
	assert.Equal(t, "https://teams.example/j/1", result.JoinURL)
}

func TestCreateEvent_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"end before start"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.CreateEvent(context.Background(), testDraft())

	var mutErr *MutationError
	require.ErrorAs(t, err, &mutErr)
	assert.Equal(t, MutationCreate, mutErr.Kind)
	assert.Equal(t, http.StatusBadRequest, mutErr.StatusCode)
	assert.Contains(t, mutErr.Hint, "end before start")
}

func TestUpdateEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/me/events/evt-1", r.URL.Path)

		_, _ = w.Write([]byte(`{"id":"evt-1","subject":"Planning (moved)"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	updated, err := c.UpdateEvent(context.Background(), "evt-1", testDraft())
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Planning (moved)", *updated.Subject)
}

func TestUpdateEvent_UndecodableResponseStillSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	updated, err := c.UpdateEvent(context.Background(), "evt-1", testDraft())
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestUpdateEvent_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.UpdateEvent(context.Background(), "evt-1", testDraft())

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}

func TestCancelEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/me/events/evt-1/cancel", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"comment":"moved to next week"}`, string(body))

		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	err := c.CancelEvent(context.Background(), "evt-1", "moved to next week")
	require.NoError(t, err)
}

func TestCancelEvent_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("only the organizer can cancel"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)

	err := c.CancelEvent(context.Background(), "evt-1", "")

	var mutErr *MutationError
	require.ErrorAs(t, err, &mutErr)
	assert.Equal(t, MutationCancel, mutErr.Kind)
	assert.Equal(t, http.StatusForbidden, mutErr.StatusCode)
	assert.Contains(t, mutErr.Hint, "organizer")
}

func TestPayloadFromDraft_MeetingAddress(t *testing.T) {
	draft := calendar.Draft{
		Subject:        "Onsite",
		Start:          time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		End:            time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		MeetingAddress: "12 Harbor Road",
		Body:           "Bring badges",
	}

	p := payloadFromDraft(draft)
	assert.Equal(t, "Bring badges<br>Meeting Address: 12 Harbor Road", p.Body.Content)
	assert.False(t, p.IsOnlineMeeting)
	assert.Empty(t, p.OnlineMeetingProvider)
	assert.Equal(t, "2025-03-10T09:00:00", p.Start.DateTime)
	assert.Equal(t, "UTC", p.Start.TimeZone)
	assert.NotNil(t, p.Attendees, "attendees must encode as an empty array, not null")
}
