package engine

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MehrXloop/calsync/internal/calendar"
	"github.com/MehrXloop/calsync/internal/graph"
)

func draftFixture() calendar.Draft {
	return calendar.Draft{
		Subject:       "Planning",
		Start:         time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		End:           time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		OnlineMeeting: true,
		Body:          "Agenda",
		Attendees: []calendar.Attendee{
			{Name: "Omar", Address: "omar@example.com", Role: calendar.RoleRequired},
		},
	}
}

func TestSubmitCreate(t *testing.T) {
	e, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/me/events", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"new-1","onlineMeeting":{"joinUrl":"https://teams.example/j/1"}}`)
	}))

	rec, err := e.SubmitCreate(context.Background(), draftFixture())
	require.NoError(t, err)
	assert.Equal(t, "new-1", rec.ID)
	assert.Equal(t, "https://teams.example/j/1", rec.OnlineMeetingURL)
	assert.True(t, rec.IsOrganizer)

	// The created event materializes on the next window fetch, not now.
	_, ok := e.Get("new-1")
	assert.False(t, ok)
	assert.Empty(t, e.Snapshot())
}

func TestSubmitCreate_InvalidDraftNeverDispatches(t *testing.T) {
	var requests atomic.Int32

	e, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))

	bad := draftFixture()
	bad.End = bad.Start

	_, err := e.SubmitCreate(context.Background(), bad)
	require.ErrorIs(t, err, calendar.ErrEndNotAfterStart)
	assert.Zero(t, requests.Load())
	assert.Empty(t, e.Snapshot())
}

func TestSubmitCreate_RejectionLeavesStoreUntouched(t *testing.T) {
	e, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"mailbox quota"}}`)
	}))

	_, err := e.SubmitCreate(context.Background(), draftFixture())

	var mutErr *graph.MutationError
	require.ErrorAs(t, err, &mutErr)
	assert.Equal(t, graph.MutationCreate, mutErr.Kind)
	assert.Empty(t, e.Snapshot())
}

func TestSubmitUpdate_TrustRequest(t *testing.T) {
	e, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			// Deliberately answers with different content than submitted.
			fmt.Fprint(w, `{"id":"evt-1","subject":"Server says otherwise","start":{"dateTime":"2025-03-10T09:00:00"},"end":{"dateTime":"2025-03-10T10:00:00"}}`)
			return
		}
		fmt.Fprintf(w, `{"value":[%s]}`, eventJSON("evt-1", "Original", "2025-03-10"))
	}))

	// Materialize first so the previous record's join link can survive.
	prev := calendar.EventRecord{ID: "evt-1", Title: "Original", OnlineMeetingURL: "https://teams.example/j/keep",
		Start: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), End: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)}
	e.store.Upsert(prev)

	rec, err := e.SubmitUpdate(context.Background(), "evt-1", draftFixture())
	require.NoError(t, err)

	// The submitted draft, not the server response, is the new truth.
	assert.Equal(t, "Planning", rec.Title)
	assert.Equal(t, "https://teams.example/j/keep", rec.OnlineMeetingURL)

	stored, _ := e.Get("evt-1")
	assert.Equal(t, "Planning", stored.Title)
}

func TestSubmitUpdate_TrustResponse(t *testing.T) {
	e, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"evt-1","subject":"Server says otherwise","start":{"dateTime":"2025-03-10T11:00:00"},"end":{"dateTime":"2025-03-10T12:00:00"}}`)
	}), WithStrategy(TrustResponse))

	rec, err := e.SubmitUpdate(context.Background(), "evt-1", draftFixture())
	require.NoError(t, err)
	assert.Equal(t, "Server says otherwise", rec.Title)
	assert.Equal(t, 11, rec.Start.Hour())
}

func TestSubmitUpdate_TrustResponseFallsBackOnBadResponse(t *testing.T) {
	e, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"subject":"missing id"}`)
	}), WithStrategy(TrustResponse))

	rec, err := e.SubmitUpdate(context.Background(), "evt-1", draftFixture())
	require.NoError(t, err)
	assert.Equal(t, "Planning", rec.Title, "unusable response falls back to the submitted draft")
}

func TestSubmitUpdate_RejectionLeavesStoreUntouched(t *testing.T) {
	e, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	prev := calendar.EventRecord{ID: "evt-1", Title: "Original",
		Start: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), End: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)}
	e.store.Upsert(prev)

	_, err := e.SubmitUpdate(context.Background(), "evt-1", draftFixture())

	var mutErr *graph.MutationError
	require.ErrorAs(t, err, &mutErr)

	stored, _ := e.Get("evt-1")
	assert.Equal(t, "Original", stored.Title)
}

func TestSubmitCancel(t *testing.T) {
	e, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/me/events/evt-1/cancel", r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
	}))

	prev := calendar.EventRecord{ID: "evt-1",
		Start: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), End: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)}
	e.store.Upsert(prev)

	require.NoError(t, e.SubmitCancel(context.Background(), "evt-1", "room change"))

	_, ok := e.Get("evt-1")
	assert.False(t, ok)
}

func TestSubmitCancel_SecondCancelSurfacesServerRejection(t *testing.T) {
	var requests atomic.Int32

	e, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, "event already cancelled")
	}))

	e.store.Upsert(calendar.EventRecord{ID: "evt-1",
		Start: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), End: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)})

	require.NoError(t, e.SubmitCancel(context.Background(), "evt-1", ""))

	// The store is already clean; the server's rejection still surfaces.
	err := e.SubmitCancel(context.Background(), "evt-1", "")

	var mutErr *graph.MutationError
	require.ErrorAs(t, err, &mutErr)
	assert.Equal(t, graph.MutationCancel, mutErr.Kind)
	_, ok := e.Get("evt-1")
	assert.False(t, ok)
}
