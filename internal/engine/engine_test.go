package engine

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MehrXloop/calsync/internal/calendar"
	"github.com/MehrXloop/calsync/internal/graph"
	"github.com/MehrXloop/calsync/internal/msauth"
)

func newTestEngine(t *testing.T, handler http.Handler, opts ...Option) (*Engine, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := graph.NewClient(
		msauth.NewStaticProvider("test-token", time.Time{}),
		graph.WithBaseURL(srv.URL),
	)
	require.NoError(t, err)

	return New(client, graph.NewNormalizer(time.UTC), opts...), srv
}

func window(t *testing.T, year int, month time.Month) calendar.Window {
	t.Helper()

	w, err := calendar.NewWindow(
		time.Date(year, month, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0),
	)
	require.NoError(t, err)
	return w
}

func eventJSON(id, subject, day string) string {
	return fmt.Sprintf(`{"id":%q,"subject":%q,"start":{"dateTime":"%sT09:00:00"},"end":{"dateTime":"%sT10:00:00"}}`, id, subject, day, day)
}

func TestHandleNavigation(t *testing.T) {
	e, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"value":[%s,%s]}`,
			eventJSON("e1", "Standup", "2025-03-03"),
			eventJSON("e2", "Review", "2025-03-04"))
	}))

	res, err := e.HandleNavigation(context.Background(), window(t, 2025, time.March))
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Len(t, res.Events, 2)
	assert.Zero(t, res.Skipped)

	got, ok := e.Get("e1")
	require.True(t, ok)
	assert.Equal(t, "Standup", got.Title)
	assert.True(t, e.Window().Equal(window(t, 2025, time.March)))
}

func TestHandleNavigation_SkipsMalformedRecords(t *testing.T) {
	e, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"value":[%s,{"subject":"no id"},%s]}`,
			eventJSON("e1", "Standup", "2025-03-03"),
			eventJSON("e2", "Review", "2025-03-04"))
	}))

	res, err := e.HandleNavigation(context.Background(), window(t, 2025, time.March))
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Len(t, res.Events, 2)
	assert.Equal(t, 1, res.Skipped)
}

func TestHandleNavigation_ErrorLeavesStoreUntouched(t *testing.T) {
	var fail atomic.Bool

	e, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprintf(w, `{"value":[%s]}`, eventJSON("e1", "Standup", "2025-03-03"))
	}))

	_, err := e.HandleNavigation(context.Background(), window(t, 2025, time.March))
	require.NoError(t, err)

	fail.Store(true)
	_, err = e.HandleNavigation(context.Background(), window(t, 2025, time.April))

	var transportErr *graph.TransportError
	require.ErrorAs(t, err, &transportErr)

	// Last-good snapshot survives the failed fetch.
	_, ok := e.Get("e1")
	assert.True(t, ok)
	assert.True(t, e.Window().Equal(window(t, 2025, time.March)))
}

func TestHandleNavigation_LastWindowWins(t *testing.T) {
	marchStarted := make(chan struct{})
	releaseMarch := make(chan struct{})

	e, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("startDateTime") == "2025-03-01T00:00:00" {
			close(marchStarted)
			<-releaseMarch
			fmt.Fprintf(w, `{"value":[%s]}`, eventJSON("march-evt", "Old", "2025-03-03"))
			return
		}
		fmt.Fprintf(w, `{"value":[%s]}`, eventJSON("april-evt", "New", "2025-04-03"))
	}))

	marchDone := make(chan NavigationResult, 1)
	go func() {
		res, err := e.HandleNavigation(context.Background(), window(t, 2025, time.March))
		assert.NoError(t, err)
		marchDone <- res
	}()

	<-marchStarted

	// A newer navigation supersedes the in-flight March fetch.
	aprilRes, err := e.HandleNavigation(context.Background(), window(t, 2025, time.April))
	require.NoError(t, err)
	assert.True(t, aprilRes.Applied)

	close(releaseMarch)
	marchRes := <-marchDone
	assert.False(t, marchRes.Applied, "the superseded fetch must be discarded")

	// The store holds exactly April's result, never a mix.
	_, ok := e.Get("april-evt")
	assert.True(t, ok)
	_, ok = e.Get("march-evt")
	assert.False(t, ok)
	assert.True(t, e.Window().Equal(window(t, 2025, time.April)))
}

func TestNavigateMonth(t *testing.T) {
	var gotStart string

	e, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotStart = r.URL.Query().Get("startDateTime")
		fmt.Fprint(w, `{"value":[]}`)
	}))

	res, err := e.NavigateMonth(context.Background(), time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "2025-03-01T00:00:00", gotStart)
}

func TestSignOut(t *testing.T) {
	e, _ := newTestEngine(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"value":[%s]}`, eventJSON("e1", "Standup", "2025-03-03"))
	}))

	_, err := e.HandleNavigation(context.Background(), window(t, 2025, time.March))
	require.NoError(t, err)
	require.NotEmpty(t, e.Snapshot())

	e.SignOut()
	assert.Empty(t, e.Snapshot())
	assert.True(t, e.Window().IsZero())
}
