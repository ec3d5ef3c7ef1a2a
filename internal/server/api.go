package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/MehrXloop/calsync/internal/calendar"
	"github.com/MehrXloop/calsync/internal/graph"
	"github.com/MehrXloop/calsync/internal/instrumentation"
	"github.com/MehrXloop/calsync/internal/logging"
)

// API serves the store snapshot and dispatches navigation and mutation
// intents into the engine.
type API struct {
	sc      *ServerContext
	logger  *slog.Logger
	metrics *instrumentation.Metrics
}

// NewAPI creates the API around a server context.
func NewAPI(sc *ServerContext, logger *slog.Logger, metrics *instrumentation.Metrics) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{sc: sc, logger: logger, metrics: metrics}
}

// Register mounts all API routes on the mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.Handle("GET /v1/events", a.instrument("/v1/events", a.handleSnapshot))
	mux.Handle("POST /v1/navigate", a.instrument("/v1/navigate", a.handleNavigate))
	mux.Handle("POST /v1/events", a.instrument("/v1/events", a.handleCreate))
	mux.Handle("PATCH /v1/events/{id}", a.instrument("/v1/events/{id}", a.handleUpdate))
	mux.Handle("POST /v1/events/{id}/cancel", a.instrument("/v1/events/{id}/cancel", a.handleCancel))
}

// statusRecorder captures the response code for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (a *API) instrument(path string, handler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		handler(rec, r)

		a.metrics.RecordHTTPRequest(r.Context(), r.Method, path, rec.status, time.Since(start))
	})
}

// Wire types for the API.

type windowJSON struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type identityJSON struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

type attendeeJSON struct {
	Name     string `json:"name,omitempty"`
	Address  string `json:"address"`
	Role     string `json:"role"`
	Response string `json:"response"`
}

type eventJSON struct {
	ID               string         `json:"id"`
	OccurrenceID     string         `json:"occurrence_id,omitempty"`
	Title            string         `json:"title"`
	Start            time.Time      `json:"start"`
	End              time.Time      `json:"end"`
	IsOrganizer      bool           `json:"is_organizer"`
	Organizer        identityJSON   `json:"organizer"`
	Attendees        []attendeeJSON `json:"attendees,omitempty"`
	OnlineMeetingURL string         `json:"online_meeting_url,omitempty"`
	Body             string         `json:"body,omitempty"`
	ResponseSummary  string         `json:"response_summary,omitempty"`
}

type snapshotJSON struct {
	Window windowJSON  `json:"window"`
	Events []eventJSON `json:"events"`
}

type navigateRequest struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type navigateResponse struct {
	Applied bool        `json:"applied"`
	Skipped int         `json:"skipped,omitempty"`
	Events  []eventJSON `json:"events"`
}

type draftRequest struct {
	Subject        string         `json:"subject"`
	Start          time.Time      `json:"start"`
	End            time.Time      `json:"end"`
	OnlineMeeting  bool           `json:"online_meeting"`
	MeetingAddress string         `json:"meeting_address,omitempty"`
	Body           string         `json:"body,omitempty"`
	Attendees      []attendeeJSON `json:"attendees,omitempty"`
}

type cancelRequest struct {
	Comment string `json:"comment,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

func toEventJSON(rec calendar.EventRecord) eventJSON {
	out := eventJSON{
		ID:               rec.ID,
		OccurrenceID:     rec.OccurrenceID,
		Title:            rec.Title,
		Start:            rec.Start,
		End:              rec.End,
		IsOrganizer:      rec.IsOrganizer,
		Organizer:        identityJSON{Name: rec.Organizer.Name, Address: rec.Organizer.Address},
		OnlineMeetingURL: rec.OnlineMeetingURL,
		Body:             calendar.DisplayBody(rec.BodyPreview),
	}
	if len(rec.Attendees) > 0 {
		out.ResponseSummary = calendar.ResponseSummary(rec.Attendees)
	}
	for _, att := range rec.Attendees {
		out.Attendees = append(out.Attendees, attendeeJSON{
			Name:     att.Name,
			Address:  att.Address,
			Role:     string(att.Role),
			Response: string(att.Response),
		})
	}
	return out
}

func (r draftRequest) toDraft() calendar.Draft {
	draft := calendar.Draft{
		Subject:        r.Subject,
		Start:          r.Start,
		End:            r.End,
		OnlineMeeting:  r.OnlineMeeting,
		MeetingAddress: r.MeetingAddress,
		Body:           r.Body,
	}
	for _, att := range r.Attendees {
		role := calendar.RoleRequired
		if att.Role == string(calendar.RoleOptional) {
			role = calendar.RoleOptional
		}
		draft.Attendees = append(draft.Attendees, calendar.Attendee{
			Name:    att.Name,
			Address: att.Address,
			Role:    role,
		})
	}
	return draft
}

func (a *API) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	eng := a.sc.Engine()
	window := eng.Window()

	out := snapshotJSON{
		Window: windowJSON{Start: window.Start, End: window.End},
		Events: []eventJSON{},
	}
	for _, rec := range eng.Snapshot() {
		out.Events = append(out.Events, toEventJSON(rec))
	}

	a.writeJSON(w, http.StatusOK, out)
}

func (a *API) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	window, err := calendar.NewWindow(req.Start, req.End)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := a.sc.Engine().HandleNavigation(r.Context(), window)
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	out := navigateResponse{
		Applied: res.Applied,
		Skipped: res.Skipped,
		Events:  []eventJSON{},
	}
	for _, rec := range res.Events {
		out.Events = append(out.Events, toEventJSON(rec))
	}

	a.writeJSON(w, http.StatusOK, out)
}

func (a *API) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := a.sc.Engine().SubmitCreate(r.Context(), req.toDraft())
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	a.writeJSON(w, http.StatusCreated, toEventJSON(rec))
}

func (a *API) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	rec, err := a.sc.Engine().SubmitUpdate(r.Context(), r.PathValue("id"), req.toDraft())
	if err != nil {
		a.writeEngineError(w, err)
		return
	}

	a.writeJSON(w, http.StatusOK, toEventJSON(rec))
}

func (a *API) handleCancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if r.Body != nil {
		// An empty body means a cancellation without a note.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if err := a.sc.Engine().SubmitCancel(r.Context(), r.PathValue("id"), req.Comment); err != nil {
		a.writeEngineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses:
// auth failures ask the caller to re-authenticate, transport failures
// are a bad gateway, and mutation rejections pass the server's status
// through with its hint.
func (a *API) writeEngineError(w http.ResponseWriter, err error) {
	var authErr *graph.AuthError
	var transportErr *graph.TransportError
	var mutErr *graph.MutationError

	switch {
	case errors.As(err, &authErr):
		a.writeError(w, http.StatusUnauthorized, err)
	case errors.As(err, &mutErr):
		status := mutErr.StatusCode
		if status < 400 {
			status = http.StatusBadGateway
		}
		a.writeJSON(w, status, errorResponse{Error: err.Error(), Hint: mutErr.Hint})
	case errors.As(err, &transportErr):
		a.writeError(w, http.StatusBadGateway, err)
	case errors.Is(err, calendar.ErrEndNotAfterStart), errors.Is(err, calendar.ErrMissingTimes):
		a.writeError(w, http.StatusBadRequest, err)
	default:
		a.writeError(w, http.StatusInternalServerError, err)
	}
}

func (a *API) writeError(w http.ResponseWriter, status int, err error) {
	a.logger.Warn("Request failed",
		logging.Status(logging.StatusError),
		logging.Err(err))
	a.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (a *API) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("Failed to encode response", logging.Err(err))
	}
}
