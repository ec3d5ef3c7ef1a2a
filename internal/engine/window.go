package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/MehrXloop/calsync/internal/calendar"
	"github.com/MehrXloop/calsync/internal/instrumentation"
	"github.com/MehrXloop/calsync/internal/logging"
)

// NavigationResult reports what a navigation signal did to the store.
type NavigationResult struct {
	// Applied is false when the fetch was superseded by a newer
	// navigation and its result was discarded.
	Applied bool

	// Events is the store snapshot after the replace. Nil when the
	// fetch was not applied.
	Events []calendar.EventRecord

	// Skipped counts malformed records dropped during normalization.
	Skipped int
}

// HandleNavigation fetches the window and replaces the store content
// with its normalized events. It is the engine's only fetch entry
// point.
//
// Last window wins: if another navigation arrives while this fetch is
// in flight, this fetch's result is discarded on completion, whether it
// succeeded or failed. A discarded fetch returns Applied=false and a
// nil error; its outcome no longer matters to anyone.
func (e *Engine) HandleNavigation(ctx context.Context, window calendar.Window) (NavigationResult, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.requested = window
	e.mu.Unlock()

	e.logger.Debug("Navigation requested",
		logging.Operation("handle_navigation"),
		logging.Window(window.String()))

	raws, err := e.client.FetchWindow(ctx, window)
	if err != nil {
		if e.isStale(gen) {
			e.metrics.RecordWindowFetch(ctx, instrumentation.FetchResultStale)
			return NavigationResult{}, nil
		}
		e.metrics.RecordWindowFetch(ctx, instrumentation.FetchResultError)
		e.logger.Warn("Window fetch failed, store unchanged",
			logging.Operation("handle_navigation"),
			logging.Window(window.String()),
			logging.Err(err))
		return NavigationResult{}, err
	}

	records, skipped := e.norm.NormalizeAll(raws)
	if skipped > 0 {
		e.logger.Warn("Skipped malformed event records",
			logging.Operation("handle_navigation"),
			logging.Window(window.String()),
			slog.Int("skipped", skipped))
	}

	// The stale check and the replace must be one atomic step, or a
	// newer fetch could slip in between them.
	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		e.metrics.RecordWindowFetch(ctx, instrumentation.FetchResultStale)
		e.logger.Debug("Discarded superseded window fetch",
			logging.Operation("handle_navigation"),
			logging.Window(window.String()),
			logging.Status(logging.StatusStale))
		return NavigationResult{}, nil
	}
	e.store.ReplaceWindow(window, records)
	e.mu.Unlock()

	e.metrics.RecordWindowFetch(ctx, instrumentation.FetchResultApplied)
	e.metrics.SetStoreEvents(ctx, int64(e.store.Len()))
	e.logger.Info("Materialized calendar window",
		logging.Operation("handle_navigation"),
		logging.Window(window.String()),
		slog.Int(logging.KeyEvents, len(records)))

	return NavigationResult{
		Applied: true,
		Events:  e.store.Snapshot(),
		Skipped: skipped,
	}, nil
}

// NavigateMonth materializes the calendar month containing t, in the
// display timezone. This is the default window on session start.
func (e *Engine) NavigateMonth(ctx context.Context, t time.Time) (NavigationResult, error) {
	return e.HandleNavigation(ctx, calendar.MonthWindow(t, e.norm.Location()))
}

func (e *Engine) isStale(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen != e.generation
}
