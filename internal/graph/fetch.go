package graph

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"

	"github.com/MehrXloop/calsync/internal/calendar"
	"github.com/MehrXloop/calsync/internal/logging"
)

// FetchWindow retrieves every calendar entry inside the window,
// following @odata.nextLink continuations until exhausted. The fetch is
// all-or-nothing: any page failure discards the pages already read, so
// a partially-paged window is never presented as complete.
func (c *Client) FetchWindow(ctx context.Context, window calendar.Window) ([]RawEvent, error) {
	const op = "fetch_window"
	start := time.Now()

	token, err := c.bearer(ctx, op)
	if err != nil {
		c.metrics.RecordGraphOperation(ctx, op, logging.StatusError, time.Since(start))
		return nil, err
	}

	q := url.Values{}
	q.Set("startDateTime", formatGraphTime(window.Start))
	q.Set("endDateTime", formatGraphTime(window.End))
	next := c.baseURL + "/me/calendarview?" + q.Encode()

	var events []RawEvent
	pages := 0

	for next != "" {
		page, err := c.fetchPage(ctx, op, next, token)
		if err != nil {
			c.metrics.RecordGraphOperation(ctx, op, logging.StatusError, time.Since(start))
			return nil, err
		}

		events = append(events, page.Value...)
		next = page.NextLink
		pages++
	}

	c.metrics.RecordGraphOperation(ctx, op, logging.StatusSuccess, time.Since(start))
	c.metrics.RecordFetchPages(ctx, int64(pages))
	c.logger.Debug("Fetched calendar window",
		logging.Operation(op),
		logging.Window(window.String()),
		slog.Int(logging.KeyPages, pages),
		slog.Int(logging.KeyEvents, len(events)),
		slog.Duration(logging.KeyDuration, time.Since(start)))

	return events, nil
}

// fetchPage performs one request of the pagination loop. The target URL
// is either the initial calendar-view query or a continuation link,
// which replaces the URL wholesale rather than contributing a cursor.
func (c *Client) fetchPage(ctx context.Context, op, target, token string) (*eventsPage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, target, nil, token)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &AuthError{Op: op, StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	var page eventsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to decode events page: %w", err)}
	}

	return &page, nil
}
