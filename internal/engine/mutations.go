package engine

import (
	"context"

	"github.com/MehrXloop/calsync/internal/calendar"
	"github.com/MehrXloop/calsync/internal/graph"
	"github.com/MehrXloop/calsync/internal/instrumentation"
	"github.com/MehrXloop/calsync/internal/logging"
)

// SubmitCreate validates and submits a new event. The returned record
// is recomputed from the submitted draft plus the server-assigned
// identity and join link; the store is left untouched, the created
// event materializes on the next window fetch. At-most-once delivery,
// never retried.
func (e *Engine) SubmitCreate(ctx context.Context, draft calendar.Draft) (calendar.EventRecord, error) {
	ctx, span := instrumentation.StartMutationSpan(ctx, instrumentation.MutationCreate)
	defer span.End()

	audit := instrumentation.NewMutationRecord(instrumentation.MutationCreate).WithSpanContext(ctx)

	if err := draft.Validate(); err != nil {
		instrumentation.SetSpanError(span, err)
		e.audit.LogMutation(audit.Complete(false, err))
		return calendar.EventRecord{}, err
	}

	result, err := e.client.CreateEvent(ctx, draft)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		e.audit.LogMutation(audit.Complete(false, err))
		return calendar.EventRecord{}, err
	}

	rec := e.norm.RecordFromDraft(result.ID, draft, result.JoinURL)

	instrumentation.SetSpanSuccess(span)
	e.audit.LogMutation(audit.WithEvent(rec.ID).Complete(true, nil))

	return rec, nil
}

// SubmitUpdate submits the complete replacement field set for an
// existing event and reconciles the store per the configured strategy.
func (e *Engine) SubmitUpdate(ctx context.Context, id string, draft calendar.Draft) (calendar.EventRecord, error) {
	ctx, span := instrumentation.StartMutationSpan(ctx, instrumentation.MutationUpdate)
	defer span.End()

	audit := instrumentation.NewMutationRecord(instrumentation.MutationUpdate).
		WithEvent(id).
		WithSpanContext(ctx)

	if err := draft.Validate(); err != nil {
		instrumentation.SetSpanError(span, err)
		e.audit.LogMutation(audit.Complete(false, err))
		return calendar.EventRecord{}, err
	}

	response, err := e.client.UpdateEvent(ctx, id, draft)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		e.audit.LogMutation(audit.Complete(false, err))
		return calendar.EventRecord{}, err
	}

	rec := e.reconcileUpdate(id, draft, response)
	e.store.Upsert(rec)

	instrumentation.SetSpanSuccess(span)
	e.audit.LogMutation(audit.Complete(true, nil))

	return rec, nil
}

// SubmitCancel cancels an event and removes it from the store. The
// local removal is idempotent; a second cancel of the same id surfaces
// whatever the server answers, with the store already clean.
func (e *Engine) SubmitCancel(ctx context.Context, id, comment string) error {
	ctx, span := instrumentation.StartMutationSpan(ctx, instrumentation.MutationCancel)
	defer span.End()

	audit := instrumentation.NewMutationRecord(instrumentation.MutationCancel).
		WithEvent(id).
		WithSpanContext(ctx)

	if err := e.client.CancelEvent(ctx, id, comment); err != nil {
		instrumentation.SetSpanError(span, err)
		e.audit.LogMutation(audit.Complete(false, err))
		return err
	}

	e.store.Remove(id)
	e.metrics.SetStoreEvents(ctx, int64(e.store.Len()))

	instrumentation.SetSpanSuccess(span)
	e.audit.LogMutation(audit.Complete(true, nil))
	e.logger.Info("Removed cancelled event from store",
		logging.Operation("submit_cancel"),
		logging.EventID(id))

	return nil
}

// reconcileUpdate picks the record that becomes the new local truth.
// The join link survives from the previous record either way: the
// update payload never carries it.
func (e *Engine) reconcileUpdate(id string, draft calendar.Draft, response *graph.RawEvent) calendar.EventRecord {
	joinURL := ""
	if prev, ok := e.store.Get(id); ok {
		joinURL = prev.OnlineMeetingURL
	}

	if e.strategy == TrustResponse && response != nil {
		if rec, err := e.norm.Normalize(*response); err == nil {
			if rec.OnlineMeetingURL == "" {
				rec.OnlineMeetingURL = joinURL
			}
			return rec
		}
		e.logger.Warn("Update response not normalizable, falling back to submitted draft",
			logging.Operation("submit_update"),
			logging.EventID(id))
	}

	return e.norm.RecordFromDraft(id, draft, joinURL)
}
