// Package engine is the synchronization core. It owns the local event
// store and is the only writer to it: navigation signals trigger
// fetch-and-replace of the visible window, and mutation submissions
// reconcile single entries after the server accepts them.
//
// The engine enforces one ordering invariant against out-of-order
// network completion: every fetch is tagged with a generation, and only
// the fetch matching the most recently requested window may replace the
// store. A superseded fetch that completes late is discarded, never
// merged.
package engine
