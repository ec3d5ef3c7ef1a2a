// Package store holds the in-memory collection of calendar events for
// the currently materialized window. The store is owned exclusively by
// the sync engine; everything else reads snapshots.
package store

import (
	"sort"
	"sync"

	"github.com/MehrXloop/calsync/internal/calendar"
)

// Store maps event identity to its record. A successful window fetch
// replaces the whole content; mutations upsert or remove single
// entries. All methods are safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	events map[string]calendar.EventRecord
	window calendar.Window
}

// New creates an empty store.
func New() *Store {
	return &Store{
		events: make(map[string]calendar.EventRecord),
	}
}

// ReplaceWindow swaps the entire content for the given window's
// records. This is assignment, not merge: entries from a previous
// window never survive a replace.
func (s *Store) ReplaceWindow(window calendar.Window, records []calendar.EventRecord) {
	next := make(map[string]calendar.EventRecord, len(records))
	for _, rec := range records {
		next[rec.ID] = rec
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = next
	s.window = window
}

// Upsert inserts or overwrites one record.
func (s *Store) Upsert(rec calendar.EventRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[rec.ID] = rec
}

// Remove deletes the record with the given id. Removing an absent id is
// a no-op; cancellation stays idempotent locally.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, id)
}

// Get returns the record for id.
func (s *Store) Get(id string) (calendar.EventRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.events[id]
	return rec, ok
}

// Len returns the number of materialized events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// Window returns the window the current content was fetched for.
func (s *Store) Window() calendar.Window {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.window
}

// Snapshot returns an immutable copy of the content, ordered by start
// time with the id as tie-breaker so output is stable across calls.
func (s *Store) Snapshot() []calendar.EventRecord {
	s.mu.RLock()
	records := make([]calendar.EventRecord, 0, len(s.events))
	for _, rec := range s.events {
		records = append(records, rec)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool {
		if !records[i].Start.Equal(records[j].Start) {
			return records[i].Start.Before(records[j].Start)
		}
		return records[i].ID < records[j].ID
	})

	return records
}

// Clear empties the store, dropping the window. Used on sign-out.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[string]calendar.EventRecord)
	s.window = calendar.Window{}
}
