// Package calendar holds the domain model for calendar events: the
// normalized event record, time windows, drafts for create/update
// operations, and the display helpers the presentation layer uses.
//
// The package is pure: it performs no I/O and knows nothing about the
// Microsoft Graph wire format (see internal/graph for that).
package calendar
