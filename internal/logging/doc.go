// Package logging provides slog helpers and shared attribute keys so
// that log lines carry consistent field names across the fetcher, the
// sync engine, and the snapshot server.
package logging
