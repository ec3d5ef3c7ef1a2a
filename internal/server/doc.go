// Package server exposes the engine's store snapshot and mutation
// intents over HTTP, plus health probes and a dedicated Prometheus
// metrics listener. It is the presentation boundary: it only reads
// snapshots and dispatches signals, never touching the store directly.
package server
