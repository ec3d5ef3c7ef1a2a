package server

import (
	"context"
	"sync"

	"github.com/MehrXloop/calsync/internal/engine"
)

// ServerContext holds the shared state of the snapshot server.
type ServerContext struct {
	ctx      context.Context
	cancel   context.CancelFunc
	engine   *engine.Engine
	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a server context around the sync engine.
func NewServerContext(ctx context.Context, eng *engine.Engine) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		engine: eng,
	}
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Engine returns the sync engine.
func (sc *ServerContext) Engine() *engine.Engine {
	return sc.engine
}

// IsShutdown returns whether the server has been shut down.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context. Idempotent.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
