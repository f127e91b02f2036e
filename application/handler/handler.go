// Package handler contains one transition handler per orchestrator state.
// Each handler reads a claimed run, performs that state's side effects, and
// returns the advanced run for the engine to persist. Handlers must be safe to
// re-execute: a crash after the side effect but before the run row is written
// replays the same transition on recovery.
package handler

import (
	"context"
	"sync"

	"github.com/sagohq/sago/domain/monitor"
)

// Handler executes the transition out of one orchestrator state.
type Handler interface {
	Execute(ctx context.Context, run monitor.Run) (monitor.Run, error)
}

// Registry manages transition handlers keyed by state.
type Registry struct {
	handlers map[monitor.State]Handler
	mu       sync.RWMutex
}

// NewRegistry creates a new handler registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[monitor.State]Handler),
	}
}

// Register registers a handler for a state.
func (r *Registry) Register(state monitor.State, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[state] = h
}

// Handler returns the handler for a state.
func (r *Registry) Handler(state monitor.State) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[state]
	return h, ok
}

// States returns all registered states.
func (r *Registry) States() []monitor.State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	states := make([]monitor.State, 0, len(r.handlers))
	for s := range r.handlers {
		states = append(states, s)
	}
	return states
}
