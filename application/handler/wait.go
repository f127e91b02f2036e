package handler

import (
	"context"
	"time"

	"github.com/sagohq/sago/domain/monitor"
)

// Wait ends the durable sleep. The engine only claims runs whose wake time has
// passed, so reaching this handler means the round is due.
type Wait struct {
	now func() time.Time
}

// NewWait creates a Wait handler.
func NewWait() Wait {
	return Wait{now: time.Now}
}

// WithClock overrides the handler clock. Used by tests.
func (h Wait) WithClock(now func() time.Time) Wait {
	h.now = now
	return h
}

// Execute performs WAITING -> RESEARCHING.
func (h Wait) Execute(_ context.Context, run monitor.Run) (monitor.Run, error) {
	return run.Woken(h.now()), nil
}

var _ Handler = Wait{}
