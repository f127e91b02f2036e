package monitor

import (
	"time"

	"github.com/sagohq/sago/domain/research"
)

// Run is the persisted control-flow record for one company's research loop.
// Findings and the decision outcome are staged on the run between transitions
// so that every step's write is a single atomic update and crash-recovery
// never loses in-flight results.
type Run struct {
	id             int64
	companyID      int64
	userID         int64
	state          State
	pendingRoundID *int64
	findings       research.Findings
	reasoning      string
	outreach       string
	nextWakeAt     time.Time
	leasedUntil    *time.Time
	lastError      string
	createdAt      time.Time
	updatedAt      time.Time
}

// NewRun creates a run in SCHEDULING, due immediately.
func NewRun(companyID, userID int64, now time.Time) Run {
	return Run{
		companyID:  companyID,
		userID:     userID,
		state:      StateScheduling,
		nextWakeAt: now,
	}
}

// ReconstructRun creates a Run with all fields (used by persistence).
func ReconstructRun(
	id, companyID, userID int64,
	state State,
	pendingRoundID *int64,
	findings research.Findings,
	reasoning, outreach string,
	nextWakeAt time.Time,
	leasedUntil *time.Time,
	lastError string,
	createdAt, updatedAt time.Time,
) Run {
	return Run{
		id:             id,
		companyID:      companyID,
		userID:         userID,
		state:          state,
		pendingRoundID: pendingRoundID,
		findings:       findings,
		reasoning:      reasoning,
		outreach:       outreach,
		nextWakeAt:     nextWakeAt,
		leasedUntil:    leasedUntil,
		lastError:      lastError,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// ID returns the run ID.
func (r Run) ID() int64 { return r.id }

// CompanyID returns the tracked company ID.
func (r Run) CompanyID() int64 { return r.companyID }

// UserID returns the user to notify on escalation.
func (r Run) UserID() int64 { return r.userID }

// State returns the current state.
func (r Run) State() State { return r.state }

// PendingRoundID returns the in-flight round ID, if any.
func (r Run) PendingRoundID() (int64, bool) {
	if r.pendingRoundID == nil {
		return 0, false
	}
	return *r.pendingRoundID, true
}

// Findings returns the staged research findings.
func (r Run) Findings() research.Findings { return r.findings }

// Reasoning returns the staged decision reasoning.
func (r Run) Reasoning() string { return r.reasoning }

// Outreach returns the staged outreach message.
func (r Run) Outreach() string { return r.outreach }

// NextWakeAt returns when the engine should next pick up the run.
func (r Run) NextWakeAt() time.Time { return r.nextWakeAt }

// LeasedUntil returns the lease expiry, if the run is currently claimed.
func (r Run) LeasedUntil() (time.Time, bool) {
	if r.leasedUntil == nil {
		return time.Time{}, false
	}
	return *r.leasedUntil, true
}

// LastError returns the most recent transition error, empty when the last
// transition succeeded.
func (r Run) LastError() string { return r.lastError }

// CreatedAt returns when the run was created.
func (r Run) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns when the run was last updated.
func (r Run) UpdatedAt() time.Time { return r.updatedAt }

// WithID returns a copy of the run with the given ID.
func (r Run) WithID(id int64) Run {
	r.id = id
	return r
}

// Scheduled records the newly created round and suspends the run until the
// round is due: SCHEDULING -> WAITING.
func (r Run) Scheduled(roundID int64, wakeAt time.Time) Run {
	r.pendingRoundID = &roundID
	r.state = StateWaiting
	r.nextWakeAt = wakeAt
	r.lastError = ""
	return r
}

// Woken marks the durable sleep as elapsed: WAITING -> RESEARCHING.
func (r Run) Woken(now time.Time) Run {
	r.state = StateResearching
	r.nextWakeAt = now
	r.lastError = ""
	return r
}

// ResearchStaged stores complete findings: RESEARCHING -> FINALIZING.
func (r Run) ResearchStaged(f research.Findings, now time.Time) Run {
	r.findings = f
	r.state = StateFinalizing
	r.nextWakeAt = now
	r.lastError = ""
	return r
}

// Rescheduled abandons the pending round and re-enters SCHEDULING, clearing
// all staged data. Used both for unusable rounds and to continue monitoring
// after a non-actionable decision or a first finalized round.
func (r Run) Rescheduled(now time.Time) Run {
	r.pendingRoundID = nil
	r.findings = research.Findings{}
	r.reasoning = ""
	r.outreach = ""
	r.state = StateScheduling
	r.nextWakeAt = now
	r.lastError = ""
	return r
}

// Deciding advances to the comparison step: FINALIZING -> DECIDING.
func (r Run) Deciding(now time.Time) Run {
	r.state = StateDeciding
	r.nextWakeAt = now
	r.lastError = ""
	return r
}

// Escalating stages an actionable decision: DECIDING -> NOTIFYING. Staging
// before the notify step means a crash between decide and notify never
// re-notifies with different content.
func (r Run) Escalating(reasoning, outreach string, now time.Time) Run {
	r.reasoning = reasoning
	r.outreach = outreach
	r.state = StateNotifying
	r.nextWakeAt = now
	r.lastError = ""
	return r
}

// Terminated ends the loop permanently after notification.
func (r Run) Terminated() Run {
	r.state = StateTerminated
	return r
}

// Cancelled tears the loop down explicitly.
func (r Run) Cancelled() Run {
	r.state = StateCancelled
	return r
}

// WithFailure records a transition error and re-wakes the run after a backoff
// without changing state, so the substrate retries the same step.
func (r Run) WithFailure(message string, wakeAt time.Time) Run {
	r.lastError = message
	r.nextWakeAt = wakeAt
	return r
}

// Leased returns a copy claimed until the given time.
func (r Run) Leased(until time.Time) Run {
	r.leasedUntil = &until
	return r
}

// Released returns a copy with the lease cleared.
func (r Run) Released() Run {
	r.leasedUntil = nil
	return r
}

// WithTimestamps returns a copy with the given lifecycle timestamps.
func (r Run) WithTimestamps(createdAt, updatedAt time.Time) Run {
	r.createdAt = createdAt
	r.updatedAt = updatedAt
	return r
}
