package research

import "context"

// Status represents the terminal or in-flight state of a research task.
type Status string

// Status values reported by research backends.
const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCanceled  Status = "canceled"
)

// IsTerminal returns true when the backend will not change the status again.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCanceled
}

// TaskHandle identifies a submitted research task for polling.
type TaskHandle struct {
	id string
}

// NewTaskHandle creates a TaskHandle with the backend-assigned ID.
func NewTaskHandle(id string) TaskHandle {
	return TaskHandle{id: id}
}

// ID returns the backend task ID.
func (h TaskHandle) ID() string { return h.id }

// Result is the terminal outcome of a research task. Information is only
// meaningful when the status is StatusCompleted.
type Result struct {
	status      Status
	information string
}

// NewResult creates a Result.
func NewResult(status Status, information string) Result {
	return Result{status: status, information: information}
}

// Status returns the terminal status.
func (r Result) Status() Status { return r.status }

// Information returns the structured research output.
func (r Result) Information() string { return r.information }

// Completed reports whether the task finished successfully.
func (r Result) Completed() bool { return r.status == StatusCompleted }

// Provider is the asynchronous research backend contract: submit a
// natural-language instruction, then poll until the backend reports a terminal
// status. Arbitrary latency between the two calls is expected.
type Provider interface {
	// Submit starts a research task for the given instruction.
	Submit(ctx context.Context, instruction string) (TaskHandle, error)

	// PollUntilFinished blocks until the task reaches a terminal status or the
	// context is done.
	PollUntilFinished(ctx context.Context, handle TaskHandle) (Result, error)
}
