// Package monitor provides the durable per-company research loop: the
// persisted state-machine record (Run) and its store contract. Each state
// transition is a single atomic row update, so recovery after a crash is
// re-read the row and re-enter the matching state.
package monitor

// State is the orchestrator state persisted on a Run.
type State string

// State values. Terminated and Cancelled are terminal; every other state is
// re-entered by the engine when the run's wake time passes.
const (
	StateScheduling  State = "scheduling"
	StateWaiting     State = "waiting"
	StateResearching State = "researching"
	StateFinalizing  State = "finalizing"
	StateDeciding    State = "deciding"
	StateNotifying   State = "notifying"
	StateTerminated  State = "terminated"
	StateCancelled   State = "cancelled"
)

// String returns the string representation of the state.
func (s State) String() string {
	return string(s)
}

// IsTerminal returns true when the loop has permanently ended.
func (s State) IsTerminal() bool {
	return s == StateTerminated || s == StateCancelled
}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	switch s {
	case StateScheduling, StateWaiting, StateResearching, StateFinalizing,
		StateDeciding, StateNotifying, StateTerminated, StateCancelled:
		return true
	}
	return false
}

// LiveStates returns every non-terminal state.
func LiveStates() []State {
	return []State{
		StateScheduling,
		StateWaiting,
		StateResearching,
		StateFinalizing,
		StateDeciding,
		StateNotifying,
	}
}
