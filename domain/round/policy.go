package round

// AbandonPolicy controls what happens to an unusable round's number when the
// orchestrator discards it instead of finalizing it.
type AbandonPolicy string

// AbandonPolicy values.
const (
	// PolicyReuseNumber deletes the abandoned round so the next scheduling
	// pass re-creates the same number, keeping per-company numbers contiguous.
	PolicyReuseNumber AbandonPolicy = "reuse"

	// PolicySkipNumber leaves the abandoned round in place and numbers past
	// it, producing observable gaps under partial failure.
	PolicySkipNumber AbandonPolicy = "skip"
)

// Valid reports whether p is a known policy.
func (p AbandonPolicy) Valid() bool {
	return p == PolicyReuseNumber || p == PolicySkipNumber
}
