package storage

// Outcome distinguishes a clean write from one that dropped duplicates.
type Outcome int

const (
	OutcomeAllWritten Outcome = iota
	OutcomePartialWritten
)

func (o Outcome) String() string {
	if o == OutcomePartialWritten {
		return "partial_written"
	}
	return "all_written"
}

// WriteResult is what Loader.Write reports. Written is the number of rows
// actually persisted; Skipped lists the keys that were excluded because they
// already existed (or repeated an earlier row of the same batch).
type WriteResult struct {
	Outcome Outcome
	Written int64
	Skipped []string
}

// AllWritten is the result of a write with no collisions.
func AllWritten(n int64) WriteResult {
	return WriteResult{Outcome: OutcomeAllWritten, Written: n}
}

// PartialWritten is the result of a write that excluded skipped keys.
func PartialWritten(n int64, skipped []string) WriteResult {
	return WriteResult{Outcome: OutcomePartialWritten, Written: n, Skipped: skipped}
}
