package types

import "time"

// Role selects the process-wide Parent/Child branching consulted by a
// handful of DispatchTable handlers (spec.md §4.4.1). It is configuration,
// not polymorphism: a single enum, read once at startup.
type Role string

const (
	RoleParent Role = "parent"
	RoleChild  Role = "child"
)

// OperationWrapper is the runtime record the tailer produces and the
// worker pool consumes: an AdminOperation plus its log position and
// retry bookkeeping.
type OperationWrapper struct {
	Op     AdminOperation
	Offset int64

	// StartProcessingTimestamp is set on first dispatch attempt and
	// preserved across retries.
	StartProcessingTimestamp time.Time
	AttemptCount              int
}

// Store returns the queue key this wrapper belongs in.
func (w *OperationWrapper) Store() string {
	return w.Op.StoreName()
}
