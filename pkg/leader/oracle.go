package leader

import "context"

// Oracle answers whether this process currently holds the leadership
// needed to dispatch: the Coordinator schedules ExecutionWorkers only
// while IsLeader is true, and each worker re-checks it before every
// operation. The Tailer does not consult it. WaitForChange blocks until
// the answer might have changed, or ctx is cancelled, and returns the new
// answer; the Coordinator does not use it and polls IsLeader instead.
type Oracle interface {
	IsLeader() bool
	WaitForChange(ctx context.Context) <-chan bool
}
