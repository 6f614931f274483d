package queue

import (
	"sync"

	"github.com/cuemby/venice-admin-consumer/pkg/types"
)

// StoreQueue is an ordered, append-only sequence of pending operations for
// a single store. Insertion order always equals log offset order. The head
// is examined with Peek, not removed, until the caller is ready to commit
// progress with Pop — removal is meant to be atomic with "report success"
// at the call site (spec.md §4.3).
type StoreQueue struct {
	store string

	mu      sync.Mutex
	items   []*types.OperationWrapper
	leased  bool
}

// NewStoreQueue creates an empty queue for the given store.
func NewStoreQueue(store string) *StoreQueue {
	return &StoreQueue{store: store}
}

// Store returns the store key this queue serves.
func (q *StoreQueue) Store() string { return q.store }

// Enqueue appends a wrapper to the tail. Non-blocking; preserves arrival
// order. Only the tailer is expected to call this.
func (q *StoreQueue) Enqueue(w *types.OperationWrapper) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, w)
}

// Peek returns the head of the queue without removing it, or nil if the
// queue is empty.
func (q *StoreQueue) Peek() *types.OperationWrapper {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

// Pop removes the head of the queue. It is the caller's responsibility to
// only do this after the head's handler has succeeded, been skipped as a
// duplicate, or been ignored.
func (q *StoreQueue) Pop() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return
	}
	q.items[0] = nil
	q.items = q.items[1:]
}

// Len reports the number of pending operations.
func (q *StoreQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Empty reports whether the queue has no pending operations.
func (q *StoreQueue) Empty() bool {
	return q.Len() == 0
}

// HeadOffset returns the offset of the current head, and false if the
// queue is empty. Used by the coordinator to compute the global safe
// offset (spec.md §4.7).
func (q *StoreQueue) HeadOffset() (int64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return 0, false
	}
	return q.items[0].Offset, true
}

// TryAcquireLease flips the lease bit if it is currently clear, and
// reports whether it succeeded. At most one worker may hold a queue's
// lease at a time (spec.md §5, "single-flight per store").
func (q *StoreQueue) TryAcquireLease() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.leased {
		return false
	}
	q.leased = true
	return true
}

// ReleaseLease clears the lease bit, making the queue eligible for
// scheduling again.
func (q *StoreQueue) ReleaseLease() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.leased = false
}

// Leased reports whether a worker currently holds this queue's lease.
func (q *StoreQueue) Leased() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.leased
}

// Reapable reports whether this queue is empty and unleased, and can
// therefore be removed from the store-queue map at coordinator cadence
// (spec.md §3, "Lifecycles").
func (q *StoreQueue) Reapable() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) == 0 && !q.leased
}
