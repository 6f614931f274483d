package queue

import (
	"sync"

	"github.com/cuemby/venice-admin-consumer/pkg/types"
)

// Registry owns the map of live per-store queues. Writers are the tailer
// (enqueue path, via GetOrCreate) and the coordinator (reap path, via
// ReapEmpty); readers are workers picking queues to drain. Guarded by a
// reader-writer lock per spec.md §5.
type Registry struct {
	mu     sync.RWMutex
	queues map[string]*StoreQueue
}

// NewRegistry creates an empty queue registry.
func NewRegistry() *Registry {
	return &Registry{queues: make(map[string]*StoreQueue)}
}

// GetOrCreate returns the queue for store, creating it if this is the
// first record ever seen for that store (spec.md §3, "Lifecycles").
func (r *Registry) GetOrCreate(store string) *StoreQueue {
	r.mu.RLock()
	q, ok := r.queues[store]
	r.mu.RUnlock()
	if ok {
		return q
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if q, ok := r.queues[store]; ok {
		return q
	}
	q = NewStoreQueue(store)
	r.queues[store] = q
	return q
}

// Enqueue routes a wrapper into its store's queue, creating the queue if
// needed.
func (r *Registry) Enqueue(w *types.OperationWrapper) {
	r.GetOrCreate(w.Store()).Enqueue(w)
}

// Snapshot returns the current set of live queues. The slice is a point
// in time copy; queues may be added or reaped concurrently afterward.
func (r *Registry) Snapshot() []*StoreQueue {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*StoreQueue, 0, len(r.queues))
	for _, q := range r.queues {
		out = append(out, q)
	}
	return out
}

// ReapEmpty removes every queue that is empty and unleased. Called at
// coordinator cadence, never from a worker's hot path.
func (r *Registry) ReapEmpty() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	reaped := 0
	for store, q := range r.queues {
		if q.Reapable() {
			delete(r.queues, store)
			reaped++
		}
	}
	return reaped
}

// Len reports the number of live queues.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.queues)
}
