package queue

import "sync"

// ExecutionIDMap is the in-memory view of "last successfully executed
// execution id" per store. It mirrors the WatermarkStore after every
// successful handler and is consulted by the worker to decide whether an
// incoming record is a duplicate replay (spec.md §3, §4.5). Writes are
// last-wins because handlers for a given store are always serialized, so
// there is never a concurrent writer race to resolve.
type ExecutionIDMap struct {
	mu   sync.RWMutex
	ids  map[string]int64
}

// NewExecutionIDMap creates an empty map.
func NewExecutionIDMap() *ExecutionIDMap {
	return &ExecutionIDMap{ids: make(map[string]int64)}
}

// Seed loads a starting snapshot, typically read from WatermarkStore at
// startup.
func (m *ExecutionIDMap) Seed(initial map[string]int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for store, id := range initial {
		m.ids[store] = id
	}
}

// Get returns the last succeeded execution id for store, or 0 if none has
// succeeded yet in this process (the zero value lets every executionId
// above zero through, since producers assign ids starting above zero).
func (m *ExecutionIDMap) Get(store string) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ids[store]
}

// Bump records a newly succeeded execution id for store. Callers must
// only call this after the corresponding handler has completed, and with
// a strictly increasing id per store (spec.md invariant 1).
func (m *ExecutionIDMap) Bump(store string, id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids[store] = id
}

// Snapshot returns a copy of the full map, e.g. for checkpointing.
func (m *ExecutionIDMap) Snapshot() map[string]int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int64, len(m.ids))
	for k, v := range m.ids {
		out[k] = v
	}
	return out
}
