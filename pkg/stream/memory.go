package stream

import (
	"context"
	"sort"
	"sync"
)

// MemoryStream is a deterministic in-memory LogStream for tests. Records
// are appended with Append (or out of arrival order via AppendAt, which
// the §8 scenario tests use to inject a poison record at a specific
// offset without disturbing the offsets around it) and replayed in offset
// order starting from whatever offset ReadFrom is given.
type MemoryStream struct {
	mu      sync.Mutex
	records map[int64][]byte
	closed  bool
}

// NewMemoryStream creates an empty in-memory stream.
func NewMemoryStream() *MemoryStream {
	return &MemoryStream{records: make(map[int64][]byte)}
}

// Append adds value at the next offset (one past the highest offset seen
// so far, or 0 for the first record) and returns that offset.
func (m *MemoryStream) Append(value []byte) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	offset := int64(0)
	for off := range m.records {
		if off >= offset {
			offset = off + 1
		}
	}
	m.records[offset] = value
	return offset
}

// AppendAt places value at an explicit offset, overwriting anything
// already there. Used to inject a poison record (S6) or to build a fixture
// out of order.
func (m *MemoryStream) AppendAt(offset int64, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[offset] = value
}

// ReadFrom emits, in offset order, the records at or after start that are
// present when it is called, then closes the channel. Records appended
// after the call are not emitted to this reader.
func (m *MemoryStream) ReadFrom(ctx context.Context, start int64) (<-chan Record, error) {
	m.mu.Lock()
	offsets := make([]int64, 0, len(m.records))
	for off := range m.records {
		if off >= start {
			offsets = append(offsets, off)
		}
	}
	sort.Slice(offsets, func(i, j int) bool { return offsets[i] < offsets[j] })
	values := make(map[int64][]byte, len(offsets))
	for _, off := range offsets {
		values[off] = m.records[off]
	}
	m.mu.Unlock()

	out := make(chan Record)
	go func() {
		defer close(out)
		for _, off := range offsets {
			select {
			case out <- Record{Offset: off, Value: values[off]}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (m *MemoryStream) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
