package queue

import (
	"testing"

	"github.com/cuemby/venice-admin-consumer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wrapper(offset int64) *types.OperationWrapper {
	return &types.OperationWrapper{
		Op:     types.AdminOperation{ExecutionID: offset},
		Offset: offset,
	}
}

func TestStoreQueue_PeekDoesNotRemove(t *testing.T) {
	q := NewStoreQueue("store-a")
	q.Enqueue(wrapper(1))
	q.Enqueue(wrapper(2))

	head := q.Peek()
	require.NotNil(t, head)
	assert.EqualValues(t, 1, head.Offset)

	// Peeking again returns the same head; it was not removed.
	head = q.Peek()
	require.NotNil(t, head)
	assert.EqualValues(t, 1, head.Offset)
	assert.Equal(t, 2, q.Len())
}

func TestStoreQueue_PopAdvancesHead(t *testing.T) {
	q := NewStoreQueue("store-a")
	q.Enqueue(wrapper(1))
	q.Enqueue(wrapper(2))

	q.Pop()
	head := q.Peek()
	require.NotNil(t, head)
	assert.EqualValues(t, 2, head.Offset)
}

func TestStoreQueue_SingleFlightLease(t *testing.T) {
	q := NewStoreQueue("store-a")
	assert.True(t, q.TryAcquireLease())
	assert.False(t, q.TryAcquireLease(), "a second lease attempt must fail while the first is held")

	q.ReleaseLease()
	assert.True(t, q.TryAcquireLease(), "lease must be acquirable again after release")
}

func TestStoreQueue_Reapable(t *testing.T) {
	q := NewStoreQueue("store-a")
	assert.True(t, q.Reapable())

	q.Enqueue(wrapper(1))
	assert.False(t, q.Reapable())

	q.Pop()
	assert.True(t, q.Reapable())

	q.TryAcquireLease()
	assert.False(t, q.Reapable(), "a leased empty queue must not be reaped")
}

func TestStoreQueue_HeadOffset(t *testing.T) {
	q := NewStoreQueue("store-a")
	_, ok := q.HeadOffset()
	assert.False(t, ok)

	q.Enqueue(wrapper(42))
	off, ok := q.HeadOffset()
	require.True(t, ok)
	assert.EqualValues(t, 42, off)
}
