package leader

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticOracle_IsLeaderReflectsConstructorValue(t *testing.T) {
	o := NewStaticOracle(true)
	assert.True(t, o.IsLeader())

	o = NewStaticOracle(false)
	assert.False(t, o.IsLeader())
}

func TestStaticOracle_SetLeaderWakesWaitForChange(t *testing.T) {
	o := NewStaticOracle(false)
	ch := o.WaitForChange(context.Background())

	o.SetLeader(true)

	select {
	case got, ok := <-ch:
		require.True(t, ok)
		assert.True(t, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for leadership change")
	}
	assert.True(t, o.IsLeader())
}

func TestStaticOracle_SetLeaderToSameValueDoesNotWake(t *testing.T) {
	o := NewStaticOracle(true)
	ch := o.WaitForChange(context.Background())

	o.SetLeader(true)

	select {
	case <-ch:
		t.Fatal("did not expect a wake-up for a no-op SetLeader")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStaticOracle_WaitForChangeRespectsContextCancellation(t *testing.T) {
	o := NewStaticOracle(false)
	ctx, cancel := context.WithCancel(context.Background())
	ch := o.WaitForChange(ctx)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected channel to close promptly after cancellation")
	}
}
