package executor

import (
	"context"
	"testing"

	"github.com/cuemby/venice-admin-consumer/pkg/backend"
	"github.com/cuemby/venice-admin-consumer/pkg/dispatch"
	"github.com/cuemby/venice-admin-consumer/pkg/queue"
	"github.com/cuemby/venice-admin-consumer/pkg/types"
	"github.com/cuemby/venice-admin-consumer/pkg/watermark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a minimal call-recording AdminBackend for worker tests.
type fakeBackend struct {
	createErr error
	calls     int
}

func (f *fakeBackend) StoreExists(ctx context.Context, store string) (bool, error) { return false, nil }
func (f *fakeBackend) CreateStore(ctx context.Context, p types.StoreCreationPayload) error {
	f.calls++
	return f.createErr
}
func (f *fakeBackend) RegisterSchema(ctx context.Context, p types.SchemaCreationPayload) error {
	return nil
}
func (f *fakeBackend) SetEnableRead(ctx context.Context, store string, enabled bool) error {
	return nil
}
func (f *fakeBackend) SetEnableWrite(ctx context.Context, store string, enabled bool) error {
	return nil
}
func (f *fakeBackend) SetCurrentVersion(ctx context.Context, store string, version int) error {
	return nil
}
func (f *fakeBackend) SetOwner(ctx context.Context, store, owner string) error { return nil }
func (f *fakeBackend) SetPartitionCount(ctx context.Context, store string, count int) error {
	return nil
}
func (f *fakeBackend) ApplyUpdateStore(ctx context.Context, opts types.UpdateStoreOptions) error {
	return nil
}
func (f *fakeBackend) DeleteAllVersions(ctx context.Context, store string) error { return nil }
func (f *fakeBackend) DeleteVersion(ctx context.Context, store string, version int) error {
	return nil
}
func (f *fakeBackend) DematerializeVersion(ctx context.Context, store string, version int) error {
	return nil
}
func (f *fakeBackend) DeleteStore(ctx context.Context, store string, largestUsedVersion int) error {
	return nil
}
func (f *fakeBackend) IsMigrating(ctx context.Context, store string) (bool, error) {
	return false, nil
}
func (f *fakeBackend) RecordMigration(ctx context.Context, store, sourceCluster, destCluster string) error {
	return nil
}
func (f *fakeBackend) AbortMigration(ctx context.Context, store, sourceCluster, destCluster string) error {
	return nil
}
func (f *fakeBackend) StoreKind(ctx context.Context, store string) (types.StoreKind, error) {
	return types.StoreKindRegular, nil
}
func (f *fakeBackend) AddVersion(ctx context.Context, p types.AddVersionPayload) error { return nil }
func (f *fakeBackend) BumpSharedMetadataVersion(ctx context.Context, p types.AddVersionPayload) error {
	return nil
}
func (f *fakeBackend) MaterializeMetadataStore(ctx context.Context, p types.AddVersionPayload) error {
	return nil
}
func (f *fakeBackend) KillPushJob(ctx context.Context, store, topic string) error { return nil }
func (f *fakeBackend) MirrorToPeerCluster(ctx context.Context, store string, payload types.Payload) error {
	return nil
}

var _ backend.AdminBackend = (*fakeBackend)(nil)

func storeCreationWrapper(execID int64, store string) *types.OperationWrapper {
	return &types.OperationWrapper{
		Offset: execID,
		Op: types.AdminOperation{
			ExecutionID: execID,
			Kind:        types.StoreCreation,
			Payload:     types.StoreCreationPayload{StoreName: store},
		},
	}
}

func alwaysLeader() bool { return true }

func TestWorker_DrainPopsOnSuccessAndBumpsWatermark(t *testing.T) {
	fb := &fakeBackend{}
	table := dispatch.NewTable(fb, types.RoleChild)
	execIDs := queue.NewExecutionIDMap()
	wm := watermark.NewMemoryStore()
	w := NewWorker(table, execIDs, wm, "cluster-a")

	q := queue.NewStoreQueue("store-a")
	q.Enqueue(storeCreationWrapper(1, "store-a"))
	q.Enqueue(storeCreationWrapper(2, "store-a"))

	require.NoError(t, w.Drain(context.Background(), q, alwaysLeader))

	assert.True(t, q.Empty())
	assert.Equal(t, 2, fb.calls)
	assert.EqualValues(t, 2, execIDs.Get("store-a"))

	ids, err := wm.ReadExecIDs("cluster-a")
	require.NoError(t, err)
	assert.EqualValues(t, 2, ids["store-a"])
}

func TestWorker_DrainSkipsDuplicateExecutionID(t *testing.T) {
	fb := &fakeBackend{}
	table := dispatch.NewTable(fb, types.RoleChild)
	execIDs := queue.NewExecutionIDMap()
	execIDs.Seed(map[string]int64{"store-a": 5})
	wm := watermark.NewMemoryStore()
	w := NewWorker(table, execIDs, wm, "cluster-a")

	q := queue.NewStoreQueue("store-a")
	q.Enqueue(storeCreationWrapper(3, "store-a"))

	require.NoError(t, w.Drain(context.Background(), q, alwaysLeader))

	assert.True(t, q.Empty())
	assert.Zero(t, fb.calls, "a duplicate replay must never reach the backend")
}

func TestWorker_DrainStopsWhenLeadershipLost(t *testing.T) {
	fb := &fakeBackend{}
	table := dispatch.NewTable(fb, types.RoleChild)
	execIDs := queue.NewExecutionIDMap()
	wm := watermark.NewMemoryStore()
	w := NewWorker(table, execIDs, wm, "cluster-a")

	q := queue.NewStoreQueue("store-a")
	q.Enqueue(storeCreationWrapper(1, "store-a"))

	require.NoError(t, w.Drain(context.Background(), q, func() bool { return false }))

	assert.Equal(t, 1, q.Len(), "queue head must remain when leadership is lost before processing")
	assert.Zero(t, fb.calls)
}

func TestWorker_DrainRetriableFailureLeavesHeadAndReturnsError(t *testing.T) {
	fb := &fakeBackend{createErr: &backend.Retriable{Err: assert.AnError}}
	table := dispatch.NewTable(fb, types.RoleChild)
	execIDs := queue.NewExecutionIDMap()
	wm := watermark.NewMemoryStore()
	w := NewWorker(table, execIDs, wm, "cluster-a")

	q := queue.NewStoreQueue("store-a")
	q.Enqueue(storeCreationWrapper(1, "store-a"))

	err := w.Drain(context.Background(), q, alwaysLeader)
	require.Error(t, err)
	assert.Equal(t, 1, q.Len(), "retriable failure must not pop the head")
	assert.Zero(t, execIDs.Get("store-a"))
}

func TestWorker_DrainFatalFailureLeavesHeadAndReturnsError(t *testing.T) {
	fb := &fakeBackend{createErr: assert.AnError}
	table := dispatch.NewTable(fb, types.RoleChild)
	execIDs := queue.NewExecutionIDMap()
	wm := watermark.NewMemoryStore()
	w := NewWorker(table, execIDs, wm, "cluster-a")

	q := queue.NewStoreQueue("store-a")
	q.Enqueue(storeCreationWrapper(1, "store-a"))

	err := w.Drain(context.Background(), q, alwaysLeader)
	require.Error(t, err)
	assert.Equal(t, 1, q.Len(), "fatal failure must not pop the head")
}
