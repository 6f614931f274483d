package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/cuemby/venice-admin-consumer/pkg/backend"
	"github.com/cuemby/venice-admin-consumer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a call-recording AdminBackend for table-driven dispatch
// tests; it avoids standing up a real Catalog for pure routing assertions.
type fakeBackend struct {
	calls []string

	storeExists     bool
	storeKind       types.StoreKind
	isMigrating     bool
	createStoreErr  error
	registerErr     error

	deletedLargestVersion int
}

func (f *fakeBackend) StoreExists(ctx context.Context, store string) (bool, error) {
	f.calls = append(f.calls, "StoreExists")
	return f.storeExists, nil
}
func (f *fakeBackend) CreateStore(ctx context.Context, p types.StoreCreationPayload) error {
	f.calls = append(f.calls, "CreateStore:"+p.StoreName)
	return f.createStoreErr
}
func (f *fakeBackend) RegisterSchema(ctx context.Context, p types.SchemaCreationPayload) error {
	f.calls = append(f.calls, "RegisterSchema")
	return f.registerErr
}
func (f *fakeBackend) SetEnableRead(ctx context.Context, store string, enabled bool) error {
	f.calls = append(f.calls, "SetEnableRead")
	return nil
}
func (f *fakeBackend) SetEnableWrite(ctx context.Context, store string, enabled bool) error {
	f.calls = append(f.calls, "SetEnableWrite")
	return nil
}
func (f *fakeBackend) SetCurrentVersion(ctx context.Context, store string, version int) error {
	f.calls = append(f.calls, "SetCurrentVersion")
	return nil
}
func (f *fakeBackend) SetOwner(ctx context.Context, store, owner string) error {
	f.calls = append(f.calls, "SetOwner")
	return nil
}
func (f *fakeBackend) SetPartitionCount(ctx context.Context, store string, count int) error {
	f.calls = append(f.calls, "SetPartitionCount")
	return nil
}
func (f *fakeBackend) ApplyUpdateStore(ctx context.Context, opts types.UpdateStoreOptions) error {
	f.calls = append(f.calls, "ApplyUpdateStore")
	return nil
}
func (f *fakeBackend) DeleteAllVersions(ctx context.Context, store string) error {
	f.calls = append(f.calls, "DeleteAllVersions")
	return nil
}
func (f *fakeBackend) DeleteVersion(ctx context.Context, store string, version int) error {
	f.calls = append(f.calls, "DeleteVersion")
	return nil
}
func (f *fakeBackend) DematerializeVersion(ctx context.Context, store string, version int) error {
	f.calls = append(f.calls, "DematerializeVersion")
	return nil
}
func (f *fakeBackend) DeleteStore(ctx context.Context, store string, largestUsedVersion int) error {
	f.calls = append(f.calls, "DeleteStore")
	f.deletedLargestVersion = largestUsedVersion
	return nil
}
func (f *fakeBackend) IsMigrating(ctx context.Context, store string) (bool, error) {
	f.calls = append(f.calls, "IsMigrating")
	return f.isMigrating, nil
}
func (f *fakeBackend) RecordMigration(ctx context.Context, store, sourceCluster, destCluster string) error {
	f.calls = append(f.calls, "RecordMigration")
	return nil
}
func (f *fakeBackend) AbortMigration(ctx context.Context, store, sourceCluster, destCluster string) error {
	f.calls = append(f.calls, "AbortMigration")
	return nil
}
func (f *fakeBackend) StoreKind(ctx context.Context, store string) (types.StoreKind, error) {
	f.calls = append(f.calls, "StoreKind")
	return f.storeKind, nil
}
func (f *fakeBackend) AddVersion(ctx context.Context, p types.AddVersionPayload) error {
	f.calls = append(f.calls, "AddVersion")
	return nil
}
func (f *fakeBackend) BumpSharedMetadataVersion(ctx context.Context, p types.AddVersionPayload) error {
	f.calls = append(f.calls, "BumpSharedMetadataVersion")
	return nil
}
func (f *fakeBackend) MaterializeMetadataStore(ctx context.Context, p types.AddVersionPayload) error {
	f.calls = append(f.calls, "MaterializeMetadataStore")
	return nil
}
func (f *fakeBackend) KillPushJob(ctx context.Context, store, topic string) error {
	f.calls = append(f.calls, "KillPushJob")
	return nil
}
func (f *fakeBackend) MirrorToPeerCluster(ctx context.Context, store string, payload types.Payload) error {
	f.calls = append(f.calls, "MirrorToPeerCluster")
	return nil
}

var _ backend.AdminBackend = (*fakeBackend)(nil)

func TestTable_StoreCreationDispatches(t *testing.T) {
	fb := &fakeBackend{}
	table := NewTable(fb, types.RoleChild)

	op := types.AdminOperation{Kind: types.StoreCreation, Payload: types.StoreCreationPayload{StoreName: "store-a", Owner: "x"}}
	require.NoError(t, table.Dispatch(context.Background(), op))
	assert.Equal(t, []string{"CreateStore:store-a"}, fb.calls)
}

func TestTable_KillOfflinePushJob_ParentIsNoop(t *testing.T) {
	fb := &fakeBackend{}
	table := NewTable(fb, types.RoleParent)

	op := types.AdminOperation{Kind: types.KillOfflinePushJob, Payload: types.KillOfflinePushJobPayload{StoreName: "store-a", Topic: "t"}}
	require.NoError(t, table.Dispatch(context.Background(), op))
	assert.Empty(t, fb.calls, "parent role must make zero backend calls")
}

func TestTable_KillOfflinePushJob_ChildKills(t *testing.T) {
	fb := &fakeBackend{}
	table := NewTable(fb, types.RoleChild)

	op := types.AdminOperation{Kind: types.KillOfflinePushJob, Payload: types.KillOfflinePushJobPayload{StoreName: "store-a", Topic: "t"}}
	require.NoError(t, table.Dispatch(context.Background(), op))
	assert.Equal(t, []string{"KillPushJob"}, fb.calls)
}

func TestTable_DeleteStore_MigratingUsesIgnoreVersion(t *testing.T) {
	fb := &fakeBackend{isMigrating: true}
	table := NewTable(fb, types.RoleChild)

	op := types.AdminOperation{Kind: types.DeleteStore, Payload: types.DeleteStorePayload{StoreName: "store-a", LargestUsedVersionNumber: 5}}
	require.NoError(t, table.Dispatch(context.Background(), op))
	assert.Equal(t, []string{"IsMigrating", "DeleteStore"}, fb.calls)
	assert.Equal(t, types.IgnoreVersion, fb.deletedLargestVersion)
}

func TestTable_DeleteOldVersion_MetadataSystemStoreDematerializes(t *testing.T) {
	fb := &fakeBackend{storeKind: types.StoreKindMetadataSystemStore}
	table := NewTable(fb, types.RoleChild)

	op := types.AdminOperation{Kind: types.DeleteOldVersion, Payload: types.DeleteOldVersionPayload{StoreName: "store-a", VersionNumber: 3}}
	require.NoError(t, table.Dispatch(context.Background(), op))
	assert.Equal(t, []string{"StoreKind", "DematerializeVersion"}, fb.calls)
}

func TestTable_DeleteOldVersion_RegularStoreDeletes(t *testing.T) {
	fb := &fakeBackend{storeKind: types.StoreKindRegular}
	table := NewTable(fb, types.RoleChild)

	op := types.AdminOperation{Kind: types.DeleteOldVersion, Payload: types.DeleteOldVersionPayload{StoreName: "store-a", VersionNumber: 3}}
	require.NoError(t, table.Dispatch(context.Background(), op))
	assert.Equal(t, []string{"StoreKind", "DeleteVersion"}, fb.calls)
}

func TestTable_AddVersion_ParentMirrorsWhenMigrating(t *testing.T) {
	fb := &fakeBackend{isMigrating: true}
	table := NewTable(fb, types.RoleParent)

	op := types.AdminOperation{Kind: types.AddVersion, Payload: types.AddVersionPayload{StoreName: "store-a", VersionNumber: 1}}
	require.NoError(t, table.Dispatch(context.Background(), op))
	assert.Equal(t, []string{"IsMigrating", "MirrorToPeerCluster"}, fb.calls)
}

func TestTable_AddVersion_ChildSharedMetadataStoreBumpsVersion(t *testing.T) {
	fb := &fakeBackend{storeKind: types.StoreKindSharedMetadataStore}
	table := NewTable(fb, types.RoleChild)

	op := types.AdminOperation{Kind: types.AddVersion, Payload: types.AddVersionPayload{StoreName: "store-a", VersionNumber: 1}}
	require.NoError(t, table.Dispatch(context.Background(), op))
	assert.Equal(t, []string{"StoreKind", "BumpSharedMetadataVersion"}, fb.calls)
}

func TestTable_UnknownKindReturnsError(t *testing.T) {
	fb := &fakeBackend{}
	table := NewTable(fb, types.RoleChild)

	op := types.AdminOperation{Kind: types.OperationKind("NOT_A_REAL_KIND")}
	err := table.Dispatch(context.Background(), op)
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Classify(nil))
	assert.Equal(t, OutcomeIgnorable, Classify(backend.ErrUnsupportedOperation))
	assert.Equal(t, OutcomeRetriable, Classify(&backend.Retriable{Err: errors.New("timeout")}))
	assert.Equal(t, OutcomeFatal, Classify(errors.New("boom")))
}
