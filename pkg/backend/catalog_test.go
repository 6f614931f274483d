package backend

import (
	"context"
	"testing"

	"github.com/cuemby/venice-admin-consumer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := NewCatalog(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// storeRecordOf reads the persisted catalog entry for store.
func storeRecordOf(t *testing.T, c *Catalog, store string) *storeRecord {
	t.Helper()
	var rec *storeRecord
	require.NoError(t, c.db.View(func(tx *bolt.Tx) error {
		var err error
		rec, err = c.getStore(tx, store)
		return err
	}))
	require.NotNil(t, rec)
	return rec
}

// versionCount counts the persisted version records of store.
func versionCount(t *testing.T, c *Catalog, store string) int {
	t.Helper()
	n := 0
	prefix := []byte(store + "/")
	require.NoError(t, c.db.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket(bucketVersions).Cursor()
		for k, _ := cur.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = cur.Next() {
			n++
		}
		return nil
	}))
	return n
}

func TestCatalog_CreateStoreIsIdempotent(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()

	p := types.StoreCreationPayload{StoreName: "store-a", Owner: "owner-1"}
	require.NoError(t, c.CreateStore(ctx, p))

	exists, err := c.StoreExists(ctx, "store-a")
	require.NoError(t, err)
	assert.True(t, exists)

	// Second creation with a different owner must not overwrite (skip, per
	// spec.md §4.4 StoreCreation contract).
	require.NoError(t, c.CreateStore(ctx, types.StoreCreationPayload{StoreName: "store-a", Owner: "owner-2"}))
	assert.Equal(t, "owner-1", storeRecordOf(t, c, "store-a").Owner)
}

func TestCatalog_RegisterSchemaRejectsIDConflict(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	require.NoError(t, c.CreateStore(ctx, types.StoreCreationPayload{StoreName: "store-a"}))

	p := types.SchemaCreationPayload{StoreName: "store-a", Class: types.SchemaClassValue, SchemaID: 1, Schema: "{}"}
	require.NoError(t, c.RegisterSchema(ctx, p))

	err := c.RegisterSchema(ctx, p)
	assert.Error(t, err)
}

func TestCatalog_ApplyUpdateStoreIsSparse(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	require.NoError(t, c.CreateStore(ctx, types.StoreCreationPayload{StoreName: "store-a", Owner: "owner-1"}))
	require.NoError(t, c.SetPartitionCount(ctx, "store-a", 4))

	enableWrites := false
	require.NoError(t, c.ApplyUpdateStore(ctx, types.UpdateStoreOptions{
		StoreName:    "store-a",
		EnableWrites: &enableWrites,
	}))

	// Owner and partition count, left unset in the update, must survive.
	rec := storeRecordOf(t, c, "store-a")
	assert.False(t, rec.EnableWrites)
	assert.Equal(t, "owner-1", rec.Owner)
	assert.Equal(t, 4, rec.PartitionCount)
}

func TestCatalog_DeleteStoreRemovesVersions(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	require.NoError(t, c.CreateStore(ctx, types.StoreCreationPayload{StoreName: "store-a"}))
	require.NoError(t, c.AddVersion(ctx, types.AddVersionPayload{StoreName: "store-a", VersionNumber: 1}))
	require.NoError(t, c.AddVersion(ctx, types.AddVersionPayload{StoreName: "store-a", VersionNumber: 2}))
	require.Equal(t, 2, versionCount(t, c, "store-a"))

	require.NoError(t, c.DeleteStore(ctx, "store-a", types.IgnoreVersion))

	exists, err := c.StoreExists(ctx, "store-a")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, 0, versionCount(t, c, "store-a"))
}

func TestCatalog_MigrationLifecycle(t *testing.T) {
	c := newTestCatalog(t)
	ctx := context.Background()
	require.NoError(t, c.CreateStore(ctx, types.StoreCreationPayload{StoreName: "store-a"}))

	migrating, err := c.IsMigrating(ctx, "store-a")
	require.NoError(t, err)
	assert.False(t, migrating)

	require.NoError(t, c.RecordMigration(ctx, "store-a", "dc-west", "dc-east"))
	migrating, err = c.IsMigrating(ctx, "store-a")
	require.NoError(t, err)
	assert.True(t, migrating)

	require.NoError(t, c.AbortMigration(ctx, "store-a", "dc-west", "dc-east"))
	migrating, err = c.IsMigrating(ctx, "store-a")
	require.NoError(t, err)
	assert.False(t, migrating)
}
