package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/cuemby/venice-admin-consumer/pkg/log"
	"github.com/cuemby/venice-admin-consumer/pkg/types"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketStores   = []byte("stores")
	bucketSchemas  = []byte("schemas")
	bucketVersions = []byte("versions")
)

// storeRecord is the persisted shape of a store's catalog entry. Fields
// mirror UpdateStoreOptions loosely enough to apply a sparse update
// without a second struct, per Design Note "Sparse update request".
type storeRecord struct {
	Name             string
	Owner            string
	KeySchema        string
	ValueSchema      string
	IsSystemStore    bool
	Kind             types.StoreKind
	EnableReads      bool
	EnableWrites     bool
	CurrentVersion   int
	PartitionCount   int
	IsMigrating      bool
	MigrationSource  string
	MigrationDest    string
	LargestVersion   int
}

type schemaRecord struct {
	StoreName string
	Class     types.SchemaClass
	SchemaID  int
	Schema    string
}

type versionRecord struct {
	StoreName          string
	VersionNumber      int
	PushJobID          string
	NumberOfPartitions int
	Materialized       bool
}

// Catalog is the reference bbolt-backed AdminBackend. It is a complete,
// self-contained store catalog — not Venice's real administrative state
// machine (out of scope per spec.md §1) — but every DispatchTable handler
// has a real, observable effect against it, which is what the end-to-end
// scenarios in spec.md §8 exercise.
type Catalog struct {
	db *bolt.DB
}

// NewCatalog opens (creating if necessary) a bbolt database under dataDir
// for catalog state.
func NewCatalog(dataDir string) (*Catalog, error) {
	dbPath := filepath.Join(dataDir, "catalog.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open catalog db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketStores, bucketSchemas, bucketVersions} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Catalog{db: db}, nil
}

// Close closes the underlying database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) getStore(tx *bolt.Tx, store string) (*storeRecord, error) {
	data := tx.Bucket(bucketStores).Get([]byte(store))
	if data == nil {
		return nil, nil
	}
	var rec storeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Catalog) putStore(tx *bolt.Tx, rec *storeRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return tx.Bucket(bucketStores).Put([]byte(rec.Name), data)
}

func (c *Catalog) StoreExists(ctx context.Context, store string) (bool, error) {
	var exists bool
	err := c.db.View(func(tx *bolt.Tx) error {
		rec, err := c.getStore(tx, store)
		if err != nil {
			return err
		}
		exists = rec != nil
		return nil
	})
	return exists, err
}

func (c *Catalog) CreateStore(ctx context.Context, p types.StoreCreationPayload) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		existing, err := c.getStore(tx, p.StoreName)
		if err != nil {
			return err
		}
		if existing != nil {
			log.WithComponent("backend.catalog").Info().
				Str("store", p.StoreName).
				Msg("store already exists, skipping creation")
			return nil
		}

		kind := types.StoreKindRegular
		if p.IsSystemStore {
			kind = types.StoreKindMetadataSystemStore
		}

		return c.putStore(tx, &storeRecord{
			Name:          p.StoreName,
			Owner:         p.Owner,
			KeySchema:     p.KeySchema,
			ValueSchema:   p.ValueSchema,
			IsSystemStore: p.IsSystemStore,
			Kind:          kind,
			EnableReads:   true,
			EnableWrites:  true,
		})
	})
}

func (c *Catalog) RegisterSchema(ctx context.Context, p types.SchemaCreationPayload) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		key := []byte(schemaKey(p.StoreName, p.Class, p.SchemaID))
		b := tx.Bucket(bucketSchemas)
		if b.Get(key) != nil {
			return fmt.Errorf("schema id %d already registered for store %q class %q", p.SchemaID, p.StoreName, p.Class)
		}
		data, err := json.Marshal(schemaRecord{
			StoreName: p.StoreName,
			Class:     p.Class,
			SchemaID:  p.SchemaID,
			Schema:    p.Schema,
		})
		if err != nil {
			return err
		}
		return b.Put(key, data)
	})
}

func schemaKey(store string, class types.SchemaClass, id int) string {
	return fmt.Sprintf("%s/%s/%d", store, class, id)
}

func (c *Catalog) mutateStore(store string, fn func(rec *storeRecord) error) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		rec, err := c.getStore(tx, store)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("store not found: %s", store)
		}
		if err := fn(rec); err != nil {
			return err
		}
		return c.putStore(tx, rec)
	})
}

func (c *Catalog) SetEnableRead(ctx context.Context, store string, enabled bool) error {
	return c.mutateStore(store, func(rec *storeRecord) error {
		rec.EnableReads = enabled
		return nil
	})
}

func (c *Catalog) SetEnableWrite(ctx context.Context, store string, enabled bool) error {
	return c.mutateStore(store, func(rec *storeRecord) error {
		rec.EnableWrites = enabled
		return nil
	})
}

func (c *Catalog) SetCurrentVersion(ctx context.Context, store string, version int) error {
	return c.mutateStore(store, func(rec *storeRecord) error {
		rec.CurrentVersion = version
		return nil
	})
}

func (c *Catalog) SetOwner(ctx context.Context, store, owner string) error {
	return c.mutateStore(store, func(rec *storeRecord) error {
		rec.Owner = owner
		return nil
	})
}

func (c *Catalog) SetPartitionCount(ctx context.Context, store string, count int) error {
	return c.mutateStore(store, func(rec *storeRecord) error {
		rec.PartitionCount = count
		return nil
	})
}

// ApplyUpdateStore applies every recognized, non-nil field of opts atomically
// (spec.md §6, Design Note "Sparse update request"). Only the fields this
// reference catalog has a home for are applied; the remainder (quotas,
// compression, ETL, and the other UpdateStoreOptions not modeled as catalog
// state) are accepted without error, matching a real deployment where not
// every option affects every backend's storage layout.
func (c *Catalog) ApplyUpdateStore(ctx context.Context, opts types.UpdateStoreOptions) error {
	return c.mutateStore(opts.StoreName, func(rec *storeRecord) error {
		if opts.Owner != nil {
			rec.Owner = *opts.Owner
		}
		if opts.EnableReads != nil {
			rec.EnableReads = *opts.EnableReads
		}
		if opts.EnableWrites != nil {
			rec.EnableWrites = *opts.EnableWrites
		}
		if opts.PartitionCount != nil {
			rec.PartitionCount = *opts.PartitionCount
		}
		if opts.CurrentVersion != types.IgnoredCurrentVersion {
			rec.CurrentVersion = opts.CurrentVersion
		}
		if opts.IsMigrating != nil {
			rec.IsMigrating = *opts.IsMigrating
		}
		if opts.LargestUsedVersionNumber != nil {
			rec.LargestVersion = *opts.LargestUsedVersionNumber
		}
		return nil
	})
}

func (c *Catalog) DeleteAllVersions(ctx context.Context, store string) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVersions)
		prefix := []byte(store + "/")
		cur := b.Cursor()
		var keys [][]byte
		for k, _ := cur.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = cur.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func hasPrefix(k, prefix []byte) bool {
	if len(k) < len(prefix) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

func versionKey(store string, version int) string {
	return fmt.Sprintf("%s/%d", store, version)
}

func (c *Catalog) DeleteVersion(ctx context.Context, store string, version int) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketVersions).Delete([]byte(versionKey(store, version)))
	})
}

func (c *Catalog) DematerializeVersion(ctx context.Context, store string, version int) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVersions)
		key := []byte(versionKey(store, version))
		data := b.Get(key)
		if data == nil {
			return nil
		}
		var rec versionRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		rec.Materialized = false
		encoded, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		return b.Put(key, encoded)
	})
}

func (c *Catalog) DeleteStore(ctx context.Context, store string, largestUsedVersion int) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(bucketStores).Delete([]byte(store)); err != nil {
			return err
		}
		b := tx.Bucket(bucketVersions)
		prefix := []byte(store + "/")
		cur := b.Cursor()
		var keys [][]byte
		for k, _ := cur.Seek(prefix); k != nil && hasPrefix(k, prefix); k, _ = cur.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *Catalog) IsMigrating(ctx context.Context, store string) (bool, error) {
	var migrating bool
	err := c.db.View(func(tx *bolt.Tx) error {
		rec, err := c.getStore(tx, store)
		if err != nil {
			return err
		}
		if rec != nil {
			migrating = rec.IsMigrating
		}
		return nil
	})
	return migrating, err
}

func (c *Catalog) RecordMigration(ctx context.Context, store, sourceCluster, destCluster string) error {
	return c.mutateStore(store, func(rec *storeRecord) error {
		rec.IsMigrating = true
		rec.MigrationSource = sourceCluster
		rec.MigrationDest = destCluster
		return nil
	})
}

func (c *Catalog) AbortMigration(ctx context.Context, store, sourceCluster, destCluster string) error {
	return c.mutateStore(store, func(rec *storeRecord) error {
		rec.IsMigrating = false
		rec.MigrationSource = ""
		rec.MigrationDest = ""
		return nil
	})
}

func (c *Catalog) StoreKind(ctx context.Context, store string) (types.StoreKind, error) {
	var kind types.StoreKind
	err := c.db.View(func(tx *bolt.Tx) error {
		rec, err := c.getStore(tx, store)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("store not found: %s", store)
		}
		kind = rec.Kind
		return nil
	})
	return kind, err
}

func (c *Catalog) AddVersion(ctx context.Context, p types.AddVersionPayload) error {
	return c.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketVersions)
		data, err := json.Marshal(versionRecord{
			StoreName:          p.StoreName,
			VersionNumber:      p.VersionNumber,
			PushJobID:          p.PushJobID,
			NumberOfPartitions: p.NumberOfPartitions,
			Materialized:       true,
		})
		if err != nil {
			return err
		}
		return b.Put([]byte(versionKey(p.StoreName, p.VersionNumber)), data)
	})
}

func (c *Catalog) BumpSharedMetadataVersion(ctx context.Context, p types.AddVersionPayload) error {
	return c.mutateStore(p.StoreName, func(rec *storeRecord) error {
		rec.CurrentVersion = p.VersionNumber
		return nil
	})
}

func (c *Catalog) MaterializeMetadataStore(ctx context.Context, p types.AddVersionPayload) error {
	return c.AddVersion(ctx, p)
}

func (c *Catalog) KillPushJob(ctx context.Context, store, topic string) error {
	log.WithComponent("backend.catalog").Info().
		Str("store", store).
		Str("topic", topic).
		Msg("killing offline push job")
	return nil
}

func (c *Catalog) MirrorToPeerCluster(ctx context.Context, store string, payload types.Payload) error {
	log.WithComponent("backend.catalog").Debug().
		Str("store", store).
		Msg("mirror to peer cluster is a no-op in the reference catalog")
	return nil
}
