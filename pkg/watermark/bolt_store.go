package watermark

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketOffsets = []byte("offsets")
	bucketExecIDs = []byte("exec_ids")
)

// BoltStore is the durable, bbolt-backed WatermarkStore. Layout mirrors
// the teacher's pkg/storage/boltdb.go: one bucket per entity, keys are
// plain strings, values are JSON. Offsets are keyed by cluster; exec ids
// are keyed "<cluster>/<store>".
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (creating if necessary) a bbolt database under
// dataDir for watermark state.
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "watermark.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open watermark db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketOffsets, bucketExecIDs} {
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

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) ReadOffset(cluster string) (int64, bool, error) {
	var offset int64
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketOffsets).Get([]byte(cluster))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &offset)
	})
	return offset, found, err
}

func (s *BoltStore) WriteOffset(cluster string, offset int64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketOffsets)
		data := b.Get([]byte(cluster))
		if data != nil {
			var current int64
			if err := json.Unmarshal(data, &current); err != nil {
				return err
			}
			if offset <= current {
				return &WatermarkRegression{Cluster: cluster, Current: current, Attempted: offset}
			}
		}
		encoded, err := json.Marshal(offset)
		if err != nil {
			return err
		}
		return b.Put([]byte(cluster), encoded)
	})
}

func (s *BoltStore) ReadExecIDs(cluster string) (map[string]int64, error) {
	out := make(map[string]int64)
	prefix := []byte(cluster + "/")
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketExecIDs).Cursor()
		for k, v := c.Seek(prefix); k != nil && hasPrefix(k, prefix); k, v = c.Next() {
			var id int64
			if err := json.Unmarshal(v, &id); err != nil {
				return err
			}
			out[string(k[len(prefix):])] = id
		}
		return nil
	})
	return out, err
}

func (s *BoltStore) BumpExecID(cluster, store string, id int64) error {
	key := []byte(execIDKey(cluster, store))
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketExecIDs)
		data := b.Get(key)
		if data != nil {
			var current int64
			if err := json.Unmarshal(data, &current); err != nil {
				return err
			}
			if id <= current {
				return &WatermarkRegression{Cluster: cluster, Store: store, Current: current, Attempted: id}
			}
		}
		encoded, err := json.Marshal(id)
		if err != nil {
			return err
		}
		return b.Put(key, encoded)
	})
}

func execIDKey(cluster, store string) string {
	return cluster + "/" + store
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
