package store

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/nexusprime/fabric/pkg/types"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketFabric = []byte("fabric")
	keySnapshot  = []byte("fabric_state")
)

// BoltStateStore is a StateStore backed by a single bbolt database
// file, holding exactly one bucket and one key.
type BoltStateStore struct {
	db *bolt.DB
}

// NewBoltStateStore opens (creating if absent) fabric.db under dataDir.
func NewBoltStateStore(dataDir string) (*BoltStateStore, error) {
	dbPath := filepath.Join(dataDir, "fabric.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketFabric)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create fabric bucket: %w", err)
	}

	return &BoltStateStore{db: db}, nil
}

// Load returns an empty Snapshot if the database has never been saved to.
func (s *BoltStateStore) Load() (*Snapshot, error) {
	snap := &Snapshot{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFabric)
		data := b.Get(keySnapshot)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, snap)
	})
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if snap.Nodes == nil {
		snap.Nodes = make(map[string]*types.ComputeNode)
	}
	if snap.Agents == nil {
		snap.Agents = make(map[string]*types.AIAgent)
	}
	return snap, nil
}

func (s *BoltStateStore) Save(snap *Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketFabric)
		return b.Put(keySnapshot, data)
	})
}

func (s *BoltStateStore) Close() error {
	return s.db.Close()
}
