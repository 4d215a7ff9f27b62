package collection

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketState = []byte("state")
	keySnapshot = []byte("snapshot")
)

// BoltStateStore persists collection snapshots in a bbolt database.
type BoltStateStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ StateStore = (*BoltStateStore)(nil)

// OpenBoltStateStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStateStore(dbPath string) (*BoltStateStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("collection: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("collection: open bolt db: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketState)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("collection: create bucket: %w", err)
	}
	return &BoltStateStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStateStore) Close() error { return s.db.Close() }

// Save overwrites the stored snapshot.
func (s *BoltStateStore) Save(snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: snapshot", ErrNilParam)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("collection: encode snapshot: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(bucketState).Put(keySnapshot, buf.Bytes()); err != nil {
			return fmt.Errorf("collection: put snapshot: %w", err)
		}
		return nil
	})
}

// Load returns the stored snapshot, or ErrNoSnapshot.
func (s *BoltStateStore) Load() (*Snapshot, error) {
	var snap Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketState).Get(keySnapshot)
		if data == nil {
			return ErrNoSnapshot
		}
		if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
			return fmt.Errorf("collection: decode snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
