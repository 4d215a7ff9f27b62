package ledger

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketOwners     = []byte("owners")
	bucketApprovals  = []byte("approvals")
	bucketOwnerIndex = []byte("owner_index")
)

// BoltLedger is a bbolt-backed implementation of Ledger. Every mutation runs
// in a single write transaction, so a failed operation leaves no partial
// state.
type BoltLedger struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Ledger = (*BoltLedger)(nil)

// OpenBoltLedger opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltLedger(dbPath string) (*BoltLedger, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketOwners, bucketApprovals, bucketOwnerIndex} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltledger: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: create buckets: %w", err)
	}

	return &BoltLedger{db: db}, nil
}

// Close closes the underlying database.
func (l *BoltLedger) Close() error { return l.db.Close() }

// unitKey encodes a unit id as an 8-byte big-endian key for sorted storage.
func unitKey(id uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, id)
	return k
}

// indexKey builds the composite owner index key: owner bytes + unit key.
func indexKey(owner Identity, id uint64) []byte {
	k := make([]byte, len(owner)+8)
	copy(k, owner)
	copy(k[len(owner):], unitKey(id))
	return k
}

// Mint creates a unit owned by to.
func (l *BoltLedger) Mint(to Identity, id uint64) error {
	if !to.Valid() {
		return fmt.Errorf("%w: mint target", ErrEmptyIdentity)
	}

	return l.db.Update(func(tx *bbolt.Tx) error {
		owners := tx.Bucket(bucketOwners)
		key := unitKey(id)
		if owners.Get(key) != nil {
			return fmt.Errorf("%w: %d", ErrDuplicateUnit, id)
		}
		if err := owners.Put(key, []byte(to)); err != nil {
			return fmt.Errorf("boltledger: put owner: %w", err)
		}
		if err := tx.Bucket(bucketOwnerIndex).Put(indexKey(to, id), []byte{}); err != nil {
			return fmt.Errorf("boltledger: put owner index: %w", err)
		}
		return nil
	})
}

// Burn destroys a unit and clears its approval.
func (l *BoltLedger) Burn(id uint64) error {
	return l.db.Update(func(tx *bbolt.Tx) error {
		owners := tx.Bucket(bucketOwners)
		key := unitKey(id)
		ownerBytes := owners.Get(key)
		if ownerBytes == nil {
			return fmt.Errorf("%w: %d", ErrUnitNotFound, id)
		}
		if err := owners.Delete(key); err != nil {
			return fmt.Errorf("boltledger: delete owner: %w", err)
		}
		if err := tx.Bucket(bucketApprovals).Delete(key); err != nil {
			return fmt.Errorf("boltledger: delete approval: %w", err)
		}
		if err := tx.Bucket(bucketOwnerIndex).Delete(indexKey(Identity(ownerBytes), id)); err != nil {
			return fmt.Errorf("boltledger: delete owner index: %w", err)
		}
		return nil
	})
}

// Transfer moves a unit between identities, enforcing owner/approved access.
func (l *BoltLedger) Transfer(caller, from, to Identity, id uint64) error {
	if !caller.Valid() || !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: transfer parties", ErrEmptyIdentity)
	}

	return l.db.Update(func(tx *bbolt.Tx) error {
		owners := tx.Bucket(bucketOwners)
		approvals := tx.Bucket(bucketApprovals)
		key := unitKey(id)

		ownerBytes := owners.Get(key)
		if ownerBytes == nil {
			return fmt.Errorf("%w: %d", ErrUnitNotFound, id)
		}
		owner := Identity(ownerBytes)
		if owner != from {
			return fmt.Errorf("%w: unit %d", ErrNotOwner, id)
		}
		if caller != owner && caller != Identity(approvals.Get(key)) {
			return fmt.Errorf("%w: unit %d", ErrNotAuthorized, id)
		}

		if err := owners.Put(key, []byte(to)); err != nil {
			return fmt.Errorf("boltledger: put owner: %w", err)
		}
		if err := approvals.Delete(key); err != nil {
			return fmt.Errorf("boltledger: delete approval: %w", err)
		}
		idx := tx.Bucket(bucketOwnerIndex)
		if err := idx.Delete(indexKey(from, id)); err != nil {
			return fmt.Errorf("boltledger: delete owner index: %w", err)
		}
		if err := idx.Put(indexKey(to, id), []byte{}); err != nil {
			return fmt.Errorf("boltledger: put owner index: %w", err)
		}
		return nil
	})
}

// OwnerOf returns the current owner of a unit.
func (l *BoltLedger) OwnerOf(id uint64) (Identity, error) {
	var owner Identity
	err := l.db.View(func(tx *bbolt.Tx) error {
		ownerBytes := tx.Bucket(bucketOwners).Get(unitKey(id))
		if ownerBytes == nil {
			return fmt.Errorf("%w: %d", ErrUnitNotFound, id)
		}
		owner = Identity(ownerBytes)
		return nil
	})
	if err != nil {
		return "", err
	}
	return owner, nil
}

// Exists reports whether a unit is live.
func (l *BoltLedger) Exists(id uint64) (bool, error) {
	var exists bool
	err := l.db.View(func(tx *bbolt.Tx) error {
		exists = tx.Bucket(bucketOwners).Get(unitKey(id)) != nil
		return nil
	})
	return exists, err
}

// Approve grants (or clears, for an empty identity) transfer approval.
func (l *BoltLedger) Approve(caller, approved Identity, id uint64) error {
	if !caller.Valid() {
		return fmt.Errorf("%w: caller", ErrEmptyIdentity)
	}

	return l.db.Update(func(tx *bbolt.Tx) error {
		key := unitKey(id)
		ownerBytes := tx.Bucket(bucketOwners).Get(key)
		if ownerBytes == nil {
			return fmt.Errorf("%w: %d", ErrUnitNotFound, id)
		}
		if caller != Identity(ownerBytes) {
			return fmt.Errorf("%w: unit %d", ErrNotAuthorized, id)
		}
		approvals := tx.Bucket(bucketApprovals)
		if !approved.Valid() {
			if err := approvals.Delete(key); err != nil {
				return fmt.Errorf("boltledger: delete approval: %w", err)
			}
			return nil
		}
		if err := approvals.Put(key, []byte(approved)); err != nil {
			return fmt.Errorf("boltledger: put approval: %w", err)
		}
		return nil
	})
}

// GetApproved returns the standing approval for a unit, or empty.
func (l *BoltLedger) GetApproved(id uint64) (Identity, error) {
	var approved Identity
	err := l.db.View(func(tx *bbolt.Tx) error {
		key := unitKey(id)
		if tx.Bucket(bucketOwners).Get(key) == nil {
			return fmt.Errorf("%w: %d", ErrUnitNotFound, id)
		}
		approved = Identity(tx.Bucket(bucketApprovals).Get(key))
		return nil
	})
	if err != nil {
		return "", err
	}
	return approved, nil
}

// TokensOf returns the ids currently owned by owner, ascending. It scans the
// owner index by key prefix.
func (l *BoltLedger) TokensOf(owner Identity) ([]uint64, error) {
	if !owner.Valid() {
		return nil, fmt.Errorf("%w: owner", ErrEmptyIdentity)
	}

	prefix := []byte(owner)
	var ids []uint64
	err := l.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketOwnerIndex).Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			if len(k) != len(prefix)+8 {
				continue // key for an owner whose address extends this prefix
			}
			ids = append(ids, binary.BigEndian.Uint64(k[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("boltledger: tokens of: %w", err)
	}
	return ids, nil
}
