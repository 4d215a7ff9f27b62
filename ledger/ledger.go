// Package ledger is the base ownership ledger: who owns which unit, existence
// checks, mint/burn, and transfer mechanics including per-unit approvals. It
// carries no sale, pricing, or metadata logic; that lives in the collection
// layer that wraps it.
package ledger

import (
	"fmt"
	"sort"
	"sync"
)

// Ledger records exclusive ownership of units.
//
// Transfer requires caller to be the current owner or the approved identity
// for the unit, and from to be the current owner. Transfer and Burn clear any
// standing approval for the unit.
type Ledger interface {
	// Mint creates a unit owned by to. The id must be unused.
	Mint(to Identity, id uint64) error

	// Burn destroys a unit. Fails if the unit does not exist.
	Burn(id uint64) error

	// Transfer moves a unit from one identity to another.
	Transfer(caller, from, to Identity, id uint64) error

	// OwnerOf returns the current owner of a unit.
	OwnerOf(id uint64) (Identity, error)

	// Exists reports whether a unit with this id is live.
	Exists(id uint64) (bool, error)

	// Approve grants to approved the right to transfer the unit once.
	// An empty approved identity clears the approval. Caller must own the unit.
	Approve(caller, approved Identity, id uint64) error

	// GetApproved returns the approved identity for a unit, or empty.
	GetApproved(id uint64) (Identity, error)

	// TokensOf returns the ids currently owned by owner, ascending.
	TokensOf(owner Identity) ([]uint64, error)
}

// MemLedger is an in-memory implementation of Ledger.
type MemLedger struct {
	mu        sync.RWMutex
	owners    map[uint64]Identity
	approvals map[uint64]Identity
	byOwner   map[Identity]map[uint64]struct{}
}

// Compile-time interface check.
var _ Ledger = (*MemLedger)(nil)

// NewMemLedger creates a new empty in-memory ledger.
func NewMemLedger() *MemLedger {
	return &MemLedger{
		owners:    make(map[uint64]Identity),
		approvals: make(map[uint64]Identity),
		byOwner:   make(map[Identity]map[uint64]struct{}),
	}
}

// Mint creates a unit owned by to.
func (l *MemLedger) Mint(to Identity, id uint64) error {
	if !to.Valid() {
		return fmt.Errorf("%w: mint target", ErrEmptyIdentity)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.owners[id]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateUnit, id)
	}
	l.owners[id] = to
	l.indexLocked(to, id)
	return nil
}

// Burn destroys a unit and clears its approval.
func (l *MemLedger) Burn(id uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	owner, exists := l.owners[id]
	if !exists {
		return fmt.Errorf("%w: %d", ErrUnitNotFound, id)
	}
	delete(l.owners, id)
	delete(l.approvals, id)
	l.unindexLocked(owner, id)
	return nil
}

// Transfer moves a unit between identities, enforcing owner/approved access.
func (l *MemLedger) Transfer(caller, from, to Identity, id uint64) error {
	if !caller.Valid() || !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: transfer parties", ErrEmptyIdentity)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	owner, exists := l.owners[id]
	if !exists {
		return fmt.Errorf("%w: %d", ErrUnitNotFound, id)
	}
	if owner != from {
		return fmt.Errorf("%w: unit %d", ErrNotOwner, id)
	}
	if caller != owner && caller != l.approvals[id] {
		return fmt.Errorf("%w: unit %d", ErrNotAuthorized, id)
	}

	l.owners[id] = to
	delete(l.approvals, id)
	l.unindexLocked(from, id)
	l.indexLocked(to, id)
	return nil
}

// OwnerOf returns the current owner of a unit.
func (l *MemLedger) OwnerOf(id uint64) (Identity, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	owner, exists := l.owners[id]
	if !exists {
		return "", fmt.Errorf("%w: %d", ErrUnitNotFound, id)
	}
	return owner, nil
}

// Exists reports whether a unit is live.
func (l *MemLedger) Exists(id uint64) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, exists := l.owners[id]
	return exists, nil
}

// Approve grants (or clears, for an empty identity) transfer approval.
func (l *MemLedger) Approve(caller, approved Identity, id uint64) error {
	if !caller.Valid() {
		return fmt.Errorf("%w: caller", ErrEmptyIdentity)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	owner, exists := l.owners[id]
	if !exists {
		return fmt.Errorf("%w: %d", ErrUnitNotFound, id)
	}
	if caller != owner {
		return fmt.Errorf("%w: unit %d", ErrNotAuthorized, id)
	}
	if approved.Valid() {
		l.approvals[id] = approved
	} else {
		delete(l.approvals, id)
	}
	return nil
}

// GetApproved returns the standing approval for a unit, or empty.
func (l *MemLedger) GetApproved(id uint64) (Identity, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if _, exists := l.owners[id]; !exists {
		return "", fmt.Errorf("%w: %d", ErrUnitNotFound, id)
	}
	return l.approvals[id], nil
}

// TokensOf returns the ids currently owned by owner, ascending.
func (l *MemLedger) TokensOf(owner Identity) ([]uint64, error) {
	if !owner.Valid() {
		return nil, fmt.Errorf("%w: owner", ErrEmptyIdentity)
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	set := l.byOwner[owner]
	if len(set) == 0 {
		return nil, nil
	}
	ids := make([]uint64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (l *MemLedger) indexLocked(owner Identity, id uint64) {
	set := l.byOwner[owner]
	if set == nil {
		set = make(map[uint64]struct{})
		l.byOwner[owner] = set
	}
	set[id] = struct{}{}
}

func (l *MemLedger) unindexLocked(owner Identity, id uint64) {
	set := l.byOwner[owner]
	delete(set, id)
	if len(set) == 0 {
		delete(l.byOwner, owner)
	}
}
