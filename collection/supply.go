package collection

import (
	"fmt"
	"math"
)

// SupplyLedger is the single authority for unit id allocation. Ids are
// assigned sequentially starting at 1 and never reused; the issued counter
// only grows, so burning units never frees capacity headroom.
//
// SupplyLedger is not safe for concurrent use on its own; the collection
// serializes access to it.
type SupplyLedger struct {
	cap    uint64
	issued uint64
}

// NewSupplyLedger creates a ledger with an immutable cap.
func NewSupplyLedger(cap uint64) *SupplyLedger {
	return &SupplyLedger{cap: cap}
}

// Cap returns the immutable maximum cumulative issuance.
func (s *SupplyLedger) Cap() uint64 { return s.cap }

// Issued returns the cumulative number of units ever minted.
func (s *SupplyLedger) Issued() uint64 { return s.issued }

// Headroom returns how many more units may ever be issued.
func (s *SupplyLedger) Headroom() uint64 { return s.cap - s.issued }

// Reserve allocates n sequential ids, advancing the issued counter, or fails
// without any allocation if the cap would be exceeded. Reserving zero ids
// succeeds and returns nil.
func (s *SupplyLedger) Reserve(n uint64) ([]uint64, error) {
	if n == 0 {
		return nil, nil
	}
	if n > math.MaxUint64-s.issued || s.issued+n > s.cap {
		return nil, fmt.Errorf("%w: issued %d of %d, requested %d",
			ErrSupplyExceeded, s.issued, s.cap, n)
	}

	ids := make([]uint64, n)
	for i := range ids {
		ids[i] = s.issued + uint64(i) + 1
	}
	s.issued += n
	return ids, nil
}

// restore rewinds the ledger to a persisted issued count. Only the snapshot
// loader calls this.
func (s *SupplyLedger) restore(issued uint64) {
	s.issued = issued
}
