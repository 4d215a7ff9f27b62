package collection

import (
	"errors"
	"fmt"

	"github.com/relicforge/librelic-go/journal"
	"github.com/relicforge/librelic-go/ledger"
)

// CraftAndUpgrade destroys two units owned by caller and mints one new unit
// to caller carrying descriptor as its metadata override. The burn is a true
// destruction, never a transfer, so soul-bound units can be crafted away.
// Burning frees no capacity headroom: the new unit consumes issuance exactly
// as if nothing had been destroyed.
func (c *Collection) CraftAndUpgrade(caller ledger.Identity, idA, idB uint64, descriptor string) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireUnpaused(); err != nil {
		return 0, err
	}
	if idA == idB {
		return 0, fmt.Errorf("%w: crafting requires two distinct units", ErrState)
	}
	for _, id := range [2]uint64{idA, idB} {
		owner, err := c.ledger.OwnerOf(id)
		if err != nil {
			if errors.Is(err, ledger.ErrUnitNotFound) {
				return 0, fmt.Errorf("%w: %d", ErrUnknownUnit, id)
			}
			return 0, fmt.Errorf("collection: look up unit %d: %w", id, err)
		}
		if owner != caller {
			return 0, fmt.Errorf("%w: caller does not own unit %d", ErrUnauthorized, id)
		}
	}
	// Capacity is checked before the burns so a full collection aborts with
	// nothing destroyed.
	if c.supply.Headroom() < 1 {
		return 0, fmt.Errorf("%w: issued %d of %d, requested 1",
			ErrSupplyExceeded, c.supply.Issued(), c.supply.Cap())
	}

	// Destruction re-checks existence inside the ledger; validated above and
	// serialized under the collection mutex, it cannot fail mid-pair.
	for _, id := range [2]uint64{idA, idB} {
		if err := c.ledger.Burn(id); err != nil {
			return 0, fmt.Errorf("collection: burn unit %d: %w", id, err)
		}
		delete(c.locked, id)
		delete(c.overrides, id)
	}

	ids, err := c.supply.Reserve(1)
	if err != nil {
		return 0, err
	}
	newID := ids[0]
	if err := c.mintOne(caller, newID); err != nil {
		return 0, err
	}
	c.overrides[newID] = descriptor

	if err := c.persist(); err != nil {
		return newID, err
	}
	c.record(journal.KindCraft, caller, []uint64{idA, idB, newID}, nil, descriptor)
	return newID, nil
}
