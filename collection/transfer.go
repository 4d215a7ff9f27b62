package collection

import (
	"errors"
	"fmt"

	"github.com/relicforge/librelic-go/journal"
	"github.com/relicforge/librelic-go/ledger"
)

// Receiver acknowledges receipt of a unit during a safe transfer. A non-nil
// error rejects the transfer, which is rolled back before the call returns.
type Receiver interface {
	OnUnitReceived(operator, from ledger.Identity, id uint64, data []byte) error
}

// TransferFrom moves a unit between identities. Soul-bound units are rejected
// before the base ledger is consulted; everything else (ownership, approval)
// is the ledger's business.
func (c *Collection) TransferFrom(caller, from, to ledger.Identity, id uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transfer(caller, from, to, id)
}

// SafeTransferFrom is TransferFrom with receiver acknowledgement and no data.
func (c *Collection) SafeTransferFrom(caller, from, to ledger.Identity, id uint64, rcv Receiver) error {
	return c.SafeTransferFromData(caller, from, to, id, nil, rcv)
}

// SafeTransferFromData is TransferFrom with receiver acknowledgement. When
// rcv is non-nil its acknowledgement runs after the ownership change; a
// rejection rolls the unit back to from and fails the whole call.
func (c *Collection) SafeTransferFromData(caller, from, to ledger.Identity, id uint64, data []byte, rcv Receiver) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.transfer(caller, from, to, id); err != nil {
		return err
	}
	if rcv == nil {
		return nil
	}
	if err := rcv.OnUnitReceived(caller, from, id, data); err != nil {
		// Roll back: to owns the unit now, so the reverse move is on its
		// own authority.
		if rbErr := c.ledger.Transfer(to, to, from, id); rbErr != nil {
			return fmt.Errorf("collection: rollback of rejected transfer: %w", rbErr)
		}
		return fmt.Errorf("%w: receiver rejected unit %d: %w", ErrTransfer, id, err)
	}
	return nil
}

// transfer is the lock guard plus ledger delegation. Callers hold c.mu.
func (c *Collection) transfer(caller, from, to ledger.Identity, id uint64) error {
	if c.locked[id] {
		return fmt.Errorf("%w: unit %d is soul-bound", ErrTransfer, id)
	}
	if err := c.ledger.Transfer(caller, from, to, id); err != nil {
		return mapLedgerErr(err, id)
	}
	c.record(journal.KindTransfer, caller, []uint64{id}, nil, string(from)+">"+string(to))
	return nil
}

// mapLedgerErr translates base-ledger failures into the collection taxonomy.
func mapLedgerErr(err error, id uint64) error {
	switch {
	case errors.Is(err, ledger.ErrUnitNotFound):
		return fmt.Errorf("%w: %d", ErrUnknownUnit, id)
	case errors.Is(err, ledger.ErrNotOwner), errors.Is(err, ledger.ErrNotAuthorized):
		return fmt.Errorf("%w: %w", ErrUnauthorized, err)
	default:
		return fmt.Errorf("collection: ledger: %w", err)
	}
}
