package collection

import (
	"fmt"
	"strconv"

	"github.com/holiman/uint256"

	"github.com/relicforge/librelic-go/allowlist"
	"github.com/relicforge/librelic-go/journal"
	"github.com/relicforge/librelic-go/ledger"
)

// SetPhase unconditionally overwrites the sale phase. Any phase may follow
// any other; there is no required order.
func (c *Collection) SetPhase(caller ledger.Identity, p Phase) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireOwner(caller); err != nil {
		return err
	}
	c.phase = p

	if err := c.persist(); err != nil {
		return err
	}
	c.record(journal.KindPhase, caller, nil, nil, p.String())
	return nil
}

// SetPresaleRoot commits a new allow-list Merkle root.
func (c *Collection) SetPresaleRoot(caller ledger.Identity, root []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireOwner(caller); err != nil {
		return err
	}
	if len(root) != allowlist.HashSize {
		return fmt.Errorf("%w: root must be %d bytes", ErrState, allowlist.HashSize)
	}
	c.allowRoot = append([]byte(nil), root...)
	return c.persist()
}

// SetMintPrice sets the public-phase unit price.
func (c *Collection) SetMintPrice(caller ledger.Identity, v *uint256.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireOwner(caller); err != nil {
		return err
	}
	c.publicPrice = cloneOrZero(v)
	return c.persist()
}

// SetPresalePrice sets the presale-phase unit price.
func (c *Collection) SetPresalePrice(caller ledger.Identity, v *uint256.Int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireOwner(caller); err != nil {
		return err
	}
	c.presalePrice = cloneOrZero(v)
	return c.persist()
}

// Pause sets the global pause flag, disabling the paid mint paths and
// crafting.
func (c *Collection) Pause(caller ledger.Identity) error {
	return c.setPaused(caller, true)
}

// Unpause clears the global pause flag.
func (c *Collection) Unpause(caller ledger.Identity) error {
	return c.setPaused(caller, false)
}

func (c *Collection) setPaused(caller ledger.Identity, paused bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireOwner(caller); err != nil {
		return err
	}
	c.access.SetPaused(paused)
	return nil
}

// LockSoulbound sets or clears the soul-bound flag on a unit, in either
// direction, at any time. The only validation beyond owner privilege is the
// normal ledger existence lookup.
func (c *Collection) LockSoulbound(caller ledger.Identity, id uint64, locked bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireOwner(caller); err != nil {
		return err
	}
	exists, err := c.ledger.Exists(id)
	if err != nil {
		return fmt.Errorf("collection: ledger: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %d", ErrUnknownUnit, id)
	}
	if locked {
		c.locked[id] = true
	} else {
		delete(c.locked, id)
	}

	if err := c.persist(); err != nil {
		return err
	}
	c.record(journal.KindLock, caller, []uint64{id}, nil, strconv.FormatBool(locked))
	return nil
}

// Withdraw moves the entire balance held by the collection to the owner
// through the configured ValueMover. A failed value movement aborts the whole
// call and leaves the balance untouched.
func (c *Collection) Withdraw(caller ledger.Identity) (*uint256.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireOwner(caller); err != nil {
		return nil, err
	}
	if c.treasury == nil {
		return nil, fmt.Errorf("%w: treasury mover", ErrNilParam)
	}

	amount := new(uint256.Int).Set(c.balance)
	if err := c.treasury.Move(c.owner, amount); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTreasury, err)
	}
	c.balance.Clear()

	if err := c.persist(); err != nil {
		return amount, err
	}
	c.record(journal.KindWithdraw, caller, nil, amount, "")
	return amount, nil
}
