package collection

import (
	"fmt"
	"strconv"

	"github.com/relicforge/librelic-go/journal"
	"github.com/relicforge/librelic-go/ledger"
)

// Resolve returns the descriptor for a unit.
//
// Before the reveal every id resolves to the global placeholder, whether or
// not the unit exists. After the reveal a non-empty override (installed by
// crafting) wins verbatim; otherwise existing units resolve to the base
// template concatenated with the id, and unknown ids fail.
func (c *Collection) Resolve(id uint64) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.revealed {
		return c.placeholder, nil
	}
	if override := c.overrides[id]; override != "" {
		return override, nil
	}
	exists, err := c.ledger.Exists(id)
	if err != nil {
		return "", fmt.Errorf("collection: ledger: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("%w: %d", ErrUnknownUnit, id)
	}
	return c.baseTemplate + strconv.FormatUint(id, 10), nil
}

// Reveal performs the one-time metadata switch: it installs the base
// descriptor template and flips the revealed flag. A second call always
// fails.
func (c *Collection) Reveal(caller ledger.Identity, newBaseTemplate string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireOwner(caller); err != nil {
		return err
	}
	if c.revealed {
		return fmt.Errorf("%w: already revealed", ErrState)
	}
	c.baseTemplate = newBaseTemplate
	c.revealed = true

	if err := c.persist(); err != nil {
		return err
	}
	c.record(journal.KindReveal, caller, nil, nil, newBaseTemplate)
	return nil
}
