package collection

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/relicforge/librelic-go/access"
	"github.com/relicforge/librelic-go/allowlist"
	"github.com/relicforge/librelic-go/journal"
	"github.com/relicforge/librelic-go/ledger"
)

// PresaleMint issues amount units to caller during the presale phase. The
// proof must show caller's membership in the committed allow-list; the proof
// authenticates membership only, never the amount. Each identity can claim
// exactly once, ever, regardless of amount. Overpayment is kept, not
// refunded. The claim is recorded only when the whole call succeeds, so a
// caller rejected for capacity keeps their unused claim.
func (c *Collection) PresaleMint(caller ledger.Identity, amount uint64, payment *uint256.Int, proof [][]byte) ([]uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireUnpaused(); err != nil {
		return nil, err
	}
	if c.phase != PhasePreSale {
		return nil, fmt.Errorf("%w: presale (current: %s)", ErrPhaseInactive, c.phase)
	}

	ok, err := allowlist.VerifyProof(string(caller), proof, c.allowRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAllowList, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %w", ErrAllowList, allowlist.ErrProofInvalid)
	}
	if c.claims[caller] != 0 {
		return nil, fmt.Errorf("%w: identity already claimed %d", ErrAllowList, c.claims[caller])
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrState)
	}
	if err := checkPayment(c.presalePrice, amount, payment); err != nil {
		return nil, err
	}

	ids, err := c.mintBatch(caller, amount)
	if err != nil {
		return nil, err
	}
	c.claims[caller] = amount
	c.credit(payment)

	if err := c.persist(); err != nil {
		return ids, err
	}
	c.record(journal.KindPresaleMint, caller, ids, payment, "")
	return ids, nil
}

// PublicMint issues amount units to caller during the public phase. There is
// no per-identity cap. Overpayment is kept, not refunded.
func (c *Collection) PublicMint(caller ledger.Identity, amount uint64, payment *uint256.Int) ([]uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireUnpaused(); err != nil {
		return nil, err
	}
	if c.phase != PhasePublicSale {
		return nil, fmt.Errorf("%w: public sale (current: %s)", ErrPhaseInactive, c.phase)
	}
	if amount == 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrState)
	}
	if err := checkPayment(c.publicPrice, amount, payment); err != nil {
		return nil, err
	}

	ids, err := c.mintBatch(caller, amount)
	if err != nil {
		return nil, err
	}
	c.credit(payment)

	if err := c.persist(); err != nil {
		return ids, err
	}
	c.record(journal.KindPublicMint, caller, ids, payment, "")
	return ids, nil
}

// BatchAirdrop mints exactly one unit to each identity in array order, ids
// assigned in that same order. Requires the minter role; no payment and no
// phase gate.
func (c *Collection) BatchAirdrop(caller ledger.Identity, identities []ledger.Identity) ([]uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.access.HasRole(access.RoleMinter, caller) {
		return nil, fmt.Errorf("%w: minter role required", ErrUnauthorized)
	}
	for _, id := range identities {
		if !id.Valid() {
			return nil, fmt.Errorf("%w: airdrop target", ErrNilParam)
		}
	}

	ids, err := c.supply.Reserve(uint64(len(identities)))
	if err != nil {
		return nil, err
	}
	for i, to := range identities {
		if err := c.mintOne(to, ids[i]); err != nil {
			return nil, err
		}
	}

	if err := c.persist(); err != nil {
		return ids, err
	}
	c.record(journal.KindAirdrop, caller, ids, nil, "")
	return ids, nil
}

// mintBatch reserves amount ids and mints them all to one target.
func (c *Collection) mintBatch(to ledger.Identity, amount uint64) ([]uint64, error) {
	ids, err := c.supply.Reserve(amount)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if err := c.mintOne(to, id); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// mintOne creates one unit in the base ledger. New units are unlocked and
// carry no descriptor override. Ids come fresh from the supply ledger, so a
// failure here means the base ledger is corrupt.
func (c *Collection) mintOne(to ledger.Identity, id uint64) error {
	if err := c.ledger.Mint(to, id); err != nil {
		return fmt.Errorf("collection: mint unit %d: %w", id, err)
	}
	return nil
}

// checkPayment verifies payment covers price times amount.
func checkPayment(price *uint256.Int, amount uint64, payment *uint256.Int) error {
	total, overflow := new(uint256.Int).MulOverflow(price, uint256.NewInt(amount))
	if overflow {
		return fmt.Errorf("%w: price overflow for amount %d", ErrPayment, amount)
	}
	if payment == nil {
		payment = new(uint256.Int)
	}
	if payment.Lt(total) {
		return fmt.Errorf("%w: need %s, got %s", ErrPayment, total.Dec(), payment.Dec())
	}
	return nil
}

// credit adds an attached payment to the treasury balance.
func (c *Collection) credit(payment *uint256.Int) {
	if payment != nil {
		c.balance.Add(c.balance, payment)
	}
}
