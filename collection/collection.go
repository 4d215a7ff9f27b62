// Package collection is the business-logic layer of a fixed-capacity
// collectible collection: sale-phase gating, allow-list verification, the
// burn-to-upgrade crafting transformation, soul-bound transfer restriction,
// and the pre/post-reveal metadata workflow.
//
// Every entry point executes as one atomic unit under the collection mutex:
// either all of its state mutations commit, or a sentinel error is returned
// and nothing changed. Ownership itself lives in the base ledger collaborator;
// role assignments and the pause flag live in the access controller.
package collection

import (
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/relicforge/librelic-go/access"
	"github.com/relicforge/librelic-go/capability"
	"github.com/relicforge/librelic-go/journal"
	"github.com/relicforge/librelic-go/ledger"
	"github.com/relicforge/librelic-go/rental"
	"github.com/relicforge/librelic-go/royalty"
)

// Core capability IDs always advertised by a collection.
var (
	CapOwnership = capability.Derive("relic.ownership")
	CapMetadata  = capability.Derive("relic.metadata")
)

// ValueMover performs the external value movement of a withdrawal. A failed
// move aborts the whole withdrawal.
type ValueMover interface {
	Move(to ledger.Identity, amount *uint256.Int) error
}

// Params configures a new collection.
type Params struct {
	Owner        ledger.Identity    // privileged administrator, required
	Cap          uint64             // immutable issuance cap, required
	PublicPrice  *uint256.Int       // nil means free
	PresalePrice *uint256.Int       // nil means free
	Placeholder  string             // pre-reveal descriptor
	Ledger       ledger.Ledger      // base ownership ledger, required
	Access       *access.Controller // role store and pause flag, required
	Royalty      *royalty.Schedule  // optional, configured once here
	Rental       *rental.Registry   // optional, exposed unmodified
	Journal      journal.Recorder   // optional best-effort audit trail
	Store        StateStore         // optional snapshot persistence
	Treasury     ValueMover         // required only for Withdraw
}

// Collection is the process-wide collection state and its entry points.
type Collection struct {
	mu sync.Mutex

	owner        ledger.Identity
	phase        Phase
	supply       *SupplyLedger
	publicPrice  *uint256.Int
	presalePrice *uint256.Int
	allowRoot    []byte
	revealed     bool
	placeholder  string
	baseTemplate string
	claims       map[ledger.Identity]uint64
	locked       map[uint64]bool
	overrides    map[uint64]string
	balance      *uint256.Int

	ledger   ledger.Ledger
	access   *access.Controller
	royalty  *royalty.Schedule
	rental   *rental.Registry
	caps     *capability.Registry
	journal  journal.Recorder
	store    StateStore
	treasury ValueMover
}

// New creates a collection in the Closed phase with nothing issued.
func New(p Params) (*Collection, error) {
	if !p.Owner.Valid() {
		return nil, fmt.Errorf("%w: owner", ErrNilParam)
	}
	if p.Ledger == nil {
		return nil, fmt.Errorf("%w: ledger", ErrNilParam)
	}
	if p.Access == nil {
		return nil, fmt.Errorf("%w: access controller", ErrNilParam)
	}
	if p.Cap == 0 {
		return nil, fmt.Errorf("%w: cap must be positive", ErrState)
	}

	c := &Collection{
		owner:        p.Owner,
		phase:        PhaseClosed,
		supply:       NewSupplyLedger(p.Cap),
		publicPrice:  cloneOrZero(p.PublicPrice),
		presalePrice: cloneOrZero(p.PresalePrice),
		placeholder:  p.Placeholder,
		claims:       make(map[ledger.Identity]uint64),
		locked:       make(map[uint64]bool),
		overrides:    make(map[uint64]string),
		balance:      new(uint256.Int),
		ledger:       p.Ledger,
		access:       p.Access,
		royalty:      p.Royalty,
		rental:       p.Rental,
		caps:         capability.NewRegistry(),
		journal:      p.Journal,
		store:        p.Store,
		treasury:     p.Treasury,
	}

	c.caps.RegisterID(CapOwnership, CapMetadata)
	if c.royalty != nil {
		c.caps.Register(c.royalty)
	}
	if c.rental != nil {
		c.caps.Register(c.rental)
	}

	return c, nil
}

// Load restores a collection from the snapshot held by p.Store. The cap and
// price parameters of p are superseded by the snapshot values.
func Load(p Params) (*Collection, error) {
	if p.Store == nil {
		return nil, fmt.Errorf("%w: state store", ErrNilParam)
	}
	snap, err := p.Store.Load()
	if err != nil {
		return nil, err
	}

	p.Cap = snap.Cap
	c, err := New(p)
	if err != nil {
		return nil, err
	}

	publicPrice, err := uint256.FromDecimal(snap.PublicPrice)
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot public price: %w", ErrState, err)
	}
	presalePrice, err := uint256.FromDecimal(snap.PresalePrice)
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot presale price: %w", ErrState, err)
	}
	balance, err := uint256.FromDecimal(snap.Balance)
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot balance: %w", ErrState, err)
	}

	c.phase = snap.Phase
	c.supply.restore(snap.Issued)
	c.publicPrice = publicPrice
	c.presalePrice = presalePrice
	c.allowRoot = append([]byte(nil), snap.AllowRoot...)
	c.revealed = snap.Revealed
	c.placeholder = snap.Placeholder
	c.baseTemplate = snap.BaseTemplate
	c.balance = balance
	for id, amount := range snap.Claims {
		c.claims[ledger.Identity(id)] = amount
	}
	for id, locked := range snap.Locked {
		c.locked[id] = locked
	}
	for id, override := range snap.Overrides {
		c.overrides[id] = override
	}

	return c, nil
}

// Owner returns the privileged administrator identity.
func (c *Collection) Owner() ledger.Identity { return c.owner }

// Phase returns the current sale phase.
func (c *Collection) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Cap returns the immutable issuance cap.
func (c *Collection) Cap() uint64 { return c.supply.Cap() }

// Issued returns the cumulative number of units ever minted. Burning does not
// decrease it.
func (c *Collection) Issued() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.supply.Issued()
}

// Revealed reports whether the one-time reveal has happened.
func (c *Collection) Revealed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revealed
}

// Balance returns the value currently held by the collection.
func (c *Collection) Balance() *uint256.Int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return new(uint256.Int).Set(c.balance)
}

// Claimed returns the presale amount already claimed by an identity.
func (c *Collection) Claimed(id ledger.Identity) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.claims[id]
}

// IsLocked reports whether a unit is soul-bound.
func (c *Collection) IsLocked(id uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locked[id]
}

// Capabilities returns the discovery registry for this collection.
func (c *Collection) Capabilities() *capability.Registry { return c.caps }

// Royalty returns the royalty schedule, or nil.
func (c *Collection) Royalty() *royalty.Schedule { return c.royalty }

// Rental returns the delegated-usage registry, or nil.
func (c *Collection) Rental() *rental.Registry { return c.rental }

// Ledger returns the base ownership ledger.
func (c *Collection) Ledger() ledger.Ledger { return c.ledger }

// requireOwner fails unless caller is the collection owner.
func (c *Collection) requireOwner(caller ledger.Identity) error {
	if caller != c.owner {
		return fmt.Errorf("%w: owner privilege required", ErrUnauthorized)
	}
	return nil
}

// requireUnpaused fails while the global pause flag is set.
func (c *Collection) requireUnpaused() error {
	if c.access.Paused() {
		return fmt.Errorf("%w: collection is paused", ErrUnauthorized)
	}
	return nil
}

// persist saves a snapshot after a committed mutation. The in-memory state
// stays authoritative; a save failure is reported so the caller can retry.
func (c *Collection) persist() error {
	if c.store == nil {
		return nil
	}
	snap := &Snapshot{
		Phase:        c.phase,
		Cap:          c.supply.Cap(),
		Issued:       c.supply.Issued(),
		PublicPrice:  c.publicPrice.Dec(),
		PresalePrice: c.presalePrice.Dec(),
		AllowRoot:    append([]byte(nil), c.allowRoot...),
		Revealed:     c.revealed,
		Placeholder:  c.placeholder,
		BaseTemplate: c.baseTemplate,
		Claims:       make(map[string]uint64, len(c.claims)),
		Locked:       make(map[uint64]bool, len(c.locked)),
		Overrides:    make(map[uint64]string, len(c.overrides)),
		Balance:      c.balance.Dec(),
	}
	for id, amount := range c.claims {
		snap.Claims[string(id)] = amount
	}
	for id, locked := range c.locked {
		snap.Locked[id] = locked
	}
	for id, override := range c.overrides {
		snap.Overrides[id] = override
	}
	if err := c.store.Save(snap); err != nil {
		return fmt.Errorf("collection: save state: %w", err)
	}
	return nil
}

// record journals a committed operation. Best-effort: journal failures are
// dropped so they cannot un-commit the operation they describe.
func (c *Collection) record(kind journal.Kind, actor ledger.Identity, units []uint64, amount *uint256.Int, note string) {
	if c.journal == nil {
		return
	}
	e := journal.Event{
		Kind:  kind,
		Actor: string(actor),
		Units: units,
		Note:  note,
	}
	if amount != nil && !amount.IsZero() {
		e.Amount = amount.Dec()
	}
	_ = c.journal.Record(e)
}

func cloneOrZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(v)
}
