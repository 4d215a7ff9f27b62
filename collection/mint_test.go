package collection

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relicforge/librelic-go/access"
	"github.com/relicforge/librelic-go/journal"
	"github.com/relicforge/librelic-go/ledger"
)

// ----------------------------------------------------------------------------
// Public mint
// ----------------------------------------------------------------------------

func TestPublicMint(t *testing.T) {
	f := newFixtureParams(t, func(p *Params) {
		p.Cap = 10
		p.PublicPrice = uint256.NewInt(100)
	})
	f.openPublic(t)

	ids, err := f.col.PublicMint(f.alice, 3, uint256.NewInt(300))
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, ids)
	assert.Equal(t, uint64(3), f.col.Issued())
	assert.Equal(t, "300", f.col.Balance().Dec())

	for _, id := range ids {
		owner, err := f.ledger.OwnerOf(id)
		require.NoError(t, err)
		assert.Equal(t, f.alice, owner)
	}
}

func TestPublicMintPhaseGate(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.col.PublicMint(f.alice, 1, nil)
	assert.ErrorIs(t, err, ErrPhaseInactive)

	require.NoError(t, f.col.SetPhase(f.owner, PhasePreSale))
	_, err = f.col.PublicMint(f.alice, 1, nil)
	assert.ErrorIs(t, err, ErrPhaseInactive)
}

func TestPublicMintUnderpayment(t *testing.T) {
	f := newFixtureParams(t, func(p *Params) {
		p.Cap = 10
		p.PublicPrice = uint256.NewInt(100)
	})
	f.openPublic(t)

	_, err := f.col.PublicMint(f.alice, 2, uint256.NewInt(199))
	assert.ErrorIs(t, err, ErrPayment)
	assert.Equal(t, uint64(0), f.col.Issued())
	assert.True(t, f.col.Balance().IsZero())

	_, err = f.col.PublicMint(f.alice, 2, nil)
	assert.ErrorIs(t, err, ErrPayment)
}

func TestPublicMintOverpaymentKept(t *testing.T) {
	f := newFixtureParams(t, func(p *Params) {
		p.Cap = 10
		p.PublicPrice = uint256.NewInt(100)
	})
	f.openPublic(t)

	_, err := f.col.PublicMint(f.alice, 1, uint256.NewInt(150))
	require.NoError(t, err)
	assert.Equal(t, "150", f.col.Balance().Dec())
}

func TestPublicMintZeroAmount(t *testing.T) {
	f := newFixture(t, 10)
	f.openPublic(t)

	_, err := f.col.PublicMint(f.alice, 0, nil)
	assert.ErrorIs(t, err, ErrState)
}

func TestPublicMintSupplyExceeded(t *testing.T) {
	f := newFixture(t, 3)
	f.openPublic(t)

	_, err := f.col.PublicMint(f.alice, 4, nil)
	assert.ErrorIs(t, err, ErrSupplyExceeded)
	assert.Equal(t, uint64(0), f.col.Issued())

	_, err = f.col.PublicMint(f.alice, 3, nil)
	require.NoError(t, err)
	_, err = f.col.PublicMint(f.bob, 1, nil)
	assert.ErrorIs(t, err, ErrSupplyExceeded)
}

func TestPublicMintNoPerIdentityCap(t *testing.T) {
	f := newFixture(t, 10)
	f.openPublic(t)

	_, err := f.col.PublicMint(f.alice, 4, nil)
	require.NoError(t, err)
	_, err = f.col.PublicMint(f.alice, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), f.col.Issued())
}

func TestPublicMintPaused(t *testing.T) {
	f := newFixture(t, 10)
	f.openPublic(t)
	require.NoError(t, f.col.Pause(f.owner))

	_, err := f.col.PublicMint(f.alice, 1, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, f.col.Unpause(f.owner))
	_, err = f.col.PublicMint(f.alice, 1, nil)
	assert.NoError(t, err)
}

// ----------------------------------------------------------------------------
// Presale mint
// ----------------------------------------------------------------------------

func TestPresaleMint(t *testing.T) {
	f := newFixtureParams(t, func(p *Params) {
		p.Cap = 10
		p.PresalePrice = uint256.NewInt(50)
	})
	tree := f.openPresale(t, f.alice, f.bob)

	ids, err := f.col.PresaleMint(f.alice, 2, uint256.NewInt(100), f.proofFor(t, tree, f.alice))
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, ids)
	assert.Equal(t, uint64(2), f.col.Claimed(f.alice))
	assert.Equal(t, "100", f.col.Balance().Dec())
}

func TestPresaleMintPhaseGate(t *testing.T) {
	f := newFixture(t, 10)

	_, err := f.col.PresaleMint(f.alice, 1, nil, nil)
	assert.ErrorIs(t, err, ErrPhaseInactive)
}

func TestPresaleMintNotOnList(t *testing.T) {
	f := newFixture(t, 10)
	tree := f.openPresale(t, f.alice)

	// Bob presents Alice's proof; the leaf is derived from the caller, so it
	// cannot match the root.
	_, err := f.col.PresaleMint(f.bob, 1, nil, f.proofFor(t, tree, f.alice))
	assert.ErrorIs(t, err, ErrAllowList)
}

func TestPresaleMintMalformedProof(t *testing.T) {
	f := newFixture(t, 10)
	f.openPresale(t, f.alice, f.bob)

	_, err := f.col.PresaleMint(f.alice, 1, nil, [][]byte{{0x01, 0x02}})
	assert.ErrorIs(t, err, ErrAllowList)
}

func TestPresaleMintClaimOnce(t *testing.T) {
	f := newFixture(t, 10)
	tree := f.openPresale(t, f.alice, f.bob)
	proof := f.proofFor(t, tree, f.alice)

	_, err := f.col.PresaleMint(f.alice, 1, nil, proof)
	require.NoError(t, err)

	// A second claim fails regardless of amount, even after a phase cycle.
	_, err = f.col.PresaleMint(f.alice, 1, nil, proof)
	assert.ErrorIs(t, err, ErrAllowList)

	require.NoError(t, f.col.SetPhase(f.owner, PhaseClosed))
	require.NoError(t, f.col.SetPhase(f.owner, PhasePreSale))
	_, err = f.col.PresaleMint(f.alice, 3, nil, proof)
	assert.ErrorIs(t, err, ErrAllowList)

	// Other identities are unaffected.
	_, err = f.col.PresaleMint(f.bob, 1, nil, f.proofFor(t, tree, f.bob))
	assert.NoError(t, err)
}

func TestPresaleMintAmountNotAuthenticated(t *testing.T) {
	f := newFixture(t, 10)
	tree := f.openPresale(t, f.alice)

	// The proof covers the identity only; any positive amount is accepted.
	ids, err := f.col.PresaleMint(f.alice, 7, nil, f.proofFor(t, tree, f.alice))
	require.NoError(t, err)
	assert.Len(t, ids, 7)
}

func TestPresaleMintFailureKeepsClaim(t *testing.T) {
	f := newFixtureParams(t, func(p *Params) {
		p.Cap = 3
		p.PresalePrice = uint256.NewInt(50)
	})
	tree := f.openPresale(t, f.alice)
	proof := f.proofFor(t, tree, f.alice)

	// Underpayment, zero amount, and capacity rejections must not burn the
	// one-shot claim.
	_, err := f.col.PresaleMint(f.alice, 1, nil, proof)
	assert.ErrorIs(t, err, ErrPayment)
	_, err = f.col.PresaleMint(f.alice, 0, uint256.NewInt(50), proof)
	assert.ErrorIs(t, err, ErrState)
	_, err = f.col.PresaleMint(f.alice, 4, uint256.NewInt(200), proof)
	assert.ErrorIs(t, err, ErrSupplyExceeded)
	assert.Equal(t, uint64(0), f.col.Claimed(f.alice))

	_, err = f.col.PresaleMint(f.alice, 1, uint256.NewInt(50), proof)
	assert.NoError(t, err)
}

// ----------------------------------------------------------------------------
// Airdrop
// ----------------------------------------------------------------------------

func TestBatchAirdrop(t *testing.T) {
	f := newFixture(t, 10)
	minter := testIdentity(t)
	f.access.Grant(access.RoleMinter, minter)

	ids, err := f.col.BatchAirdrop(minter, []ledger.Identity{f.alice, f.bob, f.alice})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, ids)

	owner, err := f.ledger.OwnerOf(2)
	require.NoError(t, err)
	assert.Equal(t, f.bob, owner)
	owner, err = f.ledger.OwnerOf(3)
	require.NoError(t, err)
	assert.Equal(t, f.alice, owner)
}

func TestBatchAirdropRequiresRole(t *testing.T) {
	f := newFixture(t, 10)

	// Not even the collection owner gets a pass without the role.
	_, err := f.col.BatchAirdrop(f.owner, []ledger.Identity{f.alice})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestBatchAirdropIgnoresPhase(t *testing.T) {
	f := newFixture(t, 10)
	minter := testIdentity(t)
	f.access.Grant(access.RoleMinter, minter)

	assert.Equal(t, PhaseClosed, f.col.Phase())
	_, err := f.col.BatchAirdrop(minter, []ledger.Identity{f.alice})
	assert.NoError(t, err)
}

func TestBatchAirdropValidatesTargets(t *testing.T) {
	f := newFixture(t, 10)
	minter := testIdentity(t)
	f.access.Grant(access.RoleMinter, minter)

	_, err := f.col.BatchAirdrop(minter, []ledger.Identity{f.alice, ""})
	assert.ErrorIs(t, err, ErrNilParam)
	assert.Equal(t, uint64(0), f.col.Issued())
}

func TestBatchAirdropSupplyExceeded(t *testing.T) {
	f := newFixture(t, 2)
	minter := testIdentity(t)
	f.access.Grant(access.RoleMinter, minter)

	_, err := f.col.BatchAirdrop(minter, []ledger.Identity{f.alice, f.bob, f.alice})
	assert.ErrorIs(t, err, ErrSupplyExceeded)
	assert.Equal(t, uint64(0), f.col.Issued())
}

// ----------------------------------------------------------------------------
// Journal
// ----------------------------------------------------------------------------

func TestMintJournaled(t *testing.T) {
	f := newFixture(t, 10)
	f.openPublic(t)

	_, err := f.col.PublicMint(f.alice, 2, uint256.NewInt(5))
	require.NoError(t, err)

	events := f.journal.Events()
	// SetPhase records too; the mint is the last event.
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, journal.KindPublicMint, last.Kind)
	assert.Equal(t, string(f.alice), last.Actor)
	assert.Equal(t, []uint64{1, 2}, last.Units)
	assert.Equal(t, "5", last.Amount)
}
