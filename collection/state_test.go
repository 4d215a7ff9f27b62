package collection

import (
	"path/filepath"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relicforge/librelic-go/access"
	"github.com/relicforge/librelic-go/ledger"
)

func openTestStateStore(t *testing.T) *BoltStateStore {
	t.Helper()
	store, err := OpenBoltStateStore(filepath.Join(t.TempDir(), "state", "collection.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBoltStateStoreRoundTrip(t *testing.T) {
	store := openTestStateStore(t)

	_, err := store.Load()
	assert.ErrorIs(t, err, ErrNoSnapshot)

	want := &Snapshot{
		Phase:        PhasePreSale,
		Cap:          100,
		Issued:       7,
		PublicPrice:  "100",
		PresalePrice: "50",
		AllowRoot:    make([]byte, 32),
		Revealed:     true,
		Placeholder:  "hidden",
		BaseTemplate: "base/",
		Claims:       map[string]uint64{"addr1": 2},
		Locked:       map[uint64]bool{3: true},
		Overrides:    map[uint64]string{5: "crafted"},
		Balance:      "450",
	}
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Saving again overwrites.
	want.Issued = 8
	require.NoError(t, store.Save(want))
	got, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(8), got.Issued)
}

func TestLoadResumesCollection(t *testing.T) {
	store := openTestStateStore(t)
	owner := testIdentity(t)
	alice := testIdentity(t)
	lg := ledger.NewMemLedger()

	p := Params{
		Owner:       owner,
		Cap:         5,
		PublicPrice: uint256.NewInt(10),
		Placeholder: "hidden",
		Ledger:      lg,
		Access:      access.NewController(),
		Store:       store,
	}
	col, err := New(p)
	require.NoError(t, err)
	require.NoError(t, col.SetPhase(owner, PhasePublicSale))
	_, err = col.PublicMint(alice, 2, uint256.NewInt(20))
	require.NoError(t, err)
	require.NoError(t, col.LockSoulbound(owner, 1, true))
	require.NoError(t, col.Reveal(owner, "base/"))

	// Rebuild on the surviving ledger; phase, counters, flags, and prices all
	// come back from the snapshot.
	restored, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, PhasePublicSale, restored.Phase())
	assert.Equal(t, uint64(5), restored.Cap())
	assert.Equal(t, uint64(2), restored.Issued())
	assert.True(t, restored.Revealed())
	assert.True(t, restored.IsLocked(1))
	assert.Equal(t, "20", restored.Balance().Dec())

	// Issuance resumes after the persisted ids.
	ids, err := restored.PublicMint(alice, 1, uint256.NewInt(10))
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, ids)

	got, err := restored.Resolve(3)
	require.NoError(t, err)
	assert.Equal(t, "base/3", got)
}

func TestLoadRequiresStore(t *testing.T) {
	_, err := Load(Params{
		Owner:  testIdentity(t),
		Cap:    1,
		Ledger: ledger.NewMemLedger(),
		Access: access.NewController(),
	})
	assert.ErrorIs(t, err, ErrNilParam)
}

func TestLoadNoSnapshot(t *testing.T) {
	store := openTestStateStore(t)

	_, err := Load(Params{
		Owner:  testIdentity(t),
		Cap:    1,
		Ledger: ledger.NewMemLedger(),
		Access: access.NewController(),
		Store:  store,
	})
	assert.ErrorIs(t, err, ErrNoSnapshot)
}
