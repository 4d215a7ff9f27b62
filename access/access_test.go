package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relicforge/librelic-go/ledger"
)

func testIdentity(t *testing.T) ledger.Identity {
	t.Helper()
	id, err := ledger.NewIdentity()
	require.NoError(t, err)
	return id
}

func TestGrantAndRevoke(t *testing.T) {
	c := NewController()
	alice, bob := testIdentity(t), testIdentity(t)

	assert.False(t, c.HasRole(RoleMinter, alice))

	c.Grant(RoleMinter, alice)
	assert.True(t, c.HasRole(RoleMinter, alice))
	assert.False(t, c.HasRole(RoleMinter, bob))

	// Granting twice is a no-op; one revoke removes the role.
	c.Grant(RoleMinter, alice)
	c.Revoke(RoleMinter, alice)
	assert.False(t, c.HasRole(RoleMinter, alice))

	// Revoking an unheld role is harmless.
	c.Revoke(RoleMinter, bob)
	c.Revoke("ghost-role", bob)
}

func TestGrantIgnoresInvalidInput(t *testing.T) {
	c := NewController()
	alice := testIdentity(t)

	c.Grant("", alice)
	c.Grant(RoleMinter, "")
	assert.False(t, c.HasRole("", alice))
	assert.False(t, c.HasRole(RoleMinter, ""))
}

func TestPauseFlag(t *testing.T) {
	c := NewController()
	assert.False(t, c.Paused())

	c.SetPaused(true)
	assert.True(t, c.Paused())

	c.SetPaused(false)
	assert.False(t, c.Paused())
}
