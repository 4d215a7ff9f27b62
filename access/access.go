// Package access holds the externally-owned role assignments and the global
// pause flag. The collection core only reads these; granting and revoking is
// the business of whoever administers the Controller.
package access

import (
	"sync"

	"github.com/relicforge/librelic-go/ledger"
)

// Role tags consulted by the collection core.
const (
	// RoleMinter authorizes the role-gated batch issuance path.
	RoleMinter = "minter"
)

// Controller stores role assignments and the pause flag.
type Controller struct {
	mu     sync.RWMutex
	roles  map[string]map[ledger.Identity]struct{}
	paused bool
}

// NewController creates an empty controller with the pause flag cleared.
func NewController() *Controller {
	return &Controller{roles: make(map[string]map[ledger.Identity]struct{})}
}

// Grant assigns a role to an identity. Granting twice is a no-op.
func (c *Controller) Grant(role string, id ledger.Identity) {
	if role == "" || !id.Valid() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	set := c.roles[role]
	if set == nil {
		set = make(map[ledger.Identity]struct{})
		c.roles[role] = set
	}
	set[id] = struct{}{}
}

// Revoke removes a role from an identity. Revoking an unheld role is a no-op.
func (c *Controller) Revoke(role string, id ledger.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	set := c.roles[role]
	delete(set, id)
	if len(set) == 0 {
		delete(c.roles, role)
	}
}

// HasRole reports whether an identity holds a role.
func (c *Controller) HasRole(role string, id ledger.Identity) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.roles[role][id]
	return ok
}

// SetPaused sets the global pause flag.
func (c *Controller) SetPaused(paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = paused
}

// Paused reports the global pause flag.
func (c *Controller) Paused() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.paused
}
