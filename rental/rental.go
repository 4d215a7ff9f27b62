// Package rental is the delegated-usage registry: per-unit grants of a
// non-owning "user" identity until an expiry time. The collection core
// exposes the registry unmodified through its capability surface and applies
// no logic to it.
package rental

import (
	"sync"
	"time"

	"github.com/relicforge/librelic-go/capability"
	"github.com/relicforge/librelic-go/ledger"
)

// Capability is the discovery ID advertised by a rental registry.
var Capability = capability.Derive("relic.rental")

// Grant records a delegated user for a unit until Expires.
type Grant struct {
	User    ledger.Identity
	Expires time.Time
}

// Registry tracks delegated-usage grants per unit id.
type Registry struct {
	mu     sync.RWMutex
	grants map[uint64]Grant
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{grants: make(map[uint64]Grant)}
}

// SetUser records user as the delegated user of a unit until expires.
// An empty user clears the grant.
func (r *Registry) SetUser(id uint64, user ledger.Identity, expires time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !user.Valid() {
		delete(r.grants, id)
		return
	}
	r.grants[id] = Grant{User: user, Expires: expires}
}

// UserOf returns the unexpired delegated user of a unit at time now.
func (r *Registry) UserOf(id uint64, now time.Time) (ledger.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.grants[id]
	if !ok || !now.Before(g.Expires) {
		return "", false
	}
	return g.User, true
}

// UserExpires returns the expiry of the grant for a unit, expired or not.
func (r *Registry) UserExpires(id uint64) (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.grants[id]
	return g.Expires, ok
}

// Clear removes the grant for a unit.
func (r *Registry) Clear(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.grants, id)
}

// Capabilities implements capability.Module.
func (r *Registry) Capabilities() []capability.ID {
	return []capability.ID{Capability}
}
