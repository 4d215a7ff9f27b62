// Package capability is the discovery surface for optional collection
// modules. Each module reports the capability IDs it implements; the registry
// ORs them together so a caller can probe support for ownership, metadata,
// royalty, or delegated-usage features with one lookup.
package capability

import (
	"encoding/hex"
	"sort"
	"sync"

	"golang.org/x/crypto/sha3"
)

// ID is a 4-byte capability identifier, the first four bytes of the
// Keccak-256 digest of the capability name.
type ID [4]byte

// Derive computes the ID for a capability name.
func Derive(name string) ID {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(name))
	var id ID
	copy(id[:], h.Sum(nil)[:4])
	return id
}

// String returns the ID as hex.
func (id ID) String() string { return hex.EncodeToString(id[:]) }

// Module is anything that advertises capabilities.
type Module interface {
	Capabilities() []ID
}

// Registry accumulates the union of all registered modules' capability sets.
type Registry struct {
	mu        sync.RWMutex
	supported map[ID]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{supported: make(map[ID]struct{})}
}

// Register adds every capability of a module to the supported set.
func (r *Registry) Register(m Module) {
	if m == nil {
		return
	}
	r.RegisterID(m.Capabilities()...)
}

// RegisterID adds explicit capability IDs to the supported set.
func (r *Registry) RegisterID(ids ...ID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		r.supported[id] = struct{}{}
	}
}

// Supports reports whether any registered module advertises the capability.
func (r *Registry) Supports(id ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.supported[id]
	return ok
}

// List returns the supported capability IDs in stable (hex) order.
func (r *Registry) List() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]ID, 0, len(r.supported))
	for id := range r.supported {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}
