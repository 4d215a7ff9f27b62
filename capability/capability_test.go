package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeModule struct {
	ids []ID
}

func (m *fakeModule) Capabilities() []ID { return m.ids }

func TestDeriveIsDeterministic(t *testing.T) {
	a := Derive("relic.royalty")
	b := Derive("relic.royalty")
	c := Derive("relic.rental")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a.String(), 8)
}

func TestRegistryORsModuleSets(t *testing.T) {
	r := NewRegistry()
	own := Derive("relic.ownership")
	meta := Derive("relic.metadata")
	roy := Derive("relic.royalty")

	assert.False(t, r.Supports(own))

	r.Register(&fakeModule{ids: []ID{own, meta}})
	r.Register(&fakeModule{ids: []ID{meta, roy}})

	assert.True(t, r.Supports(own))
	assert.True(t, r.Supports(meta))
	assert.True(t, r.Supports(roy))
	assert.False(t, r.Supports(Derive("relic.unknown")))

	// Union, not a per-module list: three distinct IDs total.
	assert.Len(t, r.List(), 3)
}

func TestRegisterNilModule(t *testing.T) {
	r := NewRegistry()
	r.Register(nil)
	assert.Empty(t, r.List())
}

func TestListIsStable(t *testing.T) {
	r := NewRegistry()
	r.RegisterID(Derive("b"), Derive("a"), Derive("c"))
	assert.Equal(t, r.List(), r.List())
}
