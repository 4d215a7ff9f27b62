package collection

// Snapshot is the persistable view of collection state. Unit ownership lives
// in the base ledger, which persists on its own; the snapshot covers
// everything the collection layer owns.
type Snapshot struct {
	Phase        Phase
	Cap          uint64
	Issued       uint64
	PublicPrice  string // decimal
	PresalePrice string // decimal
	AllowRoot    []byte
	Revealed     bool
	Placeholder  string
	BaseTemplate string
	Claims       map[string]uint64 // identity -> presale amount claimed
	Locked       map[uint64]bool   // unit id -> soul-bound flag
	Overrides    map[uint64]string // unit id -> descriptor override
	Balance      string            // decimal
}

// StateStore persists collection snapshots.
type StateStore interface {
	// Save overwrites the stored snapshot.
	Save(s *Snapshot) error

	// Load returns the stored snapshot, or ErrNoSnapshot.
	Load() (*Snapshot, error)
}
