// Package journal keeps an append-only record of committed collection
// operations. Recording is best-effort: a journal failure never
// un-commits the operation it describes.
package journal

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind tags the operation an event describes.
type Kind string

const (
	KindPresaleMint Kind = "mint.presale"
	KindPublicMint  Kind = "mint.public"
	KindAirdrop     Kind = "mint.airdrop"
	KindCraft       Kind = "craft"
	KindTransfer    Kind = "transfer"
	KindReveal      Kind = "reveal"
	KindPhase       Kind = "phase"
	KindLock        Kind = "lock"
	KindWithdraw    Kind = "withdraw"
)

// Event is one committed operation.
type Event struct {
	ID     string    // uuid, assigned by the recorder
	Seq    uint64    // monotonic per recorder, assigned by the recorder
	Kind   Kind      //
	Actor  string    // identity that performed the operation
	Units  []uint64  // unit ids touched, in operation order
	Amount string    // decimal value moved or paid, empty if none
	Note   string    // free-form detail (phase name, descriptor, ...)
	At     time.Time // assigned by the recorder if zero
}

// Recorder persists events.
type Recorder interface {
	Record(e Event) error
}

// MemJournal is an in-memory Recorder.
type MemJournal struct {
	mu     sync.Mutex
	seq    uint64
	events []Event
}

// Compile-time interface check.
var _ Recorder = (*MemJournal)(nil)

// NewMemJournal creates an empty in-memory journal.
func NewMemJournal() *MemJournal { return &MemJournal{} }

// Record appends an event, assigning ID, Seq, and At.
func (j *MemJournal) Record(e Event) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.seq++
	e.Seq = j.seq
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	j.events = append(j.events, e)
	return nil
}

// Events returns a copy of all recorded events in order.
func (j *MemJournal) Events() []Event {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Event, len(j.events))
	copy(out, j.events)
	return out
}
