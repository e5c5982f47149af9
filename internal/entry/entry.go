// Package entry implements the Cache Entry: an immutable-after-insertion
// (stref, payload) pair with a back-reference to its owning Cache
// Structure. The back-reference is an arena handle, never a pointer
// into a slice that might be compacted out from under it — mirroring
// the object-pool pattern hashicorp/golang-lru uses internally for its
// own eviction list nodes.
package entry

import (
	"github.com/geocache/stc/internal/payload"
	"github.com/geocache/stc/internal/stref"
)

// ID identifies an Entry within its owning Structure. It is stable for
// the entry's lifetime; the Structure's entry map and the eviction
// policies' indexes are keyed by it.
type ID uint64

// Handle is the backref: which structure owns this entry, and at what
// ID within that structure's arena. It is resolved back to a live
// *Entry only through the owning Structure, never dereferenced
// directly — callers ask the Structure to remove(handle), not the
// handle itself.
type Handle struct {
	StructureID uint64
	EntryID     ID
}

// Entry is one cached artifact: its spatio-temporal reference, its
// payload, its accounting size, and the handle back to its owner.
type Entry struct {
	ID      ID
	STRef   stref.STRef
	Payload payload.Payload

	SizeBytes uint64

	Backref Handle

	// seq is the monotonic insertion sequence, used by LFU to break
	// access-count ties in insertion order.
	seq uint64
}

// New constructs an Entry. seq is the caller's insertion sequence
// counter value at the time of insertion.
func New(id ID, ref stref.STRef, p payload.Payload, backref Handle, seq uint64) *Entry {
	return &Entry{
		ID:        id,
		STRef:     ref,
		Payload:   p,
		SizeBytes: p.SizeBytes(),
		Backref:   backref,
		seq:       seq,
	}
}

// Seq returns the entry's insertion sequence number.
func (e *Entry) Seq() uint64 { return e.seq }
