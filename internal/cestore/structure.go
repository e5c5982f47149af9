// Package cestore implements the Cache Structure and Cache Root: the
// per-(payload_type, fingerprint) entry set, the matching policy of
// spec §4.2, and the per-payload-type byte budget enforced against an
// evict.Policy.
package cestore

import (
	"github.com/geocache/stc/internal/entry"
	"github.com/geocache/stc/internal/qr"
)

// Structure owns the entries for one (payload_type, fingerprint) pair.
// Lookup is a linear scan over its entry set — fingerprints correspond
// to operator-graph shapes, so cardinality per structure is expected to
// stay small.
type Structure struct {
	id          uint64
	fingerprint string
	entries     map[entry.ID]*entry.Entry
}

func newStructure(id uint64, fingerprint string) *Structure {
	return &Structure{
		id:          id,
		fingerprint: fingerprint,
		entries:     make(map[entry.ID]*entry.Entry),
	}
}

// ID is the structure's arena identifier, used as entry.Handle.StructureID.
func (s *Structure) ID() uint64 { return s.id }

// Fingerprint is the operator-graph fingerprint this structure caches
// entries for.
func (s *Structure) Fingerprint() string { return s.fingerprint }

// Empty reports whether the structure holds no entries, at which point
// its owning Root deletes it.
func (s *Structure) Empty() bool { return len(s.entries) == 0 }

func (s *Structure) insert(e *entry.Entry) {
	s.entries[e.ID] = e
}

func (s *Structure) remove(id entry.ID) *entry.Entry {
	e := s.entries[id]
	delete(s.entries, id)
	return e
}

// find returns the first entry matching q, linear scan order (map
// iteration order in Go is unspecified, but the spec only requires
// "first match wins" over *some* scan order, not a deterministic one).
func (s *Structure) find(q qr.QR) *entry.Entry {
	for _, e := range s.entries {
		if e.Payload.Matches(e.STRef, q) {
			return e
		}
	}
	return nil
}
