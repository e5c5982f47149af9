package cestore

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/geocache/stc/internal/entry"
	"github.com/geocache/stc/internal/evict"
	"github.com/geocache/stc/internal/payload"
	"github.com/geocache/stc/internal/qr"
	"github.com/geocache/stc/internal/stcerr"
	"github.com/geocache/stc/internal/stref"
)

// Root is the per-payload-type cache state: a fingerprint-keyed map of
// Structures, the running byte total, the configured budget, and the
// Eviction Policy that indexes every entry of this payload type.
type Root struct {
	PayloadType payload.Kind
	MaxBytes    uint64

	currentBytes   uint64
	structures     map[string]*Structure
	structuresByID map[uint64]*Structure
	policy         evict.Policy

	nextStructID uint64
	nextEntryID  uint64
	nextSeq      uint64

	policyName evict.Name
	log        *zerolog.Logger
	onEvict    func(payloadType, policyName string)
	onDrop     func(payloadType string)
}

// Option configures a Root at construction.
type Option func(*Root)

// WithLogger attaches a logger used to report oversized-put drops.
func WithLogger(l *zerolog.Logger) Option {
	return func(r *Root) { r.log = l }
}

// WithEvictCallback registers a hook invoked once per eviction, for
// metrics emission at the Cache Manager layer.
func WithEvictCallback(fn func(payloadType, policyName string)) Option {
	return func(r *Root) { r.onEvict = fn }
}

// WithDropCallback registers a hook invoked once per oversized-put
// drop, for metrics emission at the Cache Manager layer.
func WithDropCallback(fn func(payloadType string)) Option {
	return func(r *Root) { r.onDrop = fn }
}

// New constructs a Root for one payload type, budget, and replacement
// policy.
func New(payloadType payload.Kind, maxBytes uint64, policyName evict.Name, opts ...Option) *Root {
	r := &Root{
		PayloadType:    payloadType,
		MaxBytes:       maxBytes,
		structures:     make(map[string]*Structure),
		structuresByID: make(map[uint64]*Structure),
		policy:         evict.New(policyName),
		policyName:     policyName,
	}
	for _, o := range opts {
		o(r)
	}
	if r.log == nil {
		discard := zerolog.New(io.Discard)
		r.log = &discard
	}
	return r
}

// CurrentBytes is the live total across all structures of this type.
func (r *Root) CurrentBytes() uint64 { return r.currentBytes }

// Entries is the live entry count across all structures, for metrics.
func (r *Root) Entries() int { return r.policy.Len() }

// Get looks up fp's structure and returns a clone of the first matching
// entry's payload, or stcerr.ErrNoSuchElement on a miss. The clone is
// produced, and the eviction policy notified, before returning.
func (r *Root) Get(fp string, q qr.QR) (payload.Payload, error) {
	s, ok := r.structures[fp]
	if !ok {
		return nil, fmt.Errorf("cestore: no structure for fingerprint %q: %w", fp, stcerr.ErrNoSuchElement)
	}
	e := s.find(q)
	if e == nil {
		return nil, fmt.Errorf("cestore: no matching entry for fingerprint %q: %w", fp, stcerr.ErrNoSuchElement)
	}
	r.policy.Accessed(e)
	return e.Payload.Clone(), nil
}

// Put inserts a fresh entry for fp under ref. If the payload is larger
// than MaxBytes the call succeeds logically but inserts nothing — a
// warning is logged and the cache remains consistent. Otherwise
// victims are evicted until the budget is respected.
func (r *Root) Put(fp string, ref stref.STRef, p payload.Payload) error {
	size := p.SizeBytes()
	if size > r.MaxBytes {
		r.log.Warn().
			Str("fingerprint", fp).
			Str("payload_type", r.PayloadType.String()).
			Uint64("size_bytes", size).
			Uint64("max_bytes", r.MaxBytes).
			Msg("dropping oversized put")
		if r.onDrop != nil {
			r.onDrop(r.PayloadType.String())
		}
		return nil
	}

	for r.currentBytes+size > r.MaxBytes {
		if err := r.evictOne(); err != nil {
			return err
		}
	}

	s, ok := r.structures[fp]
	if !ok {
		s = newStructure(r.nextStructID, fp)
		r.nextStructID++
		r.structures[fp] = s
		r.structuresByID[s.ID()] = s
	}

	id := entry.ID(r.nextEntryID)
	r.nextEntryID++
	seq := r.nextSeq
	r.nextSeq++

	e := entry.New(id, ref, p, entry.Handle{StructureID: s.ID(), EntryID: id}, seq)
	s.insert(e)
	r.policy.Inserted(e)
	r.currentBytes += size
	return nil
}

// evictOne asks the policy for a victim and removes it from its owning
// structure, deleting the structure if it becomes empty.
func (r *Root) evictOne() error {
	victim, err := r.policy.Evict()
	if err != nil {
		return err
	}
	s, ok := r.structuresByID[victim.Backref.StructureID]
	if !ok {
		return fmt.Errorf("cestore: evicted entry's structure %d not found: %w", victim.Backref.StructureID, stcerr.ErrMustNotHappen)
	}
	s.remove(victim.ID)
	r.currentBytes -= victim.SizeBytes
	if s.Empty() {
		delete(r.structures, s.Fingerprint())
		delete(r.structuresByID, s.ID())
	}
	if r.onEvict != nil {
		r.onEvict(r.PayloadType.String(), string(r.policyName))
	}
	return nil
}
