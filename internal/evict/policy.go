// Package evict implements the three Eviction Policy variants required
// by the cache: LRU, LFU, and FIFO. A Policy indexes every live entry of
// one payload type across all of that type's Cache Structures — not
// just one structure — per the spec's "EP owns an ordering over all
// live entries" requirement.
package evict

import "github.com/geocache/stc/internal/entry"

// Policy is notified of entry lifecycle events and picks an eviction
// victim on demand. Implementations are not safe for concurrent use;
// callers serialize access via the Cache Manager's per-type mutex.
type Policy interface {
	// Inserted records a newly inserted entry.
	Inserted(e *entry.Entry)

	// Accessed records a cache hit against e.
	Accessed(e *entry.Entry)

	// Removed drops e from the policy's index without counting it as
	// an eviction — used when a structure's entry is removed for a
	// reason other than the policy's own Evict (e.g. explicit
	// invalidation).
	Removed(e *entry.Entry)

	// Evict picks and removes the current victim. Calling Evict on an
	// empty policy is a programmer error.
	Evict() (*entry.Entry, error)

	// Len reports the number of entries currently indexed.
	Len() int
}

// Name identifies a Policy implementation, matching the
// cache.replacement configuration option.
type Name string

const (
	LRU  Name = "lru"
	LFU  Name = "lfu"
	FIFO Name = "fifo"
)

// New constructs a Policy by name.
func New(name Name) Policy {
	switch name {
	case LFU:
		return newLFU()
	case FIFO:
		return newFIFO()
	default:
		return newLRU()
	}
}
