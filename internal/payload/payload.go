// Package payload holds the closed set of cacheable artifact kinds —
// Raster, Points, Lines, Polygons, Plot — as a tagged union: one
// interface, one struct per kind, instead of a class hierarchy.
package payload

import (
	"github.com/geocache/stc/internal/qr"
	"github.com/geocache/stc/internal/stref"
)

// Kind discriminates the payload union.
type Kind uint8

const (
	KindRaster Kind = iota
	KindPoints
	KindLines
	KindPolygons
	KindPlot
)

func (k Kind) String() string {
	switch k {
	case KindRaster:
		return "raster"
	case KindPoints:
		return "points"
	case KindLines:
		return "lines"
	case KindPolygons:
		return "polygons"
	case KindPlot:
		return "plot"
	default:
		return "unknown"
	}
}

// Payload is implemented by every cacheable artifact kind.
type Payload interface {
	// Kind identifies which union member this is.
	Kind() Kind

	// SizeBytes is the accounting size used against a Cache Root's
	// max_bytes budget.
	SizeBytes() uint64

	// Clone returns an independent deep copy, produced while the owning
	// cache's mutex is held so the source entry may be evicted the
	// instant the lock is released.
	Clone() Payload

	// Matches reports whether this payload, held under the given
	// reference, satisfies the query per the Cache Structure matching
	// policy (spec §4.2). ref is the entry's own STRef.
	Matches(ref stref.STRef, q qr.QR) bool
}
