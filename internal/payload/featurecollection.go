package payload

import (
	"fmt"

	"github.com/geocache/stc/internal/qr"
	"github.com/geocache/stc/internal/stcerr"
	"github.com/geocache/stc/internal/stref"
)

// Coord is a single coordinate tuple; lines/polygons pack many per
// feature, points pack exactly one.
type Coord struct {
	X, Y float64
}

// TimeInterval is a per-feature validity window, distinct from the
// collection's own STRef — a point collection may carry one global
// STRef but per-feature timestamps within it.
type TimeInterval struct {
	T1, T2 float64
}

// FeatureCollection is the shared body of Points/Lines/Polygons: a flat
// coordinate array, per-feature start offsets terminated by
// len(Coords), optional per-feature time intervals, and global/per-
// feature attribute maps (textual and numeric) — carried over from the
// original's per-feature attribute tables, which the distilled
// invariant ("start_offsets[n] == coords.len()") alone doesn't capture.
type FeatureCollection struct {
	Coords       []Coord
	StartOffsets []uint32

	TimeIntervals []TimeInterval

	GlobalAttrsText map[string]string
	GlobalAttrsNum  map[string]float64

	PerFeatureAttrsText []map[string]string
	PerFeatureAttrsNum  []map[string]float64
}

// NumFeatures is len(StartOffsets)-1: StartOffsets carries a leading 0
// and a terminating len(Coords).
func (fc *FeatureCollection) NumFeatures() int {
	if len(fc.StartOffsets) == 0 {
		return 0
	}
	return len(fc.StartOffsets) - 1
}

// Validate checks the start-offsets terminator invariant required by
// spec §3: start_offsets[n] == coords.len().
func (fc *FeatureCollection) Validate() error {
	n := len(fc.StartOffsets)
	if n == 0 {
		if len(fc.Coords) != 0 {
			return fmt.Errorf("featurecollection: no start offsets but %d coords: %w", len(fc.Coords), stcerr.ErrArgument)
		}
		return nil
	}
	if int(fc.StartOffsets[n-1]) != len(fc.Coords) {
		return fmt.Errorf("featurecollection: start_offsets[%d]=%d != len(coords)=%d: %w",
			n-1, fc.StartOffsets[n-1], len(fc.Coords), stcerr.ErrArgument)
	}
	return nil
}

// EnsureTimeIntervals clears and refills the per-feature time-interval
// slice to exactly NumFeatures entries drawn from def. This is
// unconditional: an empty slice is never treated as "already
// defaulted", only as "not yet defaulted".
func (fc *FeatureCollection) EnsureTimeIntervals(def TimeInterval) {
	n := fc.NumFeatures()
	fc.TimeIntervals = make([]TimeInterval, n)
	for i := range fc.TimeIntervals {
		fc.TimeIntervals[i] = def
	}
}

func (fc *FeatureCollection) sizeBytes() uint64 {
	size := uint64(len(fc.Coords)) * 16
	size += uint64(len(fc.StartOffsets)) * 4
	size += uint64(len(fc.TimeIntervals)) * 16
	for k, v := range fc.GlobalAttrsText {
		size += uint64(len(k) + len(v))
	}
	size += uint64(len(fc.GlobalAttrsNum)) * 16
	for _, m := range fc.PerFeatureAttrsText {
		for k, v := range m {
			size += uint64(len(k) + len(v))
		}
	}
	for _, m := range fc.PerFeatureAttrsNum {
		size += uint64(len(m)) * 16
	}
	return size
}

func (fc *FeatureCollection) clone() FeatureCollection {
	out := FeatureCollection{}
	out.Coords = append([]Coord(nil), fc.Coords...)
	out.StartOffsets = append([]uint32(nil), fc.StartOffsets...)
	out.TimeIntervals = append([]TimeInterval(nil), fc.TimeIntervals...)

	if fc.GlobalAttrsText != nil {
		out.GlobalAttrsText = make(map[string]string, len(fc.GlobalAttrsText))
		for k, v := range fc.GlobalAttrsText {
			out.GlobalAttrsText[k] = v
		}
	}
	if fc.GlobalAttrsNum != nil {
		out.GlobalAttrsNum = make(map[string]float64, len(fc.GlobalAttrsNum))
		for k, v := range fc.GlobalAttrsNum {
			out.GlobalAttrsNum[k] = v
		}
	}
	if fc.PerFeatureAttrsText != nil {
		out.PerFeatureAttrsText = make([]map[string]string, len(fc.PerFeatureAttrsText))
		for i, m := range fc.PerFeatureAttrsText {
			cp := make(map[string]string, len(m))
			for k, v := range m {
				cp[k] = v
			}
			out.PerFeatureAttrsText[i] = cp
		}
	}
	if fc.PerFeatureAttrsNum != nil {
		out.PerFeatureAttrsNum = make([]map[string]float64, len(fc.PerFeatureAttrsNum))
		for i, m := range fc.PerFeatureAttrsNum {
			cp := make(map[string]float64, len(m))
			for k, v := range m {
				cp[k] = v
			}
			out.PerFeatureAttrsNum[i] = cp
		}
	}
	return out
}

// matches implements clauses 1-3 of the matching policy; the
// resolution clause (4) never applies to feature collections.
func (fc *FeatureCollection) matches(ref stref.STRef, q qr.QR) bool {
	if !crsMatches(ref, q) {
		return false
	}
	if !spatialContains(ref, q, 0, 0) {
		return false
	}
	return temporalContains(ref, q)
}

// Points is a collection of single-coordinate features.
type Points struct {
	FeatureCollection
}

func (p *Points) Kind() Kind          { return KindPoints }
func (p *Points) SizeBytes() uint64   { return p.sizeBytes() }
func (p *Points) Clone() Payload      { c := p.clone(); return &Points{FeatureCollection: c} }
func (p *Points) Matches(ref stref.STRef, q qr.QR) bool { return p.matches(ref, q) }

// Lines is a collection of polyline features.
type Lines struct {
	FeatureCollection
}

func (l *Lines) Kind() Kind          { return KindLines }
func (l *Lines) SizeBytes() uint64   { return l.sizeBytes() }
func (l *Lines) Clone() Payload      { c := l.clone(); return &Lines{FeatureCollection: c} }
func (l *Lines) Matches(ref stref.STRef, q qr.QR) bool { return l.matches(ref, q) }

// Polygons is a collection of polygon-ring features.
type Polygons struct {
	FeatureCollection
}

func (p *Polygons) Kind() Kind          { return KindPolygons }
func (p *Polygons) SizeBytes() uint64   { return p.sizeBytes() }
func (p *Polygons) Clone() Payload      { c := p.clone(); return &Polygons{FeatureCollection: c} }
func (p *Polygons) Matches(ref stref.STRef, q qr.QR) bool { return p.matches(ref, q) }
