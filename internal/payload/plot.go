package payload

import (
	"github.com/geocache/stc/internal/qr"
	"github.com/geocache/stc/internal/stref"
)

// Plot is an opaque rendered result (e.g. a JSON-encoded chart
// description), cached verbatim and returned byte-for-byte on a hit.
type Plot struct {
	JSON []byte
}

func (p *Plot) Kind() Kind        { return KindPlot }
func (p *Plot) SizeBytes() uint64 { return uint64(len(p.JSON)) }

func (p *Plot) Clone() Payload {
	out := make([]byte, len(p.JSON))
	copy(out, p.JSON)
	return &Plot{JSON: out}
}

func (p *Plot) Matches(ref stref.STRef, q qr.QR) bool {
	if !crsMatches(ref, q) {
		return false
	}
	if !spatialContains(ref, q, 0, 0) {
		return false
	}
	return temporalContains(ref, q)
}
