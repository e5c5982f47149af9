package payload

import (
	"github.com/geocache/stc/internal/qr"
	"github.com/geocache/stc/internal/stref"
)

// spatialContains implements the half-pixel-tolerant spatial containment
// clause of the matching policy: h/v are the horizontal/vertical
// tolerance in the entry's own coordinate space (Raster passes 1/100 of
// a pixel's width/height; the other payload kinds pass zero).
func spatialContains(ref stref.STRef, q qr.QR, h, v float64) bool {
	return q.X1 >= ref.X1-h &&
		q.X2 <= ref.X2+h &&
		q.Y1 >= ref.Y1-v &&
		q.Y2 <= ref.Y2+v
}

// temporalContains implements the half-open temporal containment decided
// in the design notes: ts ∈ [t1, t2), not the original's closed-closed
// interval.
func temporalContains(ref stref.STRef, q qr.QR) bool {
	if ref.TimeKind == stref.Unref {
		return true
	}
	return q.T1 >= ref.T1 && q.T1 < ref.T2
}

// crsMatches is clause 1 of the matching policy.
func crsMatches(ref stref.STRef, q qr.QR) bool {
	return ref.CRS == q.CRS
}

// resolutionCompatible implements clause 4, raster-only: the clipped
// sub-region of ref covering q must span at least q.XRes/q.YRes pixels
// and strictly fewer than 2x that.
func resolutionCompatible(ref stref.STRef, q qr.QR, width, height uint32) bool {
	if !q.HasResolution() {
		return true
	}
	spanX := ref.Width()
	spanY := ref.Height()
	if spanX <= 0 || spanY <= 0 {
		return false
	}
	clipW := float64(width) * (q.X2 - q.X1) / spanX
	clipH := float64(height) * (q.Y2 - q.Y1) / spanY

	return clipW >= q.XRes && clipW < 2*q.XRes &&
		clipH >= q.YRes && clipH < 2*q.YRes
}
