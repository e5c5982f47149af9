// Package qr defines the Query Reference: an STRef plus the raster
// resolution a query is asking for, when the payload is resolution
// sensitive.
package qr

import (
	"fmt"

	"github.com/geocache/stc/internal/stref"
)

// QR is the lookup key shape used by every cache get/put call. XRes and
// YRes are ignored (zero) for payload types that carry no notion of
// raster resolution.
type QR struct {
	stref.STRef

	XRes float64
	YRes float64
}

// New wraps an STRef with no resolution, for resolution-insensitive
// payload types (points, lines, polygons, plots).
func New(ref stref.STRef) QR {
	return QR{STRef: ref}
}

// NewRaster wraps an STRef with the requested output resolution.
func NewRaster(ref stref.STRef, xres, yres float64) QR {
	return QR{STRef: ref, XRes: xres, YRes: yres}
}

// HasResolution reports whether the query carries a meaningful raster
// resolution (both axes positive).
func (q QR) HasResolution() bool {
	return q.XRes > 0 && q.YRes > 0
}

func (q QR) String() string {
	if !q.HasResolution() {
		return q.STRef.String()
	}
	return fmt.Sprintf("%s res=[%g,%g]", q.STRef.String(), q.XRes, q.YRes)
}
