// Package stref implements the spatio-temporal reference carried by every
// cached artifact and every query: a CRS identifier, an axis-aligned bbox,
// and a time interval.
package stref

import (
	"fmt"

	"github.com/geocache/stc/internal/stcerr"
)

// TimeKind distinguishes a reference whose time interval is a real unix
// timestamp range from one that is unreferenced (e.g. a static raster).
type TimeKind uint8

const (
	Unix TimeKind = iota
	Unref
)

// STRef is a value type: CRS + bbox + time interval. Infinite time bounds
// are only allowed for unreferenced (Unref) time.
type STRef struct {
	CRS uint16

	X1, Y1, X2, Y2 float64
	T1, T2         float64

	TimeKind TimeKind

	// FlippedX/FlippedY record whether New() had to reorder the axes so
	// callers can reorient any output built against this reference.
	FlippedX bool
	FlippedY bool
}

// New constructs an STRef, flipping axes as needed so x1<=x2 and y1<=y2,
// and validates t1<=t2. Infinite time bounds are only accepted when
// timeKind is Unref; the spatial bounds are not checked for infinity.
func New(crs uint16, x1, y1, x2, y2, t1, t2 float64, timeKind TimeKind) (STRef, error) {
	r := STRef{CRS: crs, TimeKind: timeKind}

	if x1 > x2 {
		x1, x2 = x2, x1
		r.FlippedX = true
	}
	if y1 > y2 {
		y1, y2 = y2, y1
		r.FlippedY = true
	}
	if t1 > t2 {
		return STRef{}, fmt.Errorf("stref: t1 %v > t2 %v: %w", t1, t2, stcerr.ErrArgument)
	}

	if timeKind == Unix && (isInf(t1) || isInf(t2)) {
		return STRef{}, fmt.Errorf("stref: infinite time bound requires Unref time kind: %w", stcerr.ErrArgument)
	}

	r.X1, r.Y1, r.X2, r.Y2 = x1, y1, x2, y2
	r.T1, r.T2 = t1, t2
	return r, nil
}

func isInf(f float64) bool {
	return f > maxFinite || f < -maxFinite
}

const maxFinite = 1.7976931348623157e+308 / 2

// Width is the x-span of the bbox.
func (r STRef) Width() float64 { return r.X2 - r.X1 }

// Height is the y-span of the bbox.
func (r STRef) Height() float64 { return r.Y2 - r.Y1 }

func (r STRef) String() string {
	return fmt.Sprintf(
		"STRef[crs=%d x=[%g,%g] y=[%g,%g] t=[%g,%g] kind=%d]",
		r.CRS, r.X1, r.X2, r.Y1, r.Y2, r.T1, r.T2, r.TimeKind,
	)
}
