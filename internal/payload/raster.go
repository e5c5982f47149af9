package payload

import (
	"github.com/geocache/stc/internal/qr"
	"github.com/geocache/stc/internal/stref"
)

// DataType is the raster's pixel data type.
type DataType uint8

const (
	U8 DataType = iota
	I16
	U16
	I32
	U32
	F32
)

// BytesPerPixel returns the storage width of one sample of this type.
func (d DataType) BytesPerPixel() uint64 {
	switch d {
	case U8:
		return 1
	case I16, U16:
		return 2
	case I32, U32, F32:
		return 4
	default:
		return 0
	}
}

// Raster is a dense width*height*depth grid of typed samples.
type Raster struct {
	Width, Height, Depth uint32
	DataType             DataType
	NoData               *float64
	PixelScaleX          float64
	PixelScaleY          float64
	Bytes                []byte
}

func (r *Raster) Kind() Kind { return KindRaster }

func (r *Raster) SizeBytes() uint64 {
	return uint64(len(r.Bytes))
}

func (r *Raster) Clone() Payload {
	clone := *r
	if r.NoData != nil {
		nd := *r.NoData
		clone.NoData = &nd
	}
	clone.Bytes = make([]byte, len(r.Bytes))
	copy(clone.Bytes, r.Bytes)
	return &clone
}

func (r *Raster) Matches(ref stref.STRef, q qr.QR) bool {
	if !crsMatches(ref, q) {
		return false
	}
	if r.Width == 0 || r.Height == 0 {
		return false
	}
	h := ref.Width() / float64(r.Width) / 100
	v := ref.Height() / float64(r.Height) / 100
	if !spatialContains(ref, q, h, v) {
		return false
	}
	if !temporalContains(ref, q) {
		return false
	}
	return resolutionCompatible(ref, q, r.Width, r.Height)
}
