package rtp

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Compression mirrors the original RasterConverter::Compression enum
// carried on the wire as a single byte.
type Compression uint8

const (
	CompressionNone Compression = 0
	CompressionGzip Compression = 1
	CompressionBZip Compression = 2
)

// TileDescription is the wire shape of spec §6: tileid:i64,
// channelid:i32, fileid:i32, offset:u64, size:u64, x1/y1/z1:u32,
// width/height/depth:u32, compression:u8. All integers little-endian.
type TileDescription struct {
	TileID      int64
	ChannelID   int32
	FileID      int32
	Offset      uint64
	Size        uint64
	X1, Y1, Z1  uint32
	Width       uint32
	Height      uint32
	Depth       uint32
	Compression Compression
}

// Encode writes t to w in wire order.
func (t TileDescription) Encode(w io.Writer) error {
	fields := []any{
		t.TileID, t.ChannelID, t.FileID, t.Offset, t.Size,
		t.X1, t.Y1, t.Z1, t.Width, t.Height, t.Depth, t.Compression,
	}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return fmt.Errorf("rtp: encode TileDescription: %w", err)
		}
	}
	return nil
}

// DecodeTileDescription reads a TileDescription from r in wire order.
func DecodeTileDescription(r io.Reader) (TileDescription, error) {
	var t TileDescription
	fields := []any{
		&t.TileID, &t.ChannelID, &t.FileID, &t.Offset, &t.Size,
		&t.X1, &t.Y1, &t.Z1, &t.Width, &t.Height, &t.Depth, &t.Compression,
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return TileDescription{}, fmt.Errorf("rtp: decode TileDescription: %w", err)
		}
	}
	return t, nil
}

// RasterDescription is the wire shape of spec §6: rasterid:i64,
// time_start:f64, time_end:f64.
type RasterDescription struct {
	RasterID  int64
	TimeStart float64
	TimeEnd   float64
}

// Encode writes d to w in wire order.
func (d RasterDescription) Encode(w io.Writer) error {
	fields := []any{d.RasterID, d.TimeStart, d.TimeEnd}
	for _, f := range fields {
		if err := binary.Write(w, binary.LittleEndian, f); err != nil {
			return fmt.Errorf("rtp: encode RasterDescription: %w", err)
		}
	}
	return nil
}

// DecodeRasterDescription reads a RasterDescription from r in wire
// order.
func DecodeRasterDescription(r io.Reader) (RasterDescription, error) {
	var d RasterDescription
	fields := []any{&d.RasterID, &d.TimeStart, &d.TimeEnd}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return RasterDescription{}, fmt.Errorf("rtp: decode RasterDescription: %w", err)
		}
	}
	return d, nil
}
