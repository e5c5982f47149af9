package stref

import (
	"encoding/binary"
	"fmt"
	"io"
)

// wireSize is the fixed little-endian encoding of an STRef: crs(2) +
// 6 float64 bounds (48) + timeKind(1) + flippedX/flippedY(2).
const wireSize = 2 + 6*8 + 1 + 1 + 1

// Encode writes r in the same little-endian, fixed-width layout used by the
// remote tile backend protocol's wire structs.
func (r STRef) Encode(w io.Writer) error {
	buf := make([]byte, wireSize)
	binary.LittleEndian.PutUint16(buf[0:2], r.CRS)
	binary.LittleEndian.PutUint64(buf[2:10], floatBits(r.X1))
	binary.LittleEndian.PutUint64(buf[10:18], floatBits(r.Y1))
	binary.LittleEndian.PutUint64(buf[18:26], floatBits(r.X2))
	binary.LittleEndian.PutUint64(buf[26:34], floatBits(r.Y2))
	binary.LittleEndian.PutUint64(buf[34:42], floatBits(r.T1))
	binary.LittleEndian.PutUint64(buf[42:50], floatBits(r.T2))
	buf[50] = byte(r.TimeKind)
	buf[51] = boolByte(r.FlippedX)
	buf[52] = boolByte(r.FlippedY)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("stref encode: %w", err)
	}
	return nil
}

// Decode reads an STRef previously written by Encode.
func Decode(r io.Reader) (STRef, error) {
	buf := make([]byte, wireSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return STRef{}, fmt.Errorf("stref decode: %w", err)
	}
	ref := STRef{
		CRS:      binary.LittleEndian.Uint16(buf[0:2]),
		X1:       bitsFloat(binary.LittleEndian.Uint64(buf[2:10])),
		Y1:       bitsFloat(binary.LittleEndian.Uint64(buf[10:18])),
		X2:       bitsFloat(binary.LittleEndian.Uint64(buf[18:26])),
		Y2:       bitsFloat(binary.LittleEndian.Uint64(buf[26:34])),
		T1:       bitsFloat(binary.LittleEndian.Uint64(buf[34:42])),
		T2:       bitsFloat(binary.LittleEndian.Uint64(buf[42:50])),
		TimeKind: TimeKind(buf[50]),
		FlippedX: buf[51] != 0,
		FlippedY: buf[52] != 0,
	}
	return ref, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
