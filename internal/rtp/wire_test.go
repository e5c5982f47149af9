package rtp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileDescription_EncodeDecode_RoundTrips(t *testing.T) {
	want := TileDescription{
		TileID: 42, ChannelID: 3, FileID: 7,
		Offset: 1024, Size: 2048,
		X1: 1, Y1: 2, Z1: 0,
		Width: 256, Height: 256, Depth: 1,
		Compression: CompressionGzip,
	}

	var buf bytes.Buffer
	require.NoError(t, want.Encode(&buf))

	got, err := DecodeTileDescription(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRasterDescription_EncodeDecode_RoundTrips(t *testing.T) {
	want := RasterDescription{RasterID: 99, TimeStart: 1000.5, TimeEnd: 2000.25}

	var buf bytes.Buffer
	require.NoError(t, want.Encode(&buf))

	got, err := DecodeRasterDescription(&buf)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeTileDescription_TruncatedStreamErrors(t *testing.T) {
	_, err := DecodeTileDescription(bytes.NewReader([]byte{1, 2, 3}))
	assert.Error(t, err)
}
