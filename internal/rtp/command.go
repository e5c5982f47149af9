// Package rtp implements the Remote Tile Backend Protocol of spec
// §4.5/§6: single-byte command codes, length-prefixed binary frames,
// and the TileDescription/RasterDescription wire structs a remote
// raster-tile source speaks over a plain TCP connection. Grounded on
// original_source/mapping-distributed/rasterdb/backend_remote.h's
// COMMAND_* constants and original_source/mapping/rasterdb/backend.h's
// TileDescription/RasterDescription field layout.
package rtp

import "fmt"

// Command is a single-byte RTP opcode.
type Command byte

const (
	CmdExit             Command = 1
	CmdEnumerateSources  Command = 2
	CmdReadAnyJSON       Command = 3
	CmdOpen              Command = 9
	CmdReadJSON          Command = 10
	CmdCreateRaster      Command = 11
	CmdWriteTile         Command = 12
	CmdGetClosestRaster  Command = 13
	CmdReadAttributes    Command = 14
	CmdGetBestZoom       Command = 15
	CmdEnumerateTiles    Command = 16
	CmdHasTile           Command = 17
	CmdReadTile          Command = 18

	// CmdError is never sent by a client; a server emits it as the
	// command byte of an error reply frame. It is not a valid request
	// code (spec's "typed error frame", not a silent disconnect).
	CmdError Command = 0
)

// FirstSourceSpecific is the lowest command code that requires a prior
// OPEN on the connection (spec §4.5).
const FirstSourceSpecific Command = 10

// RequiresOpen reports whether cmd may only be sent after OPEN.
func (c Command) RequiresOpen() bool {
	return c >= FirstSourceSpecific
}

func (c Command) String() string {
	switch c {
	case CmdExit:
		return "EXIT"
	case CmdEnumerateSources:
		return "ENUMERATESOURCES"
	case CmdReadAnyJSON:
		return "READANYJSON"
	case CmdOpen:
		return "OPEN"
	case CmdReadJSON:
		return "READJSON"
	case CmdCreateRaster:
		return "CREATERASTER"
	case CmdWriteTile:
		return "WRITETILE"
	case CmdGetClosestRaster:
		return "GETCLOSESTRASTER"
	case CmdReadAttributes:
		return "READATTRIBUTES"
	case CmdGetBestZoom:
		return "GETBESTZOOM"
	case CmdEnumerateTiles:
		return "ENUMERATETILES"
	case CmdHasTile:
		return "HASTILE"
	case CmdReadTile:
		return "READTILE"
	case CmdError:
		return "ERROR"
	default:
		return fmt.Sprintf("Command(%d)", byte(c))
	}
}
