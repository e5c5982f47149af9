package rtp

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/geocache/stc/internal/stcerr"
)

// MaxFrameSize bounds a single frame's payload, guarding a reader
// against a corrupt or hostile length prefix turning into an
// unbounded allocation.
const MaxFrameSize = 64 << 20

// Frame is one length-prefixed RTP record: a uint32 little-endian
// length (covering the command byte plus payload), the command byte,
// then the payload.
type Frame struct {
	Command Command
	Payload []byte
}

// WriteFrame writes f to w as a length-prefixed binary record.
func WriteFrame(w io.Writer, f Frame) error {
	body := make([]byte, 1+len(f.Payload))
	body[0] = byte(f.Command)
	copy(body[1:], f.Payload)

	var lenPrefix [4]byte
	binary.LittleEndian.PutUint32(lenPrefix[:], uint32(len(body)))

	if _, err := w.Write(lenPrefix[:]); err != nil {
		return fmt.Errorf("rtp: write length prefix: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("rtp: write frame body: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed binary record from r.
func ReadFrame(r io.Reader) (Frame, error) {
	var lenPrefix [4]byte
	if _, err := io.ReadFull(r, lenPrefix[:]); err != nil {
		return Frame{}, fmt.Errorf("rtp: read length prefix: %w", err)
	}
	n := binary.LittleEndian.Uint32(lenPrefix[:])
	if n == 0 {
		return Frame{}, fmt.Errorf("rtp: empty frame (no command byte): %w", stcerr.ErrArgument)
	}
	if n > MaxFrameSize {
		return Frame{}, fmt.Errorf("rtp: frame of %d bytes exceeds MaxFrameSize: %w", n, stcerr.ErrArgument)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return Frame{}, fmt.Errorf("rtp: read frame body: %w", err)
	}
	return Frame{Command: Command(body[0]), Payload: body[1:]}, nil
}
