package main

import (
	"errors"
	"io"
	"net"

	"github.com/rs/zerolog"

	"github.com/geocache/stc/internal/rtp"
)

// handleConn drives one RTP connection to completion: read a frame,
// validate it against the session's OPEN state, dispatch it, write the
// reply, repeat until EXIT or a connection error. Tile-data commands
// are out of this worker's scope (no GDAL/tile-storage backend is
// wired here) and always answer with a typed error frame rather than
// a silent disconnect, per the protocol's error-handling rule.
func handleConn(conn net.Conn, log zerolog.Logger) {
	defer conn.Close()

	sess := &rtp.Session{}
	for {
		frame, err := rtp.ReadFrame(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Debug().Err(err).Msg("rtp: read frame")
			}
			return
		}

		reply := dispatch(sess, frame)
		if err := rtp.WriteFrame(conn, reply); err != nil {
			log.Debug().Err(err).Msg("rtp: write frame")
			return
		}

		if frame.Command == rtp.CmdExit {
			return
		}
	}
}

// dispatch validates and handles one frame, returning the reply frame.
// Every command it can service returns an empty-payload acknowledgment
// (no real tile backend is wired); anything requiring one returns a
// typed error frame.
func dispatch(sess *rtp.Session, frame rtp.Frame) rtp.Frame {
	if err := sess.Validate(frame.Command); err != nil {
		return rtp.ErrorFrame(err.Error())
	}

	switch frame.Command {
	case rtp.CmdExit, rtp.CmdOpen, rtp.CmdEnumerateSources, rtp.CmdReadAnyJSON:
		sess.Observe(frame.Command)
		return rtp.Frame{Command: frame.Command}
	default:
		return rtp.ErrorFrame(frame.Command.String() + ": no tile backend configured on this worker")
	}
}
