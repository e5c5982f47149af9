package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geocache/stc/internal/rtp"
)

func TestDispatch_Open_AcksAndOpensSession(t *testing.T) {
	sess := &rtp.Session{}

	reply := dispatch(sess, rtp.Frame{Command: rtp.CmdOpen})
	assert.Equal(t, rtp.CmdOpen, reply.Command)
	assert.True(t, sess.Opened())
}

func TestDispatch_SourceSpecificBeforeOpen_ReturnsErrorFrame(t *testing.T) {
	sess := &rtp.Session{}

	reply := dispatch(sess, rtp.Frame{Command: rtp.CmdReadJSON})
	msg, isErr := reply.AsError()
	assert.True(t, isErr)
	assert.NotEmpty(t, msg)
}

func TestDispatch_UnwiredTileBackend_ReturnsErrorFrame(t *testing.T) {
	sess := &rtp.Session{}
	_ = dispatch(sess, rtp.Frame{Command: rtp.CmdOpen})

	reply := dispatch(sess, rtp.Frame{Command: rtp.CmdReadTile})
	_, isErr := reply.AsError()
	assert.True(t, isErr)
}

func TestDispatch_Exit_ClosesSession(t *testing.T) {
	sess := &rtp.Session{}
	_ = dispatch(sess, rtp.Frame{Command: rtp.CmdOpen})
	_ = dispatch(sess, rtp.Frame{Command: rtp.CmdExit})

	assert.False(t, sess.Opened())
}
