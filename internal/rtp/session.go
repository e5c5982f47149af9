package rtp

import (
	"fmt"

	"github.com/geocache/stc/internal/stcerr"
)

// Session tracks whether a connection has seen a successful OPEN,
// enforcing spec §4.5's rule that commands ≥10 are source-specific and
// require one. A Session holds no I/O state of its own; callers drive
// it alongside their own frame loop.
type Session struct {
	opened bool
}

// Validate reports an error if cmd requires OPEN and the session has
// not seen one yet.
func (s *Session) Validate(cmd Command) error {
	if cmd.RequiresOpen() && !s.opened {
		return fmt.Errorf("rtp: command %s requires a prior OPEN: %w", cmd, stcerr.ErrIllegalState)
	}
	return nil
}

// Observe records the effect of a successfully handled command: OPEN
// marks the session opened, EXIT marks it closed again (a fresh OPEN
// is required before any further source-specific command).
func (s *Session) Observe(cmd Command) {
	switch cmd {
	case CmdOpen:
		s.opened = true
	case CmdExit:
		s.opened = false
	}
}

// Opened reports whether the session has seen a successful OPEN not
// yet followed by EXIT.
func (s *Session) Opened() bool {
	return s.opened
}
