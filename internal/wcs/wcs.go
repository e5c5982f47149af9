// Package wcs implements the Worker Connection State Machine: the
// transition table of spec §4.5 as a pure function, plus a Conn type
// that wraps it with a mutex and a deadline timer.
package wcs

import (
	"fmt"

	"github.com/geocache/stc/internal/stcerr"
)

// State is one node of the worker connection state machine.
type State uint8

const (
	Idle State = iota
	Sending
	Processing
	Delivering
	Done
	Faulty
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case Processing:
		return "processing"
	case Delivering:
		return "delivering"
	case Done:
		return "done"
	case Faulty:
		return "faulty"
	default:
		return "unknown"
	}
}

// Event drives a transition.
type Event uint8

const (
	// EventProcessRequest is raised by the scheduler dispatching a job
	// to an Idle worker.
	EventProcessRequest Event = iota
	// EventAck is raised on the wire acknowledgement of a sent request
	// or of a delivered result.
	EventAck
	// EventResult is raised when the worker reports a computed result.
	EventResult
	// EventRecycle returns a Done connection to Idle for its next job.
	EventRecycle
	// EventFault is raised on any protocol violation, socket error, or
	// timeout; it is valid from every non-Faulty state and Faulty is
	// terminal.
	EventFault
)

func (e Event) String() string {
	switch e {
	case EventProcessRequest:
		return "process_request"
	case EventAck:
		return "ack"
	case EventResult:
		return "result"
	case EventRecycle:
		return "recycle"
	case EventFault:
		return "fault"
	default:
		return "unknown"
	}
}

// Transition is the pure state-transition function. Any transition not
// in the table below — including any event raised against Faulty — is
// a protocol violation: the connection moves to Faulty and IllegalState
// is returned. EventFault is valid from every non-Faulty state and
// always lands on Faulty with no error, since a fault is expected
// input, not a violation.
func Transition(cur State, event Event) (State, error) {
	if event == EventFault && cur != Faulty {
		return Faulty, nil
	}

	switch {
	case cur == Idle && event == EventProcessRequest:
		return Sending, nil
	case cur == Sending && event == EventAck:
		return Processing, nil
	case cur == Processing && event == EventResult:
		return Delivering, nil
	case cur == Delivering && event == EventAck:
		return Done, nil
	case cur == Done && event == EventRecycle:
		return Idle, nil
	default:
		return Faulty, fmt.Errorf("wcs: invalid transition %s -(%s)->: %w", cur, event, stcerr.ErrIllegalState)
	}
}
