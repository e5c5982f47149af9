package wcs

import (
	"fmt"
	"sync"
	"time"

	"github.com/geocache/stc/internal/stcerr"
)

// Conn wraps the pure Transition function with a mutex and a deadline
// timer: any in-flight job (Sending through Delivering) that exceeds
// its deadline is treated as a Timeout, which per spec §7 is handled
// identically to NodeFailed.
type Conn struct {
	mu sync.Mutex

	ID     string
	NodeID string

	state    State
	deadline time.Time
	timeout  time.Duration
}

// New constructs an Idle Conn for node with the given dispatch timeout.
func New(id, nodeID string, timeout time.Duration) *Conn {
	return &Conn{ID: id, NodeID: nodeID, state: Idle, timeout: timeout}
}

// State returns the connection's current state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Faulty reports whether the connection is in the terminal Faulty
// state.
func (c *Conn) Faulty() bool {
	return c.State() == Faulty
}

// Dispatchable reports whether the scheduler may bind a job to this
// connection: Idle and not Faulty.
func (c *Conn) Dispatchable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == Idle
}

// Fire applies event, starting (or clearing) the deadline timer as
// appropriate: EventProcessRequest arms the deadline, EventRecycle (the
// job completing) clears it.
func (c *Conn) Fire(event Event) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := Transition(c.state, event)
	c.state = next

	switch event {
	case EventProcessRequest:
		c.deadline = time.Now().Add(c.timeout)
	case EventRecycle, EventFault:
		c.deadline = time.Time{}
	}
	return next, err
}

// CheckDeadline transitions the connection to Faulty if it is
// in-flight (Sending/Processing/Delivering) past its deadline, and
// reports whether it did so. The caller is expected to poll this from
// the scheduler's control loop.
func (c *Conn) CheckDeadline(now time.Time) (timedOut bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.deadline.IsZero() || now.Before(c.deadline) {
		return false, nil
	}
	switch c.state {
	case Sending, Processing, Delivering:
	default:
		return false, nil
	}

	c.state = Faulty
	c.deadline = time.Time{}
	return true, fmt.Errorf("wcs: conn %s on node %s exceeded deadline: %w", c.ID, c.NodeID, stcerr.ErrTimeout)
}
