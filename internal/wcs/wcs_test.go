package wcs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransition_HappyPath(t *testing.T) {
	cur := Idle
	for _, step := range []struct {
		event Event
		want  State
	}{
		{EventProcessRequest, Sending},
		{EventAck, Processing},
		{EventResult, Delivering},
		{EventAck, Done},
		{EventRecycle, Idle},
	} {
		next, err := Transition(cur, step.event)
		assert.NoError(t, err)
		assert.Equal(t, step.want, next)
		cur = next
	}
}

func TestTransition_UnrecognizedMovesToFaultyWithIllegalState(t *testing.T) {
	next, err := Transition(Idle, EventAck)
	assert.Equal(t, Faulty, next)
	assert.Error(t, err)
}

func TestTransition_FaultValidFromEveryNonFaultyState(t *testing.T) {
	for _, s := range []State{Idle, Sending, Processing, Delivering, Done} {
		next, err := Transition(s, EventFault)
		assert.NoError(t, err)
		assert.Equal(t, Faulty, next)
	}
}

func TestTransition_FaultyIsTerminal(t *testing.T) {
	_, err := Transition(Faulty, EventFault)
	assert.Error(t, err)
	_, err = Transition(Faulty, EventProcessRequest)
	assert.Error(t, err)
}
