package bema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocache/stc/internal/dqm"
)

type fakeRequest struct {
	center dqm.Point2
}

func (r fakeRequest) IsAffectedByNode(string) bool { return false }
func (r fakeRequest) Center() dqm.Point2            { return r.center }

func TestCreateJob_WarmUpSeedsEveryNodeOnFirstSighting(t *testing.T) {
	m := New([]string{"a", "b"}, DefaultAlpha)

	_, n1, err := m.CreateJob(fakeRequest{center: dqm.Point2{X: 0, Y: 0}})
	require.NoError(t, err)
	assert.Equal(t, "a", n1)

	_, n2, err := m.CreateJob(fakeRequest{center: dqm.Point2{X: 100, Y: 100}})
	require.NoError(t, err)
	assert.Equal(t, "b", n2)
}

func TestCreateJob_LoadScalingTracksRepeatedAssignmentsToSameNode(t *testing.T) {
	m := New([]string{"a", "b"}, DefaultAlpha)
	_, _, _ = m.CreateJob(fakeRequest{center: dqm.Point2{X: 0, Y: 0}})   // seeds a
	_, _, _ = m.CreateJob(fakeRequest{center: dqm.Point2{X: 100, Y: 0}}) // seeds b

	// Drive a's assignment count up. a's centroid converges on the
	// query center as its count grows, so its load-scaled score stays
	// below b's and every query still lands on a.
	for i := 0; i < 10; i++ {
		_, nodeID, err := m.CreateJob(fakeRequest{center: dqm.Point2{X: 1, Y: 0}})
		require.NoError(t, err)
		if nodeID != "a" {
			t.Fatalf("expected early assignments to land on a, got %s", nodeID)
		}
	}

	assert.Greater(t, m.counts["a"], m.counts["b"])
}

func TestCreateJob_RoutesTowardCloserLightlyLoadedNodeDespiteHeavierNodeNearby(t *testing.T) {
	m := New([]string{"node-1", "node-2"}, 0.3)

	_, n1, err := m.CreateJob(fakeRequest{center: dqm.Point2{X: 0, Y: 0}})
	require.NoError(t, err)
	require.Equal(t, "node-1", n1)

	_, n2, err := m.CreateJob(fakeRequest{center: dqm.Point2{X: 10, Y: 10}})
	require.NoError(t, err)
	require.Equal(t, "node-2", n2)

	for i := 0; i < 3; i++ {
		_, nodeID, err := m.CreateJob(fakeRequest{center: dqm.Point2{X: 10, Y: 10}})
		require.NoError(t, err)
		require.Equal(t, "node-2", nodeID)
	}

	_, nodeID, err := m.CreateJob(fakeRequest{center: dqm.Point2{X: 1, Y: 1}})
	require.NoError(t, err)
	assert.Equal(t, "node-1", nodeID, "closer, lower-load node should win despite node-2's nearby centroid")
}

func TestRecordAssignment_WindowEvictsOldestPastCapacity(t *testing.T) {
	m := New([]string{"a"}, DefaultAlpha)
	for i := 0; i < windowSize+10; i++ {
		m.recordAssignmentLocked("a")
	}
	assert.LessOrEqual(t, len(m.window), windowSize)
	assert.Equal(t, windowSize, m.counts["a"])
}
