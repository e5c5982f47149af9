package geoindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocache/stc/internal/dqm"
)

func TestNew_RejectsOutOfRangeResolution(t *testing.T) {
	_, err := New(16)
	assert.Error(t, err)
}

func TestNearbyNodes_EmptyBeforeAnyAssignment(t *testing.T) {
	idx, err := New(DefaultResolution)
	require.NoError(t, err)

	nodes, err := idx.NearbyNodes(dqm.Point2{X: 13.4, Y: 52.5})
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestNearbyNodes_FindsNodeRecordedAtSamePoint(t *testing.T) {
	idx, err := New(DefaultResolution)
	require.NoError(t, err)

	p := dqm.Point2{X: 13.4, Y: 52.5}
	require.NoError(t, idx.RecordAssignment(p, "node-a"))

	nodes, err := idx.NearbyNodes(p)
	require.NoError(t, err)
	assert.Contains(t, nodes, "node-a")
}

func TestNearbyNodes_DoesNotFindDistantNode(t *testing.T) {
	idx, err := New(DefaultResolution)
	require.NoError(t, err)

	require.NoError(t, idx.RecordAssignment(dqm.Point2{X: -122.4, Y: 37.8}, "node-sf"))

	nodes, err := idx.NearbyNodes(dqm.Point2{X: 13.4, Y: 52.5})
	require.NoError(t, err)
	assert.NotContains(t, nodes, "node-sf")
}
