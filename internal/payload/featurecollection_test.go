package payload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureCollection_Validate(t *testing.T) {
	fc := &FeatureCollection{
		Coords:       []Coord{{0, 0}, {1, 1}, {2, 2}},
		StartOffsets: []uint32{0, 2, 3},
	}
	require.NoError(t, fc.Validate())

	bad := &FeatureCollection{
		Coords:       []Coord{{0, 0}, {1, 1}},
		StartOffsets: []uint32{0, 1},
	}
	assert.Error(t, bad.Validate())
}

func TestFeatureCollection_EnsureTimeIntervals_ClearsThenFills(t *testing.T) {
	fc := &FeatureCollection{
		Coords:       []Coord{{0, 0}, {1, 1}},
		StartOffsets: []uint32{0, 1, 2},
		TimeIntervals: []TimeInterval{
			{T1: 999, T2: 1000},
		},
	}

	fc.EnsureTimeIntervals(TimeInterval{T1: 0, T2: 1})

	require.Len(t, fc.TimeIntervals, fc.NumFeatures())
	for _, iv := range fc.TimeIntervals {
		assert.Equal(t, TimeInterval{T1: 0, T2: 1}, iv)
	}
}

func TestPoints_CloneIsIndependent(t *testing.T) {
	p := &Points{
		FeatureCollection: FeatureCollection{
			Coords:          []Coord{{1, 2}},
			StartOffsets:    []uint32{0, 1},
			GlobalAttrsText: map[string]string{"name": "Stockholm"},
		},
	}

	cloned := p.Clone().(*Points)
	cloned.Coords[0].X = 99
	cloned.GlobalAttrsText["name"] = "Oslo"

	assert.Equal(t, float64(1), p.Coords[0].X)
	assert.Equal(t, "Stockholm", p.GlobalAttrsText["name"])
}

func TestLines_SizeBytesAccountsForAttributes(t *testing.T) {
	l := &Lines{
		FeatureCollection: FeatureCollection{
			Coords:          []Coord{{0, 0}, {1, 1}},
			StartOffsets:    []uint32{0, 2},
			GlobalAttrsText: map[string]string{"k": "v"},
		},
	}
	assert.Greater(t, l.SizeBytes(), uint64(0))
}
