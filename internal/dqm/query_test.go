package dqm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geocache/stc/internal/jobregistry"
	"github.com/geocache/stc/internal/qr"
	"github.com/geocache/stc/internal/stref"
	"github.com/geocache/stc/internal/wcs"
)

func mustRef(t *testing.T, x1, y1, x2, y2 float64) stref.STRef {
	t.Helper()
	ref, err := stref.New(3857, x1, y1, x2, y2, 0, 1, stref.Unref)
	if err != nil {
		t.Fatalf("stref.New: %v", err)
	}
	return ref
}

func TestQuery_Center_IsBBoxMidpoint(t *testing.T) {
	q := NewQuery(qr.New(mustRef(t, 0, 0, 10, 20)))
	assert.Equal(t, Point2{X: 5, Y: 10}, q.Center())
}

func TestQuery_TargetNode_EmptyUnlessPinned(t *testing.T) {
	assert.Equal(t, "", NewQuery(qr.New(mustRef(t, 0, 0, 1, 1))).TargetNode())
	assert.Equal(t, "node-a", NewPinnedQuery(qr.New(mustRef(t, 0, 0, 1, 1)), "node-a").TargetNode())
}

func TestQuery_IsAffectedByNode_OnlyAfterBind(t *testing.T) {
	q := NewQuery(qr.New(mustRef(t, 0, 0, 1, 1)))
	assert.False(t, q.IsAffectedByNode("node-a"))

	q.Bind("node-a")
	assert.True(t, q.IsAffectedByNode("node-a"))
	assert.False(t, q.IsAffectedByNode("node-b"))
}

func TestController_Submit_BindsQueryToPlacedNode(t *testing.T) {
	reg := jobregistry.New()
	placement := simpleTestPlacement{}
	c := NewController(reg, placement, "simple", func(r jobregistry.Request) jobregistry.Request { return r })

	q := NewPinnedQuery(qr.New(mustRef(t, 0, 0, 1, 1)), "node-a")
	job, err := c.Submit(context.Background(), "client-1", q)
	assert.NoError(t, err)
	assert.Equal(t, "node-a", job.TargetNode)
	assert.True(t, q.IsAffectedByNode("node-a"))
}

// simpleTestPlacement mirrors internal/dqm/simple.Manager without
// importing it (dqm must not depend on its own subpackages).
type simpleTestPlacement struct{}

func (simpleTestPlacement) CreateJob(req Request) (*jobregistry.Job, string, error) {
	sr := req.(interface{ TargetNode() string })
	nodeID := sr.TargetNode()
	job := jobregistry.NewJob(req)
	job.TargetNode = nodeID
	return job, nodeID, nil
}

func (simpleTestPlacement) Schedule(pending []*jobregistry.Job, workers []*wcs.Conn) []Assignment {
	return Schedule(pending, workers)
}
