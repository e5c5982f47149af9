package dqm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/geocache/stc/internal/jobregistry"
	"github.com/geocache/stc/internal/wcs"
)

func TestSchedule_BindsToIdleConnOfTargetNode(t *testing.T) {
	reg := jobregistry.New()
	j := reg.NewJob(fakeRequest{})
	j.TargetNode = "node-a"

	idle := wcs.New("c1", "node-a", time.Minute)
	busy := wcs.New("c2", "node-a", time.Minute)
	_, err := busy.Fire(wcs.EventProcessRequest)
	assert.NoError(t, err)

	assignments := Schedule(reg.Pending(), []*wcs.Conn{busy, idle})
	assert.Len(t, assignments, 1)
	assert.Equal(t, idle, assignments[0].Conn)
	assert.Equal(t, j.ID, assignments[0].Job.ID)
}

func TestSchedule_NoConnForTargetNode(t *testing.T) {
	reg := jobregistry.New()
	j := reg.NewJob(fakeRequest{})
	j.TargetNode = "node-a"

	other := wcs.New("c1", "node-b", time.Minute)
	assignments := Schedule(reg.Pending(), []*wcs.Conn{other})
	assert.Empty(t, assignments)
}

func TestSchedule_OneConnPerJobEvenWithSharedTargetNode(t *testing.T) {
	reg := jobregistry.New()
	j1 := reg.NewJob(fakeRequest{})
	j1.TargetNode = "node-a"
	j2 := reg.NewJob(fakeRequest{})
	j2.TargetNode = "node-a"

	onlyConn := wcs.New("c1", "node-a", time.Minute)
	assignments := Schedule(reg.Pending(), []*wcs.Conn{onlyConn})
	assert.Len(t, assignments, 1)
}

type fakeRequest struct {
	node   string
	center Point2
}

func (r fakeRequest) IsAffectedByNode(nodeID string) bool { return r.node == nodeID }
func (r fakeRequest) Center() Point2                      { return r.center }
