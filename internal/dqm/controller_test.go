package dqm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocache/stc/internal/jobregistry"
	"github.com/geocache/stc/internal/wcs"
)

type boundRequest struct {
	node string
}

func (r boundRequest) IsAffectedByNode(nodeID string) bool { return r.node == nodeID }
func (r boundRequest) Center() Point2                      { return Point2{} }
func (r boundRequest) TargetNode() string                   { return r.node }

// fakePlacement pins every job to req's own node, mirroring simple.Manager
// without importing the subpackage (dqm must not depend on it).
type fakePlacement struct{}

func (fakePlacement) CreateJob(req Request) (*jobregistry.Job, string, error) {
	br := req.(boundRequest)
	job := jobregistry.NewJob(req)
	job.TargetNode = br.node
	return job, br.node, nil
}

func (fakePlacement) Schedule(pending []*jobregistry.Job, workers []*wcs.Conn) []Assignment {
	return Schedule(pending, workers)
}

type recordingNotifier struct {
	errored []*jobregistry.Job
}

func (n *recordingNotifier) NotifyErrored(job *jobregistry.Job) {
	n.errored = append(n.errored, job)
}

func TestController_SubmitThenTickDispatchesToIdleWorker(t *testing.T) {
	reg := jobregistry.New()
	c := NewController(reg, fakePlacement{}, "test", identityRecreate)
	conn := wcs.New("c1", "node-a", time.Minute)
	c.AddWorker(conn)

	ctx := context.Background()
	job, err := c.Submit(ctx, "client-1", boundRequest{node: "node-a"})
	require.NoError(t, err)
	assert.Len(t, reg.Pending(), 1)

	c.Tick(ctx)
	assert.Empty(t, reg.Pending())
	assert.Len(t, reg.Running(), 1)
	assert.Equal(t, wcs.Sending, conn.State())
	assert.Equal(t, job.ID, reg.Running()[0].ID)
}

func TestController_CheckDeadlinesFaultsTimedOutWorker(t *testing.T) {
	reg := jobregistry.New()
	c := NewController(reg, fakePlacement{}, "test", identityRecreate)
	conn := wcs.New("c1", "node-a", time.Millisecond)
	c.AddWorker(conn)

	ctx := context.Background()
	_, err := c.Submit(ctx, "client-1", boundRequest{node: "node-a"})
	require.NoError(t, err)
	c.Tick(ctx)
	require.Equal(t, wcs.Sending, conn.State())

	c.CheckDeadlines(ctx, time.Now().Add(time.Second))
	assert.Equal(t, wcs.Faulty, conn.State())
	assert.Empty(t, reg.Running())
	assert.Len(t, reg.Pending(), 1)
}

func TestController_SecondFaultEscalatesAndNotifies(t *testing.T) {
	reg := jobregistry.New()
	notifier := &recordingNotifier{}
	c := NewController(reg, fakePlacement{}, "test", identityRecreate, WithNotifier(notifier))

	ctx := context.Background()
	job, err := c.Submit(ctx, "client-1", boundRequest{node: "node-a"})
	require.NoError(t, err)
	require.NoError(t, reg.Dispatch(job))

	c.faultNode(ctx, "node-a")
	require.Len(t, reg.Pending(), 1)
	require.NoError(t, reg.Dispatch(reg.Pending()[0]))

	c.faultNode(ctx, "node-a")
	assert.Empty(t, reg.Pending())
	assert.Empty(t, reg.Running())
	assert.Len(t, notifier.errored, 1)
}

func identityRecreate(req jobregistry.Request) jobregistry.Request { return req }
