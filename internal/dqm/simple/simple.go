// Package simple implements the simple.Manager placement strategy of
// spec §4.4: every request already names its target node (an explicit
// worker assignment made by the caller, e.g. from a fixed shard map),
// so CreateJob does no locality scoring at all. Grounded on
// original_source/mapping/cache/index/query_manager/simple_query_manager.cpp's
// SimpleQueryManager/SimpleJob.
package simple

import (
	"fmt"

	"github.com/geocache/stc/internal/dqm"
	"github.com/geocache/stc/internal/jobregistry"
	"github.com/geocache/stc/internal/stcerr"
	"github.com/geocache/stc/internal/wcs"
)

// Request is the simple strategy's view of a query: it must carry its
// own target node, since the strategy never computes one.
type Request interface {
	dqm.Request
	TargetNode() string
}

// Manager is a Placement that binds every job to the node its Request
// names explicitly.
type Manager struct{}

// New constructs a simple.Manager.
func New() *Manager { return &Manager{} }

// CreateJob builds a Job targeting req's own TargetNode.
func (m *Manager) CreateJob(req dqm.Request) (*jobregistry.Job, string, error) {
	sr, ok := req.(Request)
	if !ok {
		return nil, "", fmt.Errorf("simple: request does not implement TargetNode: %w", stcerr.ErrArgument)
	}
	nodeID := sr.TargetNode()
	job := jobregistry.NewJob(req)
	job.TargetNode = nodeID
	return job, nodeID, nil
}

// Schedule binds pending jobs to Idle, non-Faulty connections of their
// TargetNode.
func (m *Manager) Schedule(pending []*jobregistry.Job, workers []*wcs.Conn) []dqm.Assignment {
	return dqm.Schedule(pending, workers)
}
