// Package dqm defines the scheduler-facing contract shared by the three
// placement strategies (internal/dqm/simple, dema, bema) and the
// control-thread Controller that drives them, grounded on
// original_source/mapping/cache/index/query_manager/simple_query_manager.cpp's
// QueryManager/PendingQuery split.
package dqm

import (
	"github.com/geocache/stc/internal/jobregistry"
	"github.com/geocache/stc/internal/wcs"
)

// Point2 is a query's spatial center, the only locality signal DEMA and
// BEMA need; the simple strategy ignores it entirely.
type Point2 struct {
	X, Y float64
}

// Request is the dqm-specific view of a client query: every placement
// strategy needs IsAffectedByNode (inherited from jobregistry.Request,
// for node-loss rebuild) plus a spatial center for locality scoring.
type Request interface {
	jobregistry.Request
	Center() Point2
}

// Assignment binds one pending Job to an Idle worker connection, ready
// for the Controller to fire wcs.EventProcessRequest on it.
type Assignment struct {
	Job  *jobregistry.Job
	Conn *wcs.Conn
}

// Placement is the strategy seam of spec §4.4: CreateJob decides, once,
// which node a new request should run on; Schedule binds the resulting
// pending jobs to concrete worker connections as they become Idle.
type Placement interface {
	// CreateJob builds an unregistered Job for req (the caller is
	// responsible for handing it to a jobregistry.Registry) and
	// returns the nodeID the strategy picked for it.
	CreateJob(req Request) (*jobregistry.Job, string, error)

	// Schedule binds as many pending jobs as there are Idle,
	// non-Faulty connections for their TargetNode.
	Schedule(pending []*jobregistry.Job, workers []*wcs.Conn) []Assignment
}

// scheduleByTargetNode implements the binding half of Placement:
// identical across simple/dema/bema, since what differs between them is
// only how CreateJob picks TargetNode. Strategies reach it through the
// exported Schedule rather than reimplementing this scan.
func scheduleByTargetNode(pending []*jobregistry.Job, workers []*wcs.Conn) []Assignment {
	free := make(map[string][]*wcs.Conn, len(workers))
	for _, w := range workers {
		if w.Dispatchable() {
			free[w.NodeID] = append(free[w.NodeID], w)
		}
	}

	var out []Assignment
	for _, job := range pending {
		conns := free[job.TargetNode]
		if len(conns) == 0 {
			continue
		}
		out = append(out, Assignment{Job: job, Conn: conns[0]})
		free[job.TargetNode] = conns[1:]
	}
	return out
}

// Schedule is the exported entry point used by the Controller; it is a
// thin wrapper so the scan lives in one place but Placement
// implementations in subpackages can still call it without an import
// cycle (dqm never imports simple/dema/bema).
func Schedule(pending []*jobregistry.Job, workers []*wcs.Conn) []Assignment {
	return scheduleByTargetNode(pending, workers)
}
