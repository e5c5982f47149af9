package jobregistry

import (
	"fmt"
	"strconv"

	"github.com/geocache/stc/internal/stcerr"
)

// maxFaults is the number of consecutive node faults against one job
// that escalates it to Error instead of requeuing it again.
const maxFaults = 2

// Registry holds every Job the scheduler currently knows about, split
// between pending (awaiting a worker) and running (bound to one).
type Registry struct {
	pending []*Job
	running map[ID]*Job
	nextID  uint64
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{running: make(map[ID]*Job)}
}

// NewJob creates a Job for req and appends it to pending.
func (r *Registry) NewJob(req Request) *Job {
	return r.Add(NewJob(req))
}

// Add assigns job an ID and appends it to pending. Used when a
// Placement strategy built the Job itself (via jobregistry.NewJob, to
// set TargetNode before the job is known to any Registry).
func (r *Registry) Add(job *Job) *Job {
	job.ID = ID(strconv.FormatUint(r.nextID, 10))
	r.nextID++
	r.pending = append(r.pending, job)
	return job
}

// Pending returns the current pending queue (read-only snapshot).
func (r *Registry) Pending() []*Job {
	out := make([]*Job, len(r.pending))
	copy(out, r.pending)
	return out
}

// Running returns the jobs currently bound to a worker (read-only
// snapshot).
func (r *Registry) Running() []*Job {
	out := make([]*Job, 0, len(r.running))
	for _, j := range r.running {
		out = append(out, j)
	}
	return out
}

// Extend attempts to merge req into an existing job instead of
// creating a new one. The simple scheduler never merges — spec §4.4
// names this as a seam for future schemes, not a current behavior.
func (r *Registry) Extend(_ *Job, _ Request) bool {
	return false
}

// Dispatch moves job from pending to running, once the scheduler has
// bound it to a worker connection.
func (r *Registry) Dispatch(job *Job) error {
	idx := r.pendingIndex(job.ID)
	if idx < 0 {
		return fmt.Errorf("jobregistry: dispatch: job %s not pending: %w", job.ID, stcerr.ErrIllegalState)
	}
	r.pending = append(r.pending[:idx], r.pending[idx+1:]...)
	r.running[job.ID] = job
	return nil
}

// Done removes job from running on successful completion and resets
// its fault counter.
func (r *Registry) Done(job *Job) error {
	if _, ok := r.running[job.ID]; !ok {
		return fmt.Errorf("jobregistry: done: job %s not running: %w", job.ID, stcerr.ErrIllegalState)
	}
	delete(r.running, job.ID)
	job.FaultCount = 0
	return nil
}

// HandleNodeFault processes a worker-connection fault against nodeID:
// every running job affected by that node either gets its FaultCount
// incremented and is rebuilt via recreate + pushed back to pending, or
// — if this is its second consecutive fault — is dropped from the
// registry entirely and returned as errored for the caller to notify
// its clients (outside this package, per spec §4.6).
func (r *Registry) HandleNodeFault(nodeID string, recreate func(Request) Request) (requeued, errored []*Job) {
	for id, job := range r.running {
		if !job.Request.IsAffectedByNode(nodeID) {
			continue
		}
		delete(r.running, id)
		job.FaultCount++

		if job.FaultCount >= maxFaults {
			errored = append(errored, job)
			continue
		}

		job.Request = recreate(job.Request)
		r.pending = append(r.pending, job)
		requeued = append(requeued, job)
	}
	return requeued, errored
}

func (r *Registry) pendingIndex(id ID) int {
	for i, j := range r.pending {
		if j.ID == id {
			return i
		}
	}
	return -1
}
