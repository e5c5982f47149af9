// Package jobregistry implements the pending/running Job registry of
// spec §4.4: client fan-out, node-loss rebuild, and the two-faults-in-
// rapid-succession escalation to an Error state of spec §4.6.
package jobregistry

// ID identifies a Job for its lifetime.
type ID string

// Request is the scheduler-facing view of a client's query: enough to
// decide node affinity and to be rebuilt after a node loss.
type Request interface {
	// IsAffectedByNode reports whether a result already computed (or
	// in flight) against nodeID must be discarded if that node is
	// lost.
	IsAffectedByNode(nodeID string) bool
}

// Job is one in-flight unit of scheduling work, possibly shared by
// several clients that issued the same query.
type Job struct {
	ID      ID
	Request Request
	Clients map[string]struct{}

	// TargetNode is the node the scheduler bound (or intends to bind)
	// this job to. Set once by the Placement policy at creation time;
	// the scheduling loop only needs to find an Idle, non-Faulty
	// connection for this node, regardless of which policy chose it.
	TargetNode string

	// FaultCount tracks consecutive node faults against this job,
	// reset to zero on a successful Done. Two in rapid succession
	// escalate the job to Error (spec §4.6) instead of requeuing
	// forever.
	FaultCount int
}

// NewJob constructs a Job for req with no ID and no TargetNode yet. A
// Placement strategy builds these directly; Registry.Add assigns the ID
// once the job enters a registry's pending queue.
func NewJob(req Request) *Job {
	return &Job{Request: req, Clients: make(map[string]struct{})}
}

// AddClient attaches one client to the job (deduplicating against the
// existing set).
func (j *Job) AddClient(clientID string) {
	j.Clients[clientID] = struct{}{}
}

// AddClients attaches a set of clients.
func (j *Job) AddClients(clientIDs []string) {
	for _, id := range clientIDs {
		j.AddClient(id)
	}
}

// ClientIDs returns the attached client set as a slice, for the
// delivery layer's fan-out.
func (j *Job) ClientIDs() []string {
	ids := make([]string, 0, len(j.Clients))
	for id := range j.Clients {
		ids = append(ids, id)
	}
	return ids
}
