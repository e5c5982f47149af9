package dqm

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/geocache/stc/internal/core/observability"
	"github.com/geocache/stc/internal/jobregistry"
	"github.com/geocache/stc/internal/wcs"
)

// ConnEvent is one worker-connection state change, fed to the
// Controller's control loop off a channel per spec §5.
type ConnEvent struct {
	Conn  *wcs.Conn
	Event wcs.Event
}

// Notifier is told about jobs the registry gave up on after repeated
// node faults, so the delivery layer (outside this package, per spec
// §4.6) can tell the waiting clients.
type Notifier interface {
	NotifyErrored(job *jobregistry.Job)
}

// EventPublisher publishes job-lifecycle notifications for external
// observers; internal/dqm/eventbus.Publisher satisfies it over Kafka.
// Optional — a Controller built without one just skips publishing.
type EventPublisher interface {
	Publish(ctx context.Context, evt JobEvent) error
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger overrides the Controller's logger.
func WithLogger(log *zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithNotifier registers a Notifier for jobs that escalate to errored.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithEventPublisher registers an EventPublisher for job-lifecycle
// events.
func WithEventPublisher(p EventPublisher) Option {
	return func(c *Controller) { c.publisher = p }
}

// Controller is the single control-thread scheduling loop of spec §5:
// it owns the Job registry and the set of worker connections, consults
// a Placement strategy to create and bind jobs, and reacts to
// connection-state-change events (including deadline timeouts) by
// rebuilding affected jobs via jobregistry.HandleNodeFault.
type Controller struct {
	mu        sync.Mutex
	reg       *jobregistry.Registry
	placement Placement
	strategy  string
	workers   map[string]*wcs.Conn
	recreate  func(jobregistry.Request) jobregistry.Request

	log       *zerolog.Logger
	notifier  Notifier
	publisher EventPublisher
}

// NewController constructs a Controller. recreate rebuilds a Request
// after a node loss (spec §4.6); the simple scheduler's identity
// rebuild (returning req unchanged) is a valid choice when a request
// carries no node-specific state.
func NewController(reg *jobregistry.Registry, placement Placement, strategy string, recreate func(jobregistry.Request) jobregistry.Request, opts ...Option) *Controller {
	c := &Controller{
		reg:       reg,
		placement: placement,
		strategy:  strategy,
		workers:   make(map[string]*wcs.Conn),
		recreate:  recreate,
		log:       zeroDiscard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func zeroDiscard() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// AddWorker registers a worker connection with the Controller.
func (c *Controller) AddWorker(conn *wcs.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.workers[conn.ID] = conn
}

// RemoveWorker deregisters a worker connection (e.g. on graceful
// shutdown of that node).
func (c *Controller) RemoveWorker(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.workers, id)
}

func (c *Controller) workersSnapshot() []*wcs.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*wcs.Conn, 0, len(c.workers))
	for _, w := range c.workers {
		out = append(out, w)
	}
	return out
}

// WorkerInfo is a read-only snapshot of one registered worker
// connection, for the HTTP surface's worker-listing endpoint.
type WorkerInfo struct {
	ID     string `json:"id"`
	NodeID string `json:"node_id"`
	State  string `json:"state"`
}

// Workers reports every registered worker connection's current state.
func (c *Controller) Workers() []WorkerInfo {
	conns := c.workersSnapshot()
	out := make([]WorkerInfo, 0, len(conns))
	for _, conn := range conns {
		out = append(out, WorkerInfo{ID: conn.ID, NodeID: conn.NodeID, State: conn.State().String()})
	}
	return out
}

// Stats reports the registry's current pending/running queue depths.
func (c *Controller) Stats() (pending, running int) {
	return len(c.reg.Pending()), len(c.reg.Running())
}

// binder is satisfied by a Request that wants to learn which node
// Placement actually bound it to, so a later IsAffectedByNode check
// reflects where it ran rather than where it was explicitly pinned.
// Query implements this; a Request that doesn't care about the
// distinction (like the test fakes) simply doesn't implement it.
type binder interface {
	Bind(nodeID string)
}

// Submit hands a new client request to the Placement strategy, adds the
// resulting Job to the registry's pending queue, and records the
// assignment metric.
func (c *Controller) Submit(ctx context.Context, clientID string, req Request) (*jobregistry.Job, error) {
	job, nodeID, err := c.placement.CreateJob(req)
	if err != nil {
		return nil, err
	}
	if b, ok := req.(binder); ok {
		b.Bind(nodeID)
	}
	job.AddClient(clientID)
	c.reg.Add(job)

	observability.IncAssignment(nodeID, c.strategy)
	c.updateQueueMetrics()
	c.publish(ctx, JobEvent{Type: JobCreated, JobID: string(job.ID), NodeID: nodeID})
	return job, nil
}

// Tick runs one iteration of the scheduling loop: bind as many pending
// jobs as there are Idle workers for their target node, and fire
// wcs.EventProcessRequest on each binding.
func (c *Controller) Tick(ctx context.Context) {
	pending := c.reg.Pending()
	workers := c.workersSnapshot()
	assignments := c.placement.Schedule(pending, workers)

	for _, a := range assignments {
		if _, err := a.Conn.Fire(wcs.EventProcessRequest); err != nil {
			c.log.Warn().Err(err).Str("job", string(a.Job.ID)).Msg("dqm: conn refused dispatch")
			continue
		}
		if err := c.reg.Dispatch(a.Job); err != nil {
			c.log.Warn().Err(err).Str("job", string(a.Job.ID)).Msg("dqm: dispatch after bind failed")
			continue
		}
		c.publish(ctx, JobEvent{Type: JobDispatched, JobID: string(a.Job.ID), NodeID: a.Conn.NodeID})
	}
	c.updateQueueMetrics()
}

// Done marks job complete, clearing its fault counter.
func (c *Controller) Done(ctx context.Context, job *jobregistry.Job) error {
	if err := c.reg.Done(job); err != nil {
		return err
	}
	c.updateQueueMetrics()
	c.publish(ctx, JobEvent{Type: JobDone, JobID: string(job.ID)})
	return nil
}

// HandleConnEvent processes one connection-state-change event off the
// control loop's channel: a Faulty transition rebuilds every job
// affected by that connection's node.
func (c *Controller) HandleConnEvent(ctx context.Context, evt ConnEvent) {
	if evt.Event != wcs.EventFault {
		return
	}
	c.faultNode(ctx, evt.Conn.NodeID)
}

// CheckDeadlines scans every registered worker for an expired deadline
// and faults its node if found; callers poll this periodically from the
// control loop.
func (c *Controller) CheckDeadlines(ctx context.Context, now time.Time) {
	for _, w := range c.workersSnapshot() {
		timedOut, _ := w.CheckDeadline(now)
		if timedOut {
			c.faultNode(ctx, w.NodeID)
		}
	}
}

func (c *Controller) faultNode(ctx context.Context, nodeID string) {
	observability.IncNodeFault(nodeID)

	requeued, errored := c.reg.HandleNodeFault(nodeID, c.recreate)
	for _, j := range requeued {
		c.publish(ctx, JobEvent{Type: JobRequeued, JobID: string(j.ID), NodeID: nodeID})
	}
	for _, j := range errored {
		c.log.Error().Str("job", string(j.ID)).Str("node", nodeID).Msg("dqm: job escalated to errored after repeated faults")
		c.publish(ctx, JobEvent{Type: JobErrored, JobID: string(j.ID), NodeID: nodeID})
		if c.notifier != nil {
			c.notifier.NotifyErrored(j)
		}
	}
	c.updateQueueMetrics()
}

func (c *Controller) updateQueueMetrics() {
	observability.SetDQMQueueDepth(len(c.reg.Pending()), len(c.reg.Running()))
}

func (c *Controller) publish(ctx context.Context, evt JobEvent) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, evt); err != nil {
		c.log.Warn().Err(err).Str("job", evt.JobID).Msg("dqm: event publish failed")
	}
}

// Run drives the control loop until ctx is cancelled: it ticks the
// scheduler on every interval and on every incoming connection event.
func (c *Controller) Run(ctx context.Context, events <-chan ConnEvent, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-events:
			if !ok {
				return
			}
			c.HandleConnEvent(ctx, evt)
			c.Tick(ctx)
		case now := <-ticker.C:
			c.CheckDeadlines(ctx, now)
			c.Tick(ctx)
		}
	}
}
