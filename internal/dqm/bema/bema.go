// Package bema implements the bema.Manager placement strategy of spec
// §4.4: the same per-node centroid EMA as dema, but the distance score
// is scaled by how often a node has been assigned work over a rolling
// window of the last 100 scheduling decisions, biasing new queries away
// from nodes that have recently taken on a disproportionate share.
// Grounded on
// original_source/mapping/cache/index/query_manager/simple_query_manager.cpp's
// BemaQueryManager::create_job plus its std::deque-based
// assignments/assignment_map bookkeeping.
package bema

import (
	"math"
	"sync"

	"github.com/geocache/stc/internal/dqm"
	"github.com/geocache/stc/internal/jobregistry"
	"github.com/geocache/stc/internal/wcs"
)

// DefaultAlpha matches dema's default EMA smoothing factor.
const DefaultAlpha = 0.3

// windowSize bounds how many past scheduling decisions count toward a
// node's current assignment weight.
const windowSize = 100

// Manager is a Placement that routes queries by centroid distance
// scaled by recent assignment load.
type Manager struct {
	mu     sync.Mutex
	nodes  []string
	alpha  float64
	seeded map[string]dqm.Point2

	window []string
	counts map[string]int
}

// New constructs a bema.Manager for the given configured node set.
func New(nodes []string, alpha float64) *Manager {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	return &Manager{
		nodes:  append([]string(nil), nodes...),
		alpha:  alpha,
		seeded: make(map[string]dqm.Point2),
		counts: make(map[string]int),
	}
}

// CreateJob assigns req to the node with the lowest load-scaled
// centroid distance, seeding any node not yet seen and returning it
// immediately.
func (m *Manager) CreateJob(req dqm.Request) (*jobregistry.Job, string, error) {
	qc := req.Center()

	m.mu.Lock()
	nodeID := m.selectNodeLocked(qc)
	m.recordAssignmentLocked(nodeID)
	m.mu.Unlock()

	job := jobregistry.NewJob(req)
	job.TargetNode = nodeID
	return job, nodeID, nil
}

func (m *Manager) selectNodeLocked(qc dqm.Point2) string {
	for _, n := range m.nodes {
		if _, ok := m.seeded[n]; !ok {
			m.seeded[n] = qc
			return n
		}
	}

	best := m.nodes[0]
	bestScore := math.MaxFloat64
	for _, n := range m.nodes {
		score := distance(qc, m.seeded[n]) * float64(m.counts[n])
		if score < bestScore {
			bestScore = score
			best = n
		}
	}
	m.seeded[best] = ema(qc, m.seeded[best], m.alpha)
	return best
}

// recordAssignmentLocked pushes node onto the rolling window, evicting
// the oldest decision once the window exceeds windowSize.
func (m *Manager) recordAssignmentLocked(node string) {
	m.window = append(m.window, node)
	m.counts[node]++

	if len(m.window) > windowSize {
		oldest := m.window[0]
		m.window = m.window[1:]
		m.counts[oldest]--
		if m.counts[oldest] <= 0 {
			delete(m.counts, oldest)
		}
	}
}

func distance(a, b dqm.Point2) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func ema(qc, prev dqm.Point2, alpha float64) dqm.Point2 {
	return dqm.Point2{
		X: qc.X*alpha + prev.X*(1-alpha),
		Y: qc.Y*alpha + prev.Y*(1-alpha),
	}
}

// Schedule binds pending jobs to Idle, non-Faulty connections of their
// TargetNode.
func (m *Manager) Schedule(pending []*jobregistry.Job, workers []*wcs.Conn) []dqm.Assignment {
	return dqm.Schedule(pending, workers)
}
