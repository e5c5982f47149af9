// Package dema implements the dema.Manager placement strategy of spec
// §4.4: a per-node exponential moving average of query centroids.
// CreateJob assigns a request to whichever configured node has the
// closest centroid, then nudges that node's centroid toward the new
// query center. The first query ever seen after a node is configured
// seeds that node's centroid and is assigned to it unconditionally, so
// every node gets exactly one warm-up assignment before distance
// scoring kicks in. Grounded on
// original_source/mapping/cache/index/query_manager/simple_query_manager.cpp's
// DemaQueryManager::create_job.
package dema

import (
	"math"
	"sync"

	"github.com/geocache/stc/internal/dqm"
	"github.com/geocache/stc/internal/geoindex"
	"github.com/geocache/stc/internal/jobregistry"
	"github.com/geocache/stc/internal/wcs"
)

// DefaultAlpha is the EMA smoothing factor used by the original
// implementation (30% weight on the newest query center).
const DefaultAlpha = 0.3

// Manager is a Placement that routes queries toward whichever
// configured node has historically served the spatially closest
// queries.
type Manager struct {
	mu       sync.Mutex
	nodes    []string
	alpha    float64
	seeded   map[string]dqm.Point2
	locality *geoindex.Index
}

// Option configures optional behavior of a Manager constructed by New.
type Option func(*Manager)

// WithLocalityIndex narrows each selectNode scan to the nodes the
// index has recently seen assigned near a query's cell, falling back
// to every configured node once the index has no signal yet for that
// neighborhood. Worthwhile once the node count grows past what a
// linear distance scan over all of them handles comfortably.
func WithLocalityIndex(idx *geoindex.Index) Option {
	return func(m *Manager) { m.locality = idx }
}

// New constructs a dema.Manager for the given configured node set.
// nodes fixes iteration order, so warm-up seeding is deterministic
// across runs with the same configuration.
func New(nodes []string, alpha float64, opts ...Option) *Manager {
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	m := &Manager{nodes: append([]string(nil), nodes...), alpha: alpha, seeded: make(map[string]dqm.Point2)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateJob assigns req to the node with the closest centroid, seeding
// any node not yet seen and returning it immediately.
func (m *Manager) CreateJob(req dqm.Request) (*jobregistry.Job, string, error) {
	qc := req.Center()
	nodeID := m.selectNode(qc)

	job := jobregistry.NewJob(req)
	job.TargetNode = nodeID
	return job, nodeID, nil
}

func (m *Manager) selectNode(qc dqm.Point2) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.nodes {
		if _, ok := m.seeded[n]; !ok {
			m.seeded[n] = qc
			if m.locality != nil {
				_ = m.locality.RecordAssignment(qc, n)
			}
			return n
		}
	}

	candidates := m.candidatesLocked(qc)
	best := candidates[0]
	bestDist := math.MaxFloat64
	for _, n := range candidates {
		d := distance(qc, m.seeded[n])
		if d < bestDist {
			bestDist = d
			best = n
		}
	}
	m.seeded[best] = ema(qc, m.seeded[best], m.alpha)
	if m.locality != nil {
		_ = m.locality.RecordAssignment(qc, best)
	}
	return best
}

// candidatesLocked narrows the scan to nodes the locality index has
// recently seen near qc, falling back to every configured node when
// no index is set or it has no signal for this neighborhood yet.
func (m *Manager) candidatesLocked(qc dqm.Point2) []string {
	if m.locality == nil {
		return m.nodes
	}
	nearby, err := m.locality.NearbyNodes(qc)
	if err != nil || len(nearby) == 0 {
		return m.nodes
	}
	known := make(map[string]struct{}, len(m.nodes))
	for _, n := range m.nodes {
		known[n] = struct{}{}
	}
	filtered := make([]string, 0, len(nearby))
	for _, n := range nearby {
		if _, ok := known[n]; ok {
			filtered = append(filtered, n)
		}
	}
	if len(filtered) == 0 {
		return m.nodes
	}
	return filtered
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
