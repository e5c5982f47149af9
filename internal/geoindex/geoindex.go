// Package geoindex adapts the teacher's H3 cell mapper into a coarse
// node-locality pre-filter for the DQM: before DEMA scores every
// configured node by centroid distance, the Index narrows the
// candidate set to nodes that have recently been assigned work near a
// query's cell, which is a cheap win once the node count grows past
// what a linear distance scan handles comfortably. The cache's own
// containment matching (internal/payload) remains plain float geometry
// — spec.md defines exact tolerances there — this index only serves
// the scheduler's "which nodes are plausibly close" question.
// Grounded on internal/mapper/h3/mapper.go and res.go's validateRes/
// sorted-dedup conventions, repurposed from polygon cell-filling to a
// single-point cell lookup plus a k-ring neighborhood query.
package geoindex

import (
	"fmt"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	h3 "github.com/uber/h3-go/v4"

	"github.com/geocache/stc/internal/dqm"
)

// DefaultResolution buckets the globe into cells roughly 12,400km^2 in
// area — coarse enough that a handful of worker nodes each own a
// distinct neighborhood, fine enough to distinguish continents.
const DefaultResolution = 3

// maxTrackedCells bounds how many distinct H3 cells the index
// remembers node assignments for. A deployment fielding arbitrary
// client query centers would otherwise grow this map without bound;
// capping it to an LRU means only the most recently active
// neighborhoods keep their locality signal, which is exactly the
// signal NearbyNodes needs. Same github.com/hashicorp/golang-lru/v2
// the teacher uses (there, as the invalidation runner's version
// dedupe cache; here, as a cell-assignment dedupe cache).
const maxTrackedCells = 4096

func validateRes(res int) error {
	if res < 0 || res > 15 {
		return fmt.Errorf("invalid H3 resolution %d (must be 0..15)", res)
	}
	return nil
}

// Index tracks, per H3 cell, which node IDs have recently been
// assigned work whose query center falls in that cell.
type Index struct {
	mu        sync.Mutex
	res       int
	cellNodes *lru.Cache[h3.Cell, map[string]struct{}]
}

// New constructs an Index at the given H3 resolution.
func New(res int) (*Index, error) {
	if err := validateRes(res); err != nil {
		return nil, err
	}
	cache, err := lru.New[h3.Cell, map[string]struct{}](maxTrackedCells)
	if err != nil {
		return nil, fmt.Errorf("geoindex: new lru cache: %w", err)
	}
	return &Index{res: res, cellNodes: cache}, nil
}

func (idx *Index) cellFor(p dqm.Point2) (h3.Cell, error) {
	cell, err := h3.LatLngToCell(h3.LatLng{Lat: p.Y, Lng: p.X}, idx.res)
	if err != nil {
		return 0, fmt.Errorf("geoindex: point (%g,%g) produced an invalid H3 cell: %w", p.X, p.Y, err)
	}
	if !cell.IsValid() {
		return 0, fmt.Errorf("geoindex: point (%g,%g) produced an invalid H3 cell", p.X, p.Y)
	}
	return cell, nil
}

// RecordAssignment notes that nodeID was assigned a query centered at
// p, so future NearbyNodes queries near p favor it.
func (idx *Index) RecordAssignment(p dqm.Point2, nodeID string) error {
	cell, err := idx.cellFor(p)
	if err != nil {
		return err
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()

	nodes, ok := idx.cellNodes.Get(cell)
	if !ok {
		nodes = make(map[string]struct{})
	}
	nodes[nodeID] = struct{}{}
	idx.cellNodes.Add(cell, nodes)
	return nil
}

// NearbyNodes returns, sorted for determinism, every node ID recorded
// against p's own cell or any cell within one ring of it. An empty
// result means the index has no locality signal yet for this
// neighborhood — callers fall back to scoring every configured node.
func (idx *Index) NearbyNodes(p dqm.Point2) ([]string, error) {
	cell, err := idx.cellFor(p)
	if err != nil {
		return nil, err
	}
	ring, err := cell.GridDisk(1)
	if err != nil {
		return nil, fmt.Errorf("geoindex: grid disk: %w", err)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	seen := make(map[string]struct{})
	for _, c := range ring {
		if nodes, ok := idx.cellNodes.Get(c); ok {
			for nodeID := range nodes {
				seen[nodeID] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(seen))
	for nodeID := range seen {
		out = append(out, nodeID)
	}
	sort.Strings(out)
	return out, nil
}
