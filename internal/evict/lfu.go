package evict

import (
	"container/heap"
	"fmt"

	"github.com/geocache/stc/internal/entry"
	"github.com/geocache/stc/internal/stcerr"
)

// lfuNode tracks one entry's access count and insertion sequence for
// tie-breaking.
type lfuNode struct {
	e       *entry.Entry
	count   uint64
	heapIdx int
}

// lfuHeap is a min-heap on (count, insertion sequence).
type lfuHeap []*lfuNode

func (h lfuHeap) Len() int { return len(h) }

func (h lfuHeap) Less(i, j int) bool {
	if h[i].count != h[j].count {
		return h[i].count < h[j].count
	}
	return h[i].e.Seq() < h[j].e.Seq()
}

func (h lfuHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].heapIdx = i
	h[j].heapIdx = j
}

func (h *lfuHeap) Push(x any) {
	n := x.(*lfuNode)
	n.heapIdx = len(*h)
	*h = append(*h, n)
}

func (h *lfuHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return node
}

type lfuPolicy struct {
	h     lfuHeap
	nodes map[entry.ID]*lfuNode
}

func newLFU() *lfuPolicy {
	return &lfuPolicy{
		h:     lfuHeap{},
		nodes: make(map[entry.ID]*lfuNode),
	}
}

func (p *lfuPolicy) Inserted(e *entry.Entry) {
	n := &lfuNode{e: e}
	p.nodes[e.ID] = n
	heap.Push(&p.h, n)
}

func (p *lfuPolicy) Accessed(e *entry.Entry) {
	n, ok := p.nodes[e.ID]
	if !ok {
		return
	}
	n.count++
	heap.Fix(&p.h, n.heapIdx)
}

func (p *lfuPolicy) Removed(e *entry.Entry) {
	n, ok := p.nodes[e.ID]
	if !ok {
		return
	}
	heap.Remove(&p.h, n.heapIdx)
	delete(p.nodes, e.ID)
}

func (p *lfuPolicy) Evict() (*entry.Entry, error) {
	if p.h.Len() == 0 {
		return nil, fmt.Errorf("lfu: evict on empty policy: %w", stcerr.ErrMustNotHappen)
	}
	n := heap.Pop(&p.h).(*lfuNode)
	delete(p.nodes, n.e.ID)
	return n.e, nil
}

func (p *lfuPolicy) Len() int {
	return p.h.Len()
}
