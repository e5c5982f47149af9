package evict

import (
	"container/list"
	"fmt"

	"github.com/geocache/stc/internal/entry"
	"github.com/geocache/stc/internal/stcerr"
)

// fifoPolicy orders entries purely by insertion; Accessed is a no-op.
type fifoPolicy struct {
	ll    *list.List
	elems map[entry.ID]*list.Element
}

func newFIFO() *fifoPolicy {
	return &fifoPolicy{
		ll:    list.New(),
		elems: make(map[entry.ID]*list.Element),
	}
}

func (p *fifoPolicy) Inserted(e *entry.Entry) {
	p.elems[e.ID] = p.ll.PushBack(e)
}

func (p *fifoPolicy) Accessed(e *entry.Entry) {
	// FIFO ignores access order by definition.
}

func (p *fifoPolicy) Removed(e *entry.Entry) {
	if el, ok := p.elems[e.ID]; ok {
		p.ll.Remove(el)
		delete(p.elems, e.ID)
	}
}

func (p *fifoPolicy) Evict() (*entry.Entry, error) {
	front := p.ll.Front()
	if front == nil {
		return nil, fmt.Errorf("fifo: evict on empty policy: %w", stcerr.ErrMustNotHappen)
	}
	e := front.Value.(*entry.Entry)
	p.ll.Remove(front)
	delete(p.elems, e.ID)
	return e, nil
}

func (p *fifoPolicy) Len() int {
	return p.ll.Len()
}
