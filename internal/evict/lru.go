package evict

import (
	"container/list"
	"fmt"

	"github.com/geocache/stc/internal/entry"
	"github.com/geocache/stc/internal/stcerr"
)

// lruPolicy is a doubly-linked position index, the same technique
// hashicorp/golang-lru uses internally for its own eviction list,
// repurposed here as a pure ordering index rather than a fixed-capacity
// cache: this policy never evicts on its own, only on Evict().
type lruPolicy struct {
	ll    *list.List
	elems map[entry.ID]*list.Element
}

func newLRU() *lruPolicy {
	return &lruPolicy{
		ll:    list.New(),
		elems: make(map[entry.ID]*list.Element),
	}
}

func (p *lruPolicy) Inserted(e *entry.Entry) {
	p.elems[e.ID] = p.ll.PushBack(e)
}

func (p *lruPolicy) Accessed(e *entry.Entry) {
	if el, ok := p.elems[e.ID]; ok {
		p.ll.MoveToBack(el)
	}
}

func (p *lruPolicy) Removed(e *entry.Entry) {
	if el, ok := p.elems[e.ID]; ok {
		p.ll.Remove(el)
		delete(p.elems, e.ID)
	}
}

func (p *lruPolicy) Evict() (*entry.Entry, error) {
	front := p.ll.Front()
	if front == nil {
		return nil, fmt.Errorf("lru: evict on empty policy: %w", stcerr.ErrMustNotHappen)
	}
	e := front.Value.(*entry.Entry)
	p.ll.Remove(front)
	delete(p.elems, e.ID)
	return e, nil
}

func (p *lruPolicy) Len() int {
	return p.ll.Len()
}
