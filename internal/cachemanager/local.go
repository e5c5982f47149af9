package cachemanager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/geocache/stc/internal/cestore"
	"github.com/geocache/stc/internal/core/observability"
	"github.com/geocache/stc/internal/evict"
	"github.com/geocache/stc/internal/payload"
	"github.com/geocache/stc/internal/qr"
	"github.com/geocache/stc/internal/stcerr"
	"github.com/geocache/stc/internal/stref"
)

type typeState struct {
	mu   sync.Mutex
	root *cestore.Root
}

// LocalManager is the in-process Manager backed by one cestore.Root per
// payload type. A single mutex per type serializes get/put exactly as
// spec §4.1/§5 require; copies returned from Get are produced while the
// lock is held.
type LocalManager struct {
	states map[payload.Kind]*typeState
}

// SizeBudget maps a payload kind to its configured byte budget.
type SizeBudget map[payload.Kind]uint64

// NewLocalManager constructs a LocalManager with one Root per kind
// present in budgets, all using the same replacement policy.
func NewLocalManager(budgets SizeBudget, policyName evict.Name, log *zerolog.Logger) *LocalManager {
	states := make(map[payload.Kind]*typeState, len(budgets))
	for kind, maxBytes := range budgets {
		k := kind
		root := cestore.New(kind, maxBytes, policyName,
			cestore.WithLogger(log),
			cestore.WithEvictCallback(func(payloadType, policy string) {
				observability.IncSTCEviction(payloadType, policy)
			}),
			cestore.WithDropCallback(observability.IncSTCDropped),
		)
		states[k] = &typeState{root: root}
	}
	return &LocalManager{states: states}
}

func (m *LocalManager) state(kind payload.Kind) (*typeState, error) {
	s, ok := m.states[kind]
	if !ok {
		return nil, fmt.Errorf("cachemanager: no local cache configured for payload type %s: %w", kind, stcerr.ErrNotInitialized)
	}
	return s, nil
}

func (m *LocalManager) Get(_ context.Context, kind payload.Kind, fp string, q qr.QR) (payload.Payload, error) {
	s, err := m.state(kind)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.root.Get(fp, q)
	if errors.Is(err, stcerr.ErrNoSuchElement) {
		observability.IncSTCMiss(kind.String())
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	observability.IncSTCHit(kind.String())
	return p, nil
}

func (m *LocalManager) Put(_ context.Context, kind payload.Kind, fp string, ref stref.STRef, p payload.Payload) error {
	s, err := m.state(kind)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.root.Put(fp, ref, p); err != nil {
		return err
	}
	observability.SetSTCSize(kind.String(), int64(s.root.CurrentBytes()), s.root.Entries())
	return nil
}
