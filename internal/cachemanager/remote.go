package cachemanager

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocache/stc/internal/cache/remote"
	"github.com/geocache/stc/internal/core/observability"
	"github.com/geocache/stc/internal/payload"
	"github.com/geocache/stc/internal/qr"
	"github.com/geocache/stc/internal/stcerr"
	"github.com/geocache/stc/internal/stref"
)

// RemoteManager is the Manager backed by one remote.Store per payload
// type. Remote entries are keyed to an exact query reference, so unlike
// LocalManager there is no owning-mutex requirement here: the
// underlying Redis client already serializes its own network I/O, and
// there is no local mutable index to protect.
type RemoteManager struct {
	stores map[payload.Kind]*remote.Store
}

// NewRemoteManager constructs a RemoteManager from a pre-built store
// per payload kind (see internal/cache/remote.New for how each store is
// wired to a Redis client and TTL).
func NewRemoteManager(stores map[payload.Kind]*remote.Store) *RemoteManager {
	return &RemoteManager{stores: stores}
}

func (m *RemoteManager) store(kind payload.Kind) (*remote.Store, error) {
	s, ok := m.stores[kind]
	if !ok {
		return nil, fmt.Errorf("cachemanager: no remote store configured for payload type %s: %w", kind, stcerr.ErrNotInitialized)
	}
	return s, nil
}

func (m *RemoteManager) Get(ctx context.Context, kind payload.Kind, fp string, q qr.QR) (payload.Payload, error) {
	s, err := m.store(kind)
	if err != nil {
		return nil, err
	}
	p, err := s.Get(ctx, fp, q.STRef)
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

func (m *RemoteManager) Put(ctx context.Context, kind payload.Kind, fp string, ref stref.STRef, p payload.Payload) error {
	s, err := m.store(kind)
	if err != nil {
		return err
	}
	return s.Put(ctx, fp, ref, p)
}
