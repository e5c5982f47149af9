package cachemanager

import (
	"context"
	"fmt"

	"github.com/geocache/stc/internal/payload"
	"github.com/geocache/stc/internal/qr"
	"github.com/geocache/stc/internal/stcerr"
	"github.com/geocache/stc/internal/stref"
)

// DisabledManager is installed when cache.enabled=false: every Get
// misses, every Put is silently discarded.
type DisabledManager struct{}

func (DisabledManager) Get(_ context.Context, kind payload.Kind, fp string, _ qr.QR) (payload.Payload, error) {
	return nil, fmt.Errorf("cachemanager: disabled, fingerprint %q payload type %s: %w", fp, kind, stcerr.ErrNoSuchElement)
}

func (DisabledManager) Put(_ context.Context, _ payload.Kind, _ string, _ stref.STRef, _ payload.Payload) error {
	return nil
}
