// Package cachemanager implements the Cache Manager: one mutex-
// serialized get/put entry point per payload type, backed by either an
// in-process cestore.Root set (LocalManager), a Redis-backed
// remote.Store set (RemoteManager), or a no-op (DisabledManager) per
// cache.enabled. The package itself is an explicit singleton — Init
// must run before Get, mirroring CacheManager::get_instance()/init() in
// the original implementation.
package cachemanager

import (
	"context"
	"fmt"
	"sync"

	"github.com/geocache/stc/internal/payload"
	"github.com/geocache/stc/internal/qr"
	"github.com/geocache/stc/internal/stcerr"
	"github.com/geocache/stc/internal/stref"
)

// Manager is the façade every consumer (operators, the HTTP surface)
// talks to: one Get/Put pair, dispatched per payload type.
type Manager interface {
	Get(ctx context.Context, payloadType payload.Kind, fp string, q qr.QR) (payload.Payload, error)
	Put(ctx context.Context, payloadType payload.Kind, fp string, ref stref.STRef, p payload.Payload) error
}

var (
	mu       sync.Mutex
	instance Manager
)

// Init installs the process-wide Manager. It shares a mutex with Get
// and is expected to run once at startup.
func Init(m Manager) {
	mu.Lock()
	defer mu.Unlock()
	instance = m
}

// Get returns the process-wide Manager, or stcerr.ErrNotInitialized if
// Init has not yet run.
func Get() (Manager, error) {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		return nil, fmt.Errorf("cachemanager: not initialized: %w", stcerr.ErrNotInitialized)
	}
	return instance, nil
}

// Reset clears the singleton. Test-only: production code never calls
// this once Init has run.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
}
