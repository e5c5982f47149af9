// Package remote implements the optional Redis-backed Cache Structure
// backend selected by cache.type=remote: a best-effort memoization
// mirror, never relied upon for durability (entries carry a TTL safety
// net and a process restart simply starts cold).
package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/geocache/stc/internal/cache"
	"github.com/geocache/stc/internal/fingerprint"
	"github.com/geocache/stc/internal/payload"
	"github.com/geocache/stc/internal/stcerr"
	"github.com/geocache/stc/internal/stref"
)

// Store is the remote Cache Structure backend for one payload type.
type Store struct {
	client      cache.Interface
	payloadType string
	ttl         time.Duration
}

// New constructs a Store for payloadType backed by client, with entries
// written using ttl as their safety-net expiry.
func New(client cache.Interface, payloadType string, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{client: client, payloadType: payloadType, ttl: ttl}
}

// Get fetches the entry keyed by (fp, ref), unmarshaling it into a
// Payload, or returns stcerr.ErrNoSuchElement on a miss. Unlike the
// local backend, remote entries are not linearly scanned for a
// containment match — the key already encodes the exact reference, so
// a remote hit requires a prior Put under the identical ref.
func (s *Store) Get(ctx context.Context, fp string, ref stref.STRef) (payload.Payload, error) {
	key := fingerprint.RemoteKey(s.payloadType, fp, ref)
	out, err := s.client.MGet(ctx, []string{key})
	if err != nil {
		return nil, fmt.Errorf("remote store get: %w", err)
	}
	b, ok := out[key]
	if !ok {
		return nil, fmt.Errorf("remote store: no entry for key %q: %w", key, stcerr.ErrNoSuchElement)
	}
	p, err := payload.Unmarshal(b)
	if err != nil {
		return nil, fmt.Errorf("remote store: corrupt entry for key %q: %w", key, err)
	}
	return p, nil
}

// Put marshals p and writes it under (fp, ref) with the store's TTL.
// Oversized payloads are the caller's (Cache Manager's) concern — the
// remote backend itself enforces no byte budget.
func (s *Store) Put(ctx context.Context, fp string, ref stref.STRef, p payload.Payload) error {
	key := fingerprint.RemoteKey(s.payloadType, fp, ref)
	b, err := payload.Marshal(p)
	if err != nil {
		return fmt.Errorf("remote store put: %w", err)
	}
	if err := s.client.Set(ctx, key, b, s.ttl); err != nil {
		return fmt.Errorf("remote store put: %w", err)
	}
	return nil
}
