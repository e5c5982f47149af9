package remote

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/geocache/stc/internal/cache/redisstore"
	"github.com/geocache/stc/internal/payload"
	"github.com/geocache/stc/internal/stcerr"
	"github.com/geocache/stc/internal/stref"
)

func newTestClient(t *testing.T) *redisstore.Client {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	t.Cleanup(cancel)

	rc, err := redisstore.New(ctx, mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rc.Close() })
	return rc
}

func TestStore_PutThenGet_RoundTrips(t *testing.T) {
	client := newTestClient(t)
	s := New(client, "plot", time.Minute)

	ref, err := stref.New(4326, 0, 0, 10, 10, 0, 100, stref.Unix)
	require.NoError(t, err)

	p := &payload.Plot{JSON: []byte(`{"series":[1,2,3]}`)}

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "fp-1", ref, p))

	got, err := s.Get(ctx, "fp-1", ref)
	require.NoError(t, err)
	require.Equal(t, p.JSON, got.(*payload.Plot).JSON)
}

func TestStore_Get_MissReturnsNoSuchElement(t *testing.T) {
	client := newTestClient(t)
	s := New(client, "plot", time.Minute)

	ref, err := stref.New(4326, 0, 0, 10, 10, 0, 100, stref.Unix)
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "unknown-fp", ref)
	require.ErrorIs(t, err, stcerr.ErrNoSuchElement)
}
