package cachemanager

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocache/stc/internal/evict"
	"github.com/geocache/stc/internal/payload"
	"github.com/geocache/stc/internal/qr"
	"github.com/geocache/stc/internal/stcerr"
	"github.com/geocache/stc/internal/stref"
)

func rasterRef(t *testing.T, crs uint16, x1, y1, x2, y2 float64) stref.STRef {
	t.Helper()
	ref, err := stref.New(crs, x1, y1, x2, y2, 0, 10, stref.Unix)
	require.NoError(t, err)
	return ref
}

func newRasterManager(t *testing.T, maxBytes uint64) *LocalManager {
	t.Helper()
	return NewLocalManager(SizeBudget{payload.KindRaster: maxBytes}, evict.LRU, nil)
}

func TestRasterExactMatch_Hits(t *testing.T) {
	m := newRasterManager(t, 1<<30)
	ctx := context.Background()
	ref := rasterRef(t, 3857, 0, 0, 100, 100)
	original := &payload.Raster{Width: 100, Height: 100, Bytes: []byte{1, 2, 3, 4}}
	require.NoError(t, m.Put(ctx, payload.KindRaster, "fp-1", ref, original))

	q := qr.NewRaster(rasterRef(t, 3857, 0, 0, 100, 100), 100, 100)
	got, err := m.Get(ctx, payload.KindRaster, "fp-1", q)
	require.NoError(t, err)
	assert.Equal(t, original.Bytes, got.(*payload.Raster).Bytes)
}

func TestRasterSubRectangleHalfResolution_Hits(t *testing.T) {
	m := newRasterManager(t, 1<<30)
	ctx := context.Background()
	ref := rasterRef(t, 3857, 0, 0, 100, 100)
	require.NoError(t, m.Put(ctx, payload.KindRaster, "fp-1", ref, &payload.Raster{Width: 100, Height: 100, Bytes: []byte{9}}))

	q := qr.NewRaster(rasterRef(t, 3857, 0, 0, 50, 50), 50, 50)
	_, err := m.Get(ctx, payload.KindRaster, "fp-1", q)
	assert.NoError(t, err)
}

func TestRasterTooSmallResolution_Misses(t *testing.T) {
	m := newRasterManager(t, 1<<30)
	ctx := context.Background()
	ref := rasterRef(t, 3857, 0, 0, 100, 100)
	require.NoError(t, m.Put(ctx, payload.KindRaster, "fp-1", ref, &payload.Raster{Width: 100, Height: 100, Bytes: []byte{9}}))

	q := qr.NewRaster(rasterRef(t, 3857, 0, 0, 50, 50), 25, 25)
	_, err := m.Get(ctx, payload.KindRaster, "fp-1", q)
	assert.ErrorIs(t, err, stcerr.ErrNoSuchElement)
}

func TestRasterCRSMismatch_Misses(t *testing.T) {
	m := newRasterManager(t, 1<<30)
	ctx := context.Background()
	ref := rasterRef(t, 3857, 0, 0, 100, 100)
	require.NoError(t, m.Put(ctx, payload.KindRaster, "fp-1", ref, &payload.Raster{Width: 100, Height: 100, Bytes: []byte{9}}))

	q := qr.NewRaster(rasterRef(t, 4326, 0, 0, 100, 100), 100, 100)
	_, err := m.Get(ctx, payload.KindRaster, "fp-1", q)
	assert.ErrorIs(t, err, stcerr.ErrNoSuchElement)
}

// TestLRUEviction_KeepsMostRecentlyUsedWithinBudget drives the budget
// to its exact boundary (each payload is 1 byte, budget holds 3) so
// that A, B, C all coexist with no eviction, then accessing A makes B
// the least-recently-used entry once D needs room.
func TestLRUEviction_KeepsMostRecentlyUsedWithinBudget(t *testing.T) {
	m := newRasterManager(t, 3)
	ctx := context.Background()

	onePixel := func(x1 float64) *payload.Raster { return &payload.Raster{Width: 1, Height: 1, Bytes: []byte{byte(x1)}} }
	refFor := func(x1 float64) stref.STRef { return rasterRef(t, 3857, x1, 0, x1+1, 1) }

	require.NoError(t, m.Put(ctx, payload.KindRaster, "A", refFor(0), onePixel(0)))
	require.NoError(t, m.Put(ctx, payload.KindRaster, "B", refFor(1), onePixel(1)))
	require.NoError(t, m.Put(ctx, payload.KindRaster, "C", refFor(2), onePixel(2)))

	_, err := m.Get(ctx, payload.KindRaster, "A", qr.NewRaster(refFor(0), 1, 1))
	require.NoError(t, err)

	require.NoError(t, m.Put(ctx, payload.KindRaster, "D", refFor(3), onePixel(3)))

	_, err = m.Get(ctx, payload.KindRaster, "A", qr.NewRaster(refFor(0), 1, 1))
	assert.NoError(t, err, "A should still be live")

	_, err = m.Get(ctx, payload.KindRaster, "C", qr.NewRaster(refFor(2), 1, 1))
	assert.NoError(t, err, "C should still be live")

	_, err = m.Get(ctx, payload.KindRaster, "D", qr.NewRaster(refFor(3), 1, 1))
	assert.NoError(t, err, "D should be live")

	_, err = m.Get(ctx, payload.KindRaster, "B", qr.NewRaster(refFor(1), 1, 1))
	assert.ErrorIs(t, err, stcerr.ErrNoSuchElement, "B should have been evicted")
}
