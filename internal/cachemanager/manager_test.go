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

func TestSingleton_GetBeforeInit_ReturnsNotInitialized(t *testing.T) {
	Reset()
	_, err := Get()
	assert.ErrorIs(t, err, stcerr.ErrNotInitialized)
}

func TestSingleton_InitThenGet(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	m := DisabledManager{}
	Init(m)

	got, err := Get()
	require.NoError(t, err)
	assert.Equal(t, m, got)
}

func TestDisabledManager_AlwaysMissesAndDiscards(t *testing.T) {
	m := DisabledManager{}
	ref, err := stref.New(4326, 0, 0, 1, 1, 0, 1, stref.Unix)
	require.NoError(t, err)

	_, err = m.Get(context.Background(), payload.KindPlot, "fp", qr.New(ref))
	assert.ErrorIs(t, err, stcerr.ErrNoSuchElement)

	require.NoError(t, m.Put(context.Background(), payload.KindPlot, "fp", ref, &payload.Plot{JSON: []byte("x")}))
}

func TestLocalManager_GetPutRoundTrip(t *testing.T) {
	m := NewLocalManager(SizeBudget{payload.KindPlot: 1 << 20}, evict.LRU, nil)
	ref, err := stref.New(4326, 0, 0, 10, 10, 0, 100, stref.Unix)
	require.NoError(t, err)

	ctx := context.Background()
	p := &payload.Plot{JSON: []byte(`{"a":1}`)}
	require.NoError(t, m.Put(ctx, payload.KindPlot, "fp-1", ref, p))

	q := qr.New(ref)
	got, err := m.Get(ctx, payload.KindPlot, "fp-1", q)
	require.NoError(t, err)
	assert.Equal(t, p.JSON, got.(*payload.Plot).JSON)
}

func TestLocalManager_UnconfiguredPayloadType_ReturnsNotInitialized(t *testing.T) {
	m := NewLocalManager(SizeBudget{payload.KindPlot: 1 << 20}, evict.LRU, nil)
	ref, err := stref.New(4326, 0, 0, 1, 1, 0, 1, stref.Unix)
	require.NoError(t, err)

	_, err = m.Get(context.Background(), payload.KindRaster, "fp", qr.New(ref))
	assert.ErrorIs(t, err, stcerr.ErrNotInitialized)
}
