package cestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocache/stc/internal/evict"
	"github.com/geocache/stc/internal/payload"
	"github.com/geocache/stc/internal/qr"
	"github.com/geocache/stc/internal/stcerr"
	"github.com/geocache/stc/internal/stref"
)

func mustRef(t *testing.T, x1, y1, x2, y2, t1, t2 float64) stref.STRef {
	r, err := stref.New(4326, x1, y1, x2, y2, t1, t2, stref.Unix)
	require.NoError(t, err)
	return r
}

func TestRoot_PutThenGet_Hit(t *testing.T) {
	root := New(payload.KindPlot, 1<<20, evict.LRU)
	ref := mustRef(t, 0, 0, 10, 10, 0, 100)
	p := &payload.Plot{JSON: []byte(`{"a":1}`)}

	require.NoError(t, root.Put("fp-1", ref, p))

	got, err := root.Get("fp-1", qr.New(mustRef(t, 1, 1, 9, 9, 50, 50)))
	require.NoError(t, err)
	assert.Equal(t, p.JSON, got.(*payload.Plot).JSON)
}

func TestRoot_Get_MissOnUnknownFingerprint(t *testing.T) {
	root := New(payload.KindPlot, 1<<20, evict.LRU)
	_, err := root.Get("nope", qr.New(mustRef(t, 0, 0, 1, 1, 0, 1)))
	assert.ErrorIs(t, err, stcerr.ErrNoSuchElement)
}

func TestRoot_Put_OversizedDropsSilently(t *testing.T) {
	root := New(payload.KindPlot, 4, evict.LRU)
	p := &payload.Plot{JSON: []byte("way too big for the budget")}
	require.NoError(t, root.Put("fp-1", mustRef(t, 0, 0, 1, 1, 0, 1), p))

	assert.Equal(t, uint64(0), root.CurrentBytes())
	_, err := root.Get("fp-1", qr.New(mustRef(t, 0, 0, 1, 1, 0, 1)))
	assert.ErrorIs(t, err, stcerr.ErrNoSuchElement)
}

func TestRoot_Put_EvictsUnderPressure(t *testing.T) {
	evicted := 0
	root := New(payload.KindPlot, 10, evict.FIFO, WithEvictCallback(func(string, string) { evicted++ }))

	ref := mustRef(t, 0, 0, 1, 1, 0, 1)
	require.NoError(t, root.Put("fp-1", ref, &payload.Plot{JSON: []byte("12345")}))
	require.NoError(t, root.Put("fp-2", ref, &payload.Plot{JSON: []byte("12345")}))
	// total now 10, at budget; inserting 5 more bytes forces an eviction.
	require.NoError(t, root.Put("fp-3", ref, &payload.Plot{JSON: []byte("12345")}))

	assert.Equal(t, 1, evicted)
	assert.LessOrEqual(t, root.CurrentBytes(), uint64(10))

	// fp-1 (FIFO, oldest) should have been evicted.
	_, err := root.Get("fp-1", qr.New(ref))
	assert.ErrorIs(t, err, stcerr.ErrNoSuchElement)
}

func TestRoot_StructureDeletedWhenEmptiedByEviction(t *testing.T) {
	root := New(payload.KindPlot, 5, evict.FIFO)
	ref := mustRef(t, 0, 0, 1, 1, 0, 1)
	require.NoError(t, root.Put("fp-1", ref, &payload.Plot{JSON: []byte("12345")}))
	require.NoError(t, root.Put("fp-2", ref, &payload.Plot{JSON: []byte("12345")}))

	_, ok := root.structures["fp-1"]
	assert.False(t, ok)
}
