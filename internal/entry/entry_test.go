package entry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geocache/stc/internal/payload"
	"github.com/geocache/stc/internal/stref"
)

func TestNew_SizeBytesDerivedFromPayload(t *testing.T) {
	ref, err := stref.New(4326, 0, 0, 10, 10, 0, 100, stref.Unix)
	require.NoError(t, err)

	p := &payload.Plot{JSON: []byte(`{"series":[]}`)}
	e := New(1, ref, p, Handle{StructureID: 7, EntryID: 1}, 42)

	assert.Equal(t, uint64(len(p.JSON)), e.SizeBytes)
	assert.Equal(t, uint64(42), e.Seq())
	assert.Equal(t, Handle{StructureID: 7, EntryID: 1}, e.Backref)
}
