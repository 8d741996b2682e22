package columnar

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIndexedColumn(t *testing.T) *Column {
	t.Helper()
	b := NewBuilder(U8(), false)
	for _, v := range []uint8{10, 20, 10, 30, 20, 40} {
		require.NoError(t, b.AppendU8(v))
	}
	path := filepath.Join(t.TempDir(), "indexed.col")
	require.NoError(t, b.WriteToFile(path))

	col, err := OpenColumn(path)
	require.NoError(t, err)
	return col
}

func TestIndexExactLookup(t *testing.T) {
	col := buildIndexedColumn(t)
	defer col.Close()

	idx, err := BuildIndex(col, IndexKindBTree)
	require.NoError(t, err)

	assert.Equal(t, []uint64{0, 2}, idx.Lookup([]byte{10}))
	assert.Equal(t, []uint64{1, 4}, idx.Lookup([]byte{20}))
	assert.Nil(t, idx.Lookup([]byte{99}))
}

func TestIndexRangeLookup(t *testing.T) {
	col := buildIndexedColumn(t)
	defer col.Close()

	idx, err := BuildIndex(col, IndexKindBTree)
	require.NoError(t, err)

	rows := idx.LookupRange([]byte{15}, []byte{35})
	assert.Equal(t, []uint64{1, 3, 4}, rows)
}

func TestIndexUnboundedRange(t *testing.T) {
	col := buildIndexedColumn(t)
	defer col.Close()

	idx, err := BuildIndex(col, IndexKindHash)
	require.NoError(t, err)

	rows := idx.LookupRange(nil, []byte{20})
	assert.Equal(t, []uint64{0, 1, 2, 4}, rows)
}
