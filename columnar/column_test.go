package columnar

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableU8ColumnRoundTrip(t *testing.T) {
	b := NewBuilder(U8(), true)
	values := []*uint8{ptr(uint8(1)), nil, ptr(uint8(3)), nil, ptr(uint8(5))}
	for _, v := range values {
		if v == nil {
			require.NoError(t, b.AppendNull())
		} else {
			require.NoError(t, b.AppendU8(*v))
		}
	}

	path := filepath.Join(t.TempDir(), "u8.col")
	require.NoError(t, b.WriteToFile(path))

	col, err := OpenColumn(path)
	require.NoError(t, err)
	defer col.Close()

	assert.Equal(t, uint64(5), col.RowCount())
	assert.True(t, col.Nullable())

	for i, want := range values {
		isNull, err := col.IsNull(uint64(i))
		require.NoError(t, err)
		if want == nil {
			assert.True(t, isNull, "row %d", i)
			continue
		}
		assert.False(t, isNull, "row %d", i)
		got, ok, err := col.U8(uint64(i))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, *want, got)
	}
}

func TestStringColumnRoundTrip(t *testing.T) {
	b := NewBuilder(StringType(), false)
	values := []string{"alice", "", "charlie"}
	for _, v := range values {
		require.NoError(t, b.AppendString(v))
	}

	path := filepath.Join(t.TempDir(), "names.col")
	require.NoError(t, b.WriteToFile(path))

	col, err := OpenColumn(path)
	require.NoError(t, err)
	defer col.Close()

	require.Equal(t, uint64(3), col.RowCount())
	for i, want := range values {
		got, ok, err := col.String(uint64(i))
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestColumnOutOfRangeIndex(t *testing.T) {
	b := NewBuilder(U8(), false)
	require.NoError(t, b.AppendU8(1))
	path := filepath.Join(t.TempDir(), "single.col")
	require.NoError(t, b.WriteToFile(path))

	col, err := OpenColumn(path)
	require.NoError(t, err)
	defer col.Close()

	_, _, err = col.U8(1)
	require.Error(t, err)
	var cErr *Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, ErrIndexOutOfRange, cErr.Kind)
}

func TestTypedAccessorOnWrongKindIsNullNotError(t *testing.T) {
	b := NewBuilder(U8(), false)
	require.NoError(t, b.AppendU8(7))
	path := filepath.Join(t.TempDir(), "u8.col")
	require.NoError(t, b.WriteToFile(path))

	col, err := OpenColumn(path)
	require.NoError(t, err)
	defer col.Close()

	s, ok, err := col.String(0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", s)

	f, ok, err := col.F64(0)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, float64(0), f)
}

func TestBuilderRejectsWrongType(t *testing.T) {
	b := NewBuilder(U8(), false)
	err := b.AppendString("nope")
	require.Error(t, err)
	var cErr *Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, ErrTypeMismatch, cErr.Kind)
}

func TestBuilderRejectsNullOnNonNullable(t *testing.T) {
	b := NewBuilder(U8(), false)
	err := b.AppendNull()
	require.Error(t, err)
	var cErr *Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, ErrNullNotAllowed, cErr.Kind)
}

func ptr[T any](v T) *T {
	return &v
}
