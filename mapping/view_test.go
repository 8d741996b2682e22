package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymousMappingWriteFlushReread(t *testing.T) {
	opts := NewAnonymousOptions(4096)
	view, err := OpenMutable(opts)
	require.NoError(t, err)
	defer view.Close()

	data := view.Bytes()
	require.Len(t, data, 4096)

	copy(data, []byte("hello, ultracol"))
	require.NoError(t, view.Flush(false))

	assert.Equal(t, "hello, ultracol", string(view.Bytes()[:15]))
}

func TestFileBackedReadOnlyMapping(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fifteen.bin")
	content := []byte("123456789012345")
	require.Len(t, content, 15)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	view, err := Open(NewOptions(path, 0, int64(len(content))))
	require.NoError(t, err)
	defer view.Close()

	assert.Equal(t, content, view.Bytes())
	assert.Equal(t, int64(15), view.Len())
}

func TestOpenMutableForcesWriteProtection(t *testing.T) {
	opts := NewAnonymousOptions(4096).WithProtection(ProtRead)
	view, err := OpenMutable(opts)
	require.NoError(t, err)
	defer view.Close()

	assert.Equal(t, ProtRead|ProtWrite, opts.protection)
}

func TestCloseIsIdempotent(t *testing.T) {
	view, err := Open(NewAnonymousOptions(4096))
	require.NoError(t, err)

	require.NoError(t, view.Close())
	require.NoError(t, view.Close())
}

func TestMappingCounters(t *testing.T) {
	before := ActiveMappingCount()

	view, err := Open(NewAnonymousOptions(8192))
	require.NoError(t, err)

	assert.Equal(t, before+1, ActiveMappingCount())

	require.NoError(t, view.Close())
	assert.Equal(t, before, ActiveMappingCount())
}
