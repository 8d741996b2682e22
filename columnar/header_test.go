package columnar

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := &Header{
		Version:          currentVersion,
		RowCount:         5,
		DataType:         U8().Encode(),
		Nullable:         true,
		Compression:      uint32(CompressionNone),
		DataOffset:       112 + 1,
		DataSize:         5,
		NullBitmapOffset: 112,
		NullBitmapSize:   1,
	}

	var buf bytes.Buffer
	require.NoError(t, writeHeader(&buf, h))
	assert.Equal(t, headerSize, buf.Len())

	decoded, err := parseHeader(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, h, decoded)
}

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	buf := make([]byte, headerSize)
	copy(buf, []byte("NOTMAGIC"))
	_, err := parseHeader(buf)
	require.Error(t, err)
	var cErr *Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, ErrCorruptHeader, cErr.Kind)
}

func TestParseHeaderRejectsShortBuffer(t *testing.T) {
	_, err := parseHeader(make([]byte, 10))
	require.Error(t, err)
}

func TestParseHeaderRejectsUnknownVersion(t *testing.T) {
	h := &Header{Version: 99, DataType: U8().Encode()}
	var buf bytes.Buffer
	require.NoError(t, writeHeader(&buf, h))
	_, err := parseHeader(buf.Bytes())
	require.Error(t, err)
}
