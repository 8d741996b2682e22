package columnar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataTypeEncodeDecodeRoundTrip(t *testing.T) {
	cases := []DataType{
		Bool(), U8(), U16(), U32(), U64(),
		I8(), I16(), I32(), I64(),
		F32(), F64(), StringType(), BinaryType(),
		DateType(), TimestampType(),
		FixedBinary(16),
		Decimal(10, 2),
	}

	for _, dt := range cases {
		t.Run(dt.Kind.String(), func(t *testing.T) {
			tag := dt.Encode()
			decoded, err := DecodeDataType(tag)
			require.NoError(t, err)
			assert.Equal(t, dt, decoded)
		})
	}
}

func TestDecodeDataTypeRejectsUnknownKind(t *testing.T) {
	_, err := DecodeDataType(0xff)
	require.Error(t, err)
	var cErr *Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, ErrInvalidArgument, cErr.Kind)
}

func TestFixedWidth(t *testing.T) {
	t.Run("fixed types report a width", func(t *testing.T) {
		width, ok := U64().FixedWidth()
		assert.True(t, ok)
		assert.Equal(t, 8, width)
	})

	t.Run("variable length types report no width", func(t *testing.T) {
		_, ok := StringType().FixedWidth()
		assert.False(t, ok)
	})

	t.Run("fixed binary width matches element size", func(t *testing.T) {
		width, ok := FixedBinary(20).FixedWidth()
		assert.True(t, ok)
		assert.Equal(t, 20, width)
	})
}

func TestIsVariableLength(t *testing.T) {
	assert.True(t, StringType().IsVariableLength())
	assert.True(t, BinaryType().IsVariableLength())
	assert.False(t, U32().IsVariableLength())
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, U32().IsNumeric())
	assert.True(t, F64().IsNumeric())
	assert.False(t, StringType().IsNumeric())
	assert.True(t, I16().IsInteger())
	assert.False(t, I16().IsFloat())
}
