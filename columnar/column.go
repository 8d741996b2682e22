package columnar

import (
	"encoding/binary"
	"math"
	"os"
	"unicode/utf8"

	"ultracol/mapping"
)

// Column is a read-only view over one on-disk column file, backed by a
// memory mapping. It owns that mapping: closing the column releases it.
type Column struct {
	view     *mapping.View
	header   *Header
	dataType DataType
	path     string
}

// OpenColumn maps path and validates its header.
func OpenColumn(path string) (*Column, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, newPathError(ErrIO, "open_column", path, err)
	}
	if info.Size() < headerSize {
		return nil, newPathError(ErrCorruptHeader, "open_column", path, nil)
	}

	view, err := mapping.Open(mapping.NewOptions(path, 0, info.Size()))
	if err != nil {
		return nil, newPathError(ErrIO, "open_column", path, err)
	}

	h, err := parseHeader(view.Bytes())
	if err != nil {
		view.Close()
		return nil, newPathError(ErrCorruptHeader, "open_column", path, nil)
	}

	dt, err := DecodeDataType(h.DataType)
	if err != nil {
		view.Close()
		return nil, newPathError(ErrCorruptHeader, "open_column", path, nil)
	}

	if err := validateHeaderBounds(h, info.Size()); err != nil {
		view.Close()
		return nil, newPathError(ErrCorruptHeader, "open_column", path, nil)
	}

	return &Column{view: view, header: h, dataType: dt, path: path}, nil
}

func validateHeaderBounds(h *Header, fileSize int64) error {
	end := func(offset, size uint64) int64 { return int64(offset + size) }
	if h.Nullable && end(h.NullBitmapOffset, h.NullBitmapSize) > fileSize {
		return newError(ErrCorruptHeader, "validate_header_bounds", nil)
	}
	if h.OffsetsSize > 0 && end(h.OffsetsOffset, h.OffsetsSize) > fileSize {
		return newError(ErrCorruptHeader, "validate_header_bounds", nil)
	}
	if end(h.DataOffset, h.DataSize) > fileSize {
		return newError(ErrCorruptHeader, "validate_header_bounds", nil)
	}
	return nil
}

// Close releases the column's mapping.
func (c *Column) Close() error {
	return c.view.Close()
}

// RowCount returns the number of logical rows stored in the column.
func (c *Column) RowCount() uint64 {
	return c.header.RowCount
}

// DataType returns the column's data type.
func (c *Column) DataType() DataType {
	return c.dataType
}

// Nullable reports whether the column carries a null bitmap.
func (c *Column) Nullable() bool {
	return c.header.Nullable
}

func (c *Column) checkIndex(row uint64) error {
	if row >= c.header.RowCount {
		return newError(ErrIndexOutOfRange, "column_access", nil)
	}
	return nil
}

// IsNull reports whether row is null. Always false for non-nullable columns.
func (c *Column) IsNull(row uint64) (bool, error) {
	if err := c.checkIndex(row); err != nil {
		return false, err
	}
	if !c.header.Nullable {
		return false, nil
	}
	bitmap := c.view.Bytes()[c.header.NullBitmapOffset : c.header.NullBitmapOffset+c.header.NullBitmapSize]
	byteIdx := row / 8
	bitIdx := row % 8
	return bitmap[byteIdx]&(1<<bitIdx) != 0, nil
}

// dataSection returns the borrowed byte slice of the data section.
func (c *Column) dataSection() []byte {
	return c.view.Bytes()[c.header.DataOffset : c.header.DataOffset+c.header.DataSize]
}

func (c *Column) offsetsSection() []byte {
	return c.view.Bytes()[c.header.OffsetsOffset : c.header.OffsetsOffset+c.header.OffsetsSize]
}

// byteRange returns [offset[row], offset[row+1]) for a variable-length row.
func (c *Column) byteRange(row uint64) (uint64, uint64) {
	offs := c.offsetsSection()
	start := binary.LittleEndian.Uint64(offs[row*8 : row*8+8])
	end := binary.LittleEndian.Uint64(offs[(row+1)*8 : (row+1)*8+8])
	return start, end
}

// GetBytes returns the raw, borrowed byte slice backing row, regardless of
// type. For fixed-width types this is FixedWidth() bytes; for
// variable-length types this spans the row's offset range. Returns a nil
// slice and true for null rows.
func (c *Column) GetBytes(row uint64) ([]byte, bool, error) {
	if err := c.checkIndex(row); err != nil {
		return nil, false, err
	}
	isNull, err := c.IsNull(row)
	if err != nil {
		return nil, false, err
	}
	if isNull {
		return nil, true, nil
	}

	data := c.dataSection()
	if width, ok := c.dataType.FixedWidth(); ok {
		return data[row*uint64(width) : row*uint64(width)+uint64(width)], false, nil
	}
	start, end := c.byteRange(row)
	return data[start:end], false, nil
}

// Bool returns row as a bool. ok is false for a null row or when the
// column's Kind is not KindBool; a Kind mismatch is a discriminated-union
// tag-check failure, not an error.
func (c *Column) Bool(row uint64) (value bool, ok bool, err error) {
	if c.dataType.Kind != KindBool {
		return false, false, nil
	}
	b, isNull, err := c.GetBytes(row)
	if err != nil || isNull {
		return false, false, err
	}
	return b[0] != 0, true, nil
}

// U8 returns row as a uint8.
func (c *Column) U8(row uint64) (value uint8, ok bool, err error) {
	if c.dataType.Kind != KindU8 {
		return 0, false, nil
	}
	b, isNull, err := c.GetBytes(row)
	if err != nil || isNull {
		return 0, false, err
	}
	return b[0], true, nil
}

// U16 returns row as a uint16.
func (c *Column) U16(row uint64) (value uint16, ok bool, err error) {
	if c.dataType.Kind != KindU16 {
		return 0, false, nil
	}
	b, isNull, err := c.GetBytes(row)
	if err != nil || isNull {
		return 0, false, err
	}
	return binary.LittleEndian.Uint16(b), true, nil
}

// U32 returns row as a uint32.
func (c *Column) U32(row uint64) (value uint32, ok bool, err error) {
	if c.dataType.Kind != KindU32 {
		return 0, false, nil
	}
	b, isNull, err := c.GetBytes(row)
	if err != nil || isNull {
		return 0, false, err
	}
	return binary.LittleEndian.Uint32(b), true, nil
}

// U64 returns row as a uint64.
func (c *Column) U64(row uint64) (value uint64, ok bool, err error) {
	if c.dataType.Kind != KindU64 {
		return 0, false, nil
	}
	b, isNull, err := c.GetBytes(row)
	if err != nil || isNull {
		return 0, false, err
	}
	return binary.LittleEndian.Uint64(b), true, nil
}

// I8 returns row as an int8.
func (c *Column) I8(row uint64) (value int8, ok bool, err error) {
	if c.dataType.Kind != KindI8 {
		return 0, false, nil
	}
	b, isNull, err := c.GetBytes(row)
	if err != nil || isNull {
		return 0, false, err
	}
	return int8(b[0]), true, nil
}

// I16 returns row as an int16.
func (c *Column) I16(row uint64) (value int16, ok bool, err error) {
	if c.dataType.Kind != KindI16 {
		return 0, false, nil
	}
	b, isNull, err := c.GetBytes(row)
	if err != nil || isNull {
		return 0, false, err
	}
	return int16(binary.LittleEndian.Uint16(b)), true, nil
}

// I32 returns row as an int32.
func (c *Column) I32(row uint64) (value int32, ok bool, err error) {
	if c.dataType.Kind != KindI32 {
		return 0, false, nil
	}
	b, isNull, err := c.GetBytes(row)
	if err != nil || isNull {
		return 0, false, err
	}
	return int32(binary.LittleEndian.Uint32(b)), true, nil
}

// I64 returns row as an int64.
func (c *Column) I64(row uint64) (value int64, ok bool, err error) {
	if c.dataType.Kind != KindI64 {
		return 0, false, nil
	}
	b, isNull, err := c.GetBytes(row)
	if err != nil || isNull {
		return 0, false, err
	}
	return int64(binary.LittleEndian.Uint64(b)), true, nil
}

// F32 returns row as a float32.
func (c *Column) F32(row uint64) (value float32, ok bool, err error) {
	if c.dataType.Kind != KindF32 {
		return 0, false, nil
	}
	b, isNull, err := c.GetBytes(row)
	if err != nil || isNull {
		return 0, false, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), true, nil
}

// F64 returns row as a float64.
func (c *Column) F64(row uint64) (value float64, ok bool, err error) {
	if c.dataType.Kind != KindF64 {
		return 0, false, nil
	}
	b, isNull, err := c.GetBytes(row)
	if err != nil || isNull {
		return 0, false, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), true, nil
}

// String returns row decoded as UTF-8 text. ok is false for a null row, a
// Kind mismatch, or bytes that are not valid UTF-8.
func (c *Column) String(row uint64) (value string, ok bool, err error) {
	if c.dataType.Kind != KindString {
		return "", false, nil
	}
	b, isNull, err := c.GetBytes(row)
	if err != nil || isNull {
		return "", false, err
	}
	if !utf8.Valid(b) {
		return "", false, nil
	}
	return string(b), true, nil
}

// Binary returns row as raw bytes.
func (c *Column) Binary(row uint64) (value []byte, ok bool, err error) {
	if c.dataType.Kind != KindBinary {
		return nil, false, nil
	}
	b, isNull, err := c.GetBytes(row)
	if err != nil || isNull {
		return nil, false, err
	}
	return b, true, nil
}

// Iter calls fn once per row in ascending order, stopping early if fn
// returns false.
func (c *Column) Iter(fn func(row uint64, data []byte, isNull bool) bool) error {
	for row := uint64(0); row < c.header.RowCount; row++ {
		data, isNull, err := c.GetBytes(row)
		if err != nil {
			return err
		}
		if !fn(row, data, isNull) {
			return nil
		}
	}
	return nil
}
