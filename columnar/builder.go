package columnar

import (
	"bufio"
	"encoding/binary"
	"math"
	"os"
)

// Builder accumulates rows for a single column in memory and writes them
// out as one column file. A Builder is single-use: call WriteToFile once.
type Builder struct {
	dataType DataType
	nullable bool
	data     []byte
	offsets  []uint64 // only populated for variable-length types
	nulls    []bool
	rowCount uint64
}

// NewBuilder returns a Builder for the given type. nullable controls
// whether a null bitmap is emitted.
func NewBuilder(dataType DataType, nullable bool) *Builder {
	b := &Builder{dataType: dataType, nullable: nullable}
	if dataType.IsVariableLength() {
		b.offsets = []uint64{0}
	}
	return b
}

func (b *Builder) appendNullFlag(isNull bool) {
	if b.nullable {
		b.nulls = append(b.nulls, isNull)
	}
	b.rowCount++
}

// AppendNull appends a null row. Returns an error if the column is not
// nullable.
func (b *Builder) AppendNull() error {
	if !b.nullable {
		return newError(ErrNullNotAllowed, "append_null", nil)
	}
	if width, ok := b.dataType.FixedWidth(); ok {
		b.data = append(b.data, make([]byte, width)...)
	} else {
		b.offsets = append(b.offsets, b.offsets[len(b.offsets)-1])
	}
	b.appendNullFlag(true)
	return nil
}

func (b *Builder) checkKind(op string, k Kind) error {
	if b.dataType.Kind != k {
		return newError(ErrTypeMismatch, op, nil)
	}
	return nil
}

// AppendBool appends a bool row.
func (b *Builder) AppendBool(v bool) error {
	if err := b.checkKind("append_bool", KindBool); err != nil {
		return err
	}
	if v {
		b.data = append(b.data, 1)
	} else {
		b.data = append(b.data, 0)
	}
	b.appendNullFlag(false)
	return nil
}

// AppendU8 appends a uint8 row.
func (b *Builder) AppendU8(v uint8) error {
	if err := b.checkKind("append_u8", KindU8); err != nil {
		return err
	}
	b.data = append(b.data, v)
	b.appendNullFlag(false)
	return nil
}

// AppendU16 appends a uint16 row.
func (b *Builder) AppendU16(v uint16) error {
	if err := b.checkKind("append_u16", KindU16); err != nil {
		return err
	}
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	b.data = append(b.data, buf[:]...)
	b.appendNullFlag(false)
	return nil
}

// AppendU32 appends a uint32 row.
func (b *Builder) AppendU32(v uint32) error {
	if err := b.checkKind("append_u32", KindU32); err != nil {
		return err
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	b.data = append(b.data, buf[:]...)
	b.appendNullFlag(false)
	return nil
}

// AppendU64 appends a uint64 row.
func (b *Builder) AppendU64(v uint64) error {
	if err := b.checkKind("append_u64", KindU64); err != nil {
		return err
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	b.data = append(b.data, buf[:]...)
	b.appendNullFlag(false)
	return nil
}

// AppendI8 appends an int8 row.
func (b *Builder) AppendI8(v int8) error {
	if err := b.checkKind("append_i8", KindI8); err != nil {
		return err
	}
	b.data = append(b.data, byte(v))
	b.appendNullFlag(false)
	return nil
}

// AppendI16 appends an int16 row.
func (b *Builder) AppendI16(v int16) error {
	if err := b.checkKind("append_i16", KindI16); err != nil {
		return err
	}
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], uint16(v))
	b.data = append(b.data, buf[:]...)
	b.appendNullFlag(false)
	return nil
}

// AppendI32 appends an int32 row.
func (b *Builder) AppendI32(v int32) error {
	if err := b.checkKind("append_i32", KindI32); err != nil {
		return err
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(v))
	b.data = append(b.data, buf[:]...)
	b.appendNullFlag(false)
	return nil
}

// AppendI64 appends an int64 row.
func (b *Builder) AppendI64(v int64) error {
	if err := b.checkKind("append_i64", KindI64); err != nil {
		return err
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	b.data = append(b.data, buf[:]...)
	b.appendNullFlag(false)
	return nil
}

// AppendF32 appends a float32 row.
func (b *Builder) AppendF32(v float32) error {
	if err := b.checkKind("append_f32", KindF32); err != nil {
		return err
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
	b.data = append(b.data, buf[:]...)
	b.appendNullFlag(false)
	return nil
}

// AppendF64 appends a float64 row.
func (b *Builder) AppendF64(v float64) error {
	if err := b.checkKind("append_f64", KindF64); err != nil {
		return err
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	b.data = append(b.data, buf[:]...)
	b.appendNullFlag(false)
	return nil
}

// AppendString appends a string row.
func (b *Builder) AppendString(v string) error {
	if err := b.checkKind("append_string", KindString); err != nil {
		return err
	}
	b.data = append(b.data, v...)
	b.offsets = append(b.offsets, uint64(len(b.data)))
	b.appendNullFlag(false)
	return nil
}

// AppendBinary appends a binary row.
func (b *Builder) AppendBinary(v []byte) error {
	if err := b.checkKind("append_binary", KindBinary); err != nil {
		return err
	}
	b.data = append(b.data, v...)
	b.offsets = append(b.offsets, uint64(len(b.data)))
	b.appendNullFlag(false)
	return nil
}

// AppendFixedBinary appends a fixed_binary row. v must be exactly
// ElemSize bytes.
func (b *Builder) AppendFixedBinary(v []byte) error {
	if err := b.checkKind("append_fixed_binary", KindFixedBinary); err != nil {
		return err
	}
	if len(v) != int(b.dataType.ElemSize) {
		return newError(ErrInvalidArgument, "append_fixed_binary", nil)
	}
	b.data = append(b.data, v...)
	b.appendNullFlag(false)
	return nil
}

// RowCount returns the number of rows appended so far.
func (b *Builder) RowCount() uint64 {
	return b.rowCount
}

func (b *Builder) buildNullBitmap() []byte {
	if !b.nullable {
		return nil
	}
	bitmap := make([]byte, (b.rowCount+7)/8)
	for i, isNull := range b.nulls {
		if isNull {
			bitmap[i/8] |= 1 << uint(i%8)
		}
	}
	return bitmap
}

func (b *Builder) buildOffsets() []byte {
	if !b.dataType.IsVariableLength() {
		return nil
	}
	buf := make([]byte, len(b.offsets)*8)
	for i, v := range b.offsets {
		binary.LittleEndian.PutUint64(buf[i*8:i*8+8], v)
	}
	return buf
}

// WriteToFile serializes the builder's accumulated rows to path in the
// on-disk column format. If WriteToFile fails partway through, the
// contents at path are undefined and must be removed by the caller; this
// method never leaves a well-formed-looking partial file by construction
// (the header, which validates first on read, is written last).
func (b *Builder) WriteToFile(path string) error {
	nullBitmap := b.buildNullBitmap()
	offsets := b.buildOffsets()

	var cursor uint64 = headerSize
	var nullBitmapOffset, offsetsOffset uint64

	if nullBitmap != nil {
		nullBitmapOffset = cursor
		cursor += uint64(len(nullBitmap))
	}
	if offsets != nil {
		offsetsOffset = cursor
		cursor += uint64(len(offsets))
	}
	dataOffset := cursor

	f, err := os.Create(path)
	if err != nil {
		return newPathError(ErrIO, "write_to_file", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	// Reserve header space with zero bytes; the real header is written
	// after the body so a reader opening mid-write sees a bad magic rather
	// than a header claiming sections that are not yet on disk.
	if _, err := w.Write(make([]byte, headerSize)); err != nil {
		return newPathError(ErrIO, "write_to_file", path, err)
	}
	if nullBitmap != nil {
		if _, err := w.Write(nullBitmap); err != nil {
			return newPathError(ErrIO, "write_to_file", path, err)
		}
	}
	if offsets != nil {
		if _, err := w.Write(offsets); err != nil {
			return newPathError(ErrIO, "write_to_file", path, err)
		}
	}
	if _, err := w.Write(b.data); err != nil {
		return newPathError(ErrIO, "write_to_file", path, err)
	}
	if err := w.Flush(); err != nil {
		return newPathError(ErrIO, "write_to_file", path, err)
	}

	h := &Header{
		Version:          currentVersion,
		RowCount:         b.rowCount,
		DataType:         b.dataType.Encode(),
		Nullable:         b.nullable,
		Compression:      0,
		DataOffset:       dataOffset,
		DataSize:         uint64(len(b.data)),
		NullBitmapOffset: nullBitmapOffset,
		NullBitmapSize:   uint64(len(nullBitmap)),
		OffsetsOffset:    offsetsOffset,
		OffsetsSize:      uint64(len(offsets)),
	}

	if _, err := f.Seek(0, 0); err != nil {
		return newPathError(ErrIO, "write_to_file", path, err)
	}
	if err := writeHeader(f, h); err != nil {
		return newPathError(ErrIO, "write_to_file", path, err)
	}
	return f.Sync()
}
