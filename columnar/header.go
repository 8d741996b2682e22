package columnar

import (
	"encoding/binary"
	"io"
)

// headerSize is the fixed on-disk size of a column file's header.
const headerSize = 112

// magic identifies a column file. It occupies the first 8 bytes of every
// header.
var magic = [8]byte{'U', 'L', 'T', 'R', 'A', 'C', 'O', 'L'}

// currentVersion is the only header version this package writes. Readers
// reject anything else rather than guess at forward compatibility.
const currentVersion = 1

// Header is the fixed-size prefix of a column file. All multi-byte fields
// are little-endian. Any reader that honors the offset/size fields below
// can locate every section even if the physical ordering of
// bitmap/offsets/data were to change in a future version.
type Header struct {
	Version          uint32
	RowCount         uint64
	DataType         uint32
	Nullable         bool
	Compression      uint32
	DataOffset       uint64
	DataSize         uint64
	NullBitmapOffset uint64
	NullBitmapSize   uint64
	OffsetsOffset    uint64
	OffsetsSize      uint64
}

// writeHeader serializes h into a fixed headerSize-byte buffer.
func writeHeader(w io.Writer, h *Header) error {
	buf := make([]byte, headerSize)
	copy(buf[0:8], magic[:])
	binary.LittleEndian.PutUint32(buf[8:12], h.Version)
	binary.LittleEndian.PutUint64(buf[12:20], h.RowCount)
	binary.LittleEndian.PutUint32(buf[20:24], h.DataType)
	if h.Nullable {
		buf[24] = 1
	}
	binary.LittleEndian.PutUint32(buf[28:32], h.Compression)
	binary.LittleEndian.PutUint64(buf[32:40], h.DataOffset)
	binary.LittleEndian.PutUint64(buf[40:48], h.DataSize)
	binary.LittleEndian.PutUint64(buf[48:56], h.NullBitmapOffset)
	binary.LittleEndian.PutUint64(buf[56:64], h.NullBitmapSize)
	binary.LittleEndian.PutUint64(buf[64:72], h.OffsetsOffset)
	binary.LittleEndian.PutUint64(buf[72:80], h.OffsetsSize)
	// bytes [80:112) are reserved and left zeroed.
	_, err := w.Write(buf)
	return err
}

// parseHeader validates and decodes a headerSize-byte buffer.
func parseHeader(buf []byte) (*Header, error) {
	if len(buf) < headerSize {
		return nil, newError(ErrCorruptHeader, "parse_header", nil)
	}
	if string(buf[0:8]) != string(magic[:]) {
		return nil, newError(ErrCorruptHeader, "parse_header", nil)
	}
	h := &Header{
		Version:          binary.LittleEndian.Uint32(buf[8:12]),
		RowCount:         binary.LittleEndian.Uint64(buf[12:20]),
		DataType:         binary.LittleEndian.Uint32(buf[20:24]),
		Nullable:         buf[24] != 0,
		Compression:      binary.LittleEndian.Uint32(buf[28:32]),
		DataOffset:       binary.LittleEndian.Uint64(buf[32:40]),
		DataSize:         binary.LittleEndian.Uint64(buf[40:48]),
		NullBitmapOffset: binary.LittleEndian.Uint64(buf[48:56]),
		NullBitmapSize:   binary.LittleEndian.Uint64(buf[56:64]),
		OffsetsOffset:    binary.LittleEndian.Uint64(buf[64:72]),
		OffsetsSize:      binary.LittleEndian.Uint64(buf[72:80]),
	}
	if h.Version != currentVersion {
		return nil, newError(ErrCorruptHeader, "parse_header", nil)
	}
	return h, nil
}
