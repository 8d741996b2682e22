package columnar

// CompressionTag identifies the codec, if any, applied to a column's data
// section. Only CompressionNone is implemented; the tag exists so the
// on-disk format can grow a real codec later without a layout change.
type CompressionTag uint32

const (
	CompressionNone CompressionTag = 0
)
