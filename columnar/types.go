package columnar

// Kind is the primary discriminant of a column's data type. It occupies the
// low byte of the on-disk type tag.
type Kind uint8

const (
	KindBool Kind = iota + 1
	KindU8
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindString
	KindBinary
	KindDate
	KindTimestamp
	KindFixedBinary
	KindDecimal
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindI8:
		return "i8"
	case KindI16:
		return "i16"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindDate:
		return "date"
	case KindTimestamp:
		return "timestamp"
	case KindFixedBinary:
		return "fixed_binary"
	case KindDecimal:
		return "decimal"
	default:
		return "unknown"
	}
}

// DataType is a discriminated union over a column's storage kind plus the
// parameters that kind requires: fixed_binary carries an element size,
// decimal carries a precision and scale. It is encoded to and decoded from
// a single on-disk u32 tag rather than carried as a bag of raw integers.
type DataType struct {
	Kind      Kind
	ElemSize  uint8 // fixed_binary only
	Precision uint8 // decimal only
	Scale     uint8 // decimal only
}

// Bool, U8, ... are convenience constructors for the kinds that take no
// parameters.
func Bool() DataType      { return DataType{Kind: KindBool} }
func U8() DataType        { return DataType{Kind: KindU8} }
func U16() DataType       { return DataType{Kind: KindU16} }
func U32() DataType       { return DataType{Kind: KindU32} }
func U64() DataType       { return DataType{Kind: KindU64} }
func I8() DataType        { return DataType{Kind: KindI8} }
func I16() DataType       { return DataType{Kind: KindI16} }
func I32() DataType       { return DataType{Kind: KindI32} }
func I64() DataType       { return DataType{Kind: KindI64} }
func F32() DataType       { return DataType{Kind: KindF32} }
func F64() DataType       { return DataType{Kind: KindF64} }
func StringType() DataType { return DataType{Kind: KindString} }
func BinaryType() DataType { return DataType{Kind: KindBinary} }
func DateType() DataType   { return DataType{Kind: KindDate} }
func TimestampType() DataType { return DataType{Kind: KindTimestamp} }

// FixedBinary returns a fixed-binary type with the given per-row element
// size in bytes.
func FixedBinary(elemSize uint8) DataType {
	return DataType{Kind: KindFixedBinary, ElemSize: elemSize}
}

// Decimal returns a decimal type with the given precision and scale.
func Decimal(precision, scale uint8) DataType {
	return DataType{Kind: KindDecimal, Precision: precision, Scale: scale}
}

// Encode packs the type into the on-disk u32 tag: byte 0 is Kind, byte 1 is
// ElemSize (fixed_binary) or Precision (decimal), byte 2 is Scale (decimal),
// byte 3 is unused.
func (d DataType) Encode() uint32 {
	tag := uint32(d.Kind)
	switch d.Kind {
	case KindFixedBinary:
		tag |= uint32(d.ElemSize) << 8
	case KindDecimal:
		tag |= uint32(d.Precision) << 8
		tag |= uint32(d.Scale) << 16
	}
	return tag
}

// DecodeDataType unpacks an on-disk u32 tag into a DataType.
func DecodeDataType(tag uint32) (DataType, error) {
	kind := Kind(tag & 0xff)
	switch kind {
	case KindBool, KindU8, KindU16, KindU32, KindU64,
		KindI8, KindI16, KindI32, KindI64, KindF32, KindF64,
		KindString, KindBinary, KindDate, KindTimestamp:
		return DataType{Kind: kind}, nil
	case KindFixedBinary:
		return DataType{Kind: kind, ElemSize: uint8((tag >> 8) & 0xff)}, nil
	case KindDecimal:
		return DataType{
			Kind:      kind,
			Precision: uint8((tag >> 8) & 0xff),
			Scale:     uint8((tag >> 16) & 0xff),
		}, nil
	default:
		return DataType{}, newError(ErrInvalidArgument, "decode_data_type", nil)
	}
}

// IsVariableLength reports whether values of this type require an offsets
// array (string and binary).
func (d DataType) IsVariableLength() bool {
	return d.Kind == KindString || d.Kind == KindBinary
}

// IsNumeric reports whether the type is an integer or floating-point kind.
func (d DataType) IsNumeric() bool {
	return d.IsInteger() || d.IsFloat()
}

// IsInteger reports whether the type is a signed or unsigned integer kind.
func (d DataType) IsInteger() bool {
	switch d.Kind {
	case KindU8, KindU16, KindU32, KindU64, KindI8, KindI16, KindI32, KindI64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether the type is a floating-point kind.
func (d DataType) IsFloat() bool {
	return d.Kind == KindF32 || d.Kind == KindF64
}

// FixedWidth returns the per-row byte width of a fixed-size type, and false
// for variable-length types.
func (d DataType) FixedWidth() (int, bool) {
	switch d.Kind {
	case KindBool, KindU8, KindI8:
		return 1, true
	case KindU16, KindI16:
		return 2, true
	case KindU32, KindI32, KindF32, KindDate:
		return 4, true
	case KindU64, KindI64, KindF64, KindTimestamp:
		return 8, true
	case KindFixedBinary:
		return int(d.ElemSize), true
	case KindDecimal:
		return 16, true
	default:
		return 0, false
	}
}
