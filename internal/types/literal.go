package types

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"relDB/internal/errs"
)

// ParseLiteral coerces a textual literal to domain t: decimal parsing for
// the numeric domains (range-checked against the domain width), the first
// character for Char, and the text itself for Utf8String.
func ParseLiteral(t DataType, s string) (Value, error) {
	switch t {
	case TypeInt32, TypeInt64, TypeInt16, TypeInt8:
		n, err := strconv.ParseInt(s, 10, intBits(t))
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a valid %s", errs.ErrTypeMismatch, s, t)
		}
		return Value{Type: t, I64: n}, nil

	case TypeFloat64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a valid %s", errs.ErrTypeMismatch, s, t)
		}
		return Float64(f), nil

	case TypeFloat32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a valid %s", errs.ErrTypeMismatch, s, t)
		}
		return Float32(float32(f)), nil

	case TypeChar:
		r, size := utf8.DecodeRuneInString(s)
		if size == 0 || r == utf8.RuneError {
			return Value{}, fmt.Errorf("%w: %q is not a valid %s", errs.ErrTypeMismatch, s, t)
		}
		return Char(r), nil

	case TypeString:
		return Str(s), nil

	default:
		return Value{}, fmt.Errorf("%w: %s is not a column domain", errs.ErrTypeMismatch, t)
	}
}

func intBits(t DataType) int {
	switch t {
	case TypeInt8:
		return 8
	case TypeInt16:
		return 16
	case TypeInt32:
		return 32
	default:
		return 64
	}
}

// CheckDomain reports whether v may be stored in a column of domain t.
// Null is accepted everywhere.
func CheckDomain(v Value, t DataType) bool {
	if v.IsNull() {
		return true
	}
	if v.Type != t {
		return false
	}
	if t.IsInteger() {
		bits := intBits(t)
		if bits < 64 {
			lo, hi := -(int64(1) << (bits - 1)), int64(1)<<(bits-1)-1
			return v.I64 >= lo && v.I64 <= hi
		}
	}
	return true
}

// AppendEncoded appends a canonical byte encoding of v to buf. Two values
// encode identically iff Equal reports true for them, so the encoding can
// key Go maps.
func AppendEncoded(buf []byte, v Value) []byte {
	buf = append(buf, byte(v.Type))
	switch {
	case v.Type.IsInteger():
		buf = binary.BigEndian.AppendUint64(buf, uint64(v.I64))
	case v.Type.IsFloat():
		f := v.F64
		if math.IsNaN(f) {
			f = math.NaN()
		}
		buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(f))
	case v.Type == TypeChar:
		buf = binary.BigEndian.AppendUint32(buf, uint32(v.C))
	case v.Type == TypeString:
		buf = binary.BigEndian.AppendUint32(buf, uint32(len(v.S)))
		buf = append(buf, v.S...)
	}
	return buf
}

// EncodeTuple returns the canonical encoding of a whole tuple.
func EncodeTuple(t Tuple) string {
	var buf []byte
	for _, v := range t {
		buf = AppendEncoded(buf, v)
	}
	return string(buf)
}
