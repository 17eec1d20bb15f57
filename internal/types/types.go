package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DataType represents the domain of an attribute.
type DataType int

const (
	TypeInt32 DataType = iota
	TypeInt64
	TypeInt16
	TypeInt8
	TypeFloat64
	TypeFloat32
	TypeChar
	TypeString

	// TypeNull tags a null Value. It is never a column domain.
	TypeNull
)

func (t DataType) String() string {
	switch t {
	case TypeInt32:
		return "Int32"
	case TypeInt64:
		return "Int64"
	case TypeInt16:
		return "Int16"
	case TypeInt8:
		return "Int8"
	case TypeFloat64:
		return "Float64"
	case TypeFloat32:
		return "Float32"
	case TypeChar:
		return "Char"
	case TypeString:
		return "Utf8String"
	case TypeNull:
		return "Null"
	default:
		return "DataType(" + strconv.Itoa(int(t)) + ")"
	}
}

// IsDomain reports whether t may be declared as a column domain.
func (t DataType) IsDomain() bool {
	return t >= TypeInt32 && t <= TypeString
}

// IsInteger reports whether values of t live in Value.I64.
func (t DataType) IsInteger() bool {
	return t == TypeInt32 || t == TypeInt64 || t == TypeInt16 || t == TypeInt8
}

// IsFloat reports whether values of t live in Value.F64.
func (t DataType) IsFloat() bool {
	return t == TypeFloat64 || t == TypeFloat32
}

// domainNames maps every accepted spelling of a domain to its DataType.
// The Java-style names are kept so old declarations like
// "Integer String String String" still parse.
var domainNames = map[string]DataType{
	"int32":      TypeInt32,
	"integer":    TypeInt32,
	"int":        TypeInt32,
	"int64":      TypeInt64,
	"long":       TypeInt64,
	"int16":      TypeInt16,
	"short":      TypeInt16,
	"int8":       TypeInt8,
	"byte":       TypeInt8,
	"float64":    TypeFloat64,
	"double":     TypeFloat64,
	"float32":    TypeFloat32,
	"float":      TypeFloat32,
	"char":       TypeChar,
	"character":  TypeChar,
	"utf8string": TypeString,
	"string":     TypeString,
}

// ParseDataType resolves one domain token, case-insensitively.
func ParseDataType(s string) (DataType, error) {
	t, ok := domainNames[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("unknown domain %q", s)
	}
	return t, nil
}

// ParseDomains parses a space-separated domain list such as
// "Int64 Utf8String Char".
func ParseDomains(s string) ([]DataType, error) {
	fields := strings.Fields(s)
	out := make([]DataType, len(fields))
	for i, f := range fields {
		t, err := ParseDataType(f)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// Value represents a single cell in a tuple.
// Only the field matching Type should be read: every integer domain uses
// I64, both float domains use F64 (Float32 values are rounded to float32
// precision on construction), Char uses C and Utf8String uses S.
type Value struct {
	Type DataType

	I64 int64
	F64 float64
	C   rune
	S   string
}

// Tuple is one row: a fixed-length sequence of values aligned with a schema.
type Tuple []Value

func Int32(v int32) Value     { return Value{Type: TypeInt32, I64: int64(v)} }
func Int64(v int64) Value     { return Value{Type: TypeInt64, I64: v} }
func Int16(v int16) Value     { return Value{Type: TypeInt16, I64: int64(v)} }
func Int8(v int8) Value       { return Value{Type: TypeInt8, I64: int64(v)} }
func Float64(v float64) Value { return Value{Type: TypeFloat64, F64: v} }
func Float32(v float32) Value { return Value{Type: TypeFloat32, F64: float64(v)} }
func Char(v rune) Value       { return Value{Type: TypeChar, C: v} }
func Str(v string) Value      { return Value{Type: TypeString, S: v} }
func Null() Value             { return Value{Type: TypeNull} }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool {
	return v.Type == TypeNull
}

// String formats v the way it is printed in table dumps.
func (v Value) String() string {
	switch {
	case v.Type.IsInteger():
		return strconv.FormatInt(v.I64, 10)
	case v.Type == TypeFloat32:
		return strconv.FormatFloat(v.F64, 'g', -1, 32)
	case v.Type == TypeFloat64:
		return strconv.FormatFloat(v.F64, 'g', -1, 64)
	case v.Type == TypeChar:
		return string(v.C)
	case v.Type == TypeString:
		return v.S
	default:
		return "null"
	}
}

// Interface returns v as a plain Go value (nil for null), for encoders
// that work on dynamically typed data.
func (v Value) Interface() any {
	switch v.Type {
	case TypeInt32:
		return int32(v.I64)
	case TypeInt64:
		return v.I64
	case TypeInt16:
		return int16(v.I64)
	case TypeInt8:
		return int8(v.I64)
	case TypeFloat64:
		return v.F64
	case TypeFloat32:
		return float32(v.F64)
	case TypeChar:
		return string(v.C)
	case TypeString:
		return v.S
	default:
		return nil
	}
}

// Compare orders two values of the same domain: -1, 0 or +1.
// Null sorts before every non-null value and equals itself. Floats follow
// the IEEE total order used by Java's Double.compareTo: -0 sorts before +0,
// and NaN sorts after +Inf and equals itself.
func Compare(a, b Value) int {
	switch {
	case a.IsNull() && b.IsNull():
		return 0
	case a.IsNull():
		return -1
	case b.IsNull():
		return 1
	}
	switch {
	case a.Type.IsInteger():
		return cmpOrdered(a.I64, b.I64)
	case a.Type.IsFloat():
		return cmpFloat(a.F64, b.F64)
	case a.Type == TypeChar:
		return cmpOrdered(a.C, b.C)
	default:
		return strings.Compare(a.S, b.S)
	}
}

// Equal reports whether a and b carry the same domain and compare equal.
func Equal(a, b Value) bool {
	return a.Type == b.Type && Compare(a, b) == 0
}

func cmpOrdered[T int64 | rune](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	}
	// a == b; only the sign of zero can still differ.
	aNeg, bNeg := math.Signbit(a), math.Signbit(b)
	switch {
	case aNeg && !bNeg:
		return -1
	case !aNeg && bNeg:
		return 1
	default:
		return 0
	}
}
