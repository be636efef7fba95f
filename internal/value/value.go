// Package value defines the closed tagged-variant value type exchanged at
// the engine boundary, plus the column type enum. Host values entering the
// engine are converted to Value once; the core never inspects host runtime
// types directly.
package value

import (
	"fmt"
	"strconv"
)

// DataType identifies the element type of a column.
type DataType int

const (
	Int32 DataType = iota
	Float64
	Bool
	String
)

// String returns the canonical type name.
func (t DataType) String() string {
	switch t {
	case Int32:
		return "int32"
	case Float64:
		return "float64"
	case Bool:
		return "bool"
	case String:
		return "string"
	default:
		return fmt.Sprintf("datatype(%d)", int(t))
	}
}

// IsNumeric reports whether the type participates in arithmetic and
// statistical reductions.
func (t DataType) IsNumeric() bool {
	return t == Int32 || t == Float64
}

// Value is a single nullable cell. The zero Value is Null.
type Value struct {
	dtype DataType
	valid bool
	i32   int32
	f64   float64
	b     bool
	s     string
}

// Null is the absent value.
var Null = Value{}

// NewInt32 wraps an int32.
func NewInt32(v int32) Value { return Value{dtype: Int32, valid: true, i32: v} }

// NewFloat64 wraps a float64.
func NewFloat64(v float64) Value { return Value{dtype: Float64, valid: true, f64: v} }

// NewBool wraps a bool.
func NewBool(v bool) Value { return Value{dtype: Bool, valid: true, b: v} }

// NewString wraps a string.
func NewString(v string) Value { return Value{dtype: String, valid: true, s: v} }

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool { return !v.valid }

// Type returns the value's type. Only meaningful for non-null values.
func (v Value) Type() DataType { return v.dtype }

// Int32 returns the int32 payload and whether it is present.
func (v Value) Int32() (int32, bool) { return v.i32, v.valid && v.dtype == Int32 }

// Float64 returns the float64 payload and whether it is present.
func (v Value) Float64() (float64, bool) { return v.f64, v.valid && v.dtype == Float64 }

// Bool returns the bool payload and whether it is present.
func (v Value) Bool() (bool, bool) { return v.b, v.valid && v.dtype == Bool }

// Str returns the string payload and whether it is present.
func (v Value) Str() (string, bool) { return v.s, v.valid && v.dtype == String }

// AsFloat64 widens a numeric value to float64.
func (v Value) AsFloat64() (float64, bool) {
	if !v.valid {
		return 0, false
	}
	switch v.dtype {
	case Int32:
		return float64(v.i32), true
	case Float64:
		return v.f64, true
	default:
		return 0, false
	}
}

// Equal compares two values. Nulls compare equal to each other and
// unequal to any present value; Int32 and Float64 never compare equal
// across types.
func (v Value) Equal(other Value) bool {
	if !v.valid || !other.valid {
		return v.valid == other.valid
	}
	if v.dtype != other.dtype {
		return false
	}
	switch v.dtype {
	case Int32:
		return v.i32 == other.i32
	case Float64:
		return v.f64 == other.f64
	case Bool:
		return v.b == other.b
	case String:
		return v.s == other.s
	default:
		return false
	}
}

// String formats the value for display and CSV serialization. Nulls format
// as the empty string.
func (v Value) String() string {
	if !v.valid {
		return ""
	}
	switch v.dtype {
	case Int32:
		return strconv.FormatInt(int64(v.i32), 10)
	case Float64:
		return strconv.FormatFloat(v.f64, 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(v.b)
	case String:
		return v.s
	default:
		return ""
	}
}
