// Package series implements the typed nullable column: a dense value buffer
// paired with a packed validity bitmap of identical length. The stored value
// at an invalid position is unobservable.
package series

import (
	"fmt"
	"math"
	"strconv"

	"github.com/lemur-data/lemur/internal/bitmap"
	"github.com/lemur-data/lemur/internal/errors"
	"github.com/lemur-data/lemur/internal/value"
)

// Series is a named, homogeneously typed, nullable column. All operations
// except SetName return new, independently owned instances.
type Series struct {
	name  string
	dtype value.DataType
	valid *bitmap.Bitmap

	// Exactly one of the buffers below is populated, matching dtype.
	i32 []int32
	f64 []float64
	bs  []bool
	ss  []string
}

// NewInt32 creates an all-valid int32 column.
func NewInt32(name string, values []int32) *Series {
	return &Series{
		name:  name,
		dtype: value.Int32,
		valid: bitmap.NewAllSet(len(values)),
		i32:   append([]int32(nil), values...),
	}
}

// NewNullableInt32 creates an int32 column where nil entries are null.
func NewNullableInt32(name string, values []*int32) *Series {
	dense := make([]int32, len(values))
	valid := bitmap.New(len(values))
	for i, v := range values {
		if v != nil {
			dense[i] = *v
			valid.Set(i)
		}
	}
	return &Series{name: name, dtype: value.Int32, valid: valid, i32: dense}
}

// NewFloat64 creates an all-valid float64 column.
func NewFloat64(name string, values []float64) *Series {
	return &Series{
		name:  name,
		dtype: value.Float64,
		valid: bitmap.NewAllSet(len(values)),
		f64:   append([]float64(nil), values...),
	}
}

// NewNullableFloat64 creates a float64 column where nil entries are null.
func NewNullableFloat64(name string, values []*float64) *Series {
	dense := make([]float64, len(values))
	valid := bitmap.New(len(values))
	for i, v := range values {
		if v != nil {
			dense[i] = *v
			valid.Set(i)
		}
	}
	return &Series{name: name, dtype: value.Float64, valid: valid, f64: dense}
}

// NewBool creates an all-valid boolean column.
func NewBool(name string, values []bool) *Series {
	return &Series{
		name:  name,
		dtype: value.Bool,
		valid: bitmap.NewAllSet(len(values)),
		bs:    append([]bool(nil), values...),
	}
}

// NewNullableBool creates a boolean column where nil entries are null.
func NewNullableBool(name string, values []*bool) *Series {
	dense := make([]bool, len(values))
	valid := bitmap.New(len(values))
	for i, v := range values {
		if v != nil {
			dense[i] = *v
			valid.Set(i)
		}
	}
	return &Series{name: name, dtype: value.Bool, valid: valid, bs: dense}
}

// NewString creates an all-valid string column.
func NewString(name string, values []string) *Series {
	return &Series{
		name:  name,
		dtype: value.String,
		valid: bitmap.NewAllSet(len(values)),
		ss:    append([]string(nil), values...),
	}
}

// NewNullableString creates a string column where nil entries are null.
func NewNullableString(name string, values []*string) *Series {
	dense := make([]string, len(values))
	valid := bitmap.New(len(values))
	for i, v := range values {
		if v != nil {
			dense[i] = *v
			valid.Set(i)
		}
	}
	return &Series{name: name, dtype: value.String, valid: valid, ss: dense}
}

// FromValues creates a column of the given type from boundary values.
// Every non-null value must carry the column type.
func FromValues(name string, dtype value.DataType, values []value.Value) (*Series, error) {
	s := empty(name, dtype, len(values))
	for i, v := range values {
		if v.IsNull() {
			continue
		}
		if v.Type() != dtype {
			return nil, errors.NewTypeError("FromValues", name,
				fmt.Sprintf("value at row %d has type %s, column is %s", i, v.Type(), dtype))
		}
		s.setAt(i, v)
	}
	return s, nil
}

// empty allocates an all-null column of the given type and length.
func empty(name string, dtype value.DataType, n int) *Series {
	s := &Series{name: name, dtype: dtype, valid: bitmap.New(n)}
	switch dtype {
	case value.Int32:
		s.i32 = make([]int32, n)
	case value.Float64:
		s.f64 = make([]float64, n)
	case value.Bool:
		s.bs = make([]bool, n)
	case value.String:
		s.ss = make([]string, n)
	}
	return s
}

// setAt stores a non-null value of the column's type at row i.
func (s *Series) setAt(i int, v value.Value) {
	switch s.dtype {
	case value.Int32:
		s.i32[i], _ = v.Int32()
	case value.Float64:
		s.f64[i], _ = v.Float64()
	case value.Bool:
		s.bs[i], _ = v.Bool()
	case value.String:
		s.ss[i], _ = v.Str()
	}
	s.valid.Set(i)
}

// Name returns the column name.
func (s *Series) Name() string { return s.name }

// SetName renames the column in place. This is the only in-place mutation
// the column supports.
func (s *Series) SetName(name string) { s.name = name }

// Len returns the number of rows.
func (s *Series) Len() int { return s.valid.Len() }

// IsEmpty reports whether the column has no rows.
func (s *Series) IsEmpty() bool { return s.Len() == 0 }

// DataType returns the element type.
func (s *Series) DataType() value.DataType { return s.dtype }

// Valid reports whether row i holds a present value. Out-of-range rows
// report false.
func (s *Series) Valid(i int) bool {
	return i >= 0 && i < s.Len() && s.valid.Get(i)
}

// Get returns the value at row i, or Null for an invalid position.
func (s *Series) Get(i int) (value.Value, error) {
	if i < 0 || i >= s.Len() {
		return value.Null, errors.NewIndexOutOfBounds("Get", i, s.Len())
	}
	if !s.valid.Get(i) {
		return value.Null, nil
	}
	return s.valueAt(i), nil
}

// valueAt wraps the stored value at a known-valid row.
func (s *Series) valueAt(i int) value.Value {
	switch s.dtype {
	case value.Int32:
		return value.NewInt32(s.i32[i])
	case value.Float64:
		return value.NewFloat64(s.f64[i])
	case value.Bool:
		return value.NewBool(s.bs[i])
	case value.String:
		return value.NewString(s.ss[i])
	default:
		return value.Null
	}
}

// Float64At widens the numeric value at row i to float64. The second result
// is false for invalid rows and non-numeric columns.
func (s *Series) Float64At(i int) (float64, bool) {
	if i < 0 || i >= s.Len() || !s.valid.Get(i) {
		return 0, false
	}
	switch s.dtype {
	case value.Int32:
		return float64(s.i32[i]), true
	case value.Float64:
		return s.f64[i], true
	default:
		return 0, false
	}
}

// Filter returns a new column containing exactly the rows named by indices,
// in the given order, preserving each selected row's validity.
func (s *Series) Filter(indices []int) (*Series, error) {
	for _, i := range indices {
		if i < 0 || i >= s.Len() {
			return nil, errors.NewIndexOutOfBounds("Filter", i, s.Len())
		}
	}
	out := &Series{name: s.name, dtype: s.dtype, valid: s.valid.Gather(indices)}
	switch s.dtype {
	case value.Int32:
		out.i32 = gather(s.i32, indices)
	case value.Float64:
		out.f64 = gather(s.f64, indices)
	case value.Bool:
		out.bs = gather(s.bs, indices)
	case value.String:
		out.ss = gather(s.ss, indices)
	}
	return out, nil
}

func gather[T any](src []T, indices []int) []T {
	out := make([]T, len(indices))
	for j, i := range indices {
		out[j] = src[i]
	}
	return out
}

// Append concatenates two columns of identical type: all of s followed by
// all of other. The result keeps s's name.
func (s *Series) Append(other *Series) (*Series, error) {
	if s.dtype != other.dtype {
		return nil, errors.NewTypeError("Append", s.name,
			fmt.Sprintf("cannot append %s column to %s column", other.dtype, s.dtype))
	}
	out := &Series{name: s.name, dtype: s.dtype, valid: s.valid.Append(other.valid)}
	switch s.dtype {
	case value.Int32:
		out.i32 = concat(s.i32, other.i32)
	case value.Float64:
		out.f64 = concat(s.f64, other.f64)
	case value.Bool:
		out.bs = concat(s.bs, other.bs)
	case value.String:
		out.ss = concat(s.ss, other.ss)
	}
	return out, nil
}

func concat[T any](a, b []T) []T {
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// FillNulls returns a new column where every invalid position takes v and
// every valid position is unchanged.
func (s *Series) FillNulls(v value.Value) (*Series, error) {
	if v.IsNull() {
		return nil, errors.NewTypeError("FillNulls", s.name, "fill value must not be null")
	}
	if v.Type() != s.dtype {
		return nil, errors.NewTypeError("FillNulls", s.name,
			fmt.Sprintf("fill value type %s is incompatible with %s column", v.Type(), s.dtype))
	}
	out := s.clone()
	for i := 0; i < out.Len(); i++ {
		if !out.valid.Get(i) {
			out.setAt(i, v)
		}
	}
	return out, nil
}

// Unique returns the distinct values in order of first occurrence, with at
// most one null entry if any input row was invalid.
func (s *Series) Unique() *Series {
	var keep []int
	switch s.dtype {
	case value.Int32:
		keep = uniqueIndices(s.i32, s.valid)
	case value.Float64:
		keep = uniqueIndices(s.f64, s.valid)
	case value.Bool:
		keep = uniqueIndices(s.bs, s.valid)
	case value.String:
		keep = uniqueIndices(s.ss, s.valid)
	}
	out, _ := s.Filter(keep)
	return out
}

// uniqueIndices collects the row index of each first occurrence, including
// the first null row if present.
func uniqueIndices[T comparable](values []T, valid *bitmap.Bitmap) []int {
	seen := make(map[T]struct{}, len(values))
	keep := make([]int, 0, len(values))
	sawNull := false
	for i, v := range values {
		if !valid.Get(i) {
			if !sawNull {
				sawNull = true
				keep = append(keep, i)
			}
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			keep = append(keep, i)
		}
	}
	return keep
}

// Cast converts every valid value to the target type. Integer to float is
// exact; float to integer truncates toward zero; string to numeric parses
// and fails on the first unparseable valid value; any type formats to
// string. Invalid positions remain invalid and are never converted.
func (s *Series) Cast(target value.DataType) (*Series, error) {
	if target == s.dtype {
		return s.clone(), nil
	}
	out := empty(s.name, target, s.Len())
	for i := 0; i < s.Len(); i++ {
		if !s.valid.Get(i) {
			continue
		}
		v, err := castValue(s.valueAt(i), target)
		if err != nil {
			return nil, errors.NewTypeError("Cast", s.name, err.Error())
		}
		out.setAt(i, v)
	}
	return out, nil
}

func castValue(v value.Value, target value.DataType) (value.Value, error) {
	switch target {
	case value.Int32:
		if f, ok := v.Float64(); ok {
			return value.NewInt32(int32(math.Trunc(f))), nil
		}
		if str, ok := v.Str(); ok {
			n, err := strconv.ParseInt(str, 10, 32)
			if err != nil {
				return value.Null, fmt.Errorf("cannot parse %q as int32", str)
			}
			return value.NewInt32(int32(n)), nil
		}
	case value.Float64:
		if n, ok := v.Int32(); ok {
			return value.NewFloat64(float64(n)), nil
		}
		if str, ok := v.Str(); ok {
			f, err := strconv.ParseFloat(str, 64)
			if err != nil {
				return value.Null, fmt.Errorf("cannot parse %q as float64", str)
			}
			return value.NewFloat64(f), nil
		}
	case value.String:
		return value.NewString(v.String()), nil
	}
	return value.Null, fmt.Errorf("unsupported cast from %s to %s", v.Type(), target)
}

// InterpolateNulls fills each interior run of nulls bounded by two valid
// neighbors with linear interpolation between those neighbors. Leading and
// trailing runs have no neighbor pair and stay null. Int32 results round to
// nearest; non-numeric columns are rejected.
func (s *Series) InterpolateNulls() (*Series, error) {
	if !s.dtype.IsNumeric() {
		return nil, errors.NewTypeError("InterpolateNulls", s.name,
			fmt.Sprintf("interpolation requires a numeric column, got %s", s.dtype))
	}
	out := s.clone()
	prev := -1 // index of the last valid row seen
	for i := 0; i < s.Len(); i++ {
		if !s.valid.Get(i) {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			lo, _ := s.Float64At(prev)
			hi, _ := s.Float64At(i)
			steps := float64(i - prev)
			for k := prev + 1; k < i; k++ {
				f := lo + (hi-lo)*float64(k-prev)/steps
				if s.dtype == value.Int32 {
					out.i32[k] = int32(math.Round(f))
				} else {
					out.f64[k] = f
				}
				out.valid.Set(k)
			}
		}
		prev = i
	}
	return out, nil
}

// clone returns a deep copy of the column.
func (s *Series) clone() *Series {
	out := &Series{name: s.name, dtype: s.dtype, valid: s.valid.Clone()}
	out.i32 = append([]int32(nil), s.i32...)
	out.f64 = append([]float64(nil), s.f64...)
	out.bs = append([]bool(nil), s.bs...)
	out.ss = append([]string(nil), s.ss...)
	return out
}

// String returns a short description of the column.
func (s *Series) String() string {
	return fmt.Sprintf("Series[%s]: %s (len=%d, nulls=%d)", s.dtype, s.name, s.Len(), s.NullCount())
}
