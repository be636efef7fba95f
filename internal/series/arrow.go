package series

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/lemur-data/lemur/internal/errors"
	"github.com/lemur-data/lemur/internal/value"
)

// ToArrow materializes the column as an Arrow array, nulls included. The
// caller owns the returned array and must Release it.
func (s *Series) ToArrow(mem memory.Allocator) arrow.Array {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	switch s.dtype {
	case value.Int32:
		b := array.NewInt32Builder(mem)
		defer b.Release()
		for i, v := range s.i32 {
			if s.valid.Get(i) {
				b.Append(v)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray()
	case value.Float64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		for i, v := range s.f64 {
			if s.valid.Get(i) {
				b.Append(v)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray()
	case value.Bool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		for i, v := range s.bs {
			if s.valid.Get(i) {
				b.Append(v)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray()
	default:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		for i, v := range s.ss {
			if s.valid.Get(i) {
				b.Append(v)
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray()
	}
}

// FromArrow builds a column from an Arrow array, preserving its null
// entries. Only the engine's four element types are accepted.
func FromArrow(name string, arr arrow.Array) (*Series, error) {
	switch typed := arr.(type) {
	case *array.Int32:
		s := empty(name, value.Int32, typed.Len())
		for i := 0; i < typed.Len(); i++ {
			if !typed.IsNull(i) {
				s.i32[i] = typed.Value(i)
				s.valid.Set(i)
			}
		}
		return s, nil
	case *array.Float64:
		s := empty(name, value.Float64, typed.Len())
		for i := 0; i < typed.Len(); i++ {
			if !typed.IsNull(i) {
				s.f64[i] = typed.Value(i)
				s.valid.Set(i)
			}
		}
		return s, nil
	case *array.Boolean:
		s := empty(name, value.Bool, typed.Len())
		for i := 0; i < typed.Len(); i++ {
			if !typed.IsNull(i) {
				s.bs[i] = typed.Value(i)
				s.valid.Set(i)
			}
		}
		return s, nil
	case *array.String:
		s := empty(name, value.String, typed.Len())
		for i := 0; i < typed.Len(); i++ {
			if !typed.IsNull(i) {
				s.ss[i] = typed.Value(i)
				s.valid.Set(i)
			}
		}
		return s, nil
	default:
		return nil, errors.NewTypeError("FromArrow", name,
			fmt.Sprintf("unsupported Arrow array type %T", arr))
	}
}
