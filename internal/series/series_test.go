package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemur-data/lemur/internal/errors"
	"github.com/lemur-data/lemur/internal/value"
)

func i32p(v int32) *int32     { return &v }
func f64p(v float64) *float64 { return &v }
func strp(v string) *string   { return &v }

func requireCells(t *testing.T, s *Series, expected []value.Value) {
	t.Helper()
	require.Equal(t, len(expected), s.Len())
	for i, want := range expected {
		got, err := s.Get(i)
		require.NoError(t, err)
		assert.True(t, want.Equal(got), "row %d: want %v, got %v", i, want, got)
	}
}

func TestConstructors(t *testing.T) {
	s := NewInt32("n", []int32{1, 2, 3})
	assert.Equal(t, "n", s.Name())
	assert.Equal(t, value.Int32, s.DataType())
	assert.Equal(t, 3, s.Len())
	assert.False(t, s.IsEmpty())
	assert.Equal(t, 0, s.NullCount())

	ns := NewNullableInt32("n", []*int32{i32p(1), nil, i32p(3)})
	assert.Equal(t, 1, ns.NullCount())
	assert.True(t, ns.Valid(0))
	assert.False(t, ns.Valid(1))
	requireCells(t, ns, []value.Value{value.NewInt32(1), value.Null, value.NewInt32(3)})
}

func TestConstructorCopiesInput(t *testing.T) {
	src := []int32{1, 2, 3}
	s := NewInt32("n", src)
	src[0] = 99
	v, err := s.Get(0)
	require.NoError(t, err)
	n, _ := v.Int32()
	assert.Equal(t, int32(1), n)
}

func TestFromValues(t *testing.T) {
	s, err := FromValues("x", value.Float64, []value.Value{
		value.NewFloat64(1.5), value.Null, value.NewFloat64(2.5),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.NullCount())

	_, err = FromValues("x", value.Float64, []value.Value{value.NewInt32(1)})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindTypeError))
}

func TestGetOutOfBounds(t *testing.T) {
	s := NewInt32("n", []int32{1})
	_, err := s.Get(1)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindIndexOutOfBounds))
	_, err = s.Get(-1)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindIndexOutOfBounds))
}

func TestSetNameIsTheOnlyMutation(t *testing.T) {
	s := NewInt32("old", []int32{1})
	s.SetName("new")
	assert.Equal(t, "new", s.Name())
}

func TestFilter(t *testing.T) {
	s := NewNullableInt32("n", []*int32{i32p(10), nil, i32p(30), i32p(40)})

	picked, err := s.Filter([]int{3, 1, 1, 0})
	require.NoError(t, err)
	requireCells(t, picked, []value.Value{
		value.NewInt32(40), value.Null, value.Null, value.NewInt32(10),
	})

	empty, err := s.Filter(nil)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	_, err = s.Filter([]int{4})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindIndexOutOfBounds))
}

func TestAppend(t *testing.T) {
	a := NewNullableInt32("n", []*int32{i32p(1), nil})
	b := NewInt32("m", []int32{3})
	out, err := a.Append(b)
	require.NoError(t, err)
	assert.Equal(t, "n", out.Name(), "append keeps the receiver's name")
	requireCells(t, out, []value.Value{value.NewInt32(1), value.Null, value.NewInt32(3)})

	_, err = a.Append(NewFloat64("f", []float64{1}))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindTypeError))
}

func TestFilterThenAppendMatchesCombinedFilter(t *testing.T) {
	s := NewNullableInt32("n", []*int32{
		i32p(10), nil, i32p(30), nil, i32p(50), i32p(60),
	})
	a := []int{0, 1, 2}
	b := []int{3, 4, 5}

	left, err := s.Filter(a)
	require.NoError(t, err)
	right, err := s.Filter(b)
	require.NoError(t, err)
	joined, err := left.Append(right)
	require.NoError(t, err)

	combined, err := s.Filter(append(append([]int(nil), a...), b...))
	require.NoError(t, err)

	require.Equal(t, combined.Len(), joined.Len())
	for i := 0; i < combined.Len(); i++ {
		want, _ := combined.Get(i)
		got, _ := joined.Get(i)
		assert.True(t, want.Equal(got), "row %d", i)
	}
}

func TestFillNulls(t *testing.T) {
	s := NewNullableInt32("n", []*int32{i32p(1), nil, i32p(3)})
	filled, err := s.FillNulls(value.NewInt32(0))
	require.NoError(t, err)
	requireCells(t, filled, []value.Value{value.NewInt32(1), value.NewInt32(0), value.NewInt32(3)})
	assert.Equal(t, 1, s.NullCount(), "source column is untouched")

	_, err = s.FillNulls(value.NewFloat64(0))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindTypeError))

	_, err = s.FillNulls(value.Null)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindTypeError))
}

func TestUnique(t *testing.T) {
	s := NewNullableString("s", []*string{
		strp("b"), strp("a"), nil, strp("b"), nil, strp("c"), strp("a"),
	})
	u := s.Unique()
	requireCells(t, u, []value.Value{
		value.NewString("b"), value.NewString("a"), value.Null, value.NewString("c"),
	})
	assert.Equal(t, 4, s.UniqueCount())
}

func TestCast(t *testing.T) {
	t.Run("int to float is exact", func(t *testing.T) {
		s := NewNullableInt32("n", []*int32{i32p(1), nil, i32p(-3)})
		out, err := s.Cast(value.Float64)
		require.NoError(t, err)
		requireCells(t, out, []value.Value{
			value.NewFloat64(1), value.Null, value.NewFloat64(-3),
		})
	})

	t.Run("float to int truncates toward zero", func(t *testing.T) {
		s := NewFloat64("f", []float64{1.9, -1.9, 0.5})
		out, err := s.Cast(value.Int32)
		require.NoError(t, err)
		requireCells(t, out, []value.Value{
			value.NewInt32(1), value.NewInt32(-1), value.NewInt32(0),
		})
	})

	t.Run("string to numeric parses", func(t *testing.T) {
		s := NewNullableString("s", []*string{strp("12"), nil, strp("-7")})
		out, err := s.Cast(value.Int32)
		require.NoError(t, err)
		requireCells(t, out, []value.Value{
			value.NewInt32(12), value.Null, value.NewInt32(-7),
		})
	})

	t.Run("unparseable valid string fails", func(t *testing.T) {
		s := NewString("s", []string{"12", "twelve"})
		_, err := s.Cast(value.Int32)
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindTypeError))
	})

	t.Run("anything casts to string", func(t *testing.T) {
		s := NewNullableFloat64("f", []*float64{f64p(2.5), nil})
		out, err := s.Cast(value.String)
		require.NoError(t, err)
		requireCells(t, out, []value.Value{value.NewString("2.5"), value.Null})
	})

	t.Run("bool to numeric is unsupported", func(t *testing.T) {
		s := NewBool("b", []bool{true})
		_, err := s.Cast(value.Int32)
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindTypeError))
	})

	t.Run("same type clones", func(t *testing.T) {
		s := NewInt32("n", []int32{1, 2})
		out, err := s.Cast(value.Int32)
		require.NoError(t, err)
		requireCells(t, out, []value.Value{value.NewInt32(1), value.NewInt32(2)})
	})
}

func TestInterpolateNulls(t *testing.T) {
	t.Run("interior runs fill linearly", func(t *testing.T) {
		s := NewNullableFloat64("f", []*float64{f64p(1), nil, f64p(3), nil, f64p(5)})
		out, err := s.InterpolateNulls()
		require.NoError(t, err)
		requireCells(t, out, []value.Value{
			value.NewFloat64(1), value.NewFloat64(2), value.NewFloat64(3),
			value.NewFloat64(4), value.NewFloat64(5),
		})
	})

	t.Run("longer run interpolates every step", func(t *testing.T) {
		s := NewNullableFloat64("f", []*float64{f64p(0), nil, nil, nil, f64p(8)})
		out, err := s.InterpolateNulls()
		require.NoError(t, err)
		requireCells(t, out, []value.Value{
			value.NewFloat64(0), value.NewFloat64(2), value.NewFloat64(4),
			value.NewFloat64(6), value.NewFloat64(8),
		})
	})

	t.Run("leading and trailing runs stay null", func(t *testing.T) {
		s := NewNullableFloat64("f", []*float64{nil, f64p(1), nil, f64p(3), nil})
		out, err := s.InterpolateNulls()
		require.NoError(t, err)
		requireCells(t, out, []value.Value{
			value.Null, value.NewFloat64(1), value.NewFloat64(2),
			value.NewFloat64(3), value.Null,
		})
	})

	t.Run("int32 rounds to nearest", func(t *testing.T) {
		s := NewNullableInt32("n", []*int32{i32p(0), nil, i32p(5)})
		out, err := s.InterpolateNulls()
		require.NoError(t, err)
		requireCells(t, out, []value.Value{
			value.NewInt32(0), value.NewInt32(3), value.NewInt32(5),
		})
	})

	t.Run("non-numeric rejected", func(t *testing.T) {
		s := NewString("s", []string{"a"})
		_, err := s.InterpolateNulls()
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindTypeError))
	})
}
