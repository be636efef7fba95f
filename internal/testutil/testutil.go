// Package testutil provides shared helpers for engine tests: canonical test
// frames, nullable column builders and frame assertions.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lemur-data/lemur/internal/dataframe"
	"github.com/lemur-data/lemur/internal/series"
)

// Int32Ptr returns a pointer for nullable Int32 column literals.
func Int32Ptr(v int32) *int32 { return &v }

// Float64Ptr returns a pointer for nullable Float64 column literals.
func Float64Ptr(v float64) *float64 { return &v }

// BoolPtr returns a pointer for nullable Bool column literals.
func BoolPtr(v bool) *bool { return &v }

// StringPtr returns a pointer for nullable String column literals.
func StringPtr(v string) *string { return &v }

// MustNewDataFrame builds a frame and fails the test on schema errors.
func MustNewDataFrame(tb testing.TB, cols ...*series.Series) *dataframe.DataFrame {
	tb.Helper()
	df, err := dataframe.New(cols...)
	require.NoError(tb, err)
	return df
}

// SalesFrame builds the canonical grouped-aggregation fixture: two groups
// "a" and "b" whose amounts sum to 60 and 90.
func SalesFrame(tb testing.TB) *dataframe.DataFrame {
	tb.Helper()
	return MustNewDataFrame(tb,
		series.NewString("region", []string{"a", "b", "a", "b", "a"}),
		series.NewInt32("amount", []int32{10, 40, 20, 50, 30}),
	)
}

// PeopleFrame builds a small mixed-type fixture used across frame tests.
func PeopleFrame(tb testing.TB) *dataframe.DataFrame {
	tb.Helper()
	return MustNewDataFrame(tb,
		series.NewString("name", []string{"alice", "bob", "carol", "dave"}),
		series.NewInt32("age", []int32{30, 25, 35, 25}),
		series.NewFloat64("score", []float64{88.5, 92.0, 79.5, 92.0}),
		series.NewBool("active", []bool{true, false, true, true}),
	)
}

// RequireColumnValues asserts that a column holds exactly the expected
// cells, comparing null against null.
func RequireColumnValues(tb testing.TB, df *dataframe.DataFrame, name string, expected []interface{}) {
	tb.Helper()
	col, err := df.Column(name)
	require.NoError(tb, err)
	require.Equal(tb, len(expected), col.Len(), "column %q row count", name)
	for i, want := range expected {
		v, gerr := col.Get(i)
		require.NoError(tb, gerr)
		if want == nil {
			require.True(tb, v.IsNull(), "column %q row %d should be null", name, i)
			continue
		}
		require.False(tb, v.IsNull(), "column %q row %d should be valid", name, i)
		switch w := want.(type) {
		case int32:
			got, ok := v.Int32()
			require.True(tb, ok)
			require.Equal(tb, w, got, "column %q row %d", name, i)
		case int:
			got, ok := v.Int32()
			require.True(tb, ok)
			require.Equal(tb, int32(w), got, "column %q row %d", name, i)
		case float64:
			got, ok := v.Float64()
			require.True(tb, ok)
			require.InDelta(tb, w, got, 1e-9, "column %q row %d", name, i)
		case bool:
			got, ok := v.Bool()
			require.True(tb, ok)
			require.Equal(tb, w, got, "column %q row %d", name, i)
		case string:
			got, ok := v.Str()
			require.True(tb, ok)
			require.Equal(tb, w, got, "column %q row %d", name, i)
		default:
			tb.Fatalf("unsupported expectation type %T for column %q", want, name)
		}
	}
}

// RequireFramesEqual asserts that two frames have the same schema and the
// same cells in the same order.
func RequireFramesEqual(tb testing.TB, expected, actual *dataframe.DataFrame) {
	tb.Helper()
	require.Equal(tb, expected.ColumnNames(), actual.ColumnNames())
	require.Equal(tb, expected.RowCount(), actual.RowCount())
	for _, name := range expected.ColumnNames() {
		wantCol, err := expected.Column(name)
		require.NoError(tb, err)
		gotCol, err := actual.Column(name)
		require.NoError(tb, err)
		require.Equal(tb, wantCol.DataType(), gotCol.DataType(), "column %q type", name)
		for i := 0; i < wantCol.Len(); i++ {
			want, _ := wantCol.Get(i)
			got, _ := gotCol.Get(i)
			require.True(tb, want.Equal(got), "column %q row %d: want %v, got %v", name, i, want, got)
		}
	}
}
