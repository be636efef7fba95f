package dataframe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemur-data/lemur/internal/dataframe"
	"github.com/lemur-data/lemur/internal/errors"
	"github.com/lemur-data/lemur/internal/series"
	"github.com/lemur-data/lemur/internal/testutil"
)

func TestSortSingleKey(t *testing.T) {
	df := testutil.MustNewDataFrame(t,
		series.NewInt32("n", []int32{3, 1, 2}),
		series.NewString("s", []string{"c", "a", "b"}),
	)

	asc, err := df.Sort(dataframe.SortKey{Column: "n", Ascending: true})
	require.NoError(t, err)
	testutil.RequireColumnValues(t, asc, "n", []interface{}{1, 2, 3})
	testutil.RequireColumnValues(t, asc, "s", []interface{}{"a", "b", "c"})

	desc, err := df.Sort(dataframe.SortKey{Column: "n", Ascending: false})
	require.NoError(t, err)
	testutil.RequireColumnValues(t, desc, "n", []interface{}{3, 2, 1})

	testutil.RequireColumnValues(t, df, "n", []interface{}{3, 1, 2})
}

func TestSortDescendingReversesAscending(t *testing.T) {
	// Distinct, null-free keys: descending must be the exact reverse.
	df := testutil.MustNewDataFrame(t,
		series.NewFloat64("x", []float64{2.5, -1, 7, 0, 3}),
	)
	asc, err := df.Sort(dataframe.SortKey{Column: "x", Ascending: true})
	require.NoError(t, err)
	desc, err := df.Sort(dataframe.SortKey{Column: "x", Ascending: false})
	require.NoError(t, err)

	n := df.RowCount()
	ascCol, _ := asc.Column("x")
	descCol, _ := desc.Column("x")
	for i := 0; i < n; i++ {
		a, _ := ascCol.Float64At(i)
		d, _ := descCol.Float64At(n - 1 - i)
		assert.InDelta(t, a, d, 0)
	}
}

func TestSortMultiKeyStable(t *testing.T) {
	df := testutil.MustNewDataFrame(t,
		series.NewString("grp", []string{"b", "a", "b", "a", "a"}),
		series.NewInt32("n", []int32{1, 2, 1, 2, 1}),
		series.NewString("tag", []string{"p", "q", "r", "s", "t"}),
	)

	out, err := df.Sort(
		dataframe.SortKey{Column: "grp", Ascending: true},
		dataframe.SortKey{Column: "n", Ascending: false},
	)
	require.NoError(t, err)
	testutil.RequireColumnValues(t, out, "grp", []interface{}{"a", "a", "a", "b", "b"})
	testutil.RequireColumnValues(t, out, "n", []interface{}{2, 2, 1, 1, 1})
	// Ties on (grp, n) keep original relative order: q before s, p before r.
	testutil.RequireColumnValues(t, out, "tag", []interface{}{"q", "s", "t", "p", "r"})
}

func TestSortNullsLastBothDirections(t *testing.T) {
	df := testutil.MustNewDataFrame(t,
		series.NewNullableInt32("n", []*int32{
			nil, testutil.Int32Ptr(2), nil, testutil.Int32Ptr(1),
		}),
	)

	asc, err := df.Sort(dataframe.SortKey{Column: "n", Ascending: true})
	require.NoError(t, err)
	testutil.RequireColumnValues(t, asc, "n", []interface{}{1, 2, nil, nil})

	desc, err := df.Sort(dataframe.SortKey{Column: "n", Ascending: false})
	require.NoError(t, err)
	testutil.RequireColumnValues(t, desc, "n", []interface{}{2, 1, nil, nil})
}

func TestSortNullTieFallsToNextKey(t *testing.T) {
	df := testutil.MustNewDataFrame(t,
		series.NewNullableInt32("a", []*int32{nil, nil, testutil.Int32Ptr(1)}),
		series.NewInt32("b", []int32{2, 1, 9}),
	)
	out, err := df.Sort(
		dataframe.SortKey{Column: "a", Ascending: true},
		dataframe.SortKey{Column: "b", Ascending: true},
	)
	require.NoError(t, err)
	testutil.RequireColumnValues(t, out, "a", []interface{}{1, nil, nil})
	testutil.RequireColumnValues(t, out, "b", []interface{}{9, 1, 2})
}

func TestSortByColumns(t *testing.T) {
	df := testutil.PeopleFrame(t)
	out, err := df.SortByColumns([]string{"age", "name"}, true)
	require.NoError(t, err)
	testutil.RequireColumnValues(t, out, "name", []interface{}{"bob", "dave", "alice", "carol"})
}

func TestSortBoolColumn(t *testing.T) {
	df := testutil.MustNewDataFrame(t,
		series.NewBool("b", []bool{true, false, true, false}),
	)
	out, err := df.Sort(dataframe.SortKey{Column: "b", Ascending: true})
	require.NoError(t, err)
	testutil.RequireColumnValues(t, out, "b", []interface{}{false, false, true, true})
}

func TestSortUnknownColumn(t *testing.T) {
	df := testutil.PeopleFrame(t)
	_, err := df.Sort(dataframe.SortKey{Column: "missing", Ascending: true})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindColumnNotFound))
}

func TestOrderRowsSortsSubsetInPlace(t *testing.T) {
	df := testutil.MustNewDataFrame(t,
		series.NewInt32("n", []int32{9, 3, 7, 1, 5}),
	)
	rows := []int{1, 3, 4} // values 3, 1, 5
	require.NoError(t, df.OrderRows(rows, dataframe.SortKey{Column: "n", Ascending: true}))
	assert.Equal(t, []int{3, 1, 4}, rows)
}
