package dataframe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemur-data/lemur/internal/dataframe"
	"github.com/lemur-data/lemur/internal/errors"
	"github.com/lemur-data/lemur/internal/expr"
	"github.com/lemur-data/lemur/internal/series"
	"github.com/lemur-data/lemur/internal/testutil"
	"github.com/lemur-data/lemur/internal/value"
)

func TestNewValidation(t *testing.T) {
	t.Run("empty frame has zero rows", func(t *testing.T) {
		df, err := dataframe.New()
		require.NoError(t, err)
		assert.Equal(t, 0, df.RowCount())
		assert.Equal(t, 0, df.Width())
	})

	t.Run("row count mismatch", func(t *testing.T) {
		_, err := dataframe.New(
			series.NewInt32("a", []int32{1, 2}),
			series.NewInt32("b", []int32{1}),
		)
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindSchemaMismatch))
	})

	t.Run("duplicate column name", func(t *testing.T) {
		_, err := dataframe.New(
			series.NewInt32("a", []int32{1}),
			series.NewFloat64("a", []float64{1}),
		)
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindSchemaMismatch))
	})

	t.Run("empty column name", func(t *testing.T) {
		_, err := dataframe.New(series.NewInt32("", []int32{1}))
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindSchemaMismatch))
	})
}

func TestColumnAccess(t *testing.T) {
	df := testutil.PeopleFrame(t)
	assert.Equal(t, []string{"name", "age", "score", "active"}, df.ColumnNames())
	assert.Equal(t, 4, df.RowCount())
	assert.True(t, df.HasColumn("age"))
	assert.False(t, df.HasColumn("height"))

	col, err := df.Column("age")
	require.NoError(t, err)
	assert.Equal(t, value.Int32, col.DataType())

	_, err = df.Column("height")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindColumnNotFound))
}

func TestSelectAndDropColumns(t *testing.T) {
	df := testutil.PeopleFrame(t)

	selected, err := df.SelectColumns("score", "name")
	require.NoError(t, err)
	assert.Equal(t, []string{"score", "name"}, selected.ColumnNames(), "selection order wins")

	dropped, err := df.DropColumns("active", "score")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, dropped.ColumnNames())

	_, err = df.SelectColumns("missing")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindColumnNotFound))
}

func TestRenameColumn(t *testing.T) {
	df := testutil.PeopleFrame(t)

	renamed, err := df.RenameColumn("age", "years")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "years", "score", "active"}, renamed.ColumnNames())
	assert.True(t, df.HasColumn("age"), "source frame is untouched")

	_, err = df.RenameColumn("years", "x")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindColumnNotFound))

	_, err = df.RenameColumn("age", "score")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindSchemaMismatch))
}

func TestFilter(t *testing.T) {
	df := testutil.PeopleFrame(t)

	adults, err := df.Filter(expr.Col("age").Ge(expr.Lit(30)))
	require.NoError(t, err)
	testutil.RequireColumnValues(t, adults, "name", []interface{}{"alice", "carol"})

	combined, err := df.Filter(expr.Col("age").Lt(expr.Lit(30)).And(expr.Col("active").Eq(expr.Lit(true))))
	require.NoError(t, err)
	testutil.RequireColumnValues(t, combined, "name", []interface{}{"dave"})
}

func TestFilterDropsAbsentCondition(t *testing.T) {
	df := testutil.MustNewDataFrame(t,
		series.NewNullableInt32("n", []*int32{
			testutil.Int32Ptr(1), nil, testutil.Int32Ptr(3),
		}),
	)
	out, err := df.Filter(expr.Col("n").Gt(expr.Lit(0)))
	require.NoError(t, err)
	testutil.RequireColumnValues(t, out, "n", []interface{}{1, 3})
}

func TestFilterPreservesRowMultiset(t *testing.T) {
	df := testutil.PeopleFrame(t)
	kept, err := df.Filter(expr.Col("score").Ge(expr.Lit(90.0)))
	require.NoError(t, err)
	rest, err := df.Filter(expr.Not(expr.Col("score").Ge(expr.Lit(90.0))))
	require.NoError(t, err)
	assert.Equal(t, df.RowCount(), kept.RowCount()+rest.RowCount())
}

func TestWithColumn(t *testing.T) {
	df := testutil.PeopleFrame(t)

	withBonus, err := df.WithColumn("bonus", expr.Col("score").Mul(expr.Lit(0.1)))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age", "score", "active", "bonus"}, withBonus.ColumnNames())
	testutil.RequireColumnValues(t, withBonus, "bonus", []interface{}{8.85, 9.2, 7.95, 9.2})

	replaced, err := df.WithColumn("age", expr.Col("age").Add(expr.Lit(1)))
	require.NoError(t, err)
	assert.Equal(t, df.ColumnNames(), replaced.ColumnNames(), "replacement keeps position")
	testutil.RequireColumnValues(t, replaced, "age", []interface{}{31, 26, 36, 26})
}

func TestDropNulls(t *testing.T) {
	df := testutil.MustNewDataFrame(t,
		series.NewNullableInt32("a", []*int32{
			testutil.Int32Ptr(1), nil, testutil.Int32Ptr(3), testutil.Int32Ptr(4),
		}),
		series.NewNullableString("b", []*string{
			testutil.StringPtr("x"), testutil.StringPtr("y"), nil, testutil.StringPtr("w"),
		}),
	)

	all, err := df.DropNulls()
	require.NoError(t, err)
	testutil.RequireColumnValues(t, all, "a", []interface{}{1, 4})

	subset, err := df.DropNulls("a")
	require.NoError(t, err)
	testutil.RequireColumnValues(t, subset, "b", []interface{}{"x", nil, "w"})

	_, err = df.DropNulls("missing")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindColumnNotFound))
}

func TestFillNullsSkipsIncompatibleColumns(t *testing.T) {
	df := testutil.MustNewDataFrame(t,
		series.NewNullableInt32("n", []*int32{testutil.Int32Ptr(1), nil}),
		series.NewNullableString("s", []*string{nil, testutil.StringPtr("y")}),
	)
	out, err := df.FillNulls(value.NewInt32(0))
	require.NoError(t, err)
	testutil.RequireColumnValues(t, out, "n", []interface{}{1, 0})
	testutil.RequireColumnValues(t, out, "s", []interface{}{nil, "y"})
}

func TestAppend(t *testing.T) {
	a := testutil.MustNewDataFrame(t,
		series.NewInt32("n", []int32{1, 2}),
		series.NewString("s", []string{"x", "y"}),
	)
	b := testutil.MustNewDataFrame(t,
		series.NewString("s", []string{"z"}),
		series.NewInt32("n", []int32{3}),
	)

	out, err := a.Append(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"n", "s"}, out.ColumnNames(), "receiver's column order wins")
	testutil.RequireColumnValues(t, out, "n", []interface{}{1, 2, 3})
	testutil.RequireColumnValues(t, out, "s", []interface{}{"x", "y", "z"})

	t.Run("column set mismatch", func(t *testing.T) {
		other := testutil.MustNewDataFrame(t, series.NewInt32("n", []int32{1}))
		_, err := a.Append(other)
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindSchemaMismatch))
	})

	t.Run("column type mismatch", func(t *testing.T) {
		other := testutil.MustNewDataFrame(t,
			series.NewFloat64("n", []float64{1}),
			series.NewString("s", []string{"x"}),
		)
		_, err := a.Append(other)
		require.Error(t, err)
		assert.True(t, errors.IsKind(err, errors.KindSchemaMismatch))
	})
}

func TestSliceHeadTail(t *testing.T) {
	df := testutil.MustNewDataFrame(t, series.NewInt32("n", []int32{0, 1, 2, 3, 4}))

	mid, err := df.Slice(1, 3)
	require.NoError(t, err)
	testutil.RequireColumnValues(t, mid, "n", []interface{}{1, 2})

	clamped, err := df.Slice(-5, 99)
	require.NoError(t, err)
	assert.Equal(t, 5, clamped.RowCount())

	empty, err := df.Slice(3, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.RowCount())

	head, err := df.Head(2)
	require.NoError(t, err)
	testutil.RequireColumnValues(t, head, "n", []interface{}{0, 1})

	tail, err := df.Tail(2)
	require.NoError(t, err)
	testutil.RequireColumnValues(t, tail, "n", []interface{}{3, 4})
}

func TestFrameCorrelationAndCovariance(t *testing.T) {
	df := testutil.MustNewDataFrame(t,
		series.NewFloat64("x", []float64{1, 2, 3, 4, 5}),
		series.NewFloat64("y", []float64{5, 4, 3, 2, 1}),
	)

	r, err := df.Correlation("x", "y")
	require.NoError(t, err)
	assert.InDelta(t, -1.0, r, 1e-12)

	cov, err := df.Covariance("x", "y")
	require.NoError(t, err)
	assert.InDelta(t, -2.5, cov, 1e-12)

	_, err = df.Correlation("x", "missing")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindColumnNotFound))
}

func TestDescribe(t *testing.T) {
	df := testutil.MustNewDataFrame(t,
		series.NewString("name", []string{"a", "b", "c", "d", "e"}),
		series.NewFloat64("x", []float64{1, 2, 3, 4, 5}),
	)
	summary, err := df.Describe()
	require.NoError(t, err)
	assert.Equal(t, []string{"statistic", "x"}, summary.ColumnNames(), "string columns are skipped")
	testutil.RequireColumnValues(t, summary, "statistic",
		[]interface{}{"count", "mean", "std_dev", "min", "max"})
	testutil.RequireColumnValues(t, summary, "x",
		[]interface{}{5.0, 3.0, 1.5811388300841898, 1.0, 5.0})
}
