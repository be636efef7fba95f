// Package dataframe implements the tabular layer: an ordered collection of
// equal-length named columns, plus grouping and multi-key sorting over it.
// Frames are immutable snapshots; every transformation returns a new frame.
package dataframe

import (
	"fmt"
	"strings"

	"github.com/lemur-data/lemur/internal/errors"
	"github.com/lemur-data/lemur/internal/expr"
	"github.com/lemur-data/lemur/internal/series"
	"github.com/lemur-data/lemur/internal/value"
)

// DataFrame is an ordered mapping from unique column name to column.
// Column insertion order is preserved and is the iteration and
// serialization order. A frame with zero columns has zero rows.
type DataFrame struct {
	columns map[string]*series.Series
	order   []string
}

// New creates a frame from columns. All columns must have the same row
// count and distinct, non-empty names.
func New(cols ...*series.Series) (*DataFrame, error) {
	df := &DataFrame{
		columns: make(map[string]*series.Series, len(cols)),
		order:   make([]string, 0, len(cols)),
	}
	for _, col := range cols {
		name := col.Name()
		if name == "" {
			return nil, errors.NewSchemaMismatch("New", "column names must be non-empty")
		}
		if _, exists := df.columns[name]; exists {
			return nil, errors.NewSchemaMismatch("New", fmt.Sprintf("duplicate column name %q", name))
		}
		if len(df.order) > 0 && col.Len() != df.RowCount() {
			return nil, errors.NewSchemaMismatch("New",
				fmt.Sprintf("column %q has %d rows, frame has %d", name, col.Len(), df.RowCount()))
		}
		df.columns[name] = col
		df.order = append(df.order, name)
	}
	return df, nil
}

// ColumnNames returns the column names in order.
func (df *DataFrame) ColumnNames() []string {
	return append([]string(nil), df.order...)
}

// RowCount returns the number of rows.
func (df *DataFrame) RowCount() int {
	if len(df.order) == 0 {
		return 0
	}
	return df.columns[df.order[0]].Len()
}

// Width returns the number of columns.
func (df *DataFrame) Width() int { return len(df.columns) }

// HasColumn reports whether a column exists.
func (df *DataFrame) HasColumn(name string) bool {
	_, ok := df.columns[name]
	return ok
}

// Column returns the named column.
func (df *DataFrame) Column(name string) (*series.Series, error) {
	col, ok := df.columns[name]
	if !ok {
		return nil, errors.NewColumnNotFound("Column", name)
	}
	return col, nil
}

// SelectColumns returns a new frame with only the named columns, in the
// given order.
func (df *DataFrame) SelectColumns(names ...string) (*DataFrame, error) {
	cols := make([]*series.Series, 0, len(names))
	for _, name := range names {
		col, err := df.Column(name)
		if err != nil {
			return nil, errors.NewColumnNotFound("SelectColumns", name)
		}
		cols = append(cols, col)
	}
	return New(cols...)
}

// DropColumns returns a new frame without the named columns, preserving the
// remaining column order.
func (df *DataFrame) DropColumns(names ...string) (*DataFrame, error) {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		if !df.HasColumn(name) {
			return nil, errors.NewColumnNotFound("DropColumns", name)
		}
		drop[name] = true
	}
	cols := make([]*series.Series, 0, len(df.order))
	for _, name := range df.order {
		if !drop[name] {
			cols = append(cols, df.columns[name])
		}
	}
	return New(cols...)
}

// RenameColumn returns a new frame with one column renamed. The new name
// must not collide with another existing column.
func (df *DataFrame) RenameColumn(oldName, newName string) (*DataFrame, error) {
	col, err := df.Column(oldName)
	if err != nil {
		return nil, errors.NewColumnNotFound("RenameColumn", oldName)
	}
	if newName != oldName && df.HasColumn(newName) {
		return nil, errors.NewSchemaMismatch("RenameColumn",
			fmt.Sprintf("column %q already exists", newName))
	}
	cols := make([]*series.Series, 0, len(df.order))
	for _, name := range df.order {
		if name == oldName {
			renamed, ferr := col.Filter(identity(col.Len()))
			if ferr != nil {
				return nil, ferr
			}
			renamed.SetName(newName)
			cols = append(cols, renamed)
		} else {
			cols = append(cols, df.columns[name])
		}
	}
	return New(cols...)
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// FilterIndices returns a new frame with exactly the selected rows, in the
// given order, same columns.
func (df *DataFrame) FilterIndices(indices []int) (*DataFrame, error) {
	cols := make([]*series.Series, 0, len(df.order))
	for _, name := range df.order {
		filtered, err := df.columns[name].Filter(indices)
		if err != nil {
			return nil, err
		}
		cols = append(cols, filtered)
	}
	return New(cols...)
}

// Filter returns the rows for which the condition evaluates to true. Rows
// where the condition is absent are dropped.
func (df *DataFrame) Filter(condition expr.Expr) (*DataFrame, error) {
	mask, err := df.evaluator().EvalCondition(condition)
	if err != nil {
		return nil, err
	}
	indices := make([]int, 0, mask.Len())
	for i := 0; i < mask.Len(); i++ {
		v, _ := mask.Get(i)
		if b, ok := v.Bool(); ok && b {
			indices = append(indices, i)
		}
	}
	return df.FilterIndices(indices)
}

// Eval evaluates an expression against the frame, producing a column of the
// frame's row count.
func (df *DataFrame) Eval(ex expr.Expr) (*series.Series, error) {
	return df.evaluator().Eval(ex)
}

// WithColumn returns a new frame with the evaluated expression appended (or
// replacing an existing column of the same name).
func (df *DataFrame) WithColumn(name string, ex expr.Expr) (*DataFrame, error) {
	computed, err := df.Eval(ex)
	if err != nil {
		return nil, err
	}
	computed = cloneWithName(computed, name)
	cols := make([]*series.Series, 0, len(df.order)+1)
	replaced := false
	for _, colName := range df.order {
		if colName == name {
			cols = append(cols, computed)
			replaced = true
		} else {
			cols = append(cols, df.columns[colName])
		}
	}
	if !replaced {
		cols = append(cols, computed)
	}
	return New(cols...)
}

func cloneWithName(col *series.Series, name string) *series.Series {
	out, _ := col.Filter(identity(col.Len()))
	out.SetName(name)
	return out
}

func (df *DataFrame) evaluator() *expr.Evaluator {
	return expr.NewEvaluator(df.columns, df.RowCount())
}

// DropNulls removes every row where any column in subset (or, with no
// subset, any column at all) is invalid. Remaining rows keep their
// original relative order.
func (df *DataFrame) DropNulls(subset ...string) (*DataFrame, error) {
	checked := subset
	if len(checked) == 0 {
		checked = df.order
	}
	cols := make([]*series.Series, 0, len(checked))
	for _, name := range checked {
		col, err := df.Column(name)
		if err != nil {
			return nil, errors.NewColumnNotFound("DropNulls", name)
		}
		cols = append(cols, col)
	}
	keep := make([]int, 0, df.RowCount())
	for i := 0; i < df.RowCount(); i++ {
		allValid := true
		for _, col := range cols {
			if !col.Valid(i) {
				allValid = false
				break
			}
		}
		if allValid {
			keep = append(keep, i)
		}
	}
	return df.FilterIndices(keep)
}

// FillNulls fills invalid positions with v in every column whose type is
// compatible; incompatible columns pass through unchanged so mixed-type
// frames can be filled in one call.
func (df *DataFrame) FillNulls(v value.Value) (*DataFrame, error) {
	cols := make([]*series.Series, 0, len(df.order))
	for _, name := range df.order {
		col := df.columns[name]
		if !v.IsNull() && col.DataType() == v.Type() {
			filled, err := col.FillNulls(v)
			if err != nil {
				return nil, err
			}
			cols = append(cols, filled)
		} else {
			cols = append(cols, col)
		}
	}
	return New(cols...)
}

// Append concatenates two frames with identical column name sets and
// compatible per-column types. The result keeps df's column order.
func (df *DataFrame) Append(other *DataFrame) (*DataFrame, error) {
	if df.Width() != other.Width() {
		return nil, errors.NewSchemaMismatch("Append",
			fmt.Sprintf("frames have %d and %d columns", df.Width(), other.Width()))
	}
	cols := make([]*series.Series, 0, len(df.order))
	for _, name := range df.order {
		otherCol, err := other.Column(name)
		if err != nil {
			return nil, errors.NewSchemaMismatch("Append",
				fmt.Sprintf("column %q missing from appended frame", name))
		}
		if otherCol.DataType() != df.columns[name].DataType() {
			return nil, errors.NewSchemaMismatch("Append",
				fmt.Sprintf("column %q has type %s, expected %s",
					name, otherCol.DataType(), df.columns[name].DataType()))
		}
		combined, err := df.columns[name].Append(otherCol)
		if err != nil {
			return nil, err
		}
		cols = append(cols, combined)
	}
	return New(cols...)
}

// Slice returns rows from start (inclusive) to end (exclusive), clamped to
// the frame's bounds.
func (df *DataFrame) Slice(start, end int) (*DataFrame, error) {
	if start < 0 {
		start = 0
	}
	if end > df.RowCount() {
		end = df.RowCount()
	}
	if start >= end {
		return df.FilterIndices(nil)
	}
	indices := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		indices = append(indices, i)
	}
	return df.FilterIndices(indices)
}

// Head returns the first n rows.
func (df *DataFrame) Head(n int) (*DataFrame, error) { return df.Slice(0, n) }

// Tail returns the last n rows.
func (df *DataFrame) Tail(n int) (*DataFrame, error) {
	return df.Slice(df.RowCount()-n, df.RowCount())
}

// Correlation computes the Pearson correlation of two numeric columns.
func (df *DataFrame) Correlation(colA, colB string) (float64, error) {
	a, err := df.Column(colA)
	if err != nil {
		return 0, err
	}
	b, err := df.Column(colB)
	if err != nil {
		return 0, err
	}
	return a.Correlation(b)
}

// Covariance computes the sample covariance of two numeric columns.
func (df *DataFrame) Covariance(colA, colB string) (float64, error) {
	a, err := df.Column(colA)
	if err != nil {
		return 0, err
	}
	b, err := df.Column(colB)
	if err != nil {
		return 0, err
	}
	return a.Covariance(b)
}

// Describe returns a summary frame with one row per statistic
// (count, mean, std_dev, min, max) over the numeric columns.
func (df *DataFrame) Describe() (*DataFrame, error) {
	numeric := make([]string, 0, len(df.order))
	for _, name := range df.order {
		if df.columns[name].DataType().IsNumeric() {
			numeric = append(numeric, name)
		}
	}
	stats := []string{"count", "mean", "std_dev", "min", "max"}
	cols := make([]*series.Series, 0, len(numeric)+1)
	cols = append(cols, series.NewString("statistic", stats))
	for _, name := range numeric {
		col := df.columns[name]
		vals := make([]value.Value, len(stats))
		vals[0] = value.NewFloat64(float64(col.Count()))
		if m, err := col.Mean(); err == nil {
			vals[1] = value.NewFloat64(m)
		}
		if sd, err := col.StdDev(); err == nil {
			vals[2] = value.NewFloat64(sd)
		}
		if mn, err := col.Min(); err == nil {
			f, _ := mn.AsFloat64()
			vals[3] = value.NewFloat64(f)
		}
		if mx, err := col.Max(); err == nil {
			f, _ := mx.AsFloat64()
			vals[4] = value.NewFloat64(f)
		}
		summary, err := series.FromValues(name, value.Float64, vals)
		if err != nil {
			return nil, err
		}
		cols = append(cols, summary)
	}
	return New(cols...)
}

// String returns a short schema description.
func (df *DataFrame) String() string {
	if len(df.order) == 0 {
		return "DataFrame[empty]"
	}
	parts := []string{fmt.Sprintf("DataFrame[%dx%d]", df.RowCount(), df.Width())}
	for _, name := range df.order {
		parts = append(parts, fmt.Sprintf("  %s: %s", name, df.columns[name].DataType()))
	}
	return strings.Join(parts, "\n")
}
