package dataframe

import (
	"sort"

	"github.com/lemur-data/lemur/internal/errors"
	"github.com/lemur-data/lemur/internal/series"
	"github.com/lemur-data/lemur/internal/value"
)

// SortKey names one column of a composite sort key and its direction.
type SortKey struct {
	Column    string
	Ascending bool
}

// Sort returns a new frame with rows stably sorted by the composite key
// formed from the listed columns in order. Nulls sort last regardless of
// direction; ties keep their original row order.
func (df *DataFrame) Sort(keys ...SortKey) (*DataFrame, error) {
	indices, err := df.SortIndices(keys...)
	if err != nil {
		return nil, err
	}
	return df.FilterIndices(indices)
}

// SortByColumns sorts ascending or descending by each named column, one
// shared direction for all of them.
func (df *DataFrame) SortByColumns(columns []string, ascending bool) (*DataFrame, error) {
	keys := make([]SortKey, len(columns))
	for i, col := range columns {
		keys[i] = SortKey{Column: col, Ascending: ascending}
	}
	return df.Sort(keys...)
}

// SortIndices computes the stable row permutation that Sort applies.
func (df *DataFrame) SortIndices(keys ...SortKey) ([]int, error) {
	cols := make([]*series.Series, len(keys))
	for i, key := range keys {
		col, err := df.Column(key.Column)
		if err != nil {
			return nil, errors.NewColumnNotFound("Sort", key.Column)
		}
		cols[i] = col
	}
	indices := identity(df.RowCount())
	sort.SliceStable(indices, func(x, y int) bool {
		return lessByKeys(cols, keys, indices[x], indices[y])
	})
	return indices, nil
}

// OrderRows stably sorts the given row indices in place by the keys,
// leaving rows outside the slice untouched. The window engine uses this to
// order rows inside a partition without materializing a sub-frame.
func (df *DataFrame) OrderRows(rows []int, keys ...SortKey) error {
	cols := make([]*series.Series, len(keys))
	for i, key := range keys {
		col, err := df.Column(key.Column)
		if err != nil {
			return errors.NewColumnNotFound("OrderRows", key.Column)
		}
		cols[i] = col
	}
	sort.SliceStable(rows, func(x, y int) bool {
		return lessByKeys(cols, keys, rows[x], rows[y])
	})
	return nil
}

// lessByKeys orders two rows under the composite key: the first key column
// whose values differ decides. A null orders after every present value in
// both directions, so the direction flip applies only to value-vs-value
// comparisons; null-vs-null is a tie passed to the next key.
func lessByKeys(cols []*series.Series, keys []SortKey, a, b int) bool {
	for k, col := range cols {
		validA, validB := col.Valid(a), col.Valid(b)
		switch {
		case !validA && !validB:
			continue
		case !validA:
			return false
		case !validB:
			return true
		}
		cmp := compareCells(col, a, b)
		if cmp == 0 {
			continue
		}
		if keys[k].Ascending {
			return cmp < 0
		}
		return cmp > 0
	}
	return false
}

// compareCells orders two known-valid cells of one column.
func compareCells(col *series.Series, a, b int) int {
	switch col.DataType() {
	case value.Int32, value.Float64:
		x, _ := col.Float64At(a)
		y, _ := col.Float64At(b)
		return orderOf(x, y)
	case value.String:
		va, _ := col.Get(a)
		vb, _ := col.Get(b)
		x, _ := va.Str()
		y, _ := vb.Str()
		return orderOf(x, y)
	default: // Bool: false < true
		va, _ := col.Get(a)
		vb, _ := col.Get(b)
		x, _ := va.Bool()
		y, _ := vb.Bool()
		switch {
		case x == y:
			return 0
		case !x:
			return -1
		default:
			return 1
		}
	}
}

func orderOf[T interface{ ~float64 | ~string }](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
