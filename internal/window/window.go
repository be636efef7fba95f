// Package window implements partitioned ranking over a frame: row_number,
// rank and dense_rank computed per partition under an explicit ordering,
// returned in the frame's original row order.
package window

import (
	"github.com/lemur-data/lemur/internal/dataframe"
	"github.com/lemur-data/lemur/internal/errors"
	"github.com/lemur-data/lemur/internal/series"
)

// Spec describes a window: partition columns and the ordering applied
// inside each partition. An empty PartitionBy means one partition spanning
// the whole frame.
type Spec struct {
	PartitionBy []string
	OrderBy     []dataframe.SortKey
}

// PartitionBy starts a spec from partition columns.
func PartitionBy(columns ...string) *Spec {
	return &Spec{PartitionBy: columns}
}

// OrderByAsc appends an ascending ordering key.
func (s *Spec) OrderByAsc(column string) *Spec {
	s.OrderBy = append(s.OrderBy, dataframe.SortKey{Column: column, Ascending: true})
	return s
}

// OrderByDesc appends a descending ordering key.
func (s *Spec) OrderByDesc(column string) *Spec {
	s.OrderBy = append(s.OrderBy, dataframe.SortKey{Column: column, Ascending: false})
	return s
}

// rankFunc assigns a rank to position i of an ordered partition. ties
// reports whether position i has the same ordering key as position i-1;
// prev is the rank assigned at i-1.
type rankFunc func(i int, ties bool, prev int32) int32

// RowNumber numbers the rows of a frame 1..n within each partition, in the
// spec's order, appending an Int32 "row_number" column.
func RowNumber(df *dataframe.DataFrame, spec *Spec) (*dataframe.DataFrame, error) {
	return apply(df, spec, "row_number", func(i int, _ bool, _ int32) int32 {
		return int32(i + 1)
	})
}

// Rank ranks rows within each partition with gaps after ties, appending an
// Int32 "rank" column. Two rows tie when every ordering key cell compares
// equal; nulls tie with nulls.
func Rank(df *dataframe.DataFrame, spec *Spec) (*dataframe.DataFrame, error) {
	return apply(df, spec, "rank", func(i int, ties bool, prev int32) int32 {
		if ties {
			return prev
		}
		return int32(i + 1)
	})
}

// DenseRank ranks rows within each partition without gaps after ties,
// appending an Int32 "dense_rank" column.
func DenseRank(df *dataframe.DataFrame, spec *Spec) (*dataframe.DataFrame, error) {
	return apply(df, spec, "dense_rank", func(_ int, ties bool, prev int32) int32 {
		if ties {
			return prev
		}
		return prev + 1
	})
}

func apply(df *dataframe.DataFrame, spec *Spec, name string, fn rankFunc) (*dataframe.DataFrame, error) {
	if spec == nil || len(spec.OrderBy) == 0 {
		return nil, errors.NewSchemaMismatch(name, "window spec requires at least one ordering key")
	}
	orderCols := make([]*series.Series, len(spec.OrderBy))
	for i, key := range spec.OrderBy {
		col, err := df.Column(key.Column)
		if err != nil {
			return nil, errors.NewColumnNotFound(name, key.Column)
		}
		orderCols[i] = col
	}

	partitions, err := partitionRows(df, spec.PartitionBy)
	if err != nil {
		return nil, err
	}

	ranks := make([]int32, df.RowCount())
	for _, rows := range partitions {
		if err := df.OrderRows(rows, spec.OrderBy...); err != nil {
			return nil, err
		}
		var prev int32
		for i, row := range rows {
			ties := i > 0 && sameOrderKey(orderCols, rows[i-1], row)
			prev = fn(i, ties, prev)
			ranks[row] = prev
		}
	}

	cols := make([]*series.Series, 0, df.Width()+1)
	for _, colName := range df.ColumnNames() {
		col, cerr := df.Column(colName)
		if cerr != nil {
			return nil, cerr
		}
		cols = append(cols, col)
	}
	cols = append(cols, series.NewInt32(name, ranks))
	return dataframe.New(cols...)
}

// partitionRows splits the frame's row indices by the partition key, in
// first-appearance order. No partition columns means one partition.
func partitionRows(df *dataframe.DataFrame, partitionBy []string) ([][]int, error) {
	if len(partitionBy) == 0 {
		rows := make([]int, df.RowCount())
		for i := range rows {
			rows[i] = i
		}
		return [][]int{rows}, nil
	}
	grouped, err := df.GroupBy(partitionBy...)
	if err != nil {
		return nil, err
	}
	out := make([][]int, grouped.GroupCount())
	for gi := range out {
		out[gi] = grouped.Rows(gi)
	}
	return out, nil
}

// sameOrderKey reports whether two rows have equal ordering-key tuples.
// Absent cells compare equal to each other only.
func sameOrderKey(orderCols []*series.Series, a, b int) bool {
	for _, col := range orderCols {
		va, _ := col.Get(a)
		vb, _ := col.Get(b)
		if !va.Equal(vb) {
			return false
		}
	}
	return true
}
