package dataframe

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/lemur-data/lemur/internal/config"
	"github.com/lemur-data/lemur/internal/errors"
	"github.com/lemur-data/lemur/internal/parallel"
	"github.com/lemur-data/lemur/internal/series"
	"github.com/lemur-data/lemur/internal/value"
)

// AggFunc names a per-group reduction.
type AggFunc string

const (
	AggSum    AggFunc = "sum"
	AggMean   AggFunc = "mean"
	AggCount  AggFunc = "count"
	AggMin    AggFunc = "min"
	AggMax    AggFunc = "max"
	AggStdDev AggFunc = "std_dev"
)

// Aggregation pairs a source column with the reduction applied to it. The
// output column is named <column>_<function>.
type Aggregation struct {
	Column string
	Func   AggFunc
}

// GroupedDataFrame partitions the rows of a source frame by equality of the
// group-key tuple. Nulls in key columns are ordinary, distinct key values
// equal only to each other. Group order is first appearance in the source.
type GroupedDataFrame struct {
	source *DataFrame
	keys   []string
	groups []*group
}

// group holds the ordered row indices sharing one key tuple.
type group struct {
	encodedKey string
	rows       []int
}

// GroupBy partitions the frame by the named key columns.
func (df *DataFrame) GroupBy(columns ...string) (*GroupedDataFrame, error) {
	if len(columns) == 0 {
		return nil, errors.NewSchemaMismatch("GroupBy", "at least one group column is required")
	}
	keyCols := make([]*series.Series, len(columns))
	for i, name := range columns {
		col, err := df.Column(name)
		if err != nil {
			return nil, errors.NewColumnNotFound("GroupBy", name)
		}
		keyCols[i] = col
	}

	// Hash-partition into buckets; the encoded key disambiguates hash
	// collisions inside a bucket.
	buckets := make(map[uint64][]*group, df.RowCount())
	ordered := make([]*group, 0)
	for i := 0; i < df.RowCount(); i++ {
		encoded := encodeKey(keyCols, i)
		hash := xxhash.Sum64String(encoded)
		var found *group
		for _, g := range buckets[hash] {
			if g.encodedKey == encoded {
				found = g
				break
			}
		}
		if found == nil {
			found = &group{encodedKey: encoded}
			buckets[hash] = append(buckets[hash], found)
			ordered = append(ordered, found)
		}
		found.rows = append(found.rows, i)
	}

	return &GroupedDataFrame{
		source: df,
		keys:   append([]string(nil), columns...),
		groups: ordered,
	}, nil
}

// encodeKey serializes the group-key tuple for row i into a type-tagged
// byte string, with a dedicated tag for null so a null key never collides
// with any value.
func encodeKey(keyCols []*series.Series, i int) string {
	var buf []byte
	var scratch [8]byte
	for _, col := range keyCols {
		v, _ := col.Get(i)
		if v.IsNull() {
			buf = append(buf, 'N', 0)
			continue
		}
		switch col.DataType() {
		case value.Int32:
			n, _ := v.Int32()
			buf = append(buf, 'i')
			binary.LittleEndian.PutUint32(scratch[:4], uint32(n))
			buf = append(buf, scratch[:4]...)
		case value.Float64:
			f, _ := v.Float64()
			buf = append(buf, 'f')
			binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(f))
			buf = append(buf, scratch[:]...)
		case value.Bool:
			b, _ := v.Bool()
			if b {
				buf = append(buf, 'b', 1)
			} else {
				buf = append(buf, 'b', 0)
			}
		case value.String:
			s, _ := v.Str()
			buf = append(buf, 's')
			binary.LittleEndian.PutUint32(scratch[:4], uint32(len(s)))
			buf = append(buf, scratch[:4]...)
			buf = append(buf, s...)
		}
		buf = append(buf, 0)
	}
	return string(buf)
}

// GroupCount returns the number of distinct groups.
func (g *GroupedDataFrame) GroupCount() int { return len(g.groups) }

// Keys returns the group-by column names.
func (g *GroupedDataFrame) Keys() []string { return append([]string(nil), g.keys...) }

// Agg produces one output row per group: the group-key columns first, then
// one column per aggregation, named <column>_<function>. Nulls are excluded
// within each group before reducing.
func (g *GroupedDataFrame) Agg(aggs ...Aggregation) (*DataFrame, error) {
	firstRows := make([]int, len(g.groups))
	for gi, grp := range g.groups {
		firstRows[gi] = grp.rows[0]
	}

	cols := make([]*series.Series, 0, len(g.keys)+len(aggs))
	for _, keyName := range g.keys {
		keyCol, err := g.source.Column(keyName)
		if err != nil {
			return nil, err
		}
		projected, err := keyCol.Filter(firstRows)
		if err != nil {
			return nil, err
		}
		cols = append(cols, projected)
	}

	for _, agg := range aggs {
		col, err := g.source.Column(agg.Column)
		if err != nil {
			return nil, errors.NewColumnNotFound("Agg", agg.Column)
		}
		outCol, err := g.aggregateColumn(col, agg)
		if err != nil {
			return nil, err
		}
		cols = append(cols, outCol)
	}
	return New(cols...)
}

// aggregateColumn reduces one source column across every group, fanning
// out over the worker pool when the group count crosses the threshold.
func (g *GroupedDataFrame) aggregateColumn(col *series.Series, agg Aggregation) (*series.Series, error) {
	name := fmt.Sprintf("%s_%s", agg.Column, agg.Func)
	outType, err := aggResultType(col, agg.Func)
	if err != nil {
		return nil, err
	}

	reduceGroup := func(grp *group) groupResult {
		sub, ferr := col.Filter(grp.rows)
		if ferr != nil {
			return groupResult{err: ferr}
		}
		v, rerr := reduce(sub, agg.Func)
		if rerr != nil {
			// A group with too few valid values yields an absent cell
			// rather than failing the whole aggregation.
			if errors.IsKind(rerr, errors.KindEmptyInput) {
				return groupResult{v: value.Null}
			}
			return groupResult{err: rerr}
		}
		return groupResult{v: v}
	}

	var results []groupResult
	if len(g.groups) >= config.Global().ParallelThreshold {
		pool := parallel.NewWorkerPool(config.Global().WorkerPoolSize)
		defer pool.Close()
		results = parallel.ProcessIndexed(pool, g.groups, func(_ int, grp *group) groupResult {
			return reduceGroup(grp)
		})
	} else {
		results = make([]groupResult, len(g.groups))
		for gi, grp := range g.groups {
			results[gi] = reduceGroup(grp)
		}
	}

	vals := make([]value.Value, len(results))
	for gi, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		vals[gi] = res.v
	}
	return series.FromValues(name, outType, vals)
}

// groupResult carries one group's reduction outcome across the pool.
type groupResult struct {
	v   value.Value
	err error
}

// aggResultType determines the output column type of a reduction.
func aggResultType(col *series.Series, fn AggFunc) (value.DataType, error) {
	switch fn {
	case AggCount:
		return value.Int32, nil
	case AggMean, AggStdDev:
		if !col.DataType().IsNumeric() {
			return 0, errors.NewTypeError("Agg", col.Name(),
				fmt.Sprintf("%s requires a numeric column, got %s", fn, col.DataType()))
		}
		return value.Float64, nil
	case AggSum:
		if !col.DataType().IsNumeric() {
			return 0, errors.NewTypeError("Agg", col.Name(),
				fmt.Sprintf("sum requires a numeric column, got %s", col.DataType()))
		}
		return col.DataType(), nil
	case AggMin, AggMax:
		if col.DataType() == value.Bool {
			return 0, errors.NewTypeError("Agg", col.Name(), "min/max is not supported for bool columns")
		}
		return col.DataType(), nil
	default:
		return 0, errors.NewTypeError("Agg", col.Name(), fmt.Sprintf("unknown aggregation %q", fn))
	}
}

// reduce applies one reduction to a group's column subset.
func reduce(sub *series.Series, fn AggFunc) (value.Value, error) {
	switch fn {
	case AggSum:
		return sub.Sum()
	case AggMean:
		m, err := sub.Mean()
		if err != nil {
			return value.Null, err
		}
		return value.NewFloat64(m), nil
	case AggCount:
		return value.NewInt32(int32(sub.Count())), nil
	case AggMin:
		return sub.Min()
	case AggMax:
		return sub.Max()
	case AggStdDev:
		sd, err := sub.StdDev()
		if err != nil {
			return value.Null, err
		}
		return value.NewFloat64(sd), nil
	default:
		return value.Null, errors.NewTypeError("Agg", sub.Name(), fmt.Sprintf("unknown aggregation %q", fn))
	}
}

// AggSumColumns is shorthand for Agg with the sum function applied to each
// listed column.
func (g *GroupedDataFrame) AggSumColumns(columns ...string) (*DataFrame, error) {
	aggs := make([]Aggregation, len(columns))
	for i, col := range columns {
		aggs[i] = Aggregation{Column: col, Func: AggSum}
	}
	return g.Agg(aggs...)
}

// numericNonKeyColumns lists the numeric columns that are not group keys,
// in frame order.
func (g *GroupedDataFrame) numericNonKeyColumns() []string {
	isKey := make(map[string]bool, len(g.keys))
	for _, k := range g.keys {
		isKey[k] = true
	}
	var out []string
	for _, name := range g.source.order {
		if !isKey[name] && g.source.columns[name].DataType().IsNumeric() {
			out = append(out, name)
		}
	}
	return out
}

func (g *GroupedDataFrame) aggAllNumeric(fn AggFunc) (*DataFrame, error) {
	cols := g.numericNonKeyColumns()
	aggs := make([]Aggregation, len(cols))
	for i, col := range cols {
		aggs[i] = Aggregation{Column: col, Func: fn}
	}
	return g.Agg(aggs...)
}

// Sum sums every numeric non-key column per group.
func (g *GroupedDataFrame) Sum() (*DataFrame, error) { return g.aggAllNumeric(AggSum) }

// Mean averages every numeric non-key column per group.
func (g *GroupedDataFrame) Mean() (*DataFrame, error) { return g.aggAllNumeric(AggMean) }

// Count counts valid values of every numeric non-key column per group.
func (g *GroupedDataFrame) Count() (*DataFrame, error) { return g.aggAllNumeric(AggCount) }

// Min takes the minimum of every numeric non-key column per group.
func (g *GroupedDataFrame) Min() (*DataFrame, error) { return g.aggAllNumeric(AggMin) }

// Max takes the maximum of every numeric non-key column per group.
func (g *GroupedDataFrame) Max() (*DataFrame, error) { return g.aggAllNumeric(AggMax) }

// Rows returns the ordered row indices of group gi.
func (g *GroupedDataFrame) Rows(gi int) []int {
	return append([]int(nil), g.groups[gi].rows...)
}
