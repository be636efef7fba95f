package series

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/constraints"

	"github.com/lemur-data/lemur/internal/errors"
	"github.com/lemur-data/lemur/internal/kernel"
	"github.com/lemur-data/lemur/internal/value"
)

// Count returns the number of valid values.
func (s *Series) Count() int { return s.valid.CountSet() }

// NullCount returns the number of invalid values.
func (s *Series) NullCount() int { return s.Len() - s.valid.CountSet() }

// UniqueCount returns the number of distinct values, counting null as one
// distinct value if present.
func (s *Series) UniqueCount() int { return s.Unique().Len() }

// validFloats collects the valid values widened to float64, in row order.
func (s *Series) validFloats() []float64 {
	out := make([]float64, 0, s.Count())
	for i := 0; i < s.Len(); i++ {
		if f, ok := s.Float64At(i); ok {
			out = append(out, f)
		}
	}
	return out
}

// requireNumeric rejects non-numeric columns for a reduction.
func (s *Series) requireNumeric(op string) error {
	if !s.dtype.IsNumeric() {
		return errors.NewTypeError(op, s.name,
			fmt.Sprintf("%s requires a numeric column, got %s", op, s.dtype))
	}
	return nil
}

// Min returns the smallest valid value in the type's natural order:
// numeric ascending, string lexicographic by code point.
func (s *Series) Min() (value.Value, error) {
	return s.extreme("Min", true)
}

// Max returns the largest valid value.
func (s *Series) Max() (value.Value, error) {
	return s.extreme("Max", false)
}

func (s *Series) extreme(op string, wantMin bool) (value.Value, error) {
	switch s.dtype {
	case value.Int32:
		v, ok := extremeOf(s.i32, s.valid.ToBools(), wantMin)
		if !ok {
			return value.Null, errors.NewEmptyInput(op, "no valid values")
		}
		return value.NewInt32(v), nil
	case value.Float64:
		v, ok := extremeOf(s.f64, s.valid.ToBools(), wantMin)
		if !ok {
			return value.Null, errors.NewEmptyInput(op, "no valid values")
		}
		return value.NewFloat64(v), nil
	case value.String:
		v, ok := extremeOf(s.ss, s.valid.ToBools(), wantMin)
		if !ok {
			return value.Null, errors.NewEmptyInput(op, "no valid values")
		}
		return value.NewString(v), nil
	default:
		return value.Null, errors.NewTypeError(op, s.name,
			fmt.Sprintf("%s is not supported for %s columns", op, s.dtype))
	}
}

func extremeOf[T constraints.Ordered](values []T, valid []bool, wantMin bool) (T, bool) {
	var best T
	found := false
	for i, v := range values {
		if !valid[i] {
			continue
		}
		if !found || (wantMin && v < best) || (!wantMin && v > best) {
			best = v
			found = true
		}
	}
	return best, found
}

// Sum returns the sum of valid values. The sum of zero valid values is the
// additive identity. Int32 columns sum to Int32, Float64 columns to Float64.
func (s *Series) Sum() (value.Value, error) {
	if err := s.requireNumeric("Sum"); err != nil {
		return value.Null, err
	}
	if s.dtype == value.Int32 {
		var total int64
		for i, v := range s.i32 {
			if s.valid.Get(i) {
				total += int64(v)
			}
		}
		return value.NewInt32(int32(total)), nil
	}
	return value.NewFloat64(kernel.SumF64(s.validFloats())), nil
}

// Mean returns the arithmetic mean of valid values.
func (s *Series) Mean() (float64, error) {
	if err := s.requireNumeric("Mean"); err != nil {
		return 0, err
	}
	xs := s.validFloats()
	if len(xs) == 0 {
		return 0, errors.NewEmptyInput("Mean", "no valid values")
	}
	return kernel.SumF64(xs) / float64(len(xs)), nil
}

// StdDev returns the sample standard deviation (n-1 divisor) of valid
// values; at least 2 are required.
func (s *Series) StdDev() (float64, error) {
	if err := s.requireNumeric("StdDev"); err != nil {
		return 0, err
	}
	xs := s.validFloats()
	if len(xs) < 2 {
		return 0, errors.NewEmptyInput("StdDev", "standard deviation requires at least 2 valid values")
	}
	mean := kernel.SumF64(xs) / float64(len(xs))
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1)), nil
}

// Median is Quantile(0.5).
func (s *Series) Median() (float64, error) {
	return s.quantile("Median", 0.5)
}

// Quantile returns the q-th quantile of valid values for q in [0, 1]:
// values are sorted ascending and the result is the linear interpolation
// between the values at floor and ceil of the fractional rank q*(n-1).
func (s *Series) Quantile(q float64) (float64, error) {
	return s.quantile("Quantile", q)
}

// Percentile is Quantile(p/100) for p in [0, 100].
func (s *Series) Percentile(p float64) (float64, error) {
	if p < 0 || p > 100 {
		return 0, errors.NewEmptyInput("Percentile",
			fmt.Sprintf("percentile must be in [0, 100], got %v", p))
	}
	return s.quantile("Percentile", p/100)
}

func (s *Series) quantile(op string, q float64) (float64, error) {
	if err := s.requireNumeric(op); err != nil {
		return 0, err
	}
	if q < 0 || q > 1 {
		return 0, errors.NewEmptyInput(op, fmt.Sprintf("quantile must be in [0, 1], got %v", q))
	}
	xs := s.validFloats()
	if len(xs) == 0 {
		return 0, errors.NewEmptyInput(op, "no valid values")
	}
	sort.Float64s(xs)
	rank := q * float64(len(xs)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return xs[lo], nil
	}
	frac := rank - float64(lo)
	return xs[lo] + (xs[hi]-xs[lo])*frac, nil
}

// jointFloats collects the (x, y) pairs over rows where both columns are
// valid (pairwise deletion).
func jointFloats(a, b *Series) (xs, ys []float64) {
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}
	for i := 0; i < n; i++ {
		x, okx := a.Float64At(i)
		y, oky := b.Float64At(i)
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

// Correlation returns the Pearson correlation of two numeric columns over
// jointly valid rows. At least 2 such rows are required.
func (s *Series) Correlation(other *Series) (float64, error) {
	if err := s.requireNumeric("Correlation"); err != nil {
		return 0, err
	}
	if err := other.requireNumeric("Correlation"); err != nil {
		return 0, err
	}
	xs, ys := jointFloats(s, other)
	if len(xs) < 2 {
		return 0, errors.NewEmptyInput("Correlation", "fewer than 2 jointly valid rows")
	}
	meanX := kernel.SumF64(xs) / float64(len(xs))
	meanY := kernel.SumF64(ys) / float64(len(ys))
	var num, sx, sy float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		num += dx * dy
		sx += dx * dx
		sy += dy * dy
	}
	denom := math.Sqrt(sx * sy)
	if denom == 0 {
		return 0, errors.NewEmptyInput("Correlation", "zero variance in input")
	}
	return num / denom, nil
}

// Covariance returns the sample covariance (n-1 divisor) of two numeric
// columns over jointly valid rows. At least 2 such rows are required.
func (s *Series) Covariance(other *Series) (float64, error) {
	if err := s.requireNumeric("Covariance"); err != nil {
		return 0, err
	}
	if err := other.requireNumeric("Covariance"); err != nil {
		return 0, err
	}
	xs, ys := jointFloats(s, other)
	if len(xs) < 2 {
		return 0, errors.NewEmptyInput("Covariance", "fewer than 2 jointly valid rows")
	}
	meanX := kernel.SumF64(xs) / float64(len(xs))
	meanY := kernel.SumF64(ys) / float64(len(ys))
	var acc float64
	for i := range xs {
		acc += (xs[i] - meanX) * (ys[i] - meanY)
	}
	return acc / float64(len(xs)-1), nil
}

// ValueCounts returns the distinct values of the column paired with their
// occurrence counts, in order of first appearance. Null counts as its own
// distinct value.
func (s *Series) ValueCounts() (values *Series, counts *Series) {
	uniq := s.Unique()
	pos := make(map[value.Value]int, uniq.Len())
	for j := 0; j < uniq.Len(); j++ {
		uv, _ := uniq.Get(j)
		pos[uv] = j
	}
	cnt := make([]int32, uniq.Len())
	for i := 0; i < s.Len(); i++ {
		sv, _ := s.Get(i)
		cnt[pos[sv]]++
	}
	return uniq, NewInt32(s.name+"_count", cnt)
}
