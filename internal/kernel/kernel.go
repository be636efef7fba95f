// Package kernel provides free, buffer-level numeric primitives intended for
// maximum-throughput batch use. They operate on caller-owned slices outside
// the column abstraction; SortF64 is the engine's one deliberate in-place
// exception. Large inputs are processed in data-parallel chunks, which is
// invisible to callers: elementwise results are bit-exact and reductions stay
// within floating tolerance of a scalar left-to-right sum.
package kernel

import (
	"runtime"
	"sort"

	"golang.org/x/exp/constraints"
	"golang.org/x/sync/errgroup"

	"github.com/lemur-data/lemur/internal/config"
	"github.com/lemur-data/lemur/internal/errors"
)

// Number covers the element types the kernels accept.
type Number interface {
	constraints.Integer | constraints.Float
}

// chunkBounds splits n elements into roughly equal chunks, one per worker.
func chunkBounds(n, workers int) [][2]int {
	if workers > n {
		workers = n
	}
	bounds := make([][2]int, 0, workers)
	size := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += size {
		hi := lo + size
		if hi > n {
			hi = n
		}
		bounds = append(bounds, [2]int{lo, hi})
	}
	return bounds
}

func workerCount() int {
	if n := config.Global().WorkerPoolSize; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// Add computes dst[i] = a[i] + b[i] elementwise. All three slices must have
// equal length; dst may alias a or b. The result is independent of the
// execution strategy.
func Add[T Number](dst, a, b []T) error {
	if len(a) != len(b) || len(dst) != len(a) {
		return errors.NewSchemaMismatch("Add", "input slices must have equal length")
	}
	if len(a) < config.Global().ParallelThreshold {
		for i := range a {
			dst[i] = a[i] + b[i]
		}
		return nil
	}
	var g errgroup.Group
	for _, c := range chunkBounds(len(a), workerCount()) {
		lo, hi := c[0], c[1]
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				dst[i] = a[i] + b[i]
			}
			return nil
		})
	}
	return g.Wait()
}

// AddF64 is Add specialized to float64 buffers.
func AddF64(dst, a, b []float64) error { return Add(dst, a, b) }

// Sum reduces a slice to its total. Above the parallel threshold the
// reduction runs as per-chunk partial sums combined in chunk order, which
// may reassociate floating addition.
func Sum[T Number](xs []T) T {
	if len(xs) < config.Global().ParallelThreshold {
		var total T
		for _, x := range xs {
			total += x
		}
		return total
	}
	bounds := chunkBounds(len(xs), workerCount())
	partials := make([]T, len(bounds))
	var g errgroup.Group
	for ci, c := range bounds {
		lo, hi := c[0], c[1]
		g.Go(func() error {
			var total T
			for i := lo; i < hi; i++ {
				total += xs[i]
			}
			partials[ci] = total
			return nil
		})
	}
	_ = g.Wait() // chunk workers never fail
	var total T
	for _, p := range partials {
		total += p
	}
	return total
}

// SumF64 is Sum specialized to float64 buffers.
func SumF64(xs []float64) float64 { return Sum(xs) }

// SortF64 sorts the caller's buffer ascending, in place.
func SortF64(xs []float64) { sort.Float64s(xs) }
