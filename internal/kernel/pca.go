package kernel

import (
	"fmt"
	"math"

	"github.com/lemur-data/lemur/internal/errors"
)

const (
	powerIterations = 1000
	powerTolerance  = 1e-12
)

// PCAFirstComponent returns the first principal component of a matrix whose
// rows are observations and columns are features: the unit-length dominant
// eigenvector of the sample covariance matrix of the columns. The sign of
// the returned vector is unspecified.
func PCAFirstComponent(matrix [][]float64) ([]float64, error) {
	n := len(matrix)
	if n < 2 {
		return nil, errors.NewEmptyInput("PCAFirstComponent", "at least 2 observation rows are required")
	}
	features := len(matrix[0])
	for i, row := range matrix {
		if len(row) != features {
			return nil, errors.NewSchemaMismatch("PCAFirstComponent",
				fmt.Sprintf("ragged matrix: row %d has a different number of features", i))
		}
	}
	if features == 0 {
		return nil, errors.NewEmptyInput("PCAFirstComponent", "matrix has no feature columns")
	}

	// Mean-center each column.
	means := make([]float64, features)
	for j := 0; j < features; j++ {
		col := make([]float64, n)
		for i, row := range matrix {
			col[i] = row[j]
		}
		means[j] = SumF64(col) / float64(n)
	}
	centered := make([][]float64, n)
	for i, row := range matrix {
		c := make([]float64, features)
		for j, v := range row {
			c[j] = v - means[j]
		}
		centered[i] = c
	}

	// Sample covariance matrix of the columns.
	cov := make([][]float64, features)
	for i := 0; i < features; i++ {
		cov[i] = make([]float64, features)
		for j := 0; j < features; j++ {
			var acc float64
			for _, row := range centered {
				acc += row[i] * row[j]
			}
			cov[i][j] = acc / float64(n-1)
		}
	}

	return dominantEigenvector(cov), nil
}

// dominantEigenvector runs power iteration on a symmetric matrix. For a
// zero matrix every direction is an eigenvector; the first basis vector is
// returned.
func dominantEigenvector(m [][]float64) []float64 {
	dim := len(m)
	vec := make([]float64, dim)
	for i := range vec {
		vec[i] = 1 / math.Sqrt(float64(dim))
	}
	next := make([]float64, dim)
	for iter := 0; iter < powerIterations; iter++ {
		for i := 0; i < dim; i++ {
			var acc float64
			for j := 0; j < dim; j++ {
				acc += m[i][j] * vec[j]
			}
			next[i] = acc
		}
		norm := math.Sqrt(dot(next, next))
		if norm == 0 {
			unit := make([]float64, dim)
			unit[0] = 1
			return unit
		}
		var delta float64
		for i := range next {
			next[i] /= norm
			delta += math.Abs(next[i] - vec[i])
		}
		vec, next = next, vec
		if delta < powerTolerance {
			break
		}
	}
	return vec
}

func dot(a, b []float64) float64 {
	var acc float64
	for i := range a {
		acc += a[i] * b[i]
	}
	return acc
}

