package scgp

import (
	"math/rand"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

//////
// Helper functions.
//////

// linspace returns n evenly spaced values over [start, stop], both ends
// included. A single value is start.
func linspace(start, stop float64, n int) []float64 {
	switch {
	case n <= 0:
		return []float64{}
	case n == 1:
		return []float64{start}
	}

	return floats.Span(make([]float64, n), start, stop)
}

// rangeOf returns the [min, max] of values. Empty input yields the zero
// Range.
func rangeOf[T constraints.Integer | constraints.Float](values []T) Range[T] {
	var r Range[T]

	for i, v := range values {
		if i == 0 || v < r.Min {
			r.Min = v
		}

		if i == 0 || v > r.Max {
			r.Max = v
		}
	}

	return r
}

// pearson computes the Pearson correlation coefficient of x and y. It is NaN
// when either input is constant.
func pearson(x, y []float64) float64 {
	return stat.Correlation(x, y, nil)
}

// uniformResponsibilities returns an n x k matrix filled with 1/k, the
// "ambiguous" assignment.
func uniformResponsibilities(n, k int) *mat.Dense {
	data := make([]float64, n*k)
	for i := range data {
		data[i] = 1 / float64(k)
	}

	return mat.NewDense(n, k, data)
}

// permuted returns a shuffled copy of values. The input is not modified.
func permuted(rng *rand.Rand, values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)

	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})

	return out
}
