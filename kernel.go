package scgp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//////
// Const, vars, types.
//////

var (
	_ Kernel = RBF{}
	_ Kernel = Matern32{}
)

// Kernel is a covariance function over one-dimensional inputs (pseudotime).
// Every mixture component owns one kernel.
//
// Implementation notes for custom kernels:
// - Must be symmetric: Cov(a, b) == Cov(b, a)
// - Must be positive semi-definite
// - Must be safe to share between clones of a mixture (no mutable state).
type Kernel interface {
	// Cov returns the prior covariance between the latent function values
	// at x1 and x2.
	Cov(x1, x2 float64) float64
}

// RBF implements the Radial Basis Function (also known as squared
// exponential, or Gaussian) kernel. The similarity between two points
// decreases exponentially with their squared distance.
//
// Mathematical formula:
//
//	k(x1, x2) = variance * exp(-(x1 - x2)^2 / (2 * lengthscale^2))
//
// Usage example:
//
//	kern := RBF{Variance: 1.0, Lengthscale: 0.5}
//	similarity := kern.Cov(1.0, 1.1)
type RBF struct {
	// Variance is the prior variance of the function, k(x, x).
	Variance float64

	// Lengthscale controls smoothness.
	// Larger values = smoother functions
	// Smaller values = more local influence
	Lengthscale float64
}

// Cov implements Kernel.
func (k RBF) Cov(x1, x2 float64) float64 {
	diff := x1 - x2

	return k.Variance * math.Exp(-diff*diff/(2*k.Lengthscale*k.Lengthscale))
}

// Matern32 implements the Matérn kernel with smoothness 3/2. Sample
// functions are once differentiable, which suits expression trends that
// bend sharply after a branching event better than RBF does.
//
// Mathematical formula:
//
//	r = sqrt(3) * |x1 - x2| / lengthscale
//	k(x1, x2) = variance * (1 + r) * exp(-r)
type Matern32 struct {
	Variance    float64
	Lengthscale float64
}

// Cov implements Kernel.
func (k Matern32) Cov(x1, x2 float64) float64 {
	r := math.Sqrt(3) * math.Abs(x1-x2) / k.Lengthscale

	return k.Variance * (1 + r) * math.Exp(-r)
}

//////
// Helpers.
//////

// covariance builds the symmetric Gram matrix of kern over x.
func covariance(kern Kernel, x []float64) *mat.SymDense {
	n := len(x)
	k := mat.NewSymDense(n, nil)

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			k.SetSym(i, j, kern.Cov(x[i], x[j]))
		}
	}

	return k
}
