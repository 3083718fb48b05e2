package scgp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//////
// Const, vars, types.
//////

var _ Mixture = (*OMGP)(nil)

const (
	// phiJitter keeps the per-point noise finite for zero responsibilities.
	phiJitter = 1e-6

	// stochasticTolerance is the allowed deviation of a responsibility row
	// sum from one.
	stochasticTolerance = 1e-6
)

// PriorZ is the prior over component assignments.
type PriorZ string

const (
	// PriorSymmetric is a symmetric Dirichlet prior on mixing proportions.
	PriorSymmetric PriorZ = "symmetric"

	// PriorDP is a truncated Dirichlet process (stick-breaking) prior.
	PriorDP PriorZ = "DP"
)

// OMGP is an Overlapping Mixture of Gaussian Processes over one-dimensional
// inputs. Each of the K components is a GP with its own kernel, all sharing
// one Gaussian observation noise; every point is softly assigned to the
// components by a row of the responsibility matrix phi.
//
// OMGP only evaluates the collapsed variational bound for responsibilities
// set by the caller. It does not fit kernels, noise or phi.
//
// Memory usage:
// - O(N^2) per Bound call, for the component Gram matrix
// - Clones share kernels but copy X, Y and phi.
type OMGP struct {
	// x stores the input locations (pseudotime).
	x []float64

	// y stores the observation vector. Must have same length as x.
	y []float64

	// kernels holds one covariance function per component.
	kernels []Kernel

	// phi is the N x K responsibility matrix.
	phi *mat.Dense

	// variance is the observation noise variance.
	variance float64

	prior PriorZ
	alpha float64
}

//////
// Factory.
//////

// NewOMGP creates a mixture with one component per kernel. Responsibilities
// start uniform (1/K), the prior is symmetric with concentration 1.
//
// Usage example:
//
//	kernels := []Kernel{
//	    RBF{Variance: 1, Lengthscale: 2},
//	    RBF{Variance: 1, Lengthscale: 2},
//	}
//	m, err := NewOMGP(pseudotime, expression, kernels, 0.1)
//	if err != nil {
//	    return err
//	}
//	if err := m.SetResponsibilities(phi); err != nil {
//	    return err
//	}
//	bound, err := m.Bound()
func NewOMGP(x, y []float64, kernels []Kernel, variance float64) (*OMGP, error) {
	if len(kernels) == 0 {
		return nil, ErrNoKernels
	}

	if len(x) != len(y) {
		return nil, fmt.Errorf("%d inputs, %d outputs: %w", len(x), len(y), ErrDimensionMismatch)
	}

	if variance <= 0 {
		return nil, fmt.Errorf("noise variance %v must be positive", variance)
	}

	m := &OMGP{
		x:        append([]float64(nil), x...),
		y:        append([]float64(nil), y...),
		kernels:  append([]Kernel(nil), kernels...),
		phi:      uniformResponsibilities(len(x), len(kernels)),
		variance: variance,
		prior:    PriorSymmetric,
		alpha:    1,
	}

	return m, nil
}

//////
// Methods.
//////

// SetPrior changes the assignment prior and its concentration parameter.
func (m *OMGP) SetPrior(prior PriorZ, alpha float64) error {
	switch prior {
	case PriorSymmetric, PriorDP:
	default:
		return fmt.Errorf("unknown assignment prior %q", prior)
	}

	if alpha <= 0 {
		return fmt.Errorf("concentration %v must be positive", alpha)
	}

	m.prior = prior
	m.alpha = alpha

	return nil
}

// Variance returns the observation noise variance.
func (m *OMGP) Variance() float64 { return m.variance }

// Components implements Mixture.
func (m *OMGP) Components() int { return len(m.kernels) }

// Inputs implements Mixture.
func (m *OMGP) Inputs() []float64 { return append([]float64(nil), m.x...) }

// Outputs returns a copy of the observation vector.
func (m *OMGP) Outputs() []float64 { return append([]float64(nil), m.y...) }

// Responsibilities implements Mixture.
func (m *OMGP) Responsibilities() *mat.Dense { return mat.DenseCopyOf(m.phi) }

// SetInputs implements Mixture.
func (m *OMGP) SetInputs(x []float64) error {
	if len(x) != len(m.x) {
		return fmt.Errorf("%d inputs, want %d: %w", len(x), len(m.x), ErrDimensionMismatch)
	}

	copy(m.x, x)

	return nil
}

// SetOutputs implements Mixture.
func (m *OMGP) SetOutputs(y []float64) error {
	if len(y) != len(m.y) {
		return fmt.Errorf("%d outputs, want %d: %w", len(y), len(m.y), ErrDimensionMismatch)
	}

	copy(m.y, y)

	return nil
}

// SetResponsibilities implements Mixture. The matrix must be N x K, with
// non-negative entries and rows summing to one.
func (m *OMGP) SetResponsibilities(phi mat.Matrix) error {
	if err := checkResponsibilities(phi, len(m.x), len(m.kernels)); err != nil {
		return err
	}

	m.phi = mat.DenseCopyOf(phi)

	return nil
}

// Clone implements Mixture. Kernels are shared.
func (m *OMGP) Clone() Mixture {
	return &OMGP{
		x:        append([]float64(nil), m.x...),
		y:        append([]float64(nil), m.y...),
		kernels:  m.kernels,
		phi:      mat.DenseCopyOf(m.phi),
		variance: m.variance,
		prior:    m.prior,
		alpha:    m.alpha,
	}
}

// LogLikelihood is an alias of Bound.
func (m *OMGP) LogLikelihood() (float64, error) {
	return m.Bound()
}

// Bound evaluates the collapsed variational lower bound on the log marginal
// likelihood:
//
//	sum_k [ -1/2 y' (K_k + B_k)^-1 y - 1/2 log|K_k + B_k| + 1/2 log|B_k|
//	        - 1/2 sum_n phi_nk log(2 pi s2) ]
//	  + E[log p(Z)] + H(phi)
//
// where B_k = diag(s2 / phi_nk) is the effective per-point noise seen by
// component k, s2 the observation noise and H the assignment entropy. With a
// single component and phi = 1 this is the GP log marginal likelihood.
//
// Important notes:
// - Returns ErrNotPositiveDefinite if a component covariance can't be factorized
// - O(K N^3) time complexity.
func (m *OMGP) Bound() (float64, error) {
	n := len(m.x)
	y := mat.NewVecDense(n, append([]float64(nil), m.y...))
	logNoise := math.Log(2 * math.Pi * m.variance)

	var bound float64

	for k, kern := range m.kernels {
		cov := covariance(kern, m.x)
		for i := 0; i < n; i++ {
			cov.SetSym(i, i, cov.At(i, i)+m.variance/(m.phi.At(i, k)+phiJitter))
		}

		var chol mat.Cholesky
		if ok := chol.Factorize(cov); !ok {
			return math.NaN(), fmt.Errorf("component %d: %w", k, ErrNotPositiveDefinite)
		}

		var alpha mat.VecDense
		if err := chol.SolveVecTo(&alpha, y); err != nil {
			return math.NaN(), fmt.Errorf("component %d: %w", k, err)
		}

		// Data fit.
		bound -= 0.5 * mat.Dot(y, &alpha)

		// Complexity penalty.
		bound -= 0.5 * chol.LogDet()

		// Normalization, weighted by assignment.
		bound -= 0.5 * floats.Sum(mat.Col(nil, k, m.phi)) * logNoise

		// Gaussian integral over the effective noise.
		for i := 0; i < n; i++ {
			bound += 0.5 * math.Log(m.variance/(m.phi.At(i, k)+phiJitter))
		}
	}

	return bound + m.mixingBound() + m.entropy(), nil
}

//////
// Helpers.
//////

// mixingBound is the expected log prior of the assignments, with the mixing
// proportions integrated out.
func (m *OMGP) mixingBound() float64 {
	_, k := m.phi.Dims()
	n := float64(len(m.x))

	phiHat := make([]float64, k)
	for j := range phiHat {
		phiHat[j] = floats.Sum(mat.Col(nil, j, m.phi))
	}

	lgamma := func(v float64) float64 {
		r, _ := math.Lgamma(v)
		return r
	}

	if m.prior == PriorDP {
		var bound, tail float64

		for j := k - 1; j >= 0; j-- {
			// tail is sum of phiHat over components after j.
			bound += lgamma(1 + phiHat[j])
			bound += lgamma(m.alpha + tail)
			bound -= lgamma(m.alpha + 1 + tail + phiHat[j])
			tail += phiHat[j]
		}

		return bound + float64(k)*(lgamma(1+m.alpha)-lgamma(m.alpha))
	}

	bound := -float64(k)*lgamma(m.alpha) + lgamma(float64(k)*m.alpha) - lgamma(float64(k)*m.alpha+n)
	for _, h := range phiHat {
		bound += lgamma(m.alpha + h)
	}

	return bound
}

// entropy is -sum phi log phi, with 0 log 0 = 0.
func (m *OMGP) entropy() float64 {
	var h float64

	for _, p := range m.phi.RawMatrix().Data {
		if p > 0 {
			h -= p * math.Log(p)
		}
	}

	return h
}

func checkResponsibilities(phi mat.Matrix, n, k int) error {
	r, c := phi.Dims()
	if r != n || c != k {
		return fmt.Errorf("responsibilities are %dx%d, want %dx%d: %w", r, c, n, k, ErrDimensionMismatch)
	}

	for i := 0; i < r; i++ {
		var sum float64

		for j := 0; j < c; j++ {
			v := phi.At(i, j)
			if v < 0 || math.IsNaN(v) {
				return fmt.Errorf("row %d has entry %v: %w", i, v, ErrInvalidResponsibilities)
			}

			sum += v
		}

		if math.Abs(sum-1) > stochasticTolerance {
			return fmt.Errorf("row %d sums to %v: %w", i, sum, ErrInvalidResponsibilities)
		}
	}

	return nil
}
