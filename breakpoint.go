package scgp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

//////
// Const, vars, types.
//////

// breakpointParams is the number of parameters of BreakpointLinear:
// ts, k1, k2, c1.
const breakpointParams = 4

// ModelFunc is a parametric curve y = f(x; params) fitted by CurveFit.
type ModelFunc func(x float64, params []float64) float64

// CurveFitResult is the output of CurveFit.
type CurveFitResult struct {
	// Params are the fitted parameters.
	Params []float64

	// Covariance is the estimated covariance of Params. All entries are
	// +Inf when it can't be estimated.
	Covariance *mat.Dense

	// SSE is the sum of squared residuals at Params.
	SSE float64
}

//////
// Exported functionalities.
//////

// BreakpointLinear is a continuous two-segment linear function of x with a
// breakpoint at ts: slope k1 and intercept c1 before it, slope k2 after.
// The second intercept is (k1-k2)*ts + c1, so both segments meet at ts.
func BreakpointLinear(x, ts, k1, k2, c1 float64) float64 {
	if x < ts {
		return k1*x + c1
	}

	return k2*x + (k1-k2)*ts + c1
}

// CurveFit fits f to (x, y) by nonlinear least squares.
//
// Parameters:
// - f: The curve to fit
// - x, y: Observations (same length, at least nParams)
// - initial: Starting parameters; all ones when nil
// - nParams: Number of parameters of f
//
// How it works:
// - Minimizes the sum of squared residuals with Nelder-Mead, which copes
// with curves that are not differentiable in their parameters
// - Estimates the covariance as inv(J'J) * SSE/(m-p), with J the
// finite-difference Jacobian of the residuals at the optimum
//
// Important notes:
// - No bounds are applied to the parameters
// - A poor initial guess can end in a local optimum.
func CurveFit(f ModelFunc, x, y, initial []float64, nParams int) (CurveFitResult, error) {
	if len(x) != len(y) {
		return CurveFitResult{}, fmt.Errorf("%d x values, %d y values: %w", len(x), len(y), ErrDimensionMismatch)
	}

	if len(x) < nParams {
		return CurveFitResult{}, fmt.Errorf("%d points for %d parameters: %w", len(x), nParams, ErrDimensionMismatch)
	}

	if initial == nil {
		initial = make([]float64, nParams)
		for i := range initial {
			initial[i] = 1
		}
	}

	if len(initial) != nParams {
		return CurveFitResult{}, fmt.Errorf("initial guess has %d parameters, want %d: %w",
			len(initial), nParams, ErrDimensionMismatch)
	}

	residuals := func(dst, params []float64) {
		for i := range x {
			dst[i] = y[i] - f(x[i], params)
		}
	}

	sse := func(params []float64) float64 {
		var sum float64

		for i := range x {
			r := y[i] - f(x[i], params)
			sum += r * r
		}

		return sum
	}

	problem := optimize.Problem{Func: sse}
	settings := &optimize.Settings{
		FuncEvaluations: 20000,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-12,
			Relative:   1e-12,
			Iterations: 500,
		},
	}

	result, err := optimize.Minimize(problem, initial, settings, &optimize.NelderMead{})
	if err != nil {
		return CurveFitResult{}, fmt.Errorf("curve fit: %w", err)
	}

	params := result.X

	// Never return something worse than the starting point.
	if start := sse(initial); start < result.F {
		params = append([]float64(nil), initial...)
	}

	return CurveFitResult{
		Params:     params,
		Covariance: paramCovariance(residuals, params, len(x), sse(params)),
		SSE:        sse(params),
	}, nil
}

// FitBreakpoint fits BreakpointLinear to (x, y). With a nil initial guess
// the search starts from the best continuous two-segment linear fit with
// the breakpoint at one of the interior x values.
func FitBreakpoint(x, y, initial []float64) (CurveFitResult, error) {
	if initial == nil {
		initial = seedBreakpoint(x, y)
	}

	return CurveFit(breakpointModel, x, y, initial, breakpointParams)
}

//////
// Helpers.
//////

func breakpointModel(x float64, p []float64) float64 {
	return BreakpointLinear(x, p[0], p[1], p[2], p[3])
}

// seedBreakpoint scans the interior x values as candidate breakpoints. For
// a fixed ts the curve is linear in its other parameters:
//
//	y = c1 + k1*min(x, ts) + k2*max(x-ts, 0)
//
// so each candidate is a small linear least-squares solve. Returns nil when
// no candidate can be solved, which makes CurveFit start from ones.
func seedBreakpoint(x, y []float64) []float64 {
	m := len(x)
	if m < breakpointParams || len(y) != m {
		return nil
	}

	b := mat.NewVecDense(m, append([]float64(nil), y...))
	design := mat.NewDense(m, 3, nil)

	var (
		best    []float64
		bestSSE = math.Inf(1)
	)

	for _, ts := range x[1 : m-1] {
		for i, xi := range x {
			design.Set(i, 0, 1)
			design.Set(i, 1, math.Min(xi, ts))
			design.Set(i, 2, math.Max(xi-ts, 0))
		}

		var qr mat.QR
		qr.Factorize(design)

		var beta mat.VecDense
		if err := qr.SolveVecTo(&beta, false, b); err != nil {
			continue
		}

		c1, k1, k2 := beta.AtVec(0), beta.AtVec(1), beta.AtVec(2)

		var sse float64
		for i, xi := range x {
			r := y[i] - BreakpointLinear(xi, ts, k1, k2, c1)
			sse += r * r
		}

		if sse < bestSSE {
			bestSSE = sse
			best = []float64{ts, k1, k2, c1}
		}
	}

	return best
}

// paramCovariance returns inv(J'J) * sse/(m-p), or a matrix of +Inf when the
// system is singular or has no degrees of freedom left.
func paramCovariance(residuals func(dst, params []float64), params []float64, m int, sse float64) *mat.Dense {
	p := len(params)
	cov := mat.NewDense(p, p, nil)

	fillInf := func() *mat.Dense {
		for i := 0; i < p; i++ {
			for j := 0; j < p; j++ {
				cov.Set(i, j, math.Inf(1))
			}
		}

		return cov
	}

	if m <= p {
		return fillInf()
	}

	jac := mat.NewDense(m, p, nil)
	fd.Jacobian(jac, residuals, params, nil)

	var jtj mat.Dense
	jtj.Mul(jac.T(), jac)

	if err := cov.Inverse(&jtj); err != nil {
		return fillInf()
	}

	cov.Scale(sse/float64(m-p), cov)

	return cov
}
