package scgp

import (
	"fmt"

	"golang.org/x/exp/constraints"
	"gonum.org/v1/gonum/mat"
)

// ProgressUpdate represents the current state of a long-running scan.
type ProgressUpdate struct {
	// Phase names the scan: "SplitScan" or "GeneStatistics".
	Phase string

	// CurrentIteration is the 1-based index of the evaluation just finished.
	CurrentIteration int

	// TotalIterations is the number of evaluations the scan will run.
	TotalIterations int

	// Label identifies what was evaluated (a gene name, or empty for splits).
	Label string

	// Value is the last bound (or bound difference) computed.
	Value float64
}

// Range is a closed interval [Min, Max].
//
// Type Parameter:
//   - T: The numeric type for the bounds (int or float)
type Range[T constraints.Integer | constraints.Float] struct {
	// Min is the lower (inclusive) bound.
	Min T

	// Max is the upper (inclusive) bound.
	Max T
}

// Span returns Max - Min.
func (r Range[T]) Span() T {
	return r.Max - r.Min
}

// LatentModel is a fitted latent embedding model, for example a Bayesian
// GPLVM. It is owned by the caller and only read here.
type LatentModel interface {
	// LatentMean returns the N x Q matrix of posterior latent means.
	LatentMean() mat.Matrix

	// Predict maps an M x Q matrix of latent coordinates to the M x D
	// predicted mean and variance in observed space.
	Predict(x mat.Matrix) (mean, variance *mat.Dense, err error)
}

// Mixture is a mixture of K Gaussian Processes over one-dimensional inputs
// with per-point soft assignments (responsibilities). OMGP is the reference
// implementation.
//
// Clone must return an independent value: setters on the clone never affect
// the original. Kernels may be shared.
type Mixture interface {
	// Components returns K.
	Components() int

	// Inputs returns a copy of the N input locations.
	Inputs() []float64

	// Responsibilities returns a copy of the N x K responsibility matrix.
	Responsibilities() *mat.Dense

	// SetInputs replaces the input locations.
	SetInputs(x []float64) error

	// SetOutputs replaces the observation vector.
	SetOutputs(y []float64) error

	// SetResponsibilities replaces the responsibility matrix. Rows must sum
	// to one.
	SetResponsibilities(phi mat.Matrix) error

	// Bound evaluates the variational lower bound on the log marginal
	// likelihood under the current responsibilities.
	Bound() (float64, error)

	// Clone returns an independent copy.
	Clone() Mixture
}

// ExpressionMatrix is a gene x sample table of expression values. Sample
// order must match the input order of the mixture it is evaluated against.
type ExpressionMatrix struct {
	Genes   []string
	Samples []string
	Values  *mat.Dense
}

// NewExpressionMatrix validates labels against the value matrix.
func NewExpressionMatrix(genes, samples []string, values *mat.Dense) (*ExpressionMatrix, error) {
	r, c := values.Dims()
	if r != len(genes) || c != len(samples) {
		return nil, fmt.Errorf("expression matrix is %dx%d, labels are %dx%d: %w",
			r, c, len(genes), len(samples), ErrDimensionMismatch)
	}

	return &ExpressionMatrix{Genes: genes, Samples: samples, Values: values}, nil
}

// Row returns a copy of the expression values of gene i.
func (e *ExpressionMatrix) Row(i int) []float64 {
	return mat.Row(nil, i, e.Values)
}

// GridPrediction is the output of PredictGrid.
type GridPrediction struct {
	// Mean is the (resolution^2) x D predicted mean.
	Mean *mat.Dense

	// Variance is the (resolution^2) x D predicted variance.
	Variance *mat.Dense

	// Extent is the bounding box of the grid, as [xmin, xmax, ymin, ymax].
	Extent [4]float64
}

// BifurcationPoint is the output of IdentifyBifurcationPoint.
type BifurcationPoint struct {
	// Time is the fitted breakpoint location ts.
	Time float64

	// Params holds the fitted (ts, k1, k2, c1).
	Params []float64

	// Covariance is the estimated covariance of Params.
	Covariance *mat.Dense

	// Splits are the scanned candidate split times.
	Splits []float64

	// LogLikelihoods holds the bound at every split.
	LogLikelihoods []float64
}

// PhaseAlignment is the output of AlignPhase.
type PhaseAlignment struct {
	// Time is the shifted and wrapped pseudotime.
	Time []float64

	// Offset is the phase offset selected by the scan.
	Offset float64

	// Objective is -pearson^2 at Offset.
	Objective float64
}

// GeneStatistics is one row of BifurcationStatistics.
type GeneStatistics struct {
	Gene       string  `json:"gene" yaml:"gene"`
	BifLL      float64 `json:"bif_ll" yaml:"bif_ll"`
	AmbLL      float64 `json:"amb_ll" yaml:"amb_ll"`
	ShuffBifLL float64 `json:"shuff_bif_ll" yaml:"shuff_bif_ll"`
	ShuffAmbLL float64 `json:"shuff_amb_ll" yaml:"shuff_amb_ll"`
	Phi0Corr   float64 `json:"phi0_corr" yaml:"phi0_corr"`
	D          float64 `json:"D" yaml:"D"`
	ShuffD     float64 `json:"shuff_D" yaml:"shuff_D"`
}
