package scgp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// stepMixture scores -1 for every point forced ambiguous after a known
// branching time, so its bound bends exactly at that time.
type stepMixture struct {
	x      []float64
	phi    *mat.Dense
	branch float64
}

var _ Mixture = (*stepMixture)(nil)

func newStepMixture(branch float64) *stepMixture {
	x := linspace(0, 10, 101)
	phi := mat.NewDense(len(x), 2, nil)

	for i, v := range x {
		switch {
		case v <= branch:
			phi.SetRow(i, []float64{0.5, 0.5})
		case i%2 == 0:
			phi.SetRow(i, []float64{1, 0})
		default:
			phi.SetRow(i, []float64{0, 1})
		}
	}

	return &stepMixture{x: x, phi: phi, branch: branch}
}

func (s *stepMixture) Components() int              { return 2 }
func (s *stepMixture) Inputs() []float64            { return append([]float64(nil), s.x...) }
func (s *stepMixture) Responsibilities() *mat.Dense { return mat.DenseCopyOf(s.phi) }
func (s *stepMixture) SetOutputs([]float64) error   { return nil }

func (s *stepMixture) SetInputs(x []float64) error {
	s.x = append([]float64(nil), x...)
	return nil
}

func (s *stepMixture) SetResponsibilities(phi mat.Matrix) error {
	s.phi = mat.DenseCopyOf(phi)
	return nil
}

func (s *stepMixture) Bound() (float64, error) {
	var bound float64

	for i, v := range s.x {
		if v > s.branch && s.phi.At(i, 0) == 0.5 {
			bound--
		}
	}

	return bound, nil
}

func (s *stepMixture) Clone() Mixture {
	return &stepMixture{x: s.Inputs(), phi: s.Responsibilities(), branch: s.branch}
}

func TestIdentifyBifurcationPointRecoversBranch(t *testing.T) {
	const branch = 4.0

	config := testConfig()
	model := newStepMixture(branch)

	point, err := IdentifyBifurcationPoint(config, model)
	require.NoError(t, err)

	require.Len(t, point.Splits, DefaultSplits)
	require.Len(t, point.LogLikelihoods, DefaultSplits)
	require.Len(t, point.Params, breakpointParams)

	// Within the spacing of the split grid.
	assert.InDelta(t, branch, point.Time, 10.0/float64(DefaultSplits-1))
	assert.Equal(t, point.Params[0], point.Time)

	// The scan doesn't touch the caller's model.
	orig := newStepMixture(branch)
	assert.True(t, mat.Equal(orig.phi, model.phi))
}

func TestIdentifyBifurcationPointOnOMGP(t *testing.T) {
	config := testConfig()
	config.Splits = 12

	progress := make(chan ProgressUpdate, config.Splits)
	config.ProgressChan = progress

	model := twoBranchModel(t)

	point, err := IdentifyBifurcationPoint(config, model)
	require.NoError(t, err)

	assert.Len(t, point.LogLikelihoods, 12)
	for _, ll := range point.LogLikelihoods {
		assert.False(t, math.IsNaN(ll))
	}

	// Points after the last split keep their branch, so the last split is
	// the most ambiguous assignment.
	assert.Greater(t, point.LogLikelihoods[0], point.LogLikelihoods[11])

	assert.Len(t, progress, 12)
	update := <-progress
	assert.Equal(t, "SplitScan", update.Phase)
	assert.Equal(t, 1, update.CurrentIteration)
	assert.Equal(t, 12, update.TotalIterations)
}

func TestIdentifyBifurcationPointTooFewSplits(t *testing.T) {
	config := testConfig()
	config.Splits = 3

	_, err := IdentifyBifurcationPoint(config, newStepMixture(4))
	assert.ErrorIs(t, err, ErrTooFewSplits)
}
