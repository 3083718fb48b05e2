package scgp

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func twoGeneMatrix(t *testing.T) *ExpressionMatrix {
	t.Helper()

	_, bifurcating, _ := twoBranches()
	flat := flatGene(len(bifurcating))

	samples := make([]string, len(bifurcating))
	for i := range samples {
		samples[i] = fmt.Sprintf("cell%02d", i)
	}

	values := mat.NewDense(2, len(bifurcating), nil)
	values.SetRow(0, bifurcating)
	values.SetRow(1, flat)

	expr, err := NewExpressionMatrix([]string{"Branchy", "Flat"}, samples, values)
	require.NoError(t, err)

	return expr
}

func TestBifurcationStatistics(t *testing.T) {
	config := testConfig()

	progress := make(chan ProgressUpdate, 2)
	config.ProgressChan = progress

	model := twoBranchModel(t)
	expr := twoGeneMatrix(t)

	rows, err := BifurcationStatistics(config, model, expr)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Branchy", rows[0].Gene)
	assert.Equal(t, "Flat", rows[1].Gene)

	for _, row := range rows {
		assert.False(t, math.IsNaN(row.D) || math.IsInf(row.D, 0), row.Gene)
		assert.False(t, math.IsNaN(row.ShuffD) || math.IsInf(row.ShuffD, 0), row.Gene)
		assert.GreaterOrEqual(t, row.Phi0Corr, -1.0)
		assert.LessOrEqual(t, row.Phi0Corr, 1.0)
		assert.InDelta(t, row.BifLL-row.AmbLL, row.D, 1e-9)
		assert.InDelta(t, row.ShuffBifLL-row.ShuffAmbLL, row.ShuffD, 1e-9)
	}

	// The gene that follows the branches has the stronger evidence.
	assert.Greater(t, rows[0].D, rows[1].D)

	// Upper branch is component 0.
	assert.Greater(t, rows[0].Phi0Corr, 0.0)

	assert.Len(t, progress, 2)
	update := <-progress
	assert.Equal(t, "GeneStatistics", update.Phase)
	assert.Equal(t, "Branchy", update.Label)
}

func TestBifurcationStatisticsLeavesModelUntouched(t *testing.T) {
	model := twoBranchModel(t)
	before, err := model.Bound()
	require.NoError(t, err)

	_, err = BifurcationStatistics(testConfig(), model, twoGeneMatrix(t))
	require.NoError(t, err)

	after, err := model.Bound()
	require.NoError(t, err)
	assert.Equal(t, before, after)

	x, y, _ := twoBranches()
	assert.Equal(t, x, model.Inputs())
	assert.Equal(t, y, model.Outputs())
}

func TestBifurcationStatisticsDimensionMismatch(t *testing.T) {
	model := twoBranchModel(t)

	expr, err := NewExpressionMatrix([]string{"g"}, []string{"a", "b"}, mat.NewDense(1, 2, []float64{1, 2}))
	require.NoError(t, err)

	_, err = BifurcationStatistics(testConfig(), model, expr)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestNewExpressionMatrix(t *testing.T) {
	_, err := NewExpressionMatrix([]string{"g1", "g2"}, []string{"a"}, mat.NewDense(1, 1, []float64{1}))
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	expr, err := NewExpressionMatrix([]string{"g1"}, []string{"a", "b"}, mat.NewDense(1, 2, []float64{1, 2}))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, expr.Row(0))
}
