package scgp

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// twoBranches returns 40 samples on two diverging branches: for each of 20
// times, one sample on y = t and one on y = -t. phi assigns each sample to
// its branch.
func twoBranches() (x, y []float64, phi *mat.Dense) {
	times := linspace(0.1, 5, 20)
	phi = mat.NewDense(2*len(times), 2, nil)

	for i, t := range times {
		x = append(x, t, t)
		y = append(y, t+0.01*math.Sin(float64(i)), -t+0.01*math.Cos(float64(i)))

		phi.SetRow(2*i, []float64{1, 0})
		phi.SetRow(2*i+1, []float64{0, 1})
	}

	return x, y, phi
}

// flatGene is a gene with no trend on either branch.
func flatGene(n int) []float64 {
	y := make([]float64, n)
	for i := range y {
		y[i] = 1 + 0.1*math.Sin(float64(i))
	}

	return y
}

func twoBranchModel(t *testing.T) *OMGP {
	t.Helper()

	x, y, phi := twoBranches()
	kernels := []Kernel{
		RBF{Variance: 10, Lengthscale: 2},
		RBF{Variance: 10, Lengthscale: 2},
	}

	m, err := NewOMGP(x, y, kernels, 0.05)
	require.NoError(t, err)
	require.NoError(t, m.SetResponsibilities(phi))

	return m
}

func testConfig() Config {
	config := DefaultConfig()
	config.RandomState = rand.New(rand.NewSource(1))

	return config
}
