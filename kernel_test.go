package scgp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKernels(t *testing.T) {
	kernels := map[string]Kernel{
		"rbf":      RBF{Variance: 2.5, Lengthscale: 0.7},
		"matern32": Matern32{Variance: 2.5, Lengthscale: 0.7},
	}

	for name, kern := range kernels {
		t.Run(name, func(t *testing.T) {
			// k(x, x) is the prior variance.
			assert.InDelta(t, 2.5, kern.Cov(1.3, 1.3), 1e-12)

			// Symmetric.
			assert.Equal(t, kern.Cov(0.2, 1.9), kern.Cov(1.9, 0.2))

			// Decays with distance.
			assert.Greater(t, kern.Cov(0, 0.1), kern.Cov(0, 1))
			assert.Greater(t, kern.Cov(0, 1), 0.0)
		})
	}
}

func TestCovariance(t *testing.T) {
	kern := RBF{Variance: 1, Lengthscale: 1}
	x := []float64{0, 0.5, 2}

	k := covariance(kern, x)

	assert.Equal(t, 3, k.SymmetricDim())

	for i := range x {
		for j := range x {
			assert.InDelta(t, kern.Cov(x[i], x[j]), k.At(i, j), 1e-12)
		}
	}
}
