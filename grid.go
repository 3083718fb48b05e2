package scgp

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// gridMargin widens the observed latent range so the grid frames the data.
const gridMargin = 1.1

// PredictGrid evaluates a fitted latent model on a uniform 2D grid, for
// drawing the predicted expression over the latent space.
//
// Parameters:
// - model: The fitted embedding model
// - resolution: Number of grid points per axis (must be positive)
// - which: The two latent dimensions to vary; all others are held at zero
//
// Returns:
// - GridPrediction: Mean and variance with resolution^2 rows, plus the grid extent
// - error: ErrInvalidResolution, ErrDimensionMismatch, or the model's Predict error
//
// The grid covers 1.1 times the observed latent range on each axis. Point
// i*resolution+j sits at (xs[j], ys[i]), so reshaping a prediction column
// to resolution x resolution gives an image whose rows run along y.
//
// Usage example:
//
//	grid, err := PredictGrid(bgplvm, DefaultGridResolution, [2]int{0, 1})
//	if err != nil {
//	    return err
//	}
//	xmin, xmax, ymin, ymax := grid.Extent[0], grid.Extent[1], grid.Extent[2], grid.Extent[3]
func PredictGrid(model LatentModel, resolution int, which [2]int) (GridPrediction, error) {
	if resolution <= 0 {
		return GridPrediction{}, fmt.Errorf("resolution %d: %w", resolution, ErrInvalidResolution)
	}

	latent := model.LatentMean()
	_, q := latent.Dims()

	for _, d := range which {
		if d < 0 || d >= q {
			return GridPrediction{}, fmt.Errorf("latent dimension %d out of %d: %w", d, q, ErrDimensionMismatch)
		}
	}

	if which[0] == which[1] {
		return GridPrediction{}, fmt.Errorf("latent dimensions must differ, got %d twice: %w", which[0], ErrDimensionMismatch)
	}

	rx := rangeOf(mat.Col(nil, which[0], latent))
	ry := rangeOf(mat.Col(nil, which[1], latent))

	xs := linspace(gridMargin*rx.Min, gridMargin*rx.Max, resolution)
	ys := linspace(gridMargin*ry.Min, gridMargin*ry.Max, resolution)

	points := mat.NewDense(resolution*resolution, q, nil)
	for i, yv := range ys {
		for j, xv := range xs {
			points.Set(i*resolution+j, which[0], xv)
			points.Set(i*resolution+j, which[1], yv)
		}
	}

	mean, variance, err := model.Predict(points)
	if err != nil {
		return GridPrediction{}, fmt.Errorf("predict grid: %w", err)
	}

	return GridPrediction{
		Mean:     mean,
		Variance: variance,
		Extent:   [4]float64{xs[0], xs[len(xs)-1], ys[0], ys[len(ys)-1]},
	}, nil
}
