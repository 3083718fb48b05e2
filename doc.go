// Package scgp provides statistical helpers for single-cell gene-expression
// trajectory analysis built on OMGP (Overlapping Mixtures of Gaussian
// Processes).
//
// # Features
//
// The package includes the following key features:
//
//   - Grid Prediction: Evaluates a fitted latent embedding model on a 2D grid
//     for visualization
//   - Bifurcation Point: Locates the time at which one trajectory splits into
//     two branches
//   - Phase Alignment: Circularly shifts a pseudotime axis to best match a
//     known reference timeline
//   - Bifurcation Statistics: Per-gene likelihood differences between
//     bifurcating and ambiguous assignments, with a permuted null for
//     false-discovery control
//   - OMGP Bound: A reference Mixture that evaluates the OMGP variational
//     bound for given responsibilities
//
// # Models
//
// Fitting is out of scope. Callers bring fitted models through two small
// interfaces:
//
//   - LatentModel: latent means and a Predict operation (e.g. a Bayesian GPLVM)
//   - Mixture: responsibilities, inputs, outputs and a Bound evaluation
//
// OMGP implements Mixture:
//
//	kernels := []scgp.Kernel{
//	    scgp.RBF{Variance: 1, Lengthscale: 2},
//	    scgp.RBF{Variance: 1, Lengthscale: 2},
//	}
//	model, err := scgp.NewOMGP(pseudotime, expression, kernels, 0.1)
//	if err != nil {
//	    return err
//	}
//	if err := model.SetResponsibilities(phi); err != nil {
//	    return err
//	}
//
// # Bifurcation Statistics
//
//	config := scgp.DefaultConfig()
//	rows, err := scgp.BifurcationStatistics(config, model, expr)
//	if err != nil {
//	    return err
//	}
//	hits, err := scgp.Significant(rows, 0.05)
//
// # Configuration
//
// Config is shared by the scans:
//
//	type Config struct {
//	    Splits       int                    // Candidate split times
//	    InitialGuess []float64              // Optional (ts, k1, k2, c1) seed
//	    Seed         int64                  // Seeds RandomState from YAML
//	    RandomState  *rand.Rand             // Permutation source
//	    Logger       *zap.Logger            // Structured logs
//	    ProgressChan chan<- ProgressUpdate  // For progress monitoring
//	}
//
// # Thread Safety
//
// Functions are synchronous and keep no package state. Each call clones the
// models it changes, so the caller's models are never modified. A Config's
// RandomState must not be shared between concurrent calls.
package scgp
