package scgp

import (
	"fmt"
	"math"
)

// PhaseTrajectory aligns a periodic pseudotime to a known reference timeline
// by a circular shift, scanning DefaultPhaseCandidates offsets. It returns
// the shifted pseudotime.
func PhaseTrajectory(pseudotime, knownTime []float64) ([]float64, error) {
	alignment, err := AlignPhase(pseudotime, knownTime, DefaultPhaseCandidates)
	if err != nil {
		return nil, err
	}

	return alignment.Time, nil
}

// AlignPhase shifts pseudotime to start at zero, then scans candidates
// evenly spaced offsets t0 in [0, max]. Each is scored by AlignObjective;
// the first offset with the lowest score wins.
//
// The result is ((t - min + t0*) mod max) + min, with max the range of the
// shifted pseudotime.
//
// Important notes:
// - The score is the squared correlation, so a perfectly anti-correlated
// alignment scores the same as a perfectly correlated one
// - Offsets whose score is NaN are never selected
// - A grid scan is enough: the objective is cheap and the scan can't get
// stuck in a local optimum.
func AlignPhase(pseudotime, knownTime []float64, candidates int) (PhaseAlignment, error) {
	if len(pseudotime) != len(knownTime) {
		return PhaseAlignment{}, fmt.Errorf("%d pseudotimes, %d reference times: %w",
			len(pseudotime), len(knownTime), ErrDimensionMismatch)
	}

	if candidates <= 0 {
		candidates = DefaultPhaseCandidates
	}

	r := rangeOf(pseudotime)
	if r.Span() == 0 {
		return PhaseAlignment{}, fmt.Errorf("pseudotime: %w", ErrDegenerateRange)
	}

	tPos := make([]float64, len(pseudotime))
	for i, t := range pseudotime {
		tPos[i] = t - r.Min
	}

	best := PhaseAlignment{Objective: math.Inf(1)}

	for _, t0 := range linspace(0, r.Span(), candidates) {
		obj := AlignObjective(tPos, knownTime, t0)
		if obj < best.Objective {
			best.Offset = t0
			best.Objective = obj
		}
	}

	if math.IsInf(best.Objective, 1) {
		return PhaseAlignment{}, fmt.Errorf("no offset correlates with the reference: %w", ErrDegenerateRange)
	}

	best.Time = wrap(tPos, best.Offset, r.Span())
	for i := range best.Time {
		best.Time[i] += r.Min
	}

	return best, nil
}

// AlignObjective scores a phase offset t0 for zero-based pseudotime tPos
// against the reference: -pearson((tPos + t0) mod max(tPos), known)^2.
// Lower is better.
func AlignObjective(tPos, known []float64, t0 float64) float64 {
	period := rangeOf(tPos).Max
	rho := pearson(wrap(tPos, t0, period), known)

	return -rho * rho
}

func wrap(t []float64, offset, period float64) []float64 {
	out := make([]float64, len(t))
	for i, v := range t {
		out[i] = math.Mod(v+offset, period)
	}

	return out
}
